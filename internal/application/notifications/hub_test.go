package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
)

func TestHub_PublishEntregaATodos(t *testing.T) {
	hub := NewHub()

	id1, ch1 := hub.Subscribe()
	id2, ch2 := hub.Subscribe()
	defer hub.Unsubscribe(id1)
	defer hub.Unsubscribe(id2)
	assert.Equal(t, 2, hub.Subscribers())

	n := &entity.Notification{ID: 1, Titulo: "Nuevo Pedido"}
	hub.Publish(n)

	assert.Same(t, n, <-ch1)
	assert.Same(t, n, <-ch2)
}

func TestHub_UnsubscribeCierraElCanal(t *testing.T) {
	hub := NewHub()

	id, ch := hub.Subscribe()
	hub.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers())

	// repetir la baja no debe entrar en pánico
	hub.Unsubscribe(id)
}

func TestHub_SuscriptorLentoNoBloquea(t *testing.T) {
	hub := NewHub()

	id, ch := hub.Subscribe()
	defer hub.Unsubscribe(id)

	// llenar el buffer y publicar de más: los excedentes se descartan sin bloquear
	for i := 0; i < subBuffer*2; i++ {
		hub.Publish(&entity.Notification{ID: int64(i)})
	}

	recibidas := 0
	for {
		select {
		case <-ch:
			recibidas++
			continue
		default:
		}
		break
	}
	require.Equal(t, subBuffer, recibidas)
}
