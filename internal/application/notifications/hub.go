package notifications

import (
	"sync"

	"github.com/google/uuid"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
)

// tamaño del buffer por suscriptor; un suscriptor lento pierde eventos en vez
// de bloquear al publicador (el tick de reconciliación del stream lo compensa).
const subBuffer = 16

// Hub canal de difusión in-process para notificaciones en vivo.
// Equivale al Subject del sistema original: Publish entrega a todos los
// suscriptores vivos; el filtrado por rol ocurre en el consumidor.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan *entity.Notification
}

// NewHub construye el hub vacío.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan *entity.Notification)}
}

// Subscribe registra un suscriptor y devuelve su id y su canal de eventos.
func (h *Hub) Subscribe() (string, <-chan *entity.Notification) {
	id := uuid.NewString()
	ch := make(chan *entity.Notification, subBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	return id, ch
}

// Unsubscribe da de baja al suscriptor y cierra su canal.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish difunde la notificación a todos los suscriptores sin bloquear:
// si el buffer de un suscriptor está lleno, ese evento se descarta para él.
func (h *Hub) Publish(n *entity.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribers devuelve la cantidad de suscriptores vivos.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
