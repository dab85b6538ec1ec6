package entity

import "time"

// Tipos de notificación in-app.
const (
	NotifNuevoPedido       = "NUEVO_PEDIDO"
	NotifPedidoActualizado = "PEDIDO_ACTUALIZADO"
	NotifPedidoCancelado   = "PEDIDO_CANCELADO"
	NotifPedidoCompletado  = "PEDIDO_COMPLETADO"
	NotifNuevoUsuario      = "NUEVO_USUARIO"
)

// Notification es una notificación in-app dirigida a uno o más roles.
// Se crea una vez y solo muta agregando IDs de usuario a LeidoPor
// (a lo sumo una vez por lector, sin duplicados).
type Notification struct {
	ID            int64
	Tipo          string // ver constantes Notif*
	Titulo        string
	Mensaje       string
	OrderID       *int64
	OrderCodigo   *string
	Destinatarios []string // roles destinatarios, ej. {"administrador","vendedor"}
	LeidoPor      []int64  // IDs de usuarios que ya la leyeron
	CreatedAt     time.Time
}

// LeidaPor indica si el usuario ya leyó esta notificación.
func (n *Notification) LeidaPor(userID int64) bool {
	for _, id := range n.LeidoPor {
		if id == userID {
			return true
		}
	}
	return false
}
