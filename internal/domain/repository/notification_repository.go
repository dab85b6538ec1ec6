package repository

import "github.com/chpcstore/tienda-api/internal/domain/entity"

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	Create(n *entity.Notification) error // asigna n.ID
	GetByID(id int64) (*entity.Notification, error)
	// ListByRol devuelve las últimas `limit` notificaciones cuyo listado de
	// destinatarios contiene el rol, más recientes primero.
	ListByRol(rol string, limit int) ([]*entity.Notification, error)
	// ListNoLeidas devuelve las notificaciones del rol que el usuario aún no leyó.
	ListNoLeidas(rol string, userID int64) ([]*entity.Notification, error)
	CountNoLeidas(rol string, userID int64) (int64, error)
	// MarcarLeida agrega userID a leido_por solo si no está (idempotente).
	MarcarLeida(id, userID int64) error
}
