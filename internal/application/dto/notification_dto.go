package dto

import "time"

// CreateNotificationRequest creación de una notificación in-app.
type CreateNotificationRequest struct {
	Tipo          string   `json:"tipo"`
	Titulo        string   `json:"titulo"`
	Mensaje       string   `json:"mensaje"`
	OrderID       *int64   `json:"orderId"`
	OrderCodigo   *string  `json:"orderCodigo"`
	Destinatarios []string `json:"destinatarios"`
}

// NotificationResponse notificación anotada con el estado de lectura del solicitante.
type NotificationResponse struct {
	ID            int64     `json:"id"`
	Tipo          string    `json:"tipo"`
	Titulo        string    `json:"titulo"`
	Mensaje       string    `json:"mensaje"`
	OrderID       *int64    `json:"orderId,omitempty"`
	OrderCodigo   *string   `json:"orderCodigo,omitempty"`
	Destinatarios []string  `json:"destinatarios"`
	Leida         bool      `json:"leida"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UnreadCountResponse contador de no leídas.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse resultado del marcado masivo.
type MarkAllReadResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}
