package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea solicitada por el cliente: el precio se resuelve
// del catálogo al momento de crear, nunca lo manda el cliente.
type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Cantidad  int   `json:"cantidad"`
}

// CreateOrderRequest datos para crear un pedido.
type CreateOrderRequest struct {
	Items          []OrderItemRequest `json:"items"`
	Descuento      decimal.Decimal    `json:"descuento"`
	PaymentMethod  string             `json:"paymentMethod"`
	PaymentRef     string             `json:"paymentRef"`
	NombreCliente  string             `json:"nombre_cliente"`
	EmailCliente   string             `json:"email_cliente"`
	Telefono       string             `json:"telefono"`
	DireccionEnvio string             `json:"direccion_envio"`
	Observaciones  string             `json:"observaciones"`
}

// UpdateOrderStatusRequest cambio del estado de pago/cumplimiento (solo admin).
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// AssignOrderRequest asignación de un pedido a un vendedor.
type AssignOrderRequest struct {
	VendedorNombre string `json:"vendedor_nombre"`
}

// UpdateEstadoGestionRequest cambio del estado de gestión interna.
type UpdateEstadoGestionRequest struct {
	EstadoGestion string `json:"estado_gestion"`
}

// OrderItemResponse snapshot de la línea tal como se compró.
type OrderItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"productId"`
	Nombre    string          `json:"nombre"`
	Precio    decimal.Decimal `json:"precio"`
	Cantidad  int             `json:"cantidad"`
	Total     decimal.Decimal `json:"total"`
}

// OrderResponse pedido completo con sus items.
type OrderResponse struct {
	ID             int64               `json:"id"`
	UserID         int64               `json:"userId"`
	Codigo         string              `json:"codigo"`
	TotalItems     int                 `json:"totalItems"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Descuento      decimal.Decimal     `json:"descuento"`
	Total          decimal.Decimal     `json:"total"`
	Status         string              `json:"status"`
	EstadoGestion  string              `json:"estado_gestion"`
	VendedorID     *int64              `json:"vendedor_id,omitempty"`
	VendedorNombre *string             `json:"vendedor_nombre,omitempty"`
	PaymentMethod  string              `json:"paymentMethod"`
	PaymentRef     string              `json:"paymentRef,omitempty"`
	NombreCliente  string              `json:"nombre_cliente"`
	EmailCliente   string              `json:"email_cliente"`
	Telefono       string              `json:"telefono"`
	DireccionEnvio string              `json:"direccion_envio"`
	Observaciones  string              `json:"observaciones,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"createdAt"`
}
