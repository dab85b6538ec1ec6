package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago/cumplimiento de un pedido.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Estados de gestión interna de un pedido (panel de vendedores).
const (
	EstadoGestionPendiente = "PENDIENTE"
	EstadoGestionEnTramite = "EN_TRAMITE"
	EstadoGestionAtendido  = "ATENDIDO"
	EstadoGestionCancelado = "CANCELADO"
)

// EstadoGestionValido verifica pertenencia al conjunto de estados de gestión.
// No hay grafo de transiciones: cualquier estado puede seguir a cualquier otro.
func EstadoGestionValido(estado string) bool {
	switch estado {
	case EstadoGestionPendiente, EstadoGestionEnTramite, EstadoGestionAtendido, EstadoGestionCancelado:
		return true
	}
	return false
}

// OrderStatusValido verifica pertenencia al conjunto de estados de pedido.
func OrderStatusValido(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// EtiquetaEstadoGestion devuelve el texto humano usado en notificaciones y correos.
func EtiquetaEstadoGestion(estado string) string {
	switch estado {
	case EstadoGestionPendiente:
		return "Pendiente de atención"
	case EstadoGestionEnTramite:
		return "En proceso de gestión"
	case EstadoGestionAtendido:
		return "Completamente atendido"
	case EstadoGestionCancelado:
		return "Cancelado"
	}
	return estado
}

// Order representa un pedido de la tienda.
// Invariantes: Total = Subtotal − Descuento; Codigo se asigna en dos fases
// (insert y luego patch) porque embebe el ID generado por la base.
type Order struct {
	ID             int64
	UserID         int64
	Codigo         string // "CHPC-" + id con padding a 6 dígitos
	TotalItems     int
	Subtotal       decimal.Decimal
	Descuento      decimal.Decimal
	Total          decimal.Decimal
	Status         string // ver constantes OrderStatus*
	EstadoGestion  string // ver constantes EstadoGestion*
	VendedorID     *int64
	VendedorNombre *string
	PaymentMethod  string
	PaymentRef     string
	NombreCliente  string
	EmailCliente   string
	Telefono       string
	DireccionEnvio string
	Observaciones  string
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem es la línea de un pedido: snapshot inmutable del producto al momento de la compra.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Nombre    string
	Precio    decimal.Decimal
	Cantidad  int
	Total     decimal.Decimal // Precio × Cantidad
}

// CodigoPedido deriva el código legible de un pedido a partir de su ID.
// Ej: id 42 → "CHPC-000042".
func CodigoPedido(orderID int64) string {
	return fmt.Sprintf("CHPC-%06d", orderID)
}
