package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// El precio vigente se copia a los items de pedido al momento de la compra,
// por lo que modificar un producto nunca altera pedidos históricos.
type Product struct {
	ID                 int64
	NombreProducto     string
	Descripcion        string
	Precio             decimal.Decimal
	Stock              int
	ImagenURL          string
	Activo             bool
	FechaCreacion      time.Time
	FechaActualizacion time.Time
}
