package entity

import "time"

// Banner representa un banner promocional de la tienda, opcionalmente ligado a un producto.
type Banner struct {
	ID                 int64
	Titulo             string
	ImagenURL          string
	ProductoID         *int64
	FechaCreacion      time.Time
	FechaActualizacion time.Time
}
