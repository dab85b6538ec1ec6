package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de un producto del catálogo.
type CreateProductRequest struct {
	NombreProducto string          `json:"nombre_producto"`
	Descripcion    string          `json:"descripcion"`
	Precio         decimal.Decimal `json:"precio"`
	Stock          int             `json:"stock"`
	ImagenURL      string          `json:"imagen_url"`
}

// UpdateProductRequest edición parcial de un producto.
type UpdateProductRequest struct {
	NombreProducto *string          `json:"nombre_producto"`
	Descripcion    *string          `json:"descripcion"`
	Precio         *decimal.Decimal `json:"precio"`
	Stock          *int             `json:"stock"`
	ImagenURL      *string          `json:"imagen_url"`
	Activo         *bool            `json:"activo"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID             int64           `json:"id"`
	NombreProducto string          `json:"nombre_producto"`
	Descripcion    string          `json:"descripcion,omitempty"`
	Precio         decimal.Decimal `json:"precio"`
	Stock          int             `json:"stock"`
	ImagenURL      string          `json:"imagen_url,omitempty"`
	Activo         bool            `json:"activo"`
	FechaCreacion  time.Time       `json:"fecha_creacion"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateBannerRequest alta de un banner.
type CreateBannerRequest struct {
	Titulo     string `json:"titulo"`
	ImagenURL  string `json:"imagen_url"`
	ProductoID *int64 `json:"producto_id"`
}

// UpdateBannerRequest edición parcial de un banner.
type UpdateBannerRequest struct {
	Titulo     *string `json:"titulo"`
	ImagenURL  *string `json:"imagen_url"`
	ProductoID *int64  `json:"producto_id"`
}

// BannerResponse banner.
type BannerResponse struct {
	ID         int64  `json:"id"`
	Titulo     string `json:"titulo"`
	ImagenURL  string `json:"imagen_url"`
	ProductoID *int64 `json:"producto_id,omitempty"`
}
