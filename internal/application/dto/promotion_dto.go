package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePromotionRequest alta de una promoción por ventana de tiempo.
type CreatePromotionRequest struct {
	ProductoID          int64           `json:"producto_id"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje"` // 0–100
	FechaInicio         time.Time       `json:"fecha_inicio"`
	FechaFin            time.Time       `json:"fecha_fin"`
}

// UpdatePromotionRequest edición de una promoción.
type UpdatePromotionRequest struct {
	DescuentoPorcentaje *decimal.Decimal `json:"descuento_porcentaje"`
	FechaInicio         *time.Time       `json:"fecha_inicio"`
	FechaFin            *time.Time       `json:"fecha_fin"`
	Activa              *bool            `json:"activa"`
}

// PromotionResponse promoción.
type PromotionResponse struct {
	ID                  int64           `json:"id"`
	ProductoID          int64           `json:"producto_id"`
	DescuentoPorcentaje decimal.Decimal `json:"descuento_porcentaje"`
	FechaInicio         time.Time       `json:"fecha_inicio"`
	FechaFin            time.Time       `json:"fecha_fin"`
	Activa              bool            `json:"activa"`
	CreatedAt           time.Time       `json:"createdAt"`
}
