package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWorkOrderRequest datos de recepción de un equipo en el taller.
type CreateWorkOrderRequest struct {
	ClienteNombre       string          `json:"cliente_nombre"`
	ClienteTelefono     string          `json:"cliente_telefono"`
	ClienteEmail        string          `json:"cliente_email"`
	MarcaEquipo         string          `json:"marca_equipo"`
	ModeloEquipo        string          `json:"modelo_equipo"`
	NumeroSerie         string          `json:"numero_serie"`
	DescripcionProblema string          `json:"descripcion_problema"`
	CostoEstimado       decimal.Decimal `json:"costo_estimado"`
	UserID              *int64          `json:"userId"` // dueño explícito; si falta, se usa el del token
}

// UpdateWorkOrderRequest patch de campos libres (sin validación por transición).
type UpdateWorkOrderRequest struct {
	ClienteNombre       *string          `json:"cliente_nombre"`
	ClienteTelefono     *string          `json:"cliente_telefono"`
	ClienteEmail        *string          `json:"cliente_email"`
	MarcaEquipo         *string          `json:"marca_equipo"`
	ModeloEquipo        *string          `json:"modelo_equipo"`
	NumeroSerie         *string          `json:"numero_serie"`
	DescripcionProblema *string          `json:"descripcion_problema"`
	NotasTecnicas       *string          `json:"notas_tecnicas"`
	CostoEstimado       *decimal.Decimal `json:"costo_estimado"`
	CostoFinal          *decimal.Decimal `json:"costo_final"`
}

// AssignWorkOrderRequest asignación de técnico. TecnicoID vacío = el actor se asigna a sí mismo.
type AssignWorkOrderRequest struct {
	TecnicoID     *int64 `json:"tecnico_id"`
	TecnicoNombre string `json:"tecnico_nombre"`
}

// UpdateWorkOrderStatusRequest cambio de estado del ticket.
type UpdateWorkOrderStatusRequest struct {
	Estado string `json:"estado"`
}

// WorkOrderResponse orden de trabajo completa.
type WorkOrderResponse struct {
	ID                  int64           `json:"id"`
	TrackingID          string          `json:"trackingId"`
	ClienteNombre       string          `json:"cliente_nombre"`
	ClienteTelefono     string          `json:"cliente_telefono"`
	ClienteEmail        string          `json:"cliente_email,omitempty"`
	MarcaEquipo         string          `json:"marca_equipo"`
	ModeloEquipo        string          `json:"modelo_equipo"`
	NumeroSerie         string          `json:"numero_serie,omitempty"`
	DescripcionProblema string          `json:"descripcion_problema"`
	NotasTecnicas       string          `json:"notas_tecnicas,omitempty"`
	Estado              string          `json:"estado"`
	CostoEstimado       decimal.Decimal `json:"costo_estimado"`
	CostoFinal          decimal.Decimal `json:"costo_final"`
	TecnicoID           *int64          `json:"tecnico_id"`
	TecnicoNombre       *string         `json:"tecnico_nombre"`
	UserID              *int64          `json:"userId,omitempty"`
	FechaCreacion       time.Time       `json:"fecha_creacion"`
	FechaActualizacion  time.Time       `json:"fecha_actualizacion"`
	FechaEntrega        *time.Time      `json:"fecha_entrega,omitempty"`
}
