package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de trabajo (ticket de reparación).
const (
	WorkOrderEnEspera      = "EN_ESPERA"
	WorkOrderEnRevision    = "EN_REVISION"
	WorkOrderReparado      = "REPARADO"
	WorkOrderEntregado     = "ENTREGADO"
	WorkOrderSinReparacion = "SIN_REPARACION"
	WorkOrderCancelado     = "CANCELADO"
)

// WorkOrderStatusValido verifica pertenencia al conjunto de estados.
// No se valida un grafo de transiciones: cualquier estado puede seguir a cualquier otro.
func WorkOrderStatusValido(estado string) bool {
	switch estado {
	case WorkOrderEnEspera, WorkOrderEnRevision, WorkOrderReparado,
		WorkOrderEntregado, WorkOrderSinReparacion, WorkOrderCancelado:
		return true
	}
	return false
}

// WorkOrder representa una orden de trabajo del taller de reparación.
// Invariante: FechaEntrega se estampa exactamente cuando el estado pasa a
// ENTREGADO y nunca se limpia después, aunque el estado cambie.
type WorkOrder struct {
	ID                  int64
	TrackingID          string // "WO-NNNN", único; consulta pública sin autenticación
	ClienteNombre       string
	ClienteTelefono     string
	ClienteEmail        string
	MarcaEquipo         string
	ModeloEquipo        string
	NumeroSerie         string
	DescripcionProblema string
	NotasTecnicas       string
	Estado              string // ver constantes WorkOrder*
	CostoEstimado       decimal.Decimal
	CostoFinal          decimal.Decimal
	TecnicoID           *int64
	TecnicoNombre       *string
	UserID              *int64 // cliente dueño, si el ticket se creó autenticado
	FechaCreacion       time.Time
	FechaActualizacion  time.Time
	FechaEntrega        *time.Time
}

// WorkOrderStats conteos por estado, opcionalmente acotados a un técnico.
// Disponibles es siempre 0 cuando el conteo está acotado a un técnico.
type WorkOrderStats struct {
	Total         int64 `json:"total"`
	EnEspera      int64 `json:"enEspera"`
	EnRevision    int64 `json:"enRevision"`
	Reparados     int64 `json:"reparados"`
	Entregados    int64 `json:"entregados"`
	SinReparacion int64 `json:"sinReparacion"`
	Cancelados    int64 `json:"cancelados"`
	Disponibles   int64 `json:"disponibles"`
}
