package repository

import (
	"time"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
)

// WorkOrderFilter filtros componibles para listar órdenes de trabajo.
// SoloDisponibles fuerza tecnico_id IS NULL y prevalece sobre TecnicoID
// si ambos vienen informados (el orden de composición importa).
type WorkOrderFilter struct {
	Estado          string
	TecnicoID       *int64
	SoloDisponibles bool
}

// WorkOrderRepository define el puerto de persistencia para WorkOrder.
type WorkOrderRepository interface {
	Create(wo *entity.WorkOrder) error // asigna wo.ID
	GetByID(id int64) (*entity.WorkOrder, error)
	GetByTrackingID(trackingID string) (*entity.WorkOrder, error)
	ExistsTrackingID(trackingID string) (bool, error)
	List(filter WorkOrderFilter) ([]*entity.WorkOrder, error)

	Update(wo *entity.WorkOrder) error
	UpdateAsignacion(id int64, tecnicoID *int64, tecnicoNombre *string) error
	// UpdateEstado cambia el estado; fechaEntrega solo viene no-nil cuando el
	// nuevo estado es ENTREGADO (la fecha es pegajosa, nunca se limpia).
	UpdateEstado(id int64, estado string, fechaEntrega *time.Time) error

	Count(tecnicoID *int64) (int64, error)
	CountByEstado(tecnicoID *int64) (map[string]int64, error)
	CountSinTecnico() (int64, error)
}
