package workorders

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// Intentos sobre el espacio corto de 4 dígitos antes de ampliar a 8.
const (
	maxIntentosCortos = 25
	maxIntentosLargos = 100
)

// UseCase gestiona el ciclo de vida de las órdenes de trabajo del taller:
// recepción, asignación de técnico, avance de estado y estadísticas.
type UseCase struct {
	repo repository.WorkOrderRepository
	log  *logger.Logger

	// randInt se reemplaza en tests para fijar los códigos generados.
	randInt func(n int) int
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.WorkOrderRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, log: log, randInt: rand.IntN}
}

// generarTrackingID produce un código "WO-NNNN" que no exista todavía.
// El espacio de 4 dígitos (1000-9999) alcanza ~9000 tickets; cuando los
// reintentos se agotan por colisiones se amplía a un sufijo de 8 dígitos.
func (uc *UseCase) generarTrackingID() (string, error) {
	for i := 0; i < maxIntentosCortos; i++ {
		code := fmt.Sprintf("WO-%04d", 1000+uc.randInt(9000))
		exists, err := uc.repo.ExistsTrackingID(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	uc.log.Warn().Msg("espacio corto de tracking agotado, ampliando a 8 dígitos")
	for i := 0; i < maxIntentosLargos; i++ {
		code := fmt.Sprintf("WO-%08d", 10000000+uc.randInt(90000000))
		exists, err := uc.repo.ExistsTrackingID(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no se pudo generar un tracking id único", domain.ErrConflict)
}

// Create registra la recepción de un equipo. El dueño es el UserID explícito
// del request o, en su defecto, el del actor autenticado (nil para recepción
// en mostrador sin cuenta).
func (uc *UseCase) Create(actorID *int64, in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	if in.ClienteNombre == "" || in.MarcaEquipo == "" || in.DescripcionProblema == "" {
		return nil, fmt.Errorf("%w: cliente, equipo y descripción del problema son obligatorios", domain.ErrInvalidInput)
	}
	if in.CostoEstimado.IsNegative() {
		return nil, fmt.Errorf("%w: el costo estimado no puede ser negativo", domain.ErrInvalidInput)
	}

	tracking, err := uc.generarTrackingID()
	if err != nil {
		return nil, err
	}

	owner := in.UserID
	if owner == nil {
		owner = actorID
	}

	now := time.Now()
	wo := &entity.WorkOrder{
		TrackingID:          tracking,
		ClienteNombre:       in.ClienteNombre,
		ClienteTelefono:     in.ClienteTelefono,
		ClienteEmail:        in.ClienteEmail,
		MarcaEquipo:         in.MarcaEquipo,
		ModeloEquipo:        in.ModeloEquipo,
		NumeroSerie:         in.NumeroSerie,
		DescripcionProblema: in.DescripcionProblema,
		Estado:              entity.WorkOrderEnEspera,
		CostoEstimado:       in.CostoEstimado,
		UserID:              owner,
		FechaCreacion:       now,
		FechaActualizacion:  now,
	}
	if err := uc.repo.Create(wo); err != nil {
		return nil, err
	}
	uc.log.Info().Str("tracking", tracking).Msg("orden de trabajo creada")
	return toWorkOrderResponse(wo), nil
}

// List devuelve las órdenes según los filtros: estado, técnico asignado o
// solo las disponibles (sin técnico). Disponibles prevalece sobre técnico.
func (uc *UseCase) List(estado string, tecnicoID *int64, soloDisponibles bool) ([]dto.WorkOrderResponse, error) {
	if estado != "" && !entity.WorkOrderStatusValido(estado) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.List(repository.WorkOrderFilter{
		Estado:          estado,
		TecnicoID:       tecnicoID,
		SoloDisponibles: soloDisponibles,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkOrderResponse, 0, len(list))
	for _, wo := range list {
		out = append(out, *toWorkOrderResponse(wo))
	}
	return out, nil
}

// GetByID busca por ID interno (requiere autenticación).
func (uc *UseCase) GetByID(id int64) (*dto.WorkOrderResponse, error) {
	wo, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	return toWorkOrderResponse(wo), nil
}

// GetByTrackingID consulta pública de seguimiento por código WO-.
func (uc *UseCase) GetByTrackingID(trackingID string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.repo.GetByTrackingID(trackingID)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	return toWorkOrderResponse(wo), nil
}

// Update aplica un patch de campos libres. Permitido para admin, para el
// técnico asignado, o para cualquiera del staff si el ticket no tiene técnico.
func (uc *UseCase) Update(id, actorID int64, actorRol string, in dto.UpdateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	wo, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	if !puedeGestionar(actorID, actorRol, wo) {
		return nil, domain.ErrForbidden
	}

	if in.ClienteNombre != nil {
		wo.ClienteNombre = *in.ClienteNombre
	}
	if in.ClienteTelefono != nil {
		wo.ClienteTelefono = *in.ClienteTelefono
	}
	if in.ClienteEmail != nil {
		wo.ClienteEmail = *in.ClienteEmail
	}
	if in.MarcaEquipo != nil {
		wo.MarcaEquipo = *in.MarcaEquipo
	}
	if in.ModeloEquipo != nil {
		wo.ModeloEquipo = *in.ModeloEquipo
	}
	if in.NumeroSerie != nil {
		wo.NumeroSerie = *in.NumeroSerie
	}
	if in.DescripcionProblema != nil {
		wo.DescripcionProblema = *in.DescripcionProblema
	}
	if in.NotasTecnicas != nil {
		wo.NotasTecnicas = *in.NotasTecnicas
	}
	if in.CostoEstimado != nil {
		if in.CostoEstimado.IsNegative() {
			return nil, fmt.Errorf("%w: el costo estimado no puede ser negativo", domain.ErrInvalidInput)
		}
		wo.CostoEstimado = *in.CostoEstimado
	}
	if in.CostoFinal != nil {
		if in.CostoFinal.IsNegative() {
			return nil, fmt.Errorf("%w: el costo final no puede ser negativo", domain.ErrInvalidInput)
		}
		wo.CostoFinal = *in.CostoFinal
	}
	wo.FechaActualizacion = time.Now()

	if err := uc.repo.Update(wo); err != nil {
		return nil, err
	}
	return toWorkOrderResponse(wo), nil
}

// AssignTecnico asigna un técnico. Si el ticket ya tiene técnico solo un
// administrador puede reasignar; el estado del ticket no se toca.
func (uc *UseCase) AssignTecnico(id int64, actorRol string, tecnicoID int64, tecnicoNombre string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	if wo.TecnicoID != nil && actorRol != entity.RolAdministrador {
		return nil, domain.ErrTecnicoYaAsignado
	}

	if err := uc.repo.UpdateAsignacion(id, &tecnicoID, &tecnicoNombre); err != nil {
		return nil, err
	}
	wo.TecnicoID = &tecnicoID
	wo.TecnicoNombre = &tecnicoNombre
	uc.log.Info().Str("tracking", wo.TrackingID).Int64("tecnico", tecnicoID).Msg("técnico asignado")
	return toWorkOrderResponse(wo), nil
}

// UnassignTecnico libera el ticket. Permitido para admin o el técnico asignado.
func (uc *UseCase) UnassignTecnico(id, actorID int64, actorRol string) (*dto.WorkOrderResponse, error) {
	wo, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	if actorRol != entity.RolAdministrador && !(wo.TecnicoID != nil && *wo.TecnicoID == actorID) {
		return nil, domain.ErrForbidden
	}

	if err := uc.repo.UpdateAsignacion(id, nil, nil); err != nil {
		return nil, err
	}
	wo.TecnicoID = nil
	wo.TecnicoNombre = nil
	return toWorkOrderResponse(wo), nil
}

// UpdateEstado avanza el estado del ticket. Cada paso a ENTREGADO estampa la
// fecha de entrega; la fecha no se limpia en cambios posteriores de estado.
func (uc *UseCase) UpdateEstado(id, actorID int64, actorRol, estado string) (*dto.WorkOrderResponse, error) {
	if !entity.WorkOrderStatusValido(estado) {
		return nil, domain.ErrInvalidInput
	}
	wo, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wo == nil {
		return nil, domain.ErrNotFound
	}
	if !puedeGestionar(actorID, actorRol, wo) {
		return nil, domain.ErrForbidden
	}

	var fechaEntrega *time.Time
	if estado == entity.WorkOrderEntregado {
		now := time.Now()
		fechaEntrega = &now
	}
	if err := uc.repo.UpdateEstado(id, estado, fechaEntrega); err != nil {
		return nil, err
	}
	wo.Estado = estado
	if fechaEntrega != nil {
		wo.FechaEntrega = fechaEntrega
	}
	return toWorkOrderResponse(wo), nil
}

// Remove cancela el ticket (solo admin). No se borra la fila: el código de
// seguimiento debe seguir respondiendo.
func (uc *UseCase) Remove(id int64, actorRol string) error {
	if actorRol != entity.RolAdministrador {
		return domain.ErrForbidden
	}
	wo, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if wo == nil {
		return domain.ErrNotFound
	}
	return uc.repo.UpdateEstado(id, entity.WorkOrderCancelado, nil)
}

// Statistics conteos por estado, globales o acotados a un técnico.
// Disponibles (tickets sin técnico) solo tiene sentido en el conteo global.
func (uc *UseCase) Statistics(tecnicoID *int64) (*entity.WorkOrderStats, error) {
	total, err := uc.repo.Count(tecnicoID)
	if err != nil {
		return nil, err
	}
	porEstado, err := uc.repo.CountByEstado(tecnicoID)
	if err != nil {
		return nil, err
	}
	stats := &entity.WorkOrderStats{
		Total:         total,
		EnEspera:      porEstado[entity.WorkOrderEnEspera],
		EnRevision:    porEstado[entity.WorkOrderEnRevision],
		Reparados:     porEstado[entity.WorkOrderReparado],
		Entregados:    porEstado[entity.WorkOrderEntregado],
		SinReparacion: porEstado[entity.WorkOrderSinReparacion],
		Cancelados:    porEstado[entity.WorkOrderCancelado],
	}
	if tecnicoID == nil {
		disponibles, err := uc.repo.CountSinTecnico()
		if err != nil {
			return nil, err
		}
		stats.Disponibles = disponibles
	}
	return stats, nil
}

// puedeGestionar: admin siempre; staff si el ticket no tiene técnico; si lo
// tiene, solo el técnico asignado.
func puedeGestionar(actorID int64, actorRol string, wo *entity.WorkOrder) bool {
	if actorRol == entity.RolAdministrador {
		return true
	}
	if wo.TecnicoID == nil {
		return true
	}
	return *wo.TecnicoID == actorID
}

func toWorkOrderResponse(wo *entity.WorkOrder) *dto.WorkOrderResponse {
	return &dto.WorkOrderResponse{
		ID:                  wo.ID,
		TrackingID:          wo.TrackingID,
		ClienteNombre:       wo.ClienteNombre,
		ClienteTelefono:     wo.ClienteTelefono,
		ClienteEmail:        wo.ClienteEmail,
		MarcaEquipo:         wo.MarcaEquipo,
		ModeloEquipo:        wo.ModeloEquipo,
		NumeroSerie:         wo.NumeroSerie,
		DescripcionProblema: wo.DescripcionProblema,
		NotasTecnicas:       wo.NotasTecnicas,
		Estado:              wo.Estado,
		CostoEstimado:       wo.CostoEstimado,
		CostoFinal:          wo.CostoFinal,
		TecnicoID:           wo.TecnicoID,
		TecnicoNombre:       wo.TecnicoNombre,
		UserID:              wo.UserID,
		FechaCreacion:       wo.FechaCreacion,
		FechaActualizacion:  wo.FechaActualizacion,
		FechaEntrega:        wo.FechaEntrega,
	}
}
