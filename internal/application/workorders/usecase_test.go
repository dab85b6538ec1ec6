package workorders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

type fakeWorkOrderRepo struct {
	byID       map[int64]*entity.WorkOrder
	byTracking map[string]*entity.WorkOrder
	nextID     int64
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{
		byID:       make(map[int64]*entity.WorkOrder),
		byTracking: make(map[string]*entity.WorkOrder),
		nextID:     1,
	}
}

func (r *fakeWorkOrderRepo) Create(wo *entity.WorkOrder) error {
	wo.ID = r.nextID
	r.nextID++
	r.byID[wo.ID] = wo
	r.byTracking[wo.TrackingID] = wo
	return nil
}

func (r *fakeWorkOrderRepo) GetByID(id int64) (*entity.WorkOrder, error) {
	wo, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *wo
	return &cp, nil
}

func (r *fakeWorkOrderRepo) GetByTrackingID(trackingID string) (*entity.WorkOrder, error) {
	wo, ok := r.byTracking[trackingID]
	if !ok {
		return nil, nil
	}
	cp := *wo
	return &cp, nil
}

func (r *fakeWorkOrderRepo) ExistsTrackingID(trackingID string) (bool, error) {
	_, ok := r.byTracking[trackingID]
	return ok, nil
}

func (r *fakeWorkOrderRepo) List(filter repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for _, wo := range r.byID {
		if filter.Estado != "" && wo.Estado != filter.Estado {
			continue
		}
		if filter.SoloDisponibles {
			if wo.TecnicoID != nil {
				continue
			}
		} else if filter.TecnicoID != nil {
			if wo.TecnicoID == nil || *wo.TecnicoID != *filter.TecnicoID {
				continue
			}
		}
		out = append(out, wo)
	}
	return out, nil
}

func (r *fakeWorkOrderRepo) Update(wo *entity.WorkOrder) error {
	cp := *wo
	r.byID[wo.ID] = &cp
	r.byTracking[wo.TrackingID] = &cp
	return nil
}

func (r *fakeWorkOrderRepo) UpdateAsignacion(id int64, tecnicoID *int64, tecnicoNombre *string) error {
	wo := r.byID[id]
	wo.TecnicoID = tecnicoID
	wo.TecnicoNombre = tecnicoNombre
	return nil
}

func (r *fakeWorkOrderRepo) UpdateEstado(id int64, estado string, fechaEntrega *time.Time) error {
	wo := r.byID[id]
	wo.Estado = estado
	if fechaEntrega != nil {
		wo.FechaEntrega = fechaEntrega
	}
	return nil
}

func (r *fakeWorkOrderRepo) Count(tecnicoID *int64) (int64, error) {
	var n int64
	for _, wo := range r.byID {
		if tecnicoID != nil && (wo.TecnicoID == nil || *wo.TecnicoID != *tecnicoID) {
			continue
		}
		n++
	}
	return n, nil
}

func (r *fakeWorkOrderRepo) CountByEstado(tecnicoID *int64) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, wo := range r.byID {
		if tecnicoID != nil && (wo.TecnicoID == nil || *wo.TecnicoID != *tecnicoID) {
			continue
		}
		out[wo.Estado]++
	}
	return out, nil
}

func (r *fakeWorkOrderRepo) CountSinTecnico() (int64, error) {
	var n int64
	for _, wo := range r.byID {
		if wo.TecnicoID == nil {
			n++
		}
	}
	return n, nil
}

func newWorkOrderFixture(t *testing.T) (*UseCase, *fakeWorkOrderRepo) {
	t.Helper()
	repo := newFakeWorkOrderRepo()
	uc := NewUseCase(repo, logger.NewNop())
	return uc, repo
}

func validWorkOrderRequest() dto.CreateWorkOrderRequest {
	return dto.CreateWorkOrderRequest{
		ClienteNombre:       "Carlos Ruiz",
		ClienteTelefono:     "912345678",
		ClienteEmail:        "carlos@correo.test",
		MarcaEquipo:         "Lenovo",
		ModeloEquipo:        "ThinkPad X1",
		DescripcionProblema: "No enciende",
		CostoEstimado:       decimal.NewFromInt(80),
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreate_GeneraTrackingYEstadoInicial(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)
	uc.randInt = func(n int) int { return 234 } // WO-1234

	resp, err := uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, "WO-1234", resp.TrackingID)
	assert.Equal(t, entity.WorkOrderEnEspera, resp.Estado)
	assert.Nil(t, resp.TecnicoID)
	assert.Nil(t, resp.UserID)
}

func TestCreate_DuenoDesdeElToken(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)

	resp, err := uc.Create(ptr(int64(7)), validWorkOrderRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.UserID)
	assert.Equal(t, int64(7), *resp.UserID)

	// el UserID explícito del request prevalece sobre el actor
	req := validWorkOrderRequest()
	req.UserID = ptr(int64(42))
	resp, err = uc.Create(ptr(int64(7)), req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), *resp.UserID)
}

func TestCreate_CamposObligatorios(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)

	req := validWorkOrderRequest()
	req.DescripcionProblema = ""
	_, err := uc.Create(nil, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerarTrackingID_ReintentaYAmplia(t *testing.T) {
	uc, repo := newWorkOrderFixture(t)

	// ocupar todo el espacio corto simulado: randInt fijo produce siempre el
	// mismo código corto, forzando el salto al sufijo de 8 dígitos
	uc.randInt = func(n int) int {
		if n == 9000 {
			return 500 // siempre WO-1500
		}
		return 1 // WO-10000001
	}
	repo.byTracking["WO-1500"] = &entity.WorkOrder{TrackingID: "WO-1500"}

	code, err := uc.generarTrackingID()
	require.NoError(t, err)
	assert.Equal(t, "WO-10000001", code)
}

func TestList_DisponiblesPrevaleceSobreTecnico(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)
	a, err := uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)
	b, err := uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)
	_, err = uc.AssignTecnico(a.ID, entity.RolAdministrador, 3, "Pedro")
	require.NoError(t, err)

	// disponibles=true ignora el filtro por técnico
	list, err := uc.List("", ptr(int64(3)), true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	list, err = uc.List("", ptr(int64(3)), false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	_, err = uc.List("ESTADO_FALSO", nil, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssignTecnico_ReasignacionSoloAdmin(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)
	wo, err := uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)

	_, err = uc.AssignTecnico(wo.ID, entity.RolTecnico, 3, "Pedro")
	require.NoError(t, err)

	// un técnico no puede robar un ticket asignado
	_, err = uc.AssignTecnico(wo.ID, entity.RolTecnico, 4, "Juan")
	assert.ErrorIs(t, err, domain.ErrTecnicoYaAsignado)

	// el admin sí reasigna
	got, err := uc.AssignTecnico(wo.ID, entity.RolAdministrador, 4, "Juan")
	require.NoError(t, err)
	assert.Equal(t, int64(4), *got.TecnicoID)
	assert.Equal(t, entity.WorkOrderEnEspera, got.Estado, "asignar no toca el estado")
}

func TestUnassignTecnico(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)
	wo, err := uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)
	_, err = uc.AssignTecnico(wo.ID, entity.RolAdministrador, 3, "Pedro")
	require.NoError(t, err)

	_, err = uc.UnassignTecnico(wo.ID, 4, entity.RolTecnico)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := uc.UnassignTecnico(wo.ID, 3, entity.RolTecnico)
	require.NoError(t, err)
	assert.Nil(t, got.TecnicoID)
}

func TestUpdateEstado_FechaEntrega(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)
	wo, err := uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)

	got, err := uc.UpdateEstado(wo.ID, 1, entity.RolAdministrador, entity.WorkOrderEntregado)
	require.NoError(t, err)
	require.NotNil(t, got.FechaEntrega)
	entregada := *got.FechaEntrega

	// volver atrás no limpia la fecha de entrega
	_, err = uc.UpdateEstado(wo.ID, 1, entity.RolAdministrador, entity.WorkOrderEnRevision)
	require.NoError(t, err)
	got, err = uc.GetByID(wo.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FechaEntrega)
	assert.True(t, got.FechaEntrega.Equal(entregada))

	// cada nueva entrega re-estampa la fecha
	time.Sleep(5 * time.Millisecond)
	got, err = uc.UpdateEstado(wo.ID, 1, entity.RolAdministrador, entity.WorkOrderEntregado)
	require.NoError(t, err)
	assert.True(t, got.FechaEntrega.After(entregada),
		"re-entregar debe actualizar la fecha de entrega")
}

func TestUpdateEstado_Autorizacion(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)
	wo, err := uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)

	// sin técnico asignado cualquiera del staff puede avanzar el estado
	_, err = uc.UpdateEstado(wo.ID, 3, entity.RolTecnico, entity.WorkOrderEnRevision)
	require.NoError(t, err)

	_, err = uc.AssignTecnico(wo.ID, entity.RolAdministrador, 3, "Pedro")
	require.NoError(t, err)

	// con técnico asignado, otro técnico queda fuera
	_, err = uc.UpdateEstado(wo.ID, 4, entity.RolTecnico, entity.WorkOrderReparado)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.UpdateEstado(wo.ID, 3, entity.RolTecnico, entity.WorkOrderReparado)
	assert.NoError(t, err)
}

func TestRemove_SoloAdminYConservaTracking(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)
	wo, err := uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)

	err = uc.Remove(wo.ID, entity.RolTecnico)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = uc.Remove(wo.ID, entity.RolAdministrador)
	require.NoError(t, err)

	// el tracking público sigue respondiendo, ahora en CANCELADO
	got, err := uc.GetByTrackingID(wo.TrackingID)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderCancelado, got.Estado)
}

func TestStatistics(t *testing.T) {
	uc, _ := newWorkOrderFixture(t)
	a, err := uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)
	_, err = uc.Create(nil, validWorkOrderRequest())
	require.NoError(t, err)
	_, err = uc.AssignTecnico(a.ID, entity.RolAdministrador, 3, "Pedro")
	require.NoError(t, err)
	_, err = uc.UpdateEstado(a.ID, 3, entity.RolTecnico, entity.WorkOrderReparado)
	require.NoError(t, err)

	global, err := uc.Statistics(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), global.Total)
	assert.Equal(t, int64(1), global.EnEspera)
	assert.Equal(t, int64(1), global.Reparados)
	assert.Equal(t, int64(1), global.Disponibles)

	mine, err := uc.Statistics(ptr(int64(3)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Total)
	assert.Equal(t, int64(1), mine.Reparados)
	assert.Equal(t, int64(0), mine.Disponibles, "disponibles no aplica por técnico")
}
