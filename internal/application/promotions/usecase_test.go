package promotions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

type fakePromotionRepo struct {
	promos map[int64]*entity.Promotion
	nextID int64
}

func newFakePromotionRepo() *fakePromotionRepo {
	return &fakePromotionRepo{promos: make(map[int64]*entity.Promotion), nextID: 1}
}

func (r *fakePromotionRepo) Create(p *entity.Promotion) error {
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.promos[p.ID] = &cp
	return nil
}

func (r *fakePromotionRepo) GetByID(id int64) (*entity.Promotion, error) {
	p, ok := r.promos[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePromotionRepo) List() ([]*entity.Promotion, error) {
	var out []*entity.Promotion
	for _, p := range r.promos {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePromotionRepo) ListActivasByProducto(productoID int64) ([]*entity.Promotion, error) {
	var out []*entity.Promotion
	for _, p := range r.promos {
		if p.ProductoID == productoID && p.Activa {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePromotionRepo) ListVigentes(ahora time.Time) ([]*entity.Promotion, error) {
	var out []*entity.Promotion
	for _, p := range r.promos {
		if p.VigenteEn(ahora) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePromotionRepo) FindVigenteByProducto(productoID int64, ahora time.Time) (*entity.Promotion, error) {
	for _, p := range r.promos {
		if p.ProductoID == productoID && p.VigenteEn(ahora) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePromotionRepo) Update(p *entity.Promotion) error {
	cp := *p
	r.promos[p.ID] = &cp
	return nil
}

func (r *fakePromotionRepo) Delete(id int64) error {
	delete(r.promos, id)
	return nil
}

func (r *fakePromotionRepo) DesactivarExpiradas(ahora time.Time) (int64, error) {
	var n int64
	for _, p := range r.promos {
		if p.Activa && p.FechaFin.Before(ahora) {
			p.Activa = false
			n++
		}
	}
	return n, nil
}

type fakeProductRepo struct {
	products map[int64]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error                  { return nil }
func (r *fakeProductRepo) GetByID(id int64) (*entity.Product, error)       { return r.products[id], nil }
func (r *fakeProductRepo) GetByIDs(ids []int64) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) List(_, _ int) ([]*entity.Product, error)        { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error                  { return nil }
func (r *fakeProductRepo) Delete(id int64) error                           { return nil }

var base = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newPromotionFixture(t *testing.T) (*UseCase, *fakePromotionRepo) {
	t.Helper()
	repo := newFakePromotionRepo()
	products := &fakeProductRepo{products: map[int64]*entity.Product{
		1: {ID: 1, NombreProducto: "Teclado mecánico"},
	}}
	uc := NewUseCase(repo, products, logger.NewNop())
	uc.now = func() time.Time { return base }
	return uc, repo
}

func promoRequest(inicio, fin time.Time) dto.CreatePromotionRequest {
	return dto.CreatePromotionRequest{
		ProductoID:          1,
		DescuentoPorcentaje: decimal.NewFromInt(20),
		FechaInicio:         inicio,
		FechaFin:            fin,
	}
}

func TestCreate(t *testing.T) {
	uc, _ := newPromotionFixture(t)

	p, err := uc.Create(promoRequest(base, base.Add(72*time.Hour)))
	require.NoError(t, err)
	assert.True(t, p.Activa)
	assert.True(t, p.DescuentoPorcentaje.Equal(decimal.NewFromInt(20)))
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newPromotionFixture(t)

	// descuento fuera de rango
	req := promoRequest(base, base.Add(time.Hour))
	req.DescuentoPorcentaje = decimal.NewFromInt(101)
	_, err := uc.Create(req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req.DescuentoPorcentaje = decimal.NewFromInt(-1)
	_, err = uc.Create(req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// ventana invertida
	_, err = uc.Create(promoRequest(base.Add(time.Hour), base))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// producto inexistente
	req = promoRequest(base, base.Add(time.Hour))
	req.ProductoID = 999
	_, err = uc.Create(req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_RechazaSolape(t *testing.T) {
	uc, _ := newPromotionFixture(t)

	_, err := uc.Create(promoRequest(base, base.Add(10*24*time.Hour)))
	require.NoError(t, err)

	// ventana contenida dentro de la existente
	_, err = uc.Create(promoRequest(base.Add(2*24*time.Hour), base.Add(4*24*time.Hour)))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// solape parcial por el final
	_, err = uc.Create(promoRequest(base.Add(9*24*time.Hour), base.Add(15*24*time.Hour)))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// ventana disjunta posterior
	_, err = uc.Create(promoRequest(base.Add(11*24*time.Hour), base.Add(15*24*time.Hour)))
	assert.NoError(t, err)
}

func TestCreate_SolapeConInactivaNoCuenta(t *testing.T) {
	uc, _ := newPromotionFixture(t)

	p, err := uc.Create(promoRequest(base, base.Add(10*24*time.Hour)))
	require.NoError(t, err)
	inactiva := false
	_, err = uc.Update(p.ID, dto.UpdatePromotionRequest{Activa: &inactiva})
	require.NoError(t, err)

	_, err = uc.Create(promoRequest(base, base.Add(10*24*time.Hour)))
	assert.NoError(t, err)
}

func TestFindByProducto(t *testing.T) {
	uc, _ := newPromotionFixture(t)

	// sin promoción vigente
	_, err := uc.FindByProducto(1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(promoRequest(base.Add(-time.Hour), base.Add(time.Hour)))
	require.NoError(t, err)

	got, err := uc.FindByProducto(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ProductoID)

	// fuera de la ventana deja de ser vigente
	uc.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = uc.FindByProducto(1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_RevalidaSolape(t *testing.T) {
	uc, _ := newPromotionFixture(t)

	_, err := uc.Create(promoRequest(base, base.Add(5*24*time.Hour)))
	require.NoError(t, err)
	p2, err := uc.Create(promoRequest(base.Add(6*24*time.Hour), base.Add(10*24*time.Hour)))
	require.NoError(t, err)

	// mover la segunda encima de la primera
	nuevoInicio := base.Add(24 * time.Hour)
	_, err = uc.Update(p2.ID, dto.UpdatePromotionRequest{FechaInicio: &nuevoInicio})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// ajustar el descuento sin tocar la ventana sí pasa
	nuevoDescuento := decimal.NewFromInt(50)
	got, err := uc.Update(p2.ID, dto.UpdatePromotionRequest{DescuentoPorcentaje: &nuevoDescuento})
	require.NoError(t, err)
	assert.True(t, got.DescuentoPorcentaje.Equal(nuevoDescuento))
}

func TestSweepExpiradas(t *testing.T) {
	uc, repo := newPromotionFixture(t)

	_, err := uc.Create(promoRequest(base, base.Add(24*time.Hour)))
	require.NoError(t, err)
	p2, err := uc.Create(promoRequest(base.Add(2*24*time.Hour), base.Add(30*24*time.Hour)))
	require.NoError(t, err)

	uc.now = func() time.Time { return base.Add(3 * 24 * time.Hour) }
	uc.SweepExpiradas()

	activas := 0
	for _, p := range repo.promos {
		if p.Activa {
			activas++
			assert.Equal(t, p2.ID, p.ID)
		}
	}
	assert.Equal(t, 1, activas)
}

func TestRemove(t *testing.T) {
	uc, _ := newPromotionFixture(t)

	p, err := uc.Create(promoRequest(base, base.Add(time.Hour)))
	require.NoError(t, err)

	require.NoError(t, uc.Remove(p.ID))
	err = uc.Remove(p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
