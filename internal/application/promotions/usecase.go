package promotions

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

var cien = decimal.NewFromInt(100)

// UseCase gestiona promociones porcentuales por producto.
// Invariante: a lo sumo una promoción activa por producto con ventana solapada.
type UseCase struct {
	repo        repository.PromotionRepository
	productRepo repository.ProductRepository
	log         *logger.Logger

	// now se reemplaza en tests para controlar la vigencia.
	now func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.PromotionRepository, productRepo repository.ProductRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, productRepo: productRepo, log: log, now: time.Now}
}

// Create da de alta una promoción. Rechaza descuentos fuera de 0–100,
// ventanas invertidas y solapes con otra promoción activa del producto.
func (uc *UseCase) Create(in dto.CreatePromotionRequest) (*dto.PromotionResponse, error) {
	if err := validarDescuento(in.DescuentoPorcentaje); err != nil {
		return nil, err
	}
	if !in.FechaInicio.Before(in.FechaFin) {
		return nil, fmt.Errorf("%w: la fecha de inicio debe ser anterior a la fecha de fin", domain.ErrInvalidInput)
	}

	product, err := uc.productRepo.GetByID(in.ProductoID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: el producto no existe", domain.ErrInvalidInput)
	}

	activas, err := uc.repo.ListActivasByProducto(in.ProductoID)
	if err != nil {
		return nil, err
	}
	for _, p := range activas {
		if p.Solapa(in.FechaInicio, in.FechaFin) {
			return nil, fmt.Errorf("%w: el producto ya tiene una promoción activa en ese período", domain.ErrConflict)
		}
	}

	now := uc.now()
	p := &entity.Promotion{
		ProductoID:          in.ProductoID,
		DescuentoPorcentaje: in.DescuentoPorcentaje,
		FechaInicio:         in.FechaInicio,
		FechaFin:            in.FechaFin,
		Activa:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("producto", p.ProductoID).Str("descuento", p.DescuentoPorcentaje.String()).Msg("promoción creada")
	return toPromotionResponse(p), nil
}

// List devuelve todas las promociones.
func (uc *UseCase) List() ([]dto.PromotionResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	return toPromotionResponses(list), nil
}

// ListVigentes devuelve las promociones activas cuya ventana cubre ahora
// (vitrina pública de ofertas).
func (uc *UseCase) ListVigentes() ([]dto.PromotionResponse, error) {
	list, err := uc.repo.ListVigentes(uc.now())
	if err != nil {
		return nil, err
	}
	return toPromotionResponses(list), nil
}

// FindByProducto devuelve la promoción vigente del producto, o NotFound.
func (uc *UseCase) FindByProducto(productoID int64) (*dto.PromotionResponse, error) {
	p, err := uc.repo.FindVigenteByProducto(productoID, uc.now())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPromotionResponse(p), nil
}

// GetByID busca una promoción por ID.
func (uc *UseCase) GetByID(id int64) (*dto.PromotionResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPromotionResponse(p), nil
}

// Update edita una promoción. Re-valida descuento, orden de fechas y solape
// contra las demás promociones activas del producto.
func (uc *UseCase) Update(id int64, in dto.UpdatePromotionRequest) (*dto.PromotionResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if in.DescuentoPorcentaje != nil {
		if err := validarDescuento(*in.DescuentoPorcentaje); err != nil {
			return nil, err
		}
		p.DescuentoPorcentaje = *in.DescuentoPorcentaje
	}
	if in.FechaInicio != nil {
		p.FechaInicio = *in.FechaInicio
	}
	if in.FechaFin != nil {
		p.FechaFin = *in.FechaFin
	}
	if !p.FechaInicio.Before(p.FechaFin) {
		return nil, fmt.Errorf("%w: la fecha de inicio debe ser anterior a la fecha de fin", domain.ErrInvalidInput)
	}
	if in.Activa != nil {
		p.Activa = *in.Activa
	}

	if p.Activa {
		activas, err := uc.repo.ListActivasByProducto(p.ProductoID)
		if err != nil {
			return nil, err
		}
		for _, otra := range activas {
			if otra.ID != p.ID && otra.Solapa(p.FechaInicio, p.FechaFin) {
				return nil, fmt.Errorf("%w: el producto ya tiene una promoción activa en ese período", domain.ErrConflict)
			}
		}
	}

	p.UpdatedAt = uc.now()
	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toPromotionResponse(p), nil
}

// Remove elimina la promoción.
func (uc *UseCase) Remove(id int64) error {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// SweepExpiradas desactiva en bloque las promociones vencidas. Lo invoca un
// ticker de fondo en el arranque del servidor.
func (uc *UseCase) SweepExpiradas() {
	n, err := uc.repo.DesactivarExpiradas(uc.now())
	if err != nil {
		uc.log.Error().Err(err).Msg("barrido de promociones expiradas")
		return
	}
	if n > 0 {
		uc.log.Info().Int64("desactivadas", n).Msg("promociones expiradas desactivadas")
	}
}

func validarDescuento(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(cien) {
		return fmt.Errorf("%w: el descuento debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	return nil
}

func toPromotionResponse(p *entity.Promotion) *dto.PromotionResponse {
	return &dto.PromotionResponse{
		ID:                  p.ID,
		ProductoID:          p.ProductoID,
		DescuentoPorcentaje: p.DescuentoPorcentaje,
		FechaInicio:         p.FechaInicio,
		FechaFin:            p.FechaFin,
		Activa:              p.Activa,
		CreatedAt:           p.CreatedAt,
	}
}

func toPromotionResponses(list []*entity.Promotion) []dto.PromotionResponse {
	out := make([]dto.PromotionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPromotionResponse(p))
	}
	return out
}
