package permisos

import (
	"fmt"
	"time"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// UseCase otorga y verifica permisos temporales de vendedores.
// Los administradores no necesitan permisos: Check responde true directo.
type UseCase struct {
	repo     repository.PermisoRepository
	userRepo repository.UserRepository
	log      *logger.Logger

	// now se reemplaza en tests para controlar la expiración.
	now func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.PermisoRepository, userRepo repository.UserRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, userRepo: userRepo, log: log, now: time.Now}
}

// Grant otorga un permiso temporal a un vendedor. La expiración debe quedar
// estrictamente en el futuro y el destinatario debe tener rol vendedor.
func (uc *UseCase) Grant(otorgadoPor string, in dto.CreatePermisoRequest) (*dto.PermisoResponse, error) {
	if !entity.TipoPermisoValido(in.TipoPermiso) {
		return nil, fmt.Errorf("%w: tipo de permiso inválido", domain.ErrInvalidInput)
	}
	if !in.FechaExpiracion.After(uc.now()) {
		return nil, fmt.Errorf("%w: la fecha de expiración debe ser futura", domain.ErrInvalidInput)
	}

	user, err := uc.userRepo.GetByID(in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Rol != entity.RolVendedor {
		return nil, fmt.Errorf("%w: los permisos temporales solo aplican a vendedores", domain.ErrInvalidInput)
	}

	p := &entity.PermisoTemporal{
		UserID:          in.UserID,
		TipoPermiso:     in.TipoPermiso,
		FechaExpiracion: in.FechaExpiracion,
		Razon:           in.Razon,
		OtorgadoPor:     otorgadoPor,
		Activo:          true,
		CreatedAt:       uc.now(),
	}
	if err := uc.repo.Create(p); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user", p.UserID).Str("tipo", p.TipoPermiso).Msg("permiso temporal otorgado")
	return toPermisoResponse(p), nil
}

// Check verifica si el usuario puede ejercer el tipo de permiso dado.
// Admin siempre puede; un vendedor necesita un permiso vigente del tipo
// exacto o el comodín "all".
func (uc *UseCase) Check(userID int64, rol, tipo string) (*dto.CheckPermisoResponse, error) {
	if !entity.TipoPermisoValido(tipo) {
		return nil, fmt.Errorf("%w: tipo de permiso inválido", domain.ErrInvalidInput)
	}
	if rol == entity.RolAdministrador {
		return &dto.CheckPermisoResponse{TienePermiso: true}, nil
	}
	if rol != entity.RolVendedor {
		return &dto.CheckPermisoResponse{TienePermiso: false}, nil
	}
	ok, err := uc.repo.ExisteVigente(userID, tipo, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.CheckPermisoResponse{TienePermiso: ok}, nil
}

// List devuelve todos los permisos otorgados (panel de administración).
func (uc *UseCase) List() ([]dto.PermisoResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	return toPermisoResponses(list), nil
}

// ListByUser devuelve los permisos de un usuario concreto.
func (uc *UseCase) ListByUser(userID int64) ([]dto.PermisoResponse, error) {
	list, err := uc.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return toPermisoResponses(list), nil
}

// ListVigentes devuelve los permisos vigentes de un usuario.
func (uc *UseCase) ListVigentes(userID int64) ([]dto.PermisoResponse, error) {
	list, err := uc.repo.ListVigentes(userID, uc.now())
	if err != nil {
		return nil, err
	}
	return toPermisoResponses(list), nil
}

// Update edita un permiso existente (tipo, expiración, razón, activo).
func (uc *UseCase) Update(id int64, in dto.UpdatePermisoRequest) (*dto.PermisoResponse, error) {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if in.TipoPermiso != nil {
		if !entity.TipoPermisoValido(*in.TipoPermiso) {
			return nil, fmt.Errorf("%w: tipo de permiso inválido", domain.ErrInvalidInput)
		}
		p.TipoPermiso = *in.TipoPermiso
	}
	if in.FechaExpiracion != nil {
		if !in.FechaExpiracion.After(uc.now()) {
			return nil, fmt.Errorf("%w: la fecha de expiración debe ser futura", domain.ErrInvalidInput)
		}
		p.FechaExpiracion = *in.FechaExpiracion
	}
	if in.Razon != nil {
		p.Razon = *in.Razon
	}
	if in.Activo != nil {
		p.Activo = *in.Activo
	}

	if err := uc.repo.Update(p); err != nil {
		return nil, err
	}
	return toPermisoResponse(p), nil
}

// Revoke desactiva el permiso sin borrarlo (queda el histórico).
func (uc *UseCase) Revoke(id int64) error {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Desactivar(id)
}

// Delete elimina el permiso definitivamente.
func (uc *UseCase) Delete(id int64) error {
	p, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// SweepExpirados desactiva en bloque los permisos vencidos. Lo invoca un
// ticker de fondo en el arranque del servidor.
func (uc *UseCase) SweepExpirados() {
	n, err := uc.repo.DesactivarExpirados(uc.now())
	if err != nil {
		uc.log.Error().Err(err).Msg("barrido de permisos expirados")
		return
	}
	if n > 0 {
		uc.log.Info().Int64("desactivados", n).Msg("permisos expirados desactivados")
	}
}

func toPermisoResponse(p *entity.PermisoTemporal) *dto.PermisoResponse {
	return &dto.PermisoResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		TipoPermiso:     p.TipoPermiso,
		FechaExpiracion: p.FechaExpiracion,
		Razon:           p.Razon,
		OtorgadoPor:     p.OtorgadoPor,
		Activo:          p.Activo,
		CreatedAt:       p.CreatedAt,
	}
}

func toPermisoResponses(list []*entity.PermisoTemporal) []dto.PermisoResponse {
	out := make([]dto.PermisoResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPermisoResponse(p))
	}
	return out
}
