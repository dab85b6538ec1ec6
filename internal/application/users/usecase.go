package users

import (
	"fmt"
	"time"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// UseCase administración de usuarios (panel admin) y perfil propio.
type UseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.UserRepository, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, log: log}
}

// List devuelve usuarios con paginación.
func (uc *UseCase) List(page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// ListByRol devuelve los usuarios de un rol (ej. técnicos asignables).
func (uc *UseCase) ListByRol(rol string) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListByRol(rol)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// GetByID busca un usuario por ID.
func (uc *UseCase) GetByID(id int64) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(u), nil
}

// Update edita datos, rol y estado activo de un usuario (solo admin).
// Desactivar una cuenta le corta el login; las sesiones vigentes expiran con el token.
func (uc *UseCase) Update(id int64, in dto.UpdateUserAdminRequest) (*dto.UserResponse, error) {
	u, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}

	if in.Nombre != nil {
		u.Nombre = *in.Nombre
	}
	if in.Apellido != nil {
		u.Apellido = *in.Apellido
	}
	if in.Telefono != nil {
		u.Telefono = *in.Telefono
	}
	if in.Direccion != nil {
		u.Direccion = *in.Direccion
	}
	if in.Rol != nil {
		switch *in.Rol {
		case entity.RolAdministrador, entity.RolVendedor, entity.RolTecnico, entity.RolCliente:
			u.Rol = *in.Rol
		default:
			return nil, fmt.Errorf("%w: rol inválido", domain.ErrInvalidInput)
		}
	}
	if in.Activo != nil {
		u.Activo = *in.Activo
	}
	u.FechaActualizacion = time.Now()

	if err := uc.repo.Update(u); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("id", u.ID).Str("rol", u.Rol).Bool("activo", u.Activo).Msg("usuario actualizado")
	return toUserResponse(u), nil
}

// Delete elimina un usuario.
func (uc *UseCase) Delete(id int64) error {
	u, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.Delete(id)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:            u.ID,
		Nombre:        u.Nombre,
		Apellido:      u.Apellido,
		Username:      u.Username,
		Email:         u.Email,
		Telefono:      u.Telefono,
		Direccion:     u.Direccion,
		Rol:           u.Rol,
		Activo:        u.Activo,
		FechaCreacion: u.FechaCreacion,
	}
}
