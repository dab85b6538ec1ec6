package repository

import (
	"time"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
)

// PermisoRepository define el puerto de persistencia para PermisoTemporal.
type PermisoRepository interface {
	Create(p *entity.PermisoTemporal) error // asigna p.ID
	GetByID(id int64) (*entity.PermisoTemporal, error)
	List() ([]*entity.PermisoTemporal, error)
	ListByUser(userID int64) ([]*entity.PermisoTemporal, error)
	ListVigentes(userID int64, ahora time.Time) ([]*entity.PermisoTemporal, error)
	// ExisteVigente: permiso activo, sin expirar, con tipo exacto o comodín "all".
	ExisteVigente(userID int64, tipo string, ahora time.Time) (bool, error)
	Update(p *entity.PermisoTemporal) error
	Desactivar(id int64) error
	Delete(id int64) error
	// DesactivarExpirados desactiva en bloque los activos ya expirados; devuelve cuántos.
	DesactivarExpirados(ahora time.Time) (int64, error)
}
