package entity

import "time"

// Tipos de permiso temporal otorgables a vendedores.
const (
	PermisoBanners     = "banners"
	PermisoPromociones = "promociones"
	PermisoLogo        = "logo"
	PermisoAll         = "all" // comodín: cubre cualquier tipo
)

// TipoPermisoValido verifica pertenencia al conjunto cerrado de tipos.
func TipoPermisoValido(tipo string) bool {
	switch tipo {
	case PermisoBanners, PermisoPromociones, PermisoLogo, PermisoAll:
		return true
	}
	return false
}

// PermisoTemporal es una elevación de permisos acotada en el tiempo para un vendedor.
// Se crea activo; se desactiva por revocación explícita o por el barrido de expirados.
type PermisoTemporal struct {
	ID              int64
	UserID          int64
	TipoPermiso     string // ver constantes Permiso*
	FechaExpiracion time.Time
	Razon           string
	OtorgadoPor     string // identidad de quien otorgó (nombre o email del admin)
	Activo          bool
	CreatedAt       time.Time
}

// Vigente indica si el permiso está activo y no ha expirado al instante dado.
func (p *PermisoTemporal) Vigente(ahora time.Time) bool {
	return p.Activo && p.FechaExpiracion.After(ahora)
}
