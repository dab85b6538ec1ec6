package entity

import "time"

// Roles válidos para User.
const (
	RolAdministrador = "administrador"
	RolVendedor      = "vendedor"
	RolTecnico       = "tecnico"
	RolCliente       = "cliente"
)

// User representa una cuenta del sistema (clientes de la tienda y personal del taller).
type User struct {
	ID                 int64
	Nombre             string
	Apellido           string
	Username           string // único
	Email              string // único
	PasswordHash       string // bcrypt hash, nunca plano en dominio después de persistir
	Telefono           string
	Direccion          string
	Rol                string // ver constantes Rol*
	RefreshTokenHash   string // bcrypt del refresh token vigente; vacío = sin sesión
	Activo             bool
	FechaCreacion      time.Time
	FechaActualizacion time.Time
}

// EsPersonal indica si el usuario pertenece al staff (no cliente).
func (u *User) EsPersonal() bool {
	return u.Rol == RolAdministrador || u.Rol == RolVendedor || u.Rol == RolTecnico
}
