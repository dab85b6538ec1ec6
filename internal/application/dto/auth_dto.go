package dto

import "time"

// RegisterRequest datos para registrar un usuario.
type RegisterRequest struct {
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Rol       string `json:"rol"` // vacío -> cliente
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token de acceso + refresh token + usuario.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// RefreshRequest rotación de refresh token.
type RefreshRequest struct {
	UserID       int64  `json:"user_id"`
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest cambio de contraseña del propio usuario.
type ChangePasswordRequest struct {
	PasswordActual string `json:"password_actual"`
	PasswordNueva  string `json:"password_nueva"`
}

// UpdateUserAdminRequest edición de usuarios desde el panel de administración.
type UpdateUserAdminRequest struct {
	Nombre    *string `json:"nombre"`
	Apellido  *string `json:"apellido"`
	Telefono  *string `json:"telefono"`
	Direccion *string `json:"direccion"`
	Rol       *string `json:"rol"`
	Activo    *bool   `json:"activo"`
}

// UserResponse usuario sin campos sensibles.
type UserResponse struct {
	ID            int64     `json:"id"`
	Nombre        string    `json:"nombre"`
	Apellido      string    `json:"apellido"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Telefono      string    `json:"telefono,omitempty"`
	Direccion     string    `json:"direccion,omitempty"`
	Rol           string    `json:"rol"`
	Activo        bool      `json:"activo"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}
