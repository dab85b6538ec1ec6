package dto

import "time"

// CreatePermisoRequest otorgamiento de un permiso temporal a un vendedor.
type CreatePermisoRequest struct {
	UserID          int64     `json:"user_id"`
	TipoPermiso     string    `json:"tipo_permiso"` // banners | promociones | logo | all
	FechaExpiracion time.Time `json:"fecha_expiracion"`
	Razon           string    `json:"razon"`
}

// UpdatePermisoRequest edición de un permiso existente.
type UpdatePermisoRequest struct {
	TipoPermiso     *string    `json:"tipo_permiso"`
	FechaExpiracion *time.Time `json:"fecha_expiracion"`
	Razon           *string    `json:"razon"`
	Activo          *bool      `json:"activo"`
}

// PermisoResponse permiso temporal.
type PermisoResponse struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	TipoPermiso     string    `json:"tipo_permiso"`
	FechaExpiracion time.Time `json:"fecha_expiracion"`
	Razon           string    `json:"razon,omitempty"`
	OtorgadoPor     string    `json:"otorgado_por"`
	Activo          bool      `json:"activo"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CheckPermisoResponse resultado de la verificación de un permiso.
type CheckPermisoResponse struct {
	TienePermiso bool `json:"tiene_permiso"`
}
