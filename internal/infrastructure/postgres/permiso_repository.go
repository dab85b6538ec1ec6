package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
)

var _ repository.PermisoRepository = (*PermisoRepo)(nil)

const permisoColumns = `id, user_id, tipo_permiso, fecha_expiracion, razon, otorgado_por, activo, created_at`

// PermisoRepo implementación del puerto PermisoRepository sobre PostgreSQL.
type PermisoRepo struct {
	q Querier
}

// NewPermisoRepository construye el adaptador de persistencia para permisos temporales.
func NewPermisoRepository(q Querier) *PermisoRepo {
	return &PermisoRepo{q: q}
}

// Create persiste un nuevo permiso temporal y asigna su ID.
func (r *PermisoRepo) Create(p *entity.PermisoTemporal) error {
	query := `
		INSERT INTO permisos_temporales (user_id, tipo_permiso, fecha_expiracion, razon, otorgado_por, activo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		p.UserID, p.TipoPermiso, p.FechaExpiracion, p.Razon, p.OtorgadoPor, p.Activo, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert permiso: %w", err)
	}
	return nil
}

// GetByID obtiene un permiso por ID.
func (r *PermisoRepo) GetByID(id int64) (*entity.PermisoTemporal, error) {
	var p entity.PermisoTemporal
	err := r.q.QueryRow(context.Background(),
		`SELECT `+permisoColumns+` FROM permisos_temporales WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.TipoPermiso, &p.FechaExpiracion, &p.Razon, &p.OtorgadoPor, &p.Activo, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permiso: %w", err)
	}
	return &p, nil
}

// List devuelve todos los permisos, más recientes primero.
func (r *PermisoRepo) List() ([]*entity.PermisoTemporal, error) {
	return r.query(`SELECT ` + permisoColumns + ` FROM permisos_temporales ORDER BY created_at DESC`)
}

// ListByUser devuelve los permisos de un usuario.
func (r *PermisoRepo) ListByUser(userID int64) ([]*entity.PermisoTemporal, error) {
	return r.query(`SELECT `+permisoColumns+` FROM permisos_temporales WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListVigentes devuelve los permisos activos sin expirar de un usuario.
func (r *PermisoRepo) ListVigentes(userID int64, ahora time.Time) ([]*entity.PermisoTemporal, error) {
	return r.query(
		`SELECT `+permisoColumns+` FROM permisos_temporales WHERE user_id = $1 AND activo AND fecha_expiracion > $2 ORDER BY created_at DESC`,
		userID, ahora)
}

func (r *PermisoRepo) query(query string, args ...any) ([]*entity.PermisoTemporal, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list permisos: %w", err)
	}
	defer rows.Close()
	var list []*entity.PermisoTemporal
	for rows.Next() {
		var p entity.PermisoTemporal
		if err := rows.Scan(&p.ID, &p.UserID, &p.TipoPermiso, &p.FechaExpiracion, &p.Razon, &p.OtorgadoPor, &p.Activo, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan permiso: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ExisteVigente verifica si el usuario tiene un permiso vigente del tipo
// exacto o el comodín "all".
func (r *PermisoRepo) ExisteVigente(userID int64, tipo string, ahora time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(
			SELECT 1 FROM permisos_temporales
			WHERE user_id = $1 AND activo AND fecha_expiracion > $3 AND (tipo_permiso = $2 OR tipo_permiso = 'all')
		)`,
		userID, tipo, ahora,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("existe permiso vigente: %w", err)
	}
	return exists, nil
}

// Update actualiza un permiso existente.
func (r *PermisoRepo) Update(p *entity.PermisoTemporal) error {
	query := `
		UPDATE permisos_temporales SET tipo_permiso = $2, fecha_expiracion = $3, razon = $4, activo = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.TipoPermiso, p.FechaExpiracion, p.Razon, p.Activo)
	if err != nil {
		return fmt.Errorf("update permiso: %w", err)
	}
	return nil
}

// Desactivar revoca el permiso sin borrarlo.
func (r *PermisoRepo) Desactivar(id int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE permisos_temporales SET activo = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("desactivar permiso: %w", err)
	}
	return nil
}

// Delete elimina un permiso por ID.
func (r *PermisoRepo) Delete(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM permisos_temporales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete permiso: %w", err)
	}
	return nil
}

// DesactivarExpirados desactiva en bloque los activos ya expirados; devuelve cuántos.
func (r *PermisoRepo) DesactivarExpirados(ahora time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE permisos_temporales SET activo = false WHERE activo AND fecha_expiracion <= $1`, ahora)
	if err != nil {
		return 0, fmt.Errorf("desactivar permisos expirados: %w", err)
	}
	return cmd.RowsAffected(), nil
}
