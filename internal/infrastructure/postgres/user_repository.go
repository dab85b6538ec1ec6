package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, nombre, apellido, username, email, password_hash, telefono, direccion, rol, refresh_token_hash, activo, fecha_creacion, fecha_actualizacion`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario y asigna su ID.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (nombre, apellido, username, email, password_hash, telefono, direccion, rol, refresh_token_hash, activo, fecha_creacion, fecha_actualizacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		user.Nombre, user.Apellido, user.Username, user.Email, user.PasswordHash,
		user.Telefono, user.Direccion, user.Rol, user.RefreshTokenHash, user.Activo,
		user.FechaCreacion, user.FechaActualizacion,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(id int64) (*entity.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByUsername obtiene un usuario por username.
func (r *UserRepo) FindByUsername(username string) (*entity.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindByEmail obtiene un usuario por email.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepo) getOne(query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.Nombre, &u.Apellido, &u.Username, &u.Email, &u.PasswordHash,
		&u.Telefono, &u.Direccion, &u.Rol, &u.RefreshTokenHash, &u.Activo,
		&u.FechaCreacion, &u.FechaActualizacion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Update actualiza los datos editables de un usuario.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET nombre = $2, apellido = $3, telefono = $4, direccion = $5, rol = $6, password_hash = $7, activo = $8, fecha_actualizacion = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Nombre, user.Apellido, user.Telefono, user.Direccion,
		user.Rol, user.PasswordHash, user.Activo, user.FechaActualizacion,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// UpdateRefreshTokenHash reemplaza el hash del refresh token (vacío = cerrar sesión).
func (r *UserRepo) UpdateRefreshTokenHash(userID int64, hash string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE users SET refresh_token_hash = $2 WHERE id = $1`,
		userID, hash,
	)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	return nil
}

// List lista usuarios con paginación.
func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY fecha_creacion DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ListByRol lista los usuarios de un rol.
func (r *UserRepo) ListByRol(rol string) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE rol = $1 ORDER BY nombre`
	rows, err := r.q.Query(context.Background(), query, rol)
	if err != nil {
		return nil, fmt.Errorf("list users by rol: %w", err)
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]*entity.User, error) {
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Username, &u.Email, &u.PasswordHash,
			&u.Telefono, &u.Direccion, &u.Rol, &u.RefreshTokenHash, &u.Activo,
			&u.FechaCreacion, &u.FechaActualizacion); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
