package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
)

var _ repository.BannerRepository = (*BannerRepo)(nil)

// BannerRepo implementación del puerto BannerRepository sobre PostgreSQL.
type BannerRepo struct {
	q Querier
}

// NewBannerRepository construye el adaptador de persistencia para banners.
func NewBannerRepository(q Querier) *BannerRepo {
	return &BannerRepo{q: q}
}

// Create persiste un nuevo banner y asigna su ID.
func (r *BannerRepo) Create(banner *entity.Banner) error {
	query := `
		INSERT INTO banners (titulo, imagen_url, producto_id, fecha_creacion, fecha_actualizacion)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		banner.Titulo, banner.ImagenURL, banner.ProductoID,
		banner.FechaCreacion, banner.FechaActualizacion,
	).Scan(&banner.ID)
	if err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}
	return nil
}

// GetByID obtiene un banner por ID.
func (r *BannerRepo) GetByID(id int64) (*entity.Banner, error) {
	var b entity.Banner
	err := r.q.QueryRow(context.Background(),
		`SELECT id, titulo, imagen_url, producto_id, fecha_creacion, fecha_actualizacion FROM banners WHERE id = $1`, id,
	).Scan(&b.ID, &b.Titulo, &b.ImagenURL, &b.ProductoID, &b.FechaCreacion, &b.FechaActualizacion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get banner: %w", err)
	}
	return &b, nil
}

// List devuelve todos los banners, más recientes primero.
func (r *BannerRepo) List() ([]*entity.Banner, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, titulo, imagen_url, producto_id, fecha_creacion, fecha_actualizacion FROM banners ORDER BY fecha_creacion DESC`)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()
	var list []*entity.Banner
	for rows.Next() {
		var b entity.Banner
		if err := rows.Scan(&b.ID, &b.Titulo, &b.ImagenURL, &b.ProductoID, &b.FechaCreacion, &b.FechaActualizacion); err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Update actualiza un banner existente.
func (r *BannerRepo) Update(banner *entity.Banner) error {
	query := `
		UPDATE banners SET titulo = $2, imagen_url = $3, producto_id = $4, fecha_actualizacion = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		banner.ID, banner.Titulo, banner.ImagenURL, banner.ProductoID, banner.FechaActualizacion,
	)
	if err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	return nil
}

// Delete elimina un banner por ID.
func (r *BannerRepo) Delete(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	return nil
}
