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

var _ repository.PromotionRepository = (*PromotionRepo)(nil)

const promotionColumns = `id, producto_id, descuento_porcentaje, fecha_inicio, fecha_fin, activa, created_at, updated_at`

// PromotionRepo implementación del puerto PromotionRepository sobre PostgreSQL.
type PromotionRepo struct {
	q Querier
}

// NewPromotionRepository construye el adaptador de persistencia para promociones.
func NewPromotionRepository(q Querier) *PromotionRepo {
	return &PromotionRepo{q: q}
}

// Create persiste una nueva promoción y asigna su ID.
func (r *PromotionRepo) Create(p *entity.Promotion) error {
	query := `
		INSERT INTO promotions (producto_id, descuento_porcentaje, fecha_inicio, fecha_fin, activa, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		p.ProductoID, p.DescuentoPorcentaje, p.FechaInicio, p.FechaFin, p.Activa, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

// GetByID obtiene una promoción por ID.
func (r *PromotionRepo) GetByID(id int64) (*entity.Promotion, error) {
	var p entity.Promotion
	err := r.q.QueryRow(context.Background(),
		`SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id,
	).Scan(&p.ID, &p.ProductoID, &p.DescuentoPorcentaje, &p.FechaInicio, &p.FechaFin, &p.Activa, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return &p, nil
}

// List devuelve todas las promociones, más recientes primero.
func (r *PromotionRepo) List() ([]*entity.Promotion, error) {
	return r.query(`SELECT ` + promotionColumns + ` FROM promotions ORDER BY created_at DESC`)
}

// ListActivasByProducto devuelve las promociones activas de un producto.
func (r *PromotionRepo) ListActivasByProducto(productoID int64) ([]*entity.Promotion, error) {
	return r.query(`SELECT `+promotionColumns+` FROM promotions WHERE producto_id = $1 AND activa`, productoID)
}

// ListVigentes devuelve las activas cuya ventana cubre el instante dado.
func (r *PromotionRepo) ListVigentes(ahora time.Time) ([]*entity.Promotion, error) {
	return r.query(
		`SELECT `+promotionColumns+` FROM promotions WHERE activa AND fecha_inicio <= $1 AND fecha_fin >= $1`,
		ahora)
}

func (r *PromotionRepo) query(query string, args ...any) ([]*entity.Promotion, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Promotion
	for rows.Next() {
		var p entity.Promotion
		if err := rows.Scan(&p.ID, &p.ProductoID, &p.DescuentoPorcentaje, &p.FechaInicio, &p.FechaFin, &p.Activa, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// FindVigenteByProducto devuelve la promoción vigente del producto, o nil.
func (r *PromotionRepo) FindVigenteByProducto(productoID int64, ahora time.Time) (*entity.Promotion, error) {
	var p entity.Promotion
	err := r.q.QueryRow(context.Background(),
		`SELECT `+promotionColumns+` FROM promotions WHERE producto_id = $1 AND activa AND fecha_inicio <= $2 AND fecha_fin >= $2 LIMIT 1`,
		productoID, ahora,
	).Scan(&p.ID, &p.ProductoID, &p.DescuentoPorcentaje, &p.FechaInicio, &p.FechaFin, &p.Activa, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find promotion vigente: %w", err)
	}
	return &p, nil
}

// Update actualiza una promoción existente.
func (r *PromotionRepo) Update(p *entity.Promotion) error {
	query := `
		UPDATE promotions SET descuento_porcentaje = $2, fecha_inicio = $3, fecha_fin = $4, activa = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.DescuentoPorcentaje, p.FechaInicio, p.FechaFin, p.Activa, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	return nil
}

// Delete elimina una promoción por ID.
func (r *PromotionRepo) Delete(id int64) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	return nil
}

// DesactivarExpiradas desactiva en bloque las activas cuya fecha_fin ya pasó.
func (r *PromotionRepo) DesactivarExpiradas(ahora time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE promotions SET activa = false, updated_at = now() WHERE activa AND fecha_fin < $1`, ahora)
	if err != nil {
		return 0, fmt.Errorf("desactivar promotions expiradas: %w", err)
	}
	return cmd.RowsAffected(), nil
}
