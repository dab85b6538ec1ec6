package repository

import (
	"time"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
)

// PromotionRepository define el puerto de persistencia para Promotion.
type PromotionRepository interface {
	Create(p *entity.Promotion) error // asigna p.ID
	GetByID(id int64) (*entity.Promotion, error)
	List() ([]*entity.Promotion, error)
	// ListActivasByProducto devuelve las promociones activas del producto
	// (sin filtrar por vigencia; el chequeo de solape las necesita todas).
	ListActivasByProducto(productoID int64) ([]*entity.Promotion, error)
	// ListVigentes devuelve las activas cuya ventana cubre el instante dado.
	ListVigentes(ahora time.Time) ([]*entity.Promotion, error)
	FindVigenteByProducto(productoID int64, ahora time.Time) (*entity.Promotion, error)
	Update(p *entity.Promotion) error
	Delete(id int64) error
	// DesactivarExpiradas desactiva en bloque las activas cuya fecha_fin ya pasó.
	DesactivarExpiradas(ahora time.Time) (int64, error)
}
