package repository

import "github.com/chpcstore/tienda-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(product *entity.Product) error // asigna product.ID
	GetByID(id int64) (*entity.Product, error)
	GetByIDs(ids []int64) ([]*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id int64) error
}

// BannerRepository define el puerto de persistencia para Banner.
type BannerRepository interface {
	Create(banner *entity.Banner) error // asigna banner.ID
	GetByID(id int64) (*entity.Banner, error)
	List() ([]*entity.Banner, error)
	Update(banner *entity.Banner) error
	Delete(id int64) error
}
