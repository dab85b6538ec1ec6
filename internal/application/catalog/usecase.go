package catalog

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// ImageStorage puerto hacia el almacenamiento de imágenes (MinIO en producción).
type ImageStorage interface {
	Upload(data []byte, filename, contentType string) (string, error)
}

// UseCase catálogo de la tienda: productos y banners, con subida de imágenes.
type UseCase struct {
	productRepo repository.ProductRepository
	bannerRepo  repository.BannerRepository
	storage     ImageStorage
	log         *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(productRepo repository.ProductRepository, bannerRepo repository.BannerRepository, storage ImageStorage, log *logger.Logger) *UseCase {
	return &UseCase{productRepo: productRepo, bannerRepo: bannerRepo, storage: storage, log: log}
}

// CreateProduct da de alta un producto.
func (uc *UseCase) CreateProduct(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.NombreProducto == "" {
		return nil, fmt.Errorf("%w: el nombre del producto es obligatorio", domain.ErrInvalidInput)
	}
	if in.Precio.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}

	now := time.Now()
	p := &entity.Product{
		NombreProducto:     in.NombreProducto,
		Descripcion:        in.Descripcion,
		Precio:             in.Precio,
		Stock:              in.Stock,
		ImagenURL:          in.ImagenURL,
		Activo:             true,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
	if err := uc.productRepo.Create(p); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("id", p.ID).Str("nombre", p.NombreProducto).Msg("producto creado")
	return toProductResponse(p), nil
}

// GetProduct busca un producto por ID.
func (uc *UseCase) GetProduct(id int64) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// ListProducts lista el catálogo con paginación.
func (uc *UseCase) ListProducts(page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// UpdateProduct edita parcialmente un producto.
func (uc *UseCase) UpdateProduct(id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if in.NombreProducto != nil {
		if *in.NombreProducto == "" {
			return nil, fmt.Errorf("%w: el nombre del producto es obligatorio", domain.ErrInvalidInput)
		}
		p.NombreProducto = *in.NombreProducto
	}
	if in.Descripcion != nil {
		p.Descripcion = *in.Descripcion
	}
	if in.Precio != nil {
		if in.Precio.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		p.Precio = *in.Precio
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
		}
		p.Stock = *in.Stock
	}
	if in.ImagenURL != nil {
		p.ImagenURL = *in.ImagenURL
	}
	if in.Activo != nil {
		p.Activo = *in.Activo
	}
	p.FechaActualizacion = time.Now()

	if err := uc.productRepo.Update(p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// DeleteProduct elimina un producto. Los pedidos históricos no se ven
// afectados: los items guardan su propio snapshot de nombre y precio.
func (uc *UseCase) DeleteProduct(id int64) error {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}

// UploadImage sube una imagen al almacenamiento y devuelve su URL pública.
// El nombre se aleatoriza conservando la extensión original.
func (uc *UseCase) UploadImage(data []byte, originalName, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	name := uuid.NewString() + filepath.Ext(originalName)
	url, err := uc.storage.Upload(data, name, contentType)
	if err != nil {
		return "", fmt.Errorf("subida de imagen: %w", err)
	}
	uc.log.Info().Str("archivo", name).Msg("imagen subida")
	return url, nil
}

// CreateBanner da de alta un banner; si referencia un producto, debe existir.
func (uc *UseCase) CreateBanner(in dto.CreateBannerRequest) (*dto.BannerResponse, error) {
	if in.Titulo == "" || in.ImagenURL == "" {
		return nil, fmt.Errorf("%w: título e imagen son obligatorios", domain.ErrInvalidInput)
	}
	if in.ProductoID != nil {
		p, err := uc.productRepo.GetByID(*in.ProductoID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: el producto referenciado no existe", domain.ErrInvalidInput)
		}
	}

	now := time.Now()
	b := &entity.Banner{
		Titulo:             in.Titulo,
		ImagenURL:          in.ImagenURL,
		ProductoID:         in.ProductoID,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
	if err := uc.bannerRepo.Create(b); err != nil {
		return nil, err
	}
	return toBannerResponse(b), nil
}

// ListBanners devuelve todos los banners.
func (uc *UseCase) ListBanners() ([]dto.BannerResponse, error) {
	list, err := uc.bannerRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.BannerResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBannerResponse(b))
	}
	return out, nil
}

// UpdateBanner edita parcialmente un banner.
func (uc *UseCase) UpdateBanner(id int64, in dto.UpdateBannerRequest) (*dto.BannerResponse, error) {
	b, err := uc.bannerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}

	if in.Titulo != nil {
		b.Titulo = *in.Titulo
	}
	if in.ImagenURL != nil {
		b.ImagenURL = *in.ImagenURL
	}
	if in.ProductoID != nil {
		p, err := uc.productRepo.GetByID(*in.ProductoID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: el producto referenciado no existe", domain.ErrInvalidInput)
		}
		b.ProductoID = in.ProductoID
	}
	b.FechaActualizacion = time.Now()

	if err := uc.bannerRepo.Update(b); err != nil {
		return nil, err
	}
	return toBannerResponse(b), nil
}

// DeleteBanner elimina un banner.
func (uc *UseCase) DeleteBanner(id int64) error {
	b, err := uc.bannerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.ErrNotFound
	}
	return uc.bannerRepo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		NombreProducto: p.NombreProducto,
		Descripcion:    p.Descripcion,
		Precio:         p.Precio,
		Stock:          p.Stock,
		ImagenURL:      p.ImagenURL,
		Activo:         p.Activo,
		FechaCreacion:  p.FechaCreacion,
	}
}

func toBannerResponse(b *entity.Banner) *dto.BannerResponse {
	return &dto.BannerResponse{
		ID:         b.ID,
		Titulo:     b.Titulo,
		ImagenURL:  b.ImagenURL,
		ProductoID: b.ProductoID,
	}
}
