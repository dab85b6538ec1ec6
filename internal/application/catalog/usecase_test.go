package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

type fakeProductRepo struct {
	products map[int64]*entity.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*entity.Product), nextID: 1}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id int64) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByIDs(ids []int64) ([]*entity.Product, error) { return nil, nil }

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(id int64) error {
	delete(r.products, id)
	return nil
}

type fakeBannerRepo struct {
	banners map[int64]*entity.Banner
	nextID  int64
}

func newFakeBannerRepo() *fakeBannerRepo {
	return &fakeBannerRepo{banners: make(map[int64]*entity.Banner), nextID: 1}
}

func (r *fakeBannerRepo) Create(b *entity.Banner) error {
	b.ID = r.nextID
	r.nextID++
	cp := *b
	r.banners[b.ID] = &cp
	return nil
}

func (r *fakeBannerRepo) GetByID(id int64) (*entity.Banner, error) {
	b, ok := r.banners[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBannerRepo) List() ([]*entity.Banner, error) {
	var out []*entity.Banner
	for _, b := range r.banners {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBannerRepo) Update(b *entity.Banner) error {
	cp := *b
	r.banners[b.ID] = &cp
	return nil
}

func (r *fakeBannerRepo) Delete(id int64) error {
	delete(r.banners, id)
	return nil
}

type fakeStorage struct {
	uploads []string
}

func (s *fakeStorage) Upload(data []byte, filename, contentType string) (string, error) {
	s.uploads = append(s.uploads, filename)
	return "https://cdn.chpc.test/" + filename, nil
}

func newCatalogFixture(t *testing.T) (*UseCase, *fakeStorage) {
	t.Helper()
	storage := &fakeStorage{}
	uc := NewUseCase(newFakeProductRepo(), newFakeBannerRepo(), storage, logger.NewNop())
	return uc, storage
}

func TestCreateProduct(t *testing.T) {
	uc, _ := newCatalogFixture(t)

	p, err := uc.CreateProduct(dto.CreateProductRequest{
		NombreProducto: "Monitor 27\"",
		Precio:         decimal.NewFromInt(300),
		Stock:          5,
	})
	require.NoError(t, err)
	assert.True(t, p.Activo)
	assert.Equal(t, "Monitor 27\"", p.NombreProducto)

	_, err = uc.CreateProduct(dto.CreateProductRequest{Precio: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateProduct(dto.CreateProductRequest{NombreProducto: "X", Precio: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProduct(t *testing.T) {
	uc, _ := newCatalogFixture(t)
	p, err := uc.CreateProduct(dto.CreateProductRequest{
		NombreProducto: "Monitor", Precio: decimal.NewFromInt(300), Stock: 5,
	})
	require.NoError(t, err)

	nuevoPrecio := decimal.NewFromInt(250)
	inactivo := false
	got, err := uc.UpdateProduct(p.ID, dto.UpdateProductRequest{Precio: &nuevoPrecio, Activo: &inactivo})
	require.NoError(t, err)
	assert.True(t, got.Precio.Equal(nuevoPrecio))
	assert.False(t, got.Activo)
	assert.Equal(t, "Monitor", got.NombreProducto, "los campos no enviados no cambian")

	_, err = uc.UpdateProduct(999, dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	uc, _ := newCatalogFixture(t)
	p, err := uc.CreateProduct(dto.CreateProductRequest{
		NombreProducto: "Monitor", Precio: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteProduct(p.ID))
	err = uc.DeleteProduct(p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadImage(t *testing.T) {
	uc, storage := newCatalogFixture(t)

	url, err := uc.UploadImage([]byte("png-bytes"), "foto producto.png", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.chpc.test/"))
	require.Len(t, storage.uploads, 1)
	assert.True(t, strings.HasSuffix(storage.uploads[0], ".png"), "conserva la extensión")
	assert.NotContains(t, storage.uploads[0], " ", "nombre aleatorizado")

	_, err = uc.UploadImage(nil, "vacio.png", "image/png")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBanners(t *testing.T) {
	uc, _ := newCatalogFixture(t)
	p, err := uc.CreateProduct(dto.CreateProductRequest{
		NombreProducto: "Monitor", Precio: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	// producto referenciado inexistente
	malo := int64(999)
	_, err = uc.CreateBanner(dto.CreateBannerRequest{Titulo: "Oferta", ImagenURL: "u", ProductoID: &malo})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	b, err := uc.CreateBanner(dto.CreateBannerRequest{Titulo: "Oferta", ImagenURL: "u", ProductoID: &p.ID})
	require.NoError(t, err)

	list, err := uc.ListBanners()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	nuevoTitulo := "Liquidación"
	got, err := uc.UpdateBanner(b.ID, dto.UpdateBannerRequest{Titulo: &nuevoTitulo})
	require.NoError(t, err)
	assert.Equal(t, "Liquidación", got.Titulo)

	require.NoError(t, uc.DeleteBanner(b.ID))
	err = uc.DeleteBanner(b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
