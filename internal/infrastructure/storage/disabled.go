package storage

import (
	"errors"

	"github.com/chpcstore/tienda-api/internal/application/catalog"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

var _ catalog.ImageStorage = (*DisabledStorage)(nil)

// ErrStorageDisabled se devuelve cuando no hay backend de imágenes configurado.
var ErrStorageDisabled = errors.New("almacenamiento de imágenes no configurado")

// DisabledStorage reemplaza a MinIO cuando STORAGE_ENDPOINT está vacío:
// la API arranca igual y solo falla la subida de imágenes.
type DisabledStorage struct {
	log *logger.Logger
}

// NewDisabled construye el almacenamiento deshabilitado.
func NewDisabled(log *logger.Logger) *DisabledStorage {
	log.Warn().Msg("almacenamiento de imágenes deshabilitado: STORAGE_ENDPOINT vacío")
	return &DisabledStorage{log: log}
}

// Upload rechaza la subida.
func (s *DisabledStorage) Upload(data []byte, filename, contentType string) (string, error) {
	return "", ErrStorageDisabled
}

// Delete no hace nada.
func (s *DisabledStorage) Delete(filename string) error {
	return nil
}
