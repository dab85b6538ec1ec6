package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/chpcstore/tienda-api/internal/application/catalog"
	"github.com/chpcstore/tienda-api/pkg/config"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

var _ catalog.ImageStorage = (*MinioStorage)(nil)

// MinioStorage almacenamiento de imágenes de productos y banners sobre MinIO.
// Los objetos se suben con lectura pública; la URL devuelta es permanente.
type MinioStorage struct {
	client *minio.Client
	bucket string
	useSSL bool
	log    *logger.Logger
}

// NewMinioStorage conecta con MinIO y asegura que el bucket exista.
func NewMinioStorage(cfg config.StorageConfig, log *logger.Logger) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("crear cliente minio: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("verificar bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("crear bucket: %w", err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("bucket de imágenes creado")
	}

	return &MinioStorage{client: client, bucket: cfg.Bucket, useSSL: cfg.UseSSL, log: log}, nil
}

// Upload sube la imagen y devuelve su URL pública.
func (s *MinioStorage) Upload(data []byte, filename, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(context.Background(), s.bucket, filename,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("subir objeto: %w", err)
	}
	s.log.Debug().Str("archivo", filename).Int("bytes", len(data)).Msg("objeto subido")

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, filename), nil
}

// Delete elimina una imagen del bucket.
func (s *MinioStorage) Delete(filename string) error {
	err := s.client.RemoveObject(context.Background(), s.bucket, filename, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("eliminar objeto: %w", err)
	}
	return nil
}
