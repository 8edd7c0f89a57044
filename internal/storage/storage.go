// Package storage menyimpan foto bukti (panen, hama, pemupukan) ke object
// storage yang kompatibel S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"sawitku-backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrNotConfigured = errors.New("storage: object storage belum dikonfigurasi")

type ObjectStore interface {
	// Put menyimpan objek dan mengembalikan URL publiknya.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type MinIOStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinIO: endpoint kosong menghasilkan ErrNotConfigured.
func NewMinIO(cfg config.MinIOConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	public := cfg.PublicURL
	if public == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		public = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinIOStore{client: client, bucket: cfg.Bucket, publicURL: strings.TrimRight(public, "/")}, nil
}

// EnsureBucket membuat bucket bila belum ada.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("cek bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("buat bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *MinIOStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// ObjectKey: <prefix>/<yyyy/mm/dd>/<uuid><ext>
func ObjectKey(prefix, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(prefix, now.UTC().Format("2006/01/02"), uuid.NewString()+ext)
}
