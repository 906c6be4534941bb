package storage

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"travel-booking/internal/config"
)

// Object is a stored file as reported by List.
type Object struct {
	Name    string
	ModTime time.Time
}

// Service stores images in named buckets and resolves their public URLs.
type Service interface {
	Upload(ctx context.Context, bucket, name string, img *Image) error
	PublicURL(bucket, name string) string
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, bucket, name string) error
	List(ctx context.Context, bucket string) ([]Object, error)
}

// New builds the configured backend, wrapped with retries when more than one
// attempt is configured.
func New(cfg config.Storage, log *zap.Logger) (Service, error) {
	var (
		svc Service
		err error
	)
	switch cfg.Driver {
	case "s3":
		svc, err = NewS3(cfg)
	case "local":
		svc, err = NewLocal(cfg.LocalRoot, cfg.PublicURL)
	default:
		err = errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if cfg.RetryAttempts > 1 {
		svc = WithRetry(svc, cfg.RetryAttempts, 200*time.Millisecond, log)
	}
	return svc, nil
}

// ObjectFromURL returns the object name behind a public URL produced by
// svc for bucket. URLs pointing anywhere else report false.
func ObjectFromURL(svc Service, bucket, url string) (string, bool) {
	prefix := svc.PublicURL(bucket, "")
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
