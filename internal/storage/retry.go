package storage

import (
	"context"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type retrying struct {
	Service
	attempts int
	base     time.Duration
	log      *zap.Logger
}

// WithRetry retries failed uploads and deletes with exponential backoff and
// jitter. Invalid images and cancelled contexts fail immediately.
func WithRetry(svc Service, attempts int, base time.Duration, log *zap.Logger) Service {
	if attempts < 1 {
		attempts = 1
	}
	return &retrying{Service: svc, attempts: attempts, base: base, log: log}
}

func (r *retrying) Upload(ctx context.Context, bucket, name string, img *Image) error {
	return r.do(ctx, "upload", bucket, name, func() error {
		return r.Service.Upload(ctx, bucket, name, img)
	})
}

func (r *retrying) Delete(ctx context.Context, bucket, name string) error {
	return r.do(ctx, "delete", bucket, name, func() error {
		return r.Service.Delete(ctx, bucket, name)
	})
}

func (r *retrying) do(ctx context.Context, op, bucket, name string, fn func() error) error {
	var err error
	for i := 0; i < r.attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if errors.Is(err, ErrInvalidImage) || ctx.Err() != nil {
			return err
		}
		if i == r.attempts-1 {
			break
		}

		wait := r.base << i
		jitter := time.Duration(rand.Int63n(int64(wait)/2 + 1))
		r.log.Warn("storage operation failed, retrying",
			zap.String("op", op),
			zap.String("bucket", bucket),
			zap.String("object", name),
			zap.Int("attempt", i+1),
			zap.Duration("wait", wait+jitter),
			zap.Error(err),
		)
		select {
		case <-time.After(wait + jitter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return errors.Wrapf(err, "%s %s/%s failed after %d attempts", op, bucket, name, r.attempts)
}
