package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"travel-booking/internal/database"
	"travel-booking/internal/storage"
)

// ErrInvalid reports input that failed validation.
var ErrInvalid = errors.New("invalid input")

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// Record is the pointer form of a stored record carrying one image.
type Record[T any] interface {
	*T
	Validate() error
	MediaURL() string
	SetMediaURL(url string)
	Owner() string
	SetOwner(id string)
	SetID(id int64)
}

// Resource couples a table with the bucket holding its images.
type Resource[T any, P Record[T]] struct {
	store  database.Store[T]
	media  storage.Service
	bucket string
	log    *zap.Logger
}

func NewResource[T any, P Record[T]](store database.Store[T], media storage.Service, bucket string, log *zap.Logger) *Resource[T, P] {
	return &Resource[T, P]{
		store:  store,
		media:  media,
		bucket: bucket,
		log:    log.With(zap.String("bucket", bucket)),
	}
}

func (r *Resource[T, P]) List(ctx context.Context, f database.Filter) ([]T, error) {
	return r.store.List(ctx, f)
}

func (r *Resource[T, P]) Get(ctx context.Context, id int64) (*T, error) {
	return r.store.Get(ctx, id)
}

// Create uploads img (when given), embeds its public URL in rec and inserts
// rec. If the insert fails the uploaded object is removed again.
func (r *Resource[T, P]) Create(ctx context.Context, rec P, img *storage.Image) error {
	if err := rec.Validate(); err != nil {
		return invalid(err)
	}

	object, err := r.upload(ctx, rec, img)
	if err != nil {
		return err
	}
	if err := r.store.Create(ctx, (*T)(rec)); err != nil {
		r.discard(object)
		return err
	}
	return nil
}

// Update overwrites the record identified by id. Without img the current
// image is kept; with img the new object replaces the old one, which is
// removed once the row points at the new URL.
func (r *Resource[T, P]) Update(ctx context.Context, id int64, rec P, img *storage.Image) error {
	rec.SetID(id)
	if err := rec.Validate(); err != nil {
		return invalid(err)
	}

	current, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}
	previous := P(current).MediaURL()
	rec.SetMediaURL(previous)

	object, err := r.upload(ctx, rec, img)
	if err != nil {
		return err
	}
	if err := r.store.Update(ctx, (*T)(rec)); err != nil {
		r.discard(object)
		return err
	}
	if object != "" {
		r.discardURL(previous)
	}
	return nil
}

// Delete removes the row and then its image.
func (r *Resource[T, P]) Delete(ctx context.Context, id int64) error {
	rec, err := r.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	r.discardURL(P(rec).MediaURL())
	return nil
}

// upload stores img under a random name and points rec at it. It returns
// the object name, or "" when there was nothing to upload.
func (r *Resource[T, P]) upload(ctx context.Context, rec P, img *storage.Image) (string, error) {
	if img == nil {
		return "", nil
	}
	object := storage.ObjectName(img)
	if err := r.media.Upload(ctx, r.bucket, object, img); err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	rec.SetMediaURL(r.media.PublicURL(r.bucket, object))
	return object, nil
}

// discard deletes an object on a context of its own so cleanup still runs
// when the request that created it has gone away. Failures leave the object
// for the sweeper.
func (r *Resource[T, P]) discard(object string) {
	if object == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.media.Delete(ctx, r.bucket, object); err != nil {
		r.log.Warn("could not remove object", zap.String("object", object), zap.Error(err))
	}
}

func (r *Resource[T, P]) discardURL(url string) {
	if name, ok := storage.ObjectFromURL(r.media, r.bucket, url); ok {
		r.discard(name)
	}
}
