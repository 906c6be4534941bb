// Package sweeper removes uploaded images that no record points at.
package sweeper

import (
	"context"
	"net/url"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"travel-booking/internal/storage"
)

// References reports every media URL currently stored in the database.
type References interface {
	ImageURLs(ctx context.Context) ([]string, error)
}

type Sweeper struct {
	refs    References
	media   storage.Service
	buckets []string
	grace   time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// New returns a sweeper over the given buckets. Objects younger than grace
// are never removed, so uploads whose row is still being written survive.
func New(refs References, media storage.Service, buckets []string, grace time.Duration, log *zap.Logger) *Sweeper {
	seen := make(map[string]bool, len(buckets))
	unique := make([]string, 0, len(buckets))
	for _, b := range buckets {
		if b != "" && !seen[b] {
			seen[b] = true
			unique = append(unique, b)
		}
	}
	return &Sweeper{
		refs:    refs,
		media:   media,
		buckets: unique,
		grace:   grace,
		log:     log,
		now:     time.Now,
	}
}

// Sweep deletes unreferenced objects older than the grace period and
// returns how many were removed. A bucket that cannot be listed is skipped
// and reported in the returned error.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	urls, err := s.refs.ImageURLs(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "load referenced urls")
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[objectName(u)] = struct{}{}
	}

	var (
		cutoff  = s.now().Add(-s.grace)
		removed int
		listErr error
	)
	for _, bucket := range s.buckets {
		objects, err := s.media.List(ctx, bucket)
		if err != nil {
			if listErr == nil {
				listErr = errors.Wrapf(err, "list %s", bucket)
			}
			continue
		}
		for _, o := range objects {
			if o.ModTime.After(cutoff) {
				continue
			}
			if _, ok := referenced[o.Name]; ok {
				continue
			}
			if err := s.media.Delete(ctx, bucket, o.Name); err != nil {
				s.log.Warn("delete orphan", zap.String("bucket", bucket), zap.String("object", o.Name), zap.Error(err))
				continue
			}
			s.log.Debug("deleted orphan", zap.String("bucket", bucket), zap.String("object", o.Name))
			removed++
		}
	}
	return removed, listErr
}

// objectName is the last path segment of a stored URL. Objects are matched
// by name alone so that a changed public URL or endpoint does not make live
// images look orphaned.
func objectName(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		return path.Base(u.Path)
	}
	return path.Base(raw)
}

// Schedule runs Sweep on a cron spec such as "@daily" or "0 3 * * *". The
// caller stops the returned scheduler on shutdown.
func (s *Sweeper) Schedule(spec string, timeout time.Duration) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		n, err := s.Sweep(ctx)
		if err != nil {
			s.log.Error("sweep failed", zap.Int("removed", n), zap.Error(err))
			return
		}
		s.log.Info("sweep finished", zap.Int("removed", n))
	})
	if err != nil {
		return nil, errors.Wrapf(err, "sweep schedule %q", spec)
	}
	c.Start()
	return c, nil
}
