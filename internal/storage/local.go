package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Local keeps each bucket as a directory under root. The server exposes root
// at baseURL.
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "create storage root")
	}
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root is the directory holding the buckets.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) path(bucket, name string) (string, error) {
	for _, part := range []string{bucket, name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", errors.Errorf("invalid object path %q/%q", bucket, name)
		}
	}
	return filepath.Join(l.root, bucket, name), nil
}

func (l *Local) Upload(ctx context.Context, bucket, name string, img *Image) error {
	path, err := l.path(bucket, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create bucket")
	}

	tmp := path + ".part"
	if err := os.WriteFile(tmp, img.Data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s/%s", bucket, name)
	}
	return errors.Wrapf(os.Rename(tmp, path), "store %s/%s", bucket, name)
}

func (l *Local) PublicURL(bucket, name string) string {
	return l.baseURL + "/" + bucket + "/" + name
}

func (l *Local) Delete(ctx context.Context, bucket, name string) error {
	path, err := l.path(bucket, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete %s/%s", bucket, name)
	}
	return nil
}

func (l *Local) List(ctx context.Context, bucket string) ([]Object, error) {
	entries, err := os.ReadDir(filepath.Join(l.root, bucket))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", bucket)
	}

	var objects []Object
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".part") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		objects = append(objects, Object{Name: e.Name(), ModTime: info.ModTime()})
	}
	return objects, nil
}
