package storage

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"travel-booking/internal/config"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestNewImage(t *testing.T) {
	img, err := NewImage("beach.PNG", pngData, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Ext())

	_, err = NewImage("notes.txt", pngData, 0)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = NewImage("fake.jpg", []byte("hello, not a picture"), 0)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = NewImage("big.png", pngData, 4)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = NewImage("empty.png", nil, 0)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestReadImage(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "proof.png")
	require.NoError(t, err)
	_, err = part.Write(pngData)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := multipart.NewReader(&body, w.Boundary())
	form, err := r.ReadForm(1 << 20)
	require.NoError(t, err)
	defer form.RemoveAll()

	img, err := ReadImage(form.File["image"][0], 1024)
	require.NoError(t, err)
	assert.Equal(t, pngData, img.Data)

	_, err = ReadImage(form.File["image"][0], 4)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestObjectName(t *testing.T) {
	img := &Image{Filename: "a.JPG"}
	a, b := ObjectName(img), ObjectName(img)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.Len(t, a, 36+len(".jpg"))
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	l, err := NewLocal(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	img, err := NewImage("a.png", pngData, 0)
	require.NoError(t, err)
	require.NoError(t, l.Upload(ctx, "hotels", "a.png", img))

	stored, err := os.ReadFile(filepath.Join(root, "hotels", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, pngData, stored)

	url := l.PublicURL("hotels", "a.png")
	assert.Equal(t, "http://localhost:8080/uploads/hotels/a.png", url)

	name, ok := ObjectFromURL(l, "hotels", url)
	assert.True(t, ok)
	assert.Equal(t, "a.png", name)
	_, ok = ObjectFromURL(l, "events", url)
	assert.False(t, ok)
	_, ok = ObjectFromURL(l, "hotels", "https://elsewhere.example/a.png")
	assert.False(t, ok)

	objects, err := l.List(ctx, "hotels")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "a.png", objects[0].Name)

	require.NoError(t, l.Delete(ctx, "hotels", "a.png"))
	require.NoError(t, l.Delete(ctx, "hotels", "a.png"), "deleting twice is fine")

	objects, err = l.List(ctx, "hotels")
	require.NoError(t, err)
	assert.Empty(t, objects)

	objects, err = l.List(ctx, "never-created")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestLocal_RejectsTraversal(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/b/n.png", l.PublicURL("b", "n.png"))

	img := &Image{Filename: "x.png", Data: pngData}
	assert.Error(t, l.Upload(context.Background(), "hotels", "../x.png", img))
	assert.Error(t, l.Upload(context.Background(), "..", "x.png", img))
	assert.Error(t, l.Delete(context.Background(), "hotels", "a/b.png"))
}

// TestS3 runs the S3 backend against a fake path-style endpoint.
func TestS3(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
		uploaded []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		requests = append(requests, r.Method+" "+r.URL.Path)

		switch r.Method {
		case http.MethodPut:
			buf := new(bytes.Buffer)
			buf.ReadFrom(r.Body)
			uploaded = buf.Bytes()
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Name>hotels</Name><KeyCount>1</KeyCount><IsTruncated>false</IsTruncated><Contents><Key>a.png</Key><LastModified>2025-01-02T03:04:05.000Z</LastModified><Size>4</Size></Contents></ListBucketResult>`))
		}
	}))
	defer server.Close()

	s, err := NewS3(config.Storage{S3: config.S3{
		Region:         "us-east-1",
		Endpoint:       server.URL,
		AccessKey:      "key",
		SecretKey:      "secret",
		ForcePathStyle: true,
	}})
	require.NoError(t, err)

	ctx := context.Background()
	img, err := NewImage("a.png", pngData, 0)
	require.NoError(t, err)

	require.NoError(t, s.Upload(ctx, "hotels", "a.png", img))
	mu.Lock()
	assert.Equal(t, pngData, uploaded)
	mu.Unlock()
	assert.Equal(t, server.URL+"/hotels/a.png", s.PublicURL("hotels", "a.png"))

	objects, err := s.List(ctx, "hotels")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "a.png", objects[0].Name)
	assert.Equal(t, time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC), objects[0].ModTime)

	require.NoError(t, s.Delete(ctx, "hotels", "a.png"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "PUT /hotels/a.png", requests[0])
	assert.True(t, strings.HasPrefix(requests[1], "GET /hotels"))
	assert.Equal(t, "DELETE /hotels/a.png", requests[2])
}

func TestS3_VirtualHostedURL(t *testing.T) {
	s, err := NewS3(config.Storage{S3: config.S3{Region: "ap-southeast-1", AccessKey: "k", SecretKey: "s"}})
	require.NoError(t, err)
	assert.Equal(t, "https://promos.s3.ap-southeast-1.amazonaws.com/p.png", s.PublicURL("promos", "p.png"))
}

type flaky struct {
	Service
	failures int
	calls    int
	err      error
}

func (f *flaky) Upload(ctx context.Context, bucket, name string, img *Image) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	f := &flaky{failures: 2, err: errors.New("connection reset")}
	svc := WithRetry(f, 3, time.Millisecond, zap.NewNop())
	require.NoError(t, svc.Upload(ctx, "b", "n.png", &Image{}))
	assert.Equal(t, 3, f.calls)

	f = &flaky{failures: 5, err: errors.New("connection reset")}
	svc = WithRetry(f, 3, time.Millisecond, zap.NewNop())
	err := svc.Upload(ctx, "b", "n.png", &Image{})
	assert.ErrorContains(t, err, "failed after 3 attempts")
	assert.Equal(t, 3, f.calls)

	f = &flaky{failures: 5, err: ErrInvalidImage}
	svc = WithRetry(f, 3, time.Millisecond, zap.NewNop())
	assert.ErrorIs(t, svc.Upload(ctx, "b", "n.png", &Image{}), ErrInvalidImage)
	assert.Equal(t, 1, f.calls, "invalid images are not retried")
}

func TestNew(t *testing.T) {
	svc, err := New(config.Storage{Driver: "local", LocalRoot: t.TempDir(), RetryAttempts: 3}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &retrying{}, svc)

	_, err = New(config.Storage{Driver: "gcs"}, zap.NewNop())
	assert.Error(t, err)
}
