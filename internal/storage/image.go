package storage

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/pkg/errors"
)

// MaxImageSize is the default upload limit.
const MaxImageSize = 5 * 1024 * 1024

var ErrInvalidImage = errors.New("invalid image")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// Image is an uploaded file held in memory.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Ext is the lower-cased file extension, including the dot.
func (img *Image) Ext() string {
	return strings.ToLower(filepath.Ext(img.Filename))
}

// NewImage validates an upload by extension, size and sniffed content type.
func NewImage(filename string, data []byte, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = MaxImageSize
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, errors.Wrapf(ErrInvalidImage, "file %s must be JPG, PNG or WebP", filename)
	}
	if len(data) == 0 {
		return nil, errors.Wrapf(ErrInvalidImage, "file %s is empty", filename)
	}
	if int64(len(data)) > maxBytes {
		return nil, errors.Wrapf(ErrInvalidImage, "file %s exceeds %d bytes", filename, maxBytes)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.Wrapf(ErrInvalidImage, "file %s is %s, not an image", filename, contentType)
	}
	return &Image{Filename: filename, ContentType: contentType, Data: data}, nil
}

// ReadImage reads and validates a multipart upload.
func ReadImage(fh *multipart.FileHeader, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = MaxImageSize
	}
	if fh.Size > maxBytes {
		return nil, errors.Wrapf(ErrInvalidImage, "file %s exceeds %d bytes", fh.Filename, maxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	return NewImage(fh.Filename, data, maxBytes)
}

// ObjectName returns a random object name keeping the image's extension.
func ObjectName(img *Image) string {
	return uuid.Must(uuid.NewV4()).String() + img.Ext()
}
