package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"travel-booking/internal/database"
	"travel-booking/internal/storage"
)

// maxJSONBytes bounds JSON bodies and the "data" field of multipart forms.
const maxJSONBytes = 1 << 20

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// filterParams turns the query string into an equality filter, one value
// per key.
func filterParams(r *http.Request) database.Filter {
	f := database.Filter{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			f[k] = v[0]
		}
	}
	return f
}

func isMultipart(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && ct == "multipart/form-data"
}

// decodeRecord fills rec from a JSON body, or from the "data" field of a
// multipart form. The form's "image" file, if any, is returned validated.
func (s *Server) decodeRecord(w http.ResponseWriter, r *http.Request, rec any) (*storage.Image, error) {
	if !isMultipart(r) {
		return nil, decodeJSON(w, r, rec)
	}

	if err := s.parseForm(w, r); err != nil {
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	data := r.FormValue("data")
	if data == "" {
		return nil, badRequest("multipart form needs a data field")
	}
	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return nil, badRequest("invalid data field: %v", err)
	}
	return s.formImage(r)
}

// decodeImage reads the required "image" file of a multipart form.
func (s *Server) decodeImage(w http.ResponseWriter, r *http.Request) (*storage.Image, error) {
	if !isMultipart(r) {
		return nil, badRequest("expected multipart/form-data")
	}
	if err := s.parseForm(w, r); err != nil {
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	img, err := s.formImage(r)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, badRequest("image file is required")
	}
	return img, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request payload: %v", err)
	}
	return nil
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxImageBytes+maxJSONBytes)
	if err := r.ParseMultipartForm(s.maxImageBytes + maxJSONBytes); err != nil {
		return badRequest("invalid multipart form: %v", err)
	}
	return nil
}

func (s *Server) formImage(r *http.Request) (*storage.Image, error) {
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, nil
	}
	return storage.ReadImage(files[0], s.maxImageBytes)
}
