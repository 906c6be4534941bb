package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"travel-booking/internal/service"
)

// resourceHandler serves the CRUD endpoints of one catalog resource.
type resourceHandler[T any, P service.Record[T]] struct {
	s   *Server
	res *service.Resource[T, P]
}

// mountResource registers the catalog endpoints on r. Reads are public;
// writes need an authenticated caller when auth is enabled.
func mountResource[T any, P service.Record[T]](r chi.Router, s *Server, res *service.Resource[T, P]) {
	h := &resourceHandler[T, P]{s: s, res: res}

	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *resourceHandler[T, P]) list(w http.ResponseWriter, r *http.Request) {
	recs, err := h.res.List(r.Context(), filterParams(r))
	if err != nil {
		h.s.fail(w, r, err)
		return
	}
	h.s.respond(w, http.StatusOK, recs)
}

func (h *resourceHandler[T, P]) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.s.fail(w, r, err)
		return
	}
	rec, err := h.res.Get(r.Context(), id)
	if err != nil {
		h.s.fail(w, r, err)
		return
	}
	h.s.respond(w, http.StatusOK, rec)
}

func (h *resourceHandler[T, P]) create(w http.ResponseWriter, r *http.Request) {
	rec := P(new(T))
	img, err := h.s.decodeRecord(w, r, rec)
	if err != nil {
		h.s.fail(w, r, err)
		return
	}
	rec.SetOwner(userID(r.Context()))

	if err := h.res.Create(r.Context(), rec, img); err != nil {
		h.s.fail(w, r, err)
		return
	}
	h.s.respond(w, http.StatusCreated, rec)
}

func (h *resourceHandler[T, P]) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.s.fail(w, r, err)
		return
	}
	if err := h.checkOwner(r, id); err != nil {
		h.s.fail(w, r, err)
		return
	}

	rec := P(new(T))
	img, err := h.s.decodeRecord(w, r, rec)
	if err != nil {
		h.s.fail(w, r, err)
		return
	}
	if err := h.res.Update(r.Context(), id, rec, img); err != nil {
		h.s.fail(w, r, err)
		return
	}
	h.s.respond(w, http.StatusOK, rec)
}

func (h *resourceHandler[T, P]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.s.fail(w, r, err)
		return
	}
	if err := h.checkOwner(r, id); err != nil {
		h.s.fail(w, r, err)
		return
	}
	if err := h.res.Delete(r.Context(), id); err != nil {
		h.s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *resourceHandler[T, P]) checkOwner(r *http.Request, id int64) error {
	if !h.s.authEnabled() {
		return nil
	}
	current, err := h.res.Get(r.Context(), id)
	if err != nil {
		return err
	}
	return h.s.authorize(r.Context(), P(current).Owner())
}
