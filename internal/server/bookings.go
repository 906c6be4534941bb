package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"travel-booking/internal/models"
)

func (s *Server) bookingRoutes(r chi.Router) {
	r.Use(s.requireUser)

	r.Get("/", s.ListBookingsHandler)
	r.Post("/", s.CreateBookingHandler)
	r.Get("/{id}", s.GetBookingHandler)
	r.Put("/{id}", s.UpdateBookingHandler)
	r.Delete("/{id}", s.DeleteBookingHandler)
	r.Put("/{id}/proof", s.UploadProofHandler)
	r.With(s.requireAdmin).Post("/{id}/confirm", s.ConfirmBookingHandler)
}

// ListBookingsHandler lists bookings. Callers other than admins only see
// their own.
func (s *Server) ListBookingsHandler(w http.ResponseWriter, r *http.Request) {
	f := filterParams(r)
	if u, ok := UserFrom(r.Context()); ok && !u.Admin {
		f["user_id"] = u.ID
	}

	bookings, err := s.catalog.Bookings.List(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, bookings)
}

// CreateBookingHandler handles booking creation.
func (s *Server) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var booking models.Booking
	if err := decodeJSON(w, r, &booking); err != nil {
		s.fail(w, r, err)
		return
	}
	booking.UserID = userID(r.Context())

	if err := s.catalog.Bookings.Create(r.Context(), &booking); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusCreated, booking)
}

func (s *Server) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	booking, ok := s.ownedBooking(w, r)
	if !ok {
		return
	}
	s.respond(w, http.StatusOK, booking)
}

func (s *Server) UpdateBookingHandler(w http.ResponseWriter, r *http.Request) {
	current, ok := s.ownedBooking(w, r)
	if !ok {
		return
	}

	var booking models.Booking
	if err := decodeJSON(w, r, &booking); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.catalog.Bookings.Update(r.Context(), current.ID, &booking); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, booking)
}

func (s *Server) DeleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	current, ok := s.ownedBooking(w, r)
	if !ok {
		return
	}
	if err := s.catalog.Bookings.Delete(r.Context(), current.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmBookingHandler moves a pending booking to confirmed.
func (s *Server) ConfirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	booking, err := s.catalog.Bookings.Confirm(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, booking)
}

// UploadProofHandler attaches a proof-of-payment image to a booking.
func (s *Server) UploadProofHandler(w http.ResponseWriter, r *http.Request) {
	current, ok := s.ownedBooking(w, r)
	if !ok {
		return
	}
	img, err := s.decodeImage(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	booking, err := s.catalog.Bookings.UploadProof(r.Context(), current.ID, img)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, booking)
}

// ownedBooking loads the booking named in the path and checks the caller
// may act on it. On failure the response has already been written.
func (s *Server) ownedBooking(w http.ResponseWriter, r *http.Request) (*models.Booking, bool) {
	id, err := idParam(r)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	booking, err := s.catalog.Bookings.Get(r.Context(), id)
	if err == nil {
		err = s.authorize(r.Context(), booking.UserID)
	}
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return booking, true
}
