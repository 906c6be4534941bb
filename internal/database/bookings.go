package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travel-booking/internal/models"
)

// BookingStore adds the booking-only operations to the shared CRUD surface.
type BookingStore interface {
	Store[models.Booking]

	// UpdateStatus moves a booking from one status to another. It fails with
	// ErrStatusConflict when the booking is not currently in status from.
	UpdateStatus(ctx context.Context, id int64, from, to models.BookingStatus) (*models.Booking, error)
	SetProof(ctx context.Context, id int64, url string) (*models.Booking, error)
}

type bookingTable struct {
	table[models.Booking]
}

func (t *bookingTable) UpdateStatus(ctx context.Context, id int64, from, to models.BookingStatus) (*models.Booking, error) {
	var b models.Booking
	query := "UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3 RETURNING " + t.returning()
	err := t.db.GetContext(ctx, &b, query, to, id, from)
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update booking %d status: %w", id, err)
	}

	var exists bool
	if err := t.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)", id); err != nil {
		return nil, fmt.Errorf("check booking %d: %w", id, err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, fmt.Errorf("%w: booking %d is not %s", ErrStatusConflict, id, from)
}

func (t *bookingTable) SetProof(ctx context.Context, id int64, url string) (*models.Booking, error) {
	var b models.Booking
	query := "UPDATE bookings SET proof_url = $1 WHERE id = $2 RETURNING " + t.returning()
	if err := t.db.GetContext(ctx, &b, query, url, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set booking %d proof: %w", id, err)
	}
	return &b, nil
}
