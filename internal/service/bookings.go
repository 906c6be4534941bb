package service

import (
	"context"

	"github.com/pkg/errors"

	"travel-booking/internal/database"
	"travel-booking/internal/models"
	"travel-booking/internal/storage"
)

// Bookings handles hotel bookings and their proof-of-payment images.
type Bookings struct {
	store  database.BookingStore
	hotels database.Store[models.Hotel]
	proofs *Resource[models.Booking, *models.Booking]
}

func (b *Bookings) List(ctx context.Context, f database.Filter) ([]models.Booking, error) {
	return b.store.List(ctx, f)
}

func (b *Bookings) Get(ctx context.Context, id int64) (*models.Booking, error) {
	return b.store.Get(ctx, id)
}

// Create books the referenced hotel. The hotel's name is copied into the
// booking and the total is the nightly price times the number of nights.
func (b *Bookings) Create(ctx context.Context, bk *models.Booking) error {
	if err := bk.Validate(); err != nil {
		return invalid(err)
	}
	hotel, err := b.hotels.Get(ctx, bk.HotelID)
	if errors.Is(err, database.ErrNotFound) {
		return invalid(errors.Errorf("hotel %d does not exist", bk.HotelID))
	}
	if err != nil {
		return err
	}

	total, err := totalPrice(hotel.Price, bk)
	if err != nil {
		return err
	}
	bk.HotelName = hotel.Name
	bk.TotalPrice = total
	bk.Status = models.StatusPending
	bk.ProofURL = ""
	return b.store.Create(ctx, bk)
}

// Update overwrites the guest details and dates and recomputes the total.
// The hotel, status and proof of payment are kept.
func (b *Bookings) Update(ctx context.Context, id int64, bk *models.Booking) error {
	current, err := b.store.Get(ctx, id)
	if err != nil {
		return err
	}
	bk.ID = id
	bk.HotelID = current.HotelID
	if err := bk.Validate(); err != nil {
		return invalid(err)
	}

	rate, err := b.nightlyRate(ctx, current)
	if err != nil {
		return err
	}
	total, err := totalPrice(rate, bk)
	if err != nil {
		return err
	}
	bk.TotalPrice = total
	return b.store.Update(ctx, bk)
}

// totalPrice is the nightly rate times the booking's nights.
func totalPrice(rate models.Price, bk *models.Booking) (models.Price, error) {
	nights, err := bk.Nights()
	if err != nil {
		return 0, invalid(err)
	}
	total, err := rate.Times(nights)
	if err != nil {
		return 0, invalid(err)
	}
	return total, nil
}

// nightlyRate is the hotel's current price, or the rate implied by the
// existing booking when the hotel has since been deleted.
func (b *Bookings) nightlyRate(ctx context.Context, current *models.Booking) (models.Price, error) {
	hotel, err := b.hotels.Get(ctx, current.HotelID)
	if err == nil {
		return hotel.Price, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return 0, err
	}
	nights, err := current.Nights()
	if err != nil {
		return 0, errors.Wrapf(err, "booking %d has no usable stay to derive a rate from", current.ID)
	}
	return current.TotalPrice / models.Price(nights), nil
}

func (b *Bookings) Delete(ctx context.Context, id int64) error {
	return b.proofs.Delete(ctx, id)
}

// Confirm moves a pending booking to confirmed.
func (b *Bookings) Confirm(ctx context.Context, id int64) (*models.Booking, error) {
	return b.store.UpdateStatus(ctx, id, models.StatusPending, models.StatusConfirmed)
}

// UploadProof stores a proof-of-payment image for the booking, replacing any
// earlier one.
func (b *Bookings) UploadProof(ctx context.Context, id int64, img *storage.Image) (*models.Booking, error) {
	if img == nil {
		return nil, invalid(errors.New("image is required"))
	}
	current, err := b.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := current.ProofURL

	object, err := b.proofs.upload(ctx, current, img)
	if err != nil {
		return nil, err
	}
	updated, err := b.store.SetProof(ctx, id, current.ProofURL)
	if err != nil {
		b.proofs.discard(object)
		return nil, err
	}
	b.proofs.discardURL(previous)
	return updated, nil
}
