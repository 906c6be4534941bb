// Package databasetest provides testify mocks of the database package
// interfaces.
package databasetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"travel-booking/internal/database"
	"travel-booking/internal/models"
)

// Store is a mock implementation of database.Store.
type Store[T any] struct {
	mock.Mock
}

func (m *Store[T]) List(ctx context.Context, f database.Filter) ([]T, error) {
	args := m.Called(f)
	out, _ := args.Get(0).([]T)
	return out, args.Error(1)
}

func (m *Store[T]) Get(ctx context.Context, id int64) (*T, error) {
	args := m.Called(id)
	rec, _ := args.Get(0).(*T)
	return rec, args.Error(1)
}

func (m *Store[T]) Create(ctx context.Context, rec *T) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *Store[T]) Update(ctx context.Context, rec *T) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *Store[T]) Delete(ctx context.Context, id int64) (*T, error) {
	args := m.Called(id)
	rec, _ := args.Get(0).(*T)
	return rec, args.Error(1)
}

// Bookings is a mock implementation of database.BookingStore.
type Bookings struct {
	Store[models.Booking]
}

func (m *Bookings) UpdateStatus(ctx context.Context, id int64, from, to models.BookingStatus) (*models.Booking, error) {
	args := m.Called(id, from, to)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *Bookings) SetProof(ctx context.Context, id int64, url string) (*models.Booking, error) {
	args := m.Called(id, url)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

// Database is a mock implementation of database.Service backed by one mock
// store per table.
type Database struct {
	DestinationStore *Store[models.Destination]
	HotelStore       *Store[models.Hotel]
	EventStore       *Store[models.Event]
	PromoStore       *Store[models.Promo]
	TransportStore   *Store[models.Transport]
	BookingStore     *Bookings

	URLs    []string
	URLsErr error
}

func NewDatabase() *Database {
	return &Database{
		DestinationStore: new(Store[models.Destination]),
		HotelStore:       new(Store[models.Hotel]),
		EventStore:       new(Store[models.Event]),
		PromoStore:       new(Store[models.Promo]),
		TransportStore:   new(Store[models.Transport]),
		BookingStore:     new(Bookings),
	}
}

func (d *Database) Health() map[string]string {
	return map[string]string{"status": "up"}
}

func (d *Database) Close() error {
	return nil
}

func (d *Database) Destinations() database.Store[models.Destination] { return d.DestinationStore }
func (d *Database) Hotels() database.Store[models.Hotel]             { return d.HotelStore }
func (d *Database) Events() database.Store[models.Event]             { return d.EventStore }
func (d *Database) Promos() database.Store[models.Promo]             { return d.PromoStore }
func (d *Database) Transports() database.Store[models.Transport]     { return d.TransportStore }
func (d *Database) Bookings() database.BookingStore                  { return d.BookingStore }

func (d *Database) ImageURLs(ctx context.Context) ([]string, error) {
	return d.URLs, d.URLsErr
}
