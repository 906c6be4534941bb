// Package service holds the catalog and booking operations that span the
// database and object storage.
package service

import (
	"go.uber.org/zap"

	"travel-booking/internal/config"
	"travel-booking/internal/database"
	"travel-booking/internal/models"
	"travel-booking/internal/storage"
)

type (
	Destinations = Resource[models.Destination, *models.Destination]
	Hotels       = Resource[models.Hotel, *models.Hotel]
	Events       = Resource[models.Event, *models.Event]
	Promos       = Resource[models.Promo, *models.Promo]
	Transports   = Resource[models.Transport, *models.Transport]
)

// Catalog groups every resource served by the API.
type Catalog struct {
	Destinations *Destinations
	Hotels       *Hotels
	Events       *Events
	Promos       *Promos
	Transports   *Transports
	Bookings     *Bookings
}

func New(db database.Service, media storage.Service, buckets config.Buckets, log *zap.Logger) *Catalog {
	return &Catalog{
		Destinations: NewResource[models.Destination](db.Destinations(), media, buckets.Destinations, log),
		Hotels:       NewResource[models.Hotel](db.Hotels(), media, buckets.Hotels, log),
		Events:       NewResource[models.Event](db.Events(), media, buckets.Events, log),
		Promos:       NewResource[models.Promo](db.Promos(), media, buckets.Promos, log),
		Transports:   NewResource[models.Transport](db.Transports(), media, buckets.Transports, log),
		Bookings: &Bookings{
			store:  db.Bookings(),
			hotels: db.Hotels(),
			proofs: NewResource[models.Booking](db.Bookings(), media, buckets.Proofs, log),
		},
	}
}
