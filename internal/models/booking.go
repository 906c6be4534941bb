package models

import (
	"errors"
	"fmt"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
)

// Booking copies the hotel id and name at creation time; later hotel edits
// are not reflected.
type Booking struct {
	ID           int64         `db:"id" json:"id"`
	UserID       string        `db:"user_id" json:"user_id,omitempty"`
	HotelID      int64         `db:"hotel_id" json:"hotel_id" validate:"required"`
	HotelName    string        `db:"hotel_name" json:"hotel_name"`
	CustomerName string        `db:"customer_name" json:"customer_name" validate:"required,notblank"`
	CheckIn      string        `db:"check_in" json:"check_in"`
	CheckOut     string        `db:"check_out" json:"check_out"`
	Guests       int           `db:"guests" json:"guests" validate:"gte=1"`
	TotalPrice   Price         `db:"total_price" json:"total_price"`
	Status       BookingStatus `db:"status" json:"status"`
	ProofURL     string        `db:"proof_url" json:"proof_url,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

func (b *Booking) Validate() error {
	if err := Check(b); err != nil {
		return err
	}
	_, err := b.Nights()
	return err
}

// Nights is the number of nights between check-in and check-out.
func (b *Booking) Nights() (int, error) {
	in, err := time.Parse(DateLayout, b.CheckIn)
	if err != nil {
		return 0, fmt.Errorf("check_in must be a date in %s format", DateLayout)
	}
	out, err := time.Parse(DateLayout, b.CheckOut)
	if err != nil {
		return 0, fmt.Errorf("check_out must be a date in %s format", DateLayout)
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 0, errors.New("check_out must be after check_in")
	}
	return nights, nil
}

func (b *Booking) MediaURL() string       { return b.ProofURL }
func (b *Booking) SetMediaURL(url string) { b.ProofURL = url }
func (b *Booking) Owner() string          { return b.UserID }
func (b *Booking) SetOwner(id string)     { b.UserID = id }
func (b *Booking) SetID(id int64)         { b.ID = id }
