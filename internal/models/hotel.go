package models

import "time"

type Hotel struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,notblank"`
	Location    string    `db:"location" json:"location"`
	Description string    `db:"description" json:"description"`
	Price       Price     `db:"price" json:"price"` // per night
	Rating      float64   `db:"rating" json:"rating" validate:"gte=0,lte=5"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	UserID      string    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (h *Hotel) Validate() error {
	return Check(h)
}

func (h *Hotel) MediaURL() string       { return h.ImageURL }
func (h *Hotel) SetMediaURL(url string) { h.ImageURL = url }
func (h *Hotel) Owner() string          { return h.UserID }
func (h *Hotel) SetOwner(id string)     { h.UserID = id }
func (h *Hotel) SetID(id int64)         { h.ID = id }
