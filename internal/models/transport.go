package models

import (
	"strings"
	"time"
)

type Transport struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,notblank"`
	Type        string    `db:"type" json:"type" validate:"oneof=bus train plane ship car"`
	Origin      string    `db:"origin" json:"origin"`
	Destination string    `db:"destination" json:"destination"`
	Departure   string    `db:"departure" json:"departure"`
	Price       Price     `db:"price" json:"price"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	UserID      string    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (t *Transport) Validate() error {
	t.Type = strings.ToLower(strings.TrimSpace(t.Type))
	return Check(t)
}

func (t *Transport) MediaURL() string       { return t.ImageURL }
func (t *Transport) SetMediaURL(url string) { t.ImageURL = url }
func (t *Transport) Owner() string          { return t.UserID }
func (t *Transport) SetOwner(id string)     { t.UserID = id }
func (t *Transport) SetID(id int64)         { t.ID = id }
