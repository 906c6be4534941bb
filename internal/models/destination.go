package models

import "time"

type Destination struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,notblank"`
	Location    string    `db:"location" json:"location"`
	Description string    `db:"description" json:"description"`
	Price       Price     `db:"price" json:"price"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	UserID      string    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (d *Destination) Validate() error {
	return Check(d)
}

func (d *Destination) MediaURL() string       { return d.ImageURL }
func (d *Destination) SetMediaURL(url string) { d.ImageURL = url }
func (d *Destination) Owner() string          { return d.UserID }
func (d *Destination) SetOwner(id string)     { d.UserID = id }
func (d *Destination) SetID(id int64)         { d.ID = id }
