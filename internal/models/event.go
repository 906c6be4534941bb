package models

import "time"

type Event struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,notblank"`
	Location    string    `db:"location" json:"location"`
	Date        string    `db:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description string    `db:"description" json:"description"`
	Price       Price     `db:"price" json:"price"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	UserID      string    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (e *Event) Validate() error {
	return Check(e)
}

func (e *Event) MediaURL() string       { return e.ImageURL }
func (e *Event) SetMediaURL(url string) { e.ImageURL = url }
func (e *Event) Owner() string          { return e.UserID }
func (e *Event) SetOwner(id string)     { e.UserID = id }
func (e *Event) SetID(id int64)         { e.ID = id }
