package models

import "time"

type Promo struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title" validate:"required,notblank"`
	Description string    `db:"description" json:"description"`
	Discount    int       `db:"discount" json:"discount" validate:"gte=0,lte=100"` // percent
	ValidUntil  string    `db:"valid_until" json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	Price       Price     `db:"price" json:"price"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	UserID      string    `db:"user_id" json:"user_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (p *Promo) Validate() error {
	return Check(p)
}

func (p *Promo) MediaURL() string       { return p.ImageURL }
func (p *Promo) SetMediaURL(url string) { p.ImageURL = url }
func (p *Promo) Owner() string          { return p.UserID }
func (p *Promo) SetOwner(id string)     { p.UserID = id }
func (p *Promo) SetID(id int64)         { p.ID = id }
