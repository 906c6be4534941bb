package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingNights(t *testing.T) {
	b := Booking{CheckIn: "2025-03-01", CheckOut: "2025-03-04"}
	n, err := b.Nights()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	b.CheckOut = "2025-03-01"
	_, err = b.Nights()
	assert.EqualError(t, err, "check_out must be after check_in")

	b.CheckIn = "03/01/2025"
	_, err = b.Nights()
	assert.Error(t, err)
}

func TestBookingValidate(t *testing.T) {
	b := Booking{HotelID: 1, CustomerName: "Ana", Guests: 2, CheckIn: "2025-03-01", CheckOut: "2025-03-02"}
	assert.NoError(t, b.Validate())

	missingHotel := b
	missingHotel.HotelID = 0
	assert.EqualError(t, missingHotel.Validate(), "hotel_id is required")

	noGuests := b
	noGuests.Guests = 0
	assert.EqualError(t, noGuests.Validate(), "guests must be at least 1")
}

func TestCatalogValidate(t *testing.T) {
	assert.EqualError(t, (&Destination{}).Validate(), "name is required")
	assert.EqualError(t, (&Hotel{Name: "Inn", Rating: 6}).Validate(), "rating must be at most 5")
	assert.Error(t, (&Event{Name: "Fest", Date: "tomorrow"}).Validate())
	assert.NoError(t, (&Event{Name: "Fest", Date: "2025-08-17"}).Validate())
	assert.EqualError(t, (&Promo{Title: "Sale", Discount: 120}).Validate(), "discount must be at most 100")

	tr := Transport{Name: "Night Express", Type: " Train "}
	require.NoError(t, tr.Validate())
	assert.Equal(t, "train", tr.Type)
	assert.Error(t, (&Transport{Name: "Ferry", Type: "rocket"}).Validate())
}

func TestCheck(t *testing.T) {
	cases := []struct {
		rec  any
		want string
	}{
		{&Destination{Name: "   "}, "name is required"},
		{&Hotel{Name: "Inn", Rating: -1}, "rating must be at least 0"},
		{&Event{Name: "Fest", Date: "17/08/2025"}, "date must be a date in 2006-01-02 format"},
		{&Promo{Title: "Sale", Discount: -5}, "discount must be at least 0"},
		{&Promo{Title: "Sale", ValidUntil: "soon"}, "valid_until must be a date in 2006-01-02 format"},
		{&Transport{Name: "Ferry", Type: "rocket"}, "type must be one of bus, train, plane, ship, car"},
		{&Booking{HotelID: 1, Guests: 1}, "customer_name is required"},
	}
	for _, c := range cases {
		assert.EqualError(t, Check(c.rec), c.want)
	}

	assert.NoError(t, Check(&Promo{Title: "Sale", Discount: 100, ValidUntil: "2025-12-31"}))
	assert.NoError(t, Check(&Event{Name: "Fest"}), "date is optional")
}
