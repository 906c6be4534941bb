package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want Price
	}{
		{"150000", 150000},
		{"Rp 150.000", 150000},
		{"1,250.00", 1250},
		{"$12.5", 12},
		{"1.234.567", 1234567},
		{"IDR 1,000 - 1,400", 1000},
		{"100.", 100},
		{"Free", 0},
		{"", 0},
	}
	for _, c := range cases {
		got, err := ParsePrice(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	for _, in := range []string{
		"-5",
		"call us",
		"-Rp 1.000",
		"Rp -5.000",
		"IDR -150000",
		"$-20",
		"- free",
		"99999999999999999999",
	} {
		_, err := ParsePrice(in)
		assert.Error(t, err, in)
	}
}

// Price accepts both JSON numbers and strings, and always encodes as a number.
func TestPriceJSON(t *testing.T) {
	var d Destination
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Bali","price":"Rp 250.000"}`), &d))
	assert.Equal(t, Price(250000), d.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Bali","price":199.99}`), &d))
	assert.Equal(t, Price(199), d.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Bali","price":null}`), &d))
	assert.Equal(t, Price(0), d.Price)

	assert.Error(t, json.Unmarshal([]byte(`{"price":-3}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"price":-0.5}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"price":9223372036854775807.0}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"price":1e19}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"price":"Rp -5.000"}`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"price":true}`), &d))

	out, err := json.Marshal(Destination{Name: "Bali", Price: 42})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"price":42`)
}

func TestPriceScan(t *testing.T) {
	var p Price
	require.NoError(t, p.Scan(int64(7)))
	assert.Equal(t, Price(7), p)
	require.NoError(t, p.Scan([]byte("12")))
	assert.Equal(t, Price(12), p)
	require.NoError(t, p.Scan(nil))
	assert.Equal(t, Price(0), p)
	assert.Error(t, p.Scan(1.5))
}

func TestPriceTimes(t *testing.T) {
	cases := []struct {
		price   Price
		n       int
		want    Price
		wantErr bool
	}{
		{500000, 3, 1500000, false},
		{0, 10, 0, false},
		{42, 0, 0, false},
		{math.MaxInt64 / 2, 2, math.MaxInt64 - 1, false},
		{math.MaxInt64 / 2, 3, 0, true},
		{math.MaxInt64, 2, 0, true},
		{10, -1, 0, true},
	}
	for _, c := range cases {
		got, err := c.price.Times(c.n)
		if c.wantErr {
			assert.Error(t, err, "%d x %d", c.price, c.n)
			continue
		}
		require.NoError(t, err, "%d x %d", c.price, c.n)
		assert.Equal(t, c.want, got)
	}
}
