package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Price is an amount in whole currency units. Clients send it either as a
// JSON number or as a display string such as "Rp 150.000" or "1,250.00";
// it is always written back as a number.
type Price int64

var reAmount = regexp.MustCompile(`\d[\d.,]*`)

// ParsePrice reads a price from free-form text. Currency symbols and words
// are ignored, three-digit groups separated by "," or "." are thousands and
// a trailing one or two digit fraction is dropped. "free" reads as zero.
func ParsePrice(s string) (Price, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return 0, nil
	}

	loc := reAmount.FindStringIndex(t)
	if loc == nil {
		if strings.HasPrefix(t, "-") {
			return 0, fmt.Errorf("price %q is negative", s)
		}
		if strings.Contains(t, "free") || strings.Contains(t, "gratis") {
			return 0, nil
		}
		return 0, fmt.Errorf("price %q has no amount", s)
	}
	// A sign anywhere before the amount, as in "Rp -5.000" or "$-20".
	if strings.Contains(t[:loc[0]], "-") {
		return 0, fmt.Errorf("price %q is negative", s)
	}
	token := t[loc[0]:loc[1]]

	token = strings.TrimRight(token, ".,")
	if i := strings.LastIndexAny(token, ".,"); i >= 0 {
		if frac := len(token) - i - 1; frac == 1 || frac == 2 {
			token = token[:i]
		}
	}
	token = strings.NewReplacer(",", "", ".", "").Replace(token)

	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", s, err)
	}
	return Price(n), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*p = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n < 0 {
			return fmt.Errorf("price %d is negative", n)
		}
		*p = Price(n)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("price %s is not a number", raw)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 can hold.
	if f < 0 || f >= math.MaxInt64 {
		return fmt.Errorf("price %s is out of range", raw)
	}
	*p = Price(f)
	return nil
}

// Times multiplies the price by n, failing instead of overflowing.
func (p Price) Times(n int) (Price, error) {
	if n < 0 {
		return 0, fmt.Errorf("cannot multiply price by %d", n)
	}
	if n != 0 && int64(p) > math.MaxInt64/int64(n) {
		return 0, fmt.Errorf("price %d times %d is out of range", p, n)
	}
	return p * Price(n), nil
}

// Value stores the price as BIGINT.
func (p Price) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *Price) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = 0
	case int64:
		*p = Price(v)
	case []byte:
		return p.scanString(string(v))
	case string:
		return p.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Price", src)
	}
	return nil
}

func (p *Price) scanString(s string) error {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*p = Price(n)
	return nil
}
