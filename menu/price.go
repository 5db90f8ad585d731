package menu

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// PriceScale is the number of fractional digits kept for a price.
const PriceScale = 2

// Price is a fixed-point amount with two fractional digits.
// It serializes as a string ("5.50") in JSON and msgpack and maps to a
// NUMERIC column in the store.
type Price struct {
	d decimal.Decimal
}

// NewPrice rounds d to two fractional digits.
func NewPrice(d decimal.Decimal) Price {
	return Price{d: d.Round(PriceScale)}
}

// ParsePrice parses a decimal string such as "5.5" or "12.00".
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return NewPrice(d), nil
}

// MustParsePrice is ParsePrice for literals known to be valid.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Decimal returns the underlying value.
func (p Price) Decimal() decimal.Decimal {
	return p.d
}

// String formats the price with exactly two fractional digits.
func (p Price) String() string {
	return p.d.StringFixed(PriceScale)
}

// Equal reports whether both prices hold the same amount.
func (p Price) Equal(other Price) bool {
	return p.d.Equal(other.d)
}

// MarshalJSON always writes a quoted, two-digit string.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted strings and bare numbers.
func (p *Price) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}
	*p = NewPrice(d)
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (p Price) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(p.String())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (p *Price) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

// Scan implements sql.Scanner. SQLite hands back NUMERIC columns as float64,
// Postgres as a string; both are normalized to two digits.
func (p *Price) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("scan price: %w", err)
	}
	*p = NewPrice(d)
	return nil
}
