package core

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/apd/v3"
)

var (
	jsonNull        = []byte("null")
	jsonEmptyString = []byte(`""`)
)

// Number is a decimal value decoded from either a JSON number or a quoted
// numeric string. Empty strings and null decode to zero, so optional numeric
// fields that are absent or blank read as 0.
type Number struct {
	apd.Decimal
}

// NewNumber parses s into a Number.
func NewNumber(s string) (Number, error) {
	var n Number
	if s == "" {
		return n, nil
	}
	if err := n.parse(s); err != nil {
		return Number{}, fmt.Errorf("parse number %q: %w", s, err)
	}
	return n, nil
}

// parse accepts finite decimals only; apd would otherwise take "NaN" and
// "Infinity".
func (n *Number) parse(s string) error {
	if _, _, err := n.Decimal.SetString(s); err != nil {
		return err
	}
	if n.Decimal.Form != apd.Finite {
		n.Decimal = apd.Decimal{}
		return fmt.Errorf("%w: non-finite value", ErrInvalidParameter)
	}
	return nil
}

// MustNumber is like NewNumber but panics on malformed input. Intended for
// constants and tests.
func MustNumber(s string) Number {
	n, err := NewNumber(s)
	if err != nil {
		panic(err)
	}
	return n
}

// NumberFromFloat converts f to a Number. NaN and infinities convert to zero.
func NumberFromFloat(f float64) Number {
	var n Number
	if _, err := n.Decimal.SetFloat64(f); err != nil || n.Decimal.Form != apd.Finite {
		return Number{}
	}
	return n
}

// NumberFromInt converts i to a Number.
func NumberFromInt(i int64) Number {
	var n Number
	n.Decimal.SetInt64(i)
	return n
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) || bytes.Equal(data, jsonEmptyString) {
		n.Decimal = apd.Decimal{}
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("number: %w", err)
		}
		raw = unquoted
	}

	if err := n.parse(raw); err != nil {
		return fmt.Errorf("number %q: %w", raw, err)
	}
	return nil
}

// MarshalJSON encodes the value as a quoted string, the form the exchange
// uses for prices and quantities.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(n.Text())), nil
}

// Text returns the value in plain decimal notation without exponent.
func (n Number) Text() string {
	return n.Decimal.Text('f')
}

// String implements fmt.Stringer.
func (n Number) String() string {
	return n.Text()
}

// Float64 converts to float64. Precision loss is possible.
func (n Number) Float64() float64 {
	f, _ := n.Decimal.Float64()
	return f
}

// IsZero reports whether the value equals zero.
func (n Number) IsZero() bool {
	return n.Decimal.IsZero()
}

// Equal reports whether both values are numerically equal.
func (n Number) Equal(other Number) bool {
	return n.Decimal.Cmp(&other.Decimal) == 0
}

// Timestamp is an epoch time in milliseconds decoded from a JSON number or a
// numeric string.
type Timestamp int64

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) || bytes.Equal(data, jsonEmptyString) {
		*t = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		raw = unquoted
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return fmt.Errorf("timestamp %q: %w", raw, err)
		}
		ms = int64(f)
	}
	*t = Timestamp(ms)
	return nil
}

// Time converts to time.Time. Zero maps to the zero time.
func (t Timestamp) Time() time.Time {
	if t == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(t))
}

// Int64 returns the raw millisecond value.
func (t Timestamp) Int64() int64 {
	return int64(t)
}

// TimestampFromTime converts a time.Time to epoch milliseconds.
func TimestampFromTime(tm time.Time) Timestamp {
	if tm.IsZero() {
		return 0
	}
	return Timestamp(tm.UnixMilli())
}
