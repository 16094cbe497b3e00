package core

import (
	"math"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"quoted_decimal", `"43210.12000000"`, "43210.12000000"},
		{"bare_decimal", `43210.12`, "43210.12"},
		{"bare_integer", `125`, "125"},
		{"quoted_negative", `"-0.5"`, "-0.5"},
		{"empty_string", `""`, "0"},
		{"null", `null`, "0"},
		{"exponent", `1e-8`, "0.00000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, sonic.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestNumber_UnmarshalJSON_Invalid(t *testing.T) {
	var n Number
	assert.Error(t, n.UnmarshalJSON([]byte(`"abc"`)))
	assert.Error(t, n.UnmarshalJSON([]byte(`true`)))

	for _, raw := range []string{`"NaN"`, `"Infinity"`, `"-Inf"`, `"sNaN"`} {
		t.Run(raw, func(t *testing.T) {
			var n Number
			assert.ErrorIs(t, n.UnmarshalJSON([]byte(raw)), ErrInvalidParameter)
			assert.True(t, n.IsZero())
		})
	}
}

func TestNumber_InStructDefaultsMissingFields(t *testing.T) {
	var out struct {
		Price    Number `json:"price"`
		Quantity Number `json:"quantity"`
		Stop     Number `json:"stopPrice"`
	}
	require.NoError(t, sonic.Unmarshal([]byte(`{"price":"1.5","quantity":2}`), &out))

	assert.Equal(t, 1.5, out.Price.Float64())
	assert.Equal(t, 2.0, out.Quantity.Float64())
	assert.True(t, out.Stop.IsZero())
}

func TestNumber_MarshalJSON(t *testing.T) {
	data, err := sonic.Marshal(struct {
		Price Number `json:"price"`
	}{Price: MustNumber("0.00100000")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"0.00100000"}`, string(data))
}

func TestNumber_Constructors(t *testing.T) {
	n, err := NewNumber("12.5")
	require.NoError(t, err)
	assert.Equal(t, 12.5, n.Float64())

	empty, err := NewNumber("")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = NewNumber("x")
	assert.Error(t, err)
	_, err = NewNumber("NaN")
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.True(t, NumberFromFloat(math.Inf(1)).IsZero())
	assert.True(t, NumberFromFloat(math.NaN()).IsZero())

	assert.Panics(t, func() { MustNumber("x") })
	assert.Equal(t, "0.25", NumberFromFloat(0.25).String())
	assert.Equal(t, "20", NumberFromInt(20).String())
	assert.True(t, MustNumber("1.0").Equal(MustNumber("1")))
	assert.False(t, MustNumber("1.1").Equal(MustNumber("1")))
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Timestamp
	}{
		{"number", `1700000000123`, 1700000000123},
		{"string", `"1700000000123"`, 1700000000123},
		{"float", `1.7e12`, 1700000000000},
		{"empty", `""`, 0},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, sonic.Unmarshal([]byte(tt.input), &ts))
			assert.Equal(t, tt.want, ts)
		})
	}

	var ts Timestamp
	assert.Error(t, ts.UnmarshalJSON([]byte(`"yesterday"`)))
}

func TestTimestamp_Time(t *testing.T) {
	ts := Timestamp(1700000000123)
	assert.Equal(t, time.UnixMilli(1700000000123), ts.Time())
	assert.Equal(t, int64(1700000000123), ts.Int64())
	assert.True(t, Timestamp(0).Time().IsZero())
	assert.Equal(t, ts, TimestampFromTime(ts.Time()))
	assert.Equal(t, Timestamp(0), TimestampFromTime(time.Time{}))
}
