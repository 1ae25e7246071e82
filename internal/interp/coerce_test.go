package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"", 0},
		{"abc", 0},
		{"12", 12},
		{"12abc", 12},
		{"-3.5", -3.5},
		{"+7", 7},
		{"3.", 3},
		{".5", 0.5},
		{"2E3", 2000},
		{"2E", 2},
		{"2E+", 2},
		{"1e-2xyz", 0.01},
		{"--5", 0},
		{"-", 0},
		{".", 0},
		{"1.2.3", 1.2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseNumberPrefix(tt.input), "parseNumberPrefix(%q)", tt.input)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{21, "21"},
		{-1, "-1"},
		{2.5, "2.5"},
		{0.125, "0.125"},
		{1e6, "1000000"},
		{math.Inf(1), "Inf"},
		{math.Inf(-1), "-Inf"},
		{math.NaN(), "NaN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.input), "formatNumber(%v)", tt.input)
	}
}

func TestFormatNumberRoundTrips(t *testing.T) {
	for _, f := range []float64{1.0 / 3, 0.1, 1e-7, 123456.789} {
		s := formatNumber(f)
		assert.Equal(t, f, parseNumberPrefix(s), "round-trip of %v via %q", f, s)
	}
}

func TestToStringToNumber(t *testing.T) {
	assert.Equal(t, "hi", ToString(&StringValue{Value: "hi"}))
	assert.Equal(t, "3", ToString(&NumberValue{Value: 3}))
	assert.Equal(t, 3.0, ToNumber(&StringValue{Value: "3x"}))
	assert.Equal(t, 0.0, ToNumber(Empty))

	arr := NewArray()
	arr.Set("k", Empty)
	assert.Equal(t, "", ToString(arr))
	arr.Self = &NumberValue{Value: 9}
	assert.Equal(t, "9", ToString(arr))
	assert.Equal(t, 9.0, ToNumber(arr))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(&NumberValue{Value: 2}))
	assert.True(t, ToBool(&StringValue{Value: "1extra"}))
	assert.False(t, ToBool(&StringValue{Value: "x"}))
	assert.False(t, ToBool(Empty))
}

func TestCoercionIdempotenceOnNumerics(t *testing.T) {
	// Coercing a canonical numeric string through number and back is the
	// identity.
	for _, s := range []string{"0", "1", "-2", "3.5", "0.125", "1000000"} {
		n := parseNumberPrefix(s)
		assert.Equal(t, s, formatNumber(n), "canonical form of %q", s)
	}
}

func TestParseCanonicalNumber(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"1", true},
		{"-2.5", true},
		{"1e3", true},
		{"", false},
		{"1x", false},
		{"x", false},
		{"Inf", false},
		{"NaN", false},
	}
	for _, tt := range tests {
		_, ok := parseCanonicalNumber(tt.input)
		assert.Equal(t, tt.ok, ok, "parseCanonicalNumber(%q)", tt.input)
	}
}
