package interp

import (
	"math"
	"strconv"
)

// ToNumber coerces a value to a number. Strings convert by parsing the
// longest prefix that is a valid number (optional sign, digits, optional
// fraction, optional exponent); an empty or non-numeric string yields 0.
func ToNumber(v Value) float64 {
	switch v := toScalar(v).(type) {
	case *NumberValue:
		return v.Value
	case *StringValue:
		return parseNumberPrefix(v.Value)
	}
	return 0
}

// ToString coerces a value to its string form. Numbers render canonically;
// array nodes collapse to their self-value.
func ToString(v Value) string {
	return toScalar(v).String()
}

// ToBool coerces a value to a truth value: non-zero is true.
func ToBool(v Value) bool {
	return ToNumber(v) != 0
}

// formatNumber renders a float in canonical form: integers without a
// decimal point, otherwise the shortest decimal that round-trips, never in
// exponent notation. Division by zero produces IEEE infinities, which render
// as Inf and -Inf; NaN renders as NaN.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case f == 0:
		// Normalizes negative zero.
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// parseNumberPrefix parses the longest numeric prefix of s: optional sign,
// digits, optional fractional part, optional E exponent. No valid prefix
// yields 0.
func parseNumberPrefix(s string) float64 {
	i := 0
	n := len(s)

	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}

	if i < n && s[i] == '.' {
		mark := i
		i++
		fracDigits := 0
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
			fracDigits++
		}
		if fracDigits == 0 && digits == 0 {
			return 0
		}
		if fracDigits == 0 {
			i = mark
		}
		digits += fracDigits
	}

	if digits == 0 {
		return 0
	}

	if i < n && (s[i] == 'E' || s[i] == 'e') {
		mark := i
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
			expDigits++
		}
		if expDigits == 0 {
			i = mark
		}
	}

	f, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0
	}
	return f
}

// parseCanonicalNumber reports whether s is a number in its entirety and
// returns its value. Used by the collation order to separate numeric keys
// from string keys.
func parseCanonicalNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
