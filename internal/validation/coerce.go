// Package validation holds the loose input coercion rules for the API.
// The web client is not strict about numeric types, so integer fields
// arrive either as JSON numbers or as digit strings and both must be
// accepted.
package validation

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrNotAnInteger is returned when a value cannot be coerced to an integer
var ErrNotAnInteger = errors.New("value is not an integer")

// CoerceInt interprets a raw JSON value as an integer. Accepts integral
// JSON numbers and strings of digits; everything else, including
// fractional numbers and a missing value, fails.
func CoerceInt(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, ErrNotAnInteger
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		n, err := num.Int64()
		if err != nil {
			return 0, ErrNotAnInteger
		}
		return int(n), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, ErrNotAnInteger
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrNotAnInteger
	}
	return n, nil
}
