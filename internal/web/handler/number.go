package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNumberMissing is returned for an absent or null value.
	ErrNumberMissing = errors.New("value is required")
	// ErrNotANumber is returned for values that do not parse to a finite number.
	ErrNotANumber = errors.New("value must be a number")
)

// ParseNumber parses a JSON value that is either a number or a string holding one.
// Booleans, objects, arrays, NaN and infinities are rejected.
func ParseNumber(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrNumberMissing
	}

	var s string

	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrNotANumber
		}

		s = strings.TrimSpace(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		s = string(raw)
	default:
		return 0, ErrNotANumber
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}

	return v, nil
}

// ParseOptionalNumber is ParseNumber with a missing value read as zero.
func ParseOptionalNumber(raw json.RawMessage) (float64, error) {
	v, err := ParseNumber(raw)
	if errors.Is(err, ErrNumberMissing) {
		return 0, nil
	}

	return v, err
}
