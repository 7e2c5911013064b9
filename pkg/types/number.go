package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by ParseNumber for non-numeric input.
var ErrNotANumber = errors.New("value is not a number")

// ParseNumber decodes a raw JSON value that may be a number or a numeric
// string. Absent or null values return nil.
func ParseNumber(raw json.RawMessage) (*float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ErrNotANumber
	}
	v, err := ParseNumberString(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseNumberString parses a finite decimal number, ignoring surrounding
// whitespace. NaN and infinities return ErrNotANumber.
func ParseNumberString(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}
	return v, nil
}

func numberJSON(v float64) json.RawMessage {
	return json.RawMessage(strconv.FormatFloat(v, 'f', -1, 64))
}

// NumberOrNull encodes v as a raw JSON number, or null when v is nil.
func NumberOrNull(v *float64) json.RawMessage {
	if v == nil {
		return json.RawMessage("null")
	}
	return numberJSON(*v)
}
