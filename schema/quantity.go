package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Quantity is a numeric form value kept as the operator typed it.
// JSON input may be a number, a string or null; output is always a string.
type Quantity string

var (
	leadingIntRegex   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloatRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// UnmarshalJSON accepts numbers, strings and null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid quantity %s: %w", data, err)
		}
		*q = Quantity(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid quantity %s: %w", data, err)
	}
	*q = Quantity(n.String())
	return nil
}

// String returns the raw text.
func (q Quantity) String() string {
	return string(q)
}

// IsEmpty reports whether nothing was entered.
func (q Quantity) IsEmpty() bool {
	return strings.TrimSpace(string(q)) == ""
}

// Pieces reads the leading integer of the value ("12abc" is 12).
// Absent, unparsable, negative or non-finite values are 0.
func (q Quantity) Pieces() float64 {
	m := leadingIntRegex.FindString(strings.TrimSpace(string(q)))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return clampNonNegative(v)
}

// Kg reads the leading decimal number of the value ("2.5kg" is 2.5).
// Absent, unparsable, negative or non-finite values are 0.
func (q Quantity) Kg() float64 {
	m := leadingFloatRegex.FindString(strings.TrimSpace(string(q)))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return clampNonNegative(v)
}

func clampNonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
