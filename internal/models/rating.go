package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RatingValue is one sub-rating exactly as it was submitted. Browsers post
// form values as strings, API clients post numbers, and old files contain
// both, so the raw JSON is kept and interpreted on read.
type RatingValue struct {
	raw json.RawMessage
}

// maxExactInt is the largest float64 below which every integer is exact.
const maxExactInt = 1 << 53

// NewRating builds a numeric rating.
func NewRating(n int) RatingValue {
	return RatingValue{raw: json.RawMessage(strconv.Itoa(n))}
}

// RawRating wraps an arbitrary JSON value, e.g. `"4"` or `"n/a"`.
func RawRating(raw string) RatingValue {
	return RatingValue{raw: json.RawMessage(raw)}
}

// Int returns the leading integer of the value: strings are read like
// "  4 stars" -> 4, numbers are truncated toward zero. ok is false when no
// integer can be read (missing, null, "abc", objects) and for numbers too
// large to be held exactly, like 1e300.
func (r RatingValue) Int() (n int, ok bool) {
	raw := bytes.TrimSpace(r.raw)
	if len(raw) == 0 {
		return 0, false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		return leadingInt(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || math.IsNaN(f) || math.Abs(f) > maxExactInt {
			return 0, false
		}
		return int(math.Trunc(f)), true
	default:
		return 0, false
	}
}

// IsSet reports whether any value was submitted.
func (r RatingValue) IsSet() bool {
	raw := bytes.TrimSpace(r.raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func (r RatingValue) MarshalJSON() ([]byte, error) {
	if len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

func (r *RatingValue) UnmarshalJSON(data []byte) error {
	r.raw = append(r.raw[:0:0], data...)
	return nil
}

// leadingInt reads an optional sign followed by decimal digits after leading
// whitespace, ignoring whatever follows.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
