package externalmodel

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// FlexNumber holds a numeric field that the market API delivers either as a
// native JSON number or as a numeric string. The raw token is kept verbatim;
// coercion happens once, in the mapper, and nothing past that boundary ever
// sees the union.
type FlexNumber string

func (f *FlexNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexNumber(s)
		return nil
	}
	*f = FlexNumber(b)
	return nil
}

func (f FlexNumber) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// Float64 coerces the raw token. Absent fields coerce to 0; malformed tokens
// coerce to NaN and propagate, the upstream is trusted not to send them.
func (f FlexNumber) Float64() float64 {
	if f == "" {
		return 0
	}
	d, err := decimal.NewFromString(string(f))
	if err != nil {
		return math.NaN()
	}
	return d.InexactFloat64()
}

// FlexTime holds a timestamp the market API delivers either as Unix seconds
// (number or numeric string) or as an ISO-8601 string.
type FlexTime string

func (f *FlexTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexTime(s)
		return nil
	}
	*f = FlexTime(b)
	return nil
}

func (f FlexTime) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// Iso returns the timestamp as an ISO-8601 (RFC 3339) string in UTC. Unix
// seconds are converted; ISO inputs are normalized. Anything unparseable is
// passed through untouched.
func (f FlexTime) Iso() string {
	if f == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, string(f)); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	if sec, err := strconv.ParseFloat(string(f), 64); err == nil {
		return time.Unix(int64(sec), 0).UTC().Format(time.RFC3339)
	}
	return string(f)
}
