package entry

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNonNegativeDecimal coerces raw form text into a non-negative number.
// Everything but digits and '.' is dropped and any decimal point after the
// first is removed ("1.2.3" -> 1.23). Empty or unparseable input yields 0.
func ParseNonNegativeDecimal(raw string) float64 {
	var b strings.Builder
	b.Grow(len(raw))
	seenDot := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" || clean == "." {
		return 0
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// isNegative reports whether raw text was typed as a negative number.
func isNegative(raw string) bool {
	raw = strings.TrimSpace(raw)
	return strings.HasPrefix(raw, "-") && ParseNonNegativeDecimal(raw) > 0
}

func isBlank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// sumDecimal adds quantities as decimals so that 0.1 + 0.2 is 0.3.
func sumDecimal(values ...float64) float64 {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.InexactFloat64()
}

func exceeds(distributed, loaded float64) bool {
	return decimal.NewFromFloat(distributed).GreaterThan(decimal.NewFromFloat(loaded))
}

// RawValue is form input that may arrive as a JSON string or a JSON number.
type RawValue string

func (r *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RawValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = RawValue(n.String())
	return nil
}

func (r RawValue) String() string { return string(r) }
