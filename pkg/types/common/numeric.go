package common

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// numericNoise is the set of formatting characters removed before parsing.
var numericNoise = strings.NewReplacer("$", "", ",", "", "%", "", " ", "", "\u00a0", "")

// ParseNumber converts a display-formatted scalar into a float. Strings may
// carry "$", thousands separators, "%" and a trailing magnitude letter
// (K, M or B); the letter is dropped, not applied, so "$45.6M" parses as 45.6.
// ok is false for nil, booleans, empty strings and anything else that does
// not parse to a finite number.
func ParseNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		return parseNumericString(string(n))
	case string:
		return parseNumericString(n)
	case []byte:
		return parseNumericString(string(n))
	default:
		return 0, false
	}
}

func parseNumericString(s string) (float64, bool) {
	s = numericNoise.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	switch s[len(s)-1] {
	case 'K', 'k', 'M', 'm', 'B', 'b':
		s = s[:len(s)-1]
	}
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SumValue is the summation policy: unparsable values count as 0.
func SumValue(v interface{}) float64 {
	f, _ := ParseNumber(v)
	return f
}

// FilterValue is the filter policy: ok is false when the value cannot be
// parsed and the caller must treat the row as failing the predicate.
func FilterValue(v interface{}) (float64, bool) {
	return ParseNumber(v)
}

//Personal.AI order the ending
