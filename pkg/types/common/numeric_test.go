package common

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
		ok   bool
	}{
		{"thousands separator", "1,234.5", 1234.5, true},
		{"currency with magnitude", "$45.6M", 45.6, true},
		{"percent", "12.5%", 12.5, true},
		{"lower-case suffix", "3k", 3, true},
		{"negative", "-7", -7, true},
		{"padded", "  42 ", 42, true},
		{"float", 1.5, 1.5, true},
		{"int", 300, 300, true},
		{"int64", int64(9), 9, true},
		{"json number", json.Number("2.25"), 2.25, true},
		{"nil", nil, 0, false},
		{"empty", "", 0, false},
		{"only symbols", "$,%", 0, false},
		{"suffix only", "M", 0, false},
		{"text", "n/a", 0, false},
		{"bool", true, 0, false},
		{"nan", math.NaN(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSumValue_DefaultsToZero(t *testing.T) {
	assert.Equal(t, 0.0, SumValue("unknown"))
	assert.Equal(t, 0.0, SumValue(nil))
	assert.Equal(t, 1234.5, SumValue("1,234.5"))
}

func TestFilterValue_ReportsFailure(t *testing.T) {
	_, ok := FilterValue(nil)
	assert.False(t, ok)
	_, ok = FilterValue("soon")
	assert.False(t, ok)
	v, ok := FilterValue("15")
	assert.True(t, ok)
	assert.Equal(t, 15.0, v)
}

//Personal.AI order the ending
