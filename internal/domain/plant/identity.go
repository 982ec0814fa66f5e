package plant

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a plant name for keying: Unicode NFC, trimmed,
// inner whitespace runs collapsed to one space. Case is kept.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}

// PlantKey is the identity of an aggregated plant. Coordinates are used
// verbatim, so "1.0" and "1.00" produce different plants.
func PlantKey(name, lat, lon string) string {
	return NormalizeName(name) + "_" + lat + "_" + lon
}

// TransactionPlantKey groups plants referenced by deals. Coordinates are
// rounded to three decimals to absorb jitter between hand-entered records.
func TransactionPlantKey(name string, lat, lng float64) string {
	return strings.ToLower(strings.TrimSpace(name)) + "_" + fixed3(lat) + "_" + fixed3(lng)
}

func fixed3(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	if s == "-0.000" {
		return "0.000"
	}
	return s
}

//Personal.AI order the ending
