package explorer

import (
	"math"
	"sort"
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// CaptiveMode selects units by their captive flag.
type CaptiveMode string

const (
	CaptiveAll CaptiveMode = "all"
	CaptiveYes CaptiveMode = "yes"
	CaptiveNo  CaptiveMode = "no"
)

// ParseCaptiveMode accepts "", "all", "yes" and "no" in any case.
func ParseCaptiveMode(s string) (CaptiveMode, error) {
	switch CaptiveMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", CaptiveAll:
		return CaptiveAll, nil
	case CaptiveYes:
		return CaptiveYes, nil
	case CaptiveNo:
		return CaptiveNo, nil
	}
	return "", errors.Errorf(errors.ErrCodeFilterInvalid, "captive must be all, yes or no, got %q", s)
}

// FilterOptions are ANDed together. Empty sets and nil bounds are no-ops.
type FilterOptions struct {
	CapacityMin          *float64    `json:"capacity_min,omitempty"`
	CapacityMax          *float64    `json:"capacity_max,omitempty"`
	Countries            []string    `json:"countries,omitempty"`
	CombustionTech       []string    `json:"combustion_tech,omitempty"`
	CoalTypes            []string    `json:"coal_types,omitempty"`
	Subregions           []string    `json:"subregions,omitempty"`
	Captive              CaptiveMode `json:"captive,omitempty"`
	MaxRemainingLifetime *float64    `json:"max_remaining_lifetime,omitempty"`
}

// Validate rejects inverted ranges and unknown captive modes.
func (o FilterOptions) Validate() error {
	if o.CapacityMin != nil && o.CapacityMax != nil && *o.CapacityMin > *o.CapacityMax {
		return errors.New(errors.ErrCodeFilterInvalid, "capacity_min exceeds capacity_max")
	}
	switch o.Captive {
	case "", CaptiveAll, CaptiveYes, CaptiveNo:
	default:
		return errors.Errorf(errors.ErrCodeFilterInvalid, "unknown captive mode %q", o.Captive)
	}
	if o.MaxRemainingLifetime != nil && *o.MaxRemainingLifetime < 0 {
		return errors.New(errors.ErrCodeFilterInvalid, "max_remaining_lifetime must be >= 0")
	}
	return nil
}

// Matches reports whether u passes every predicate of o. Units without
// coordinates never match.
func Matches(u plant.PlantUnit, o FilterOptions) bool {
	if !u.HasCoordinates() {
		return false
	}
	if o.CapacityMin != nil && u.CapacityMW < *o.CapacityMin {
		return false
	}
	if o.CapacityMax != nil && u.CapacityMW > *o.CapacityMax {
		return false
	}
	if !inSet(o.Countries, u.Country) ||
		!inSet(o.CombustionTech, u.CombustionTechnology) ||
		!inSet(o.CoalTypes, u.CoalType) ||
		!inSet(o.Subregions, u.Subregion) {
		return false
	}
	switch o.Captive {
	case CaptiveYes:
		if !strings.EqualFold(strings.TrimSpace(u.Captive), "yes") {
			return false
		}
	case CaptiveNo:
		if strings.EqualFold(strings.TrimSpace(u.Captive), "yes") {
			return false
		}
	}
	if o.MaxRemainingLifetime != nil {
		// Unknown lifetime fails an "at most N years" ceiling.
		if u.RemainingLifetimeYears == nil || *u.RemainingLifetimeYears > *o.MaxRemainingLifetime {
			return false
		}
	}
	return true
}

func inSet(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Apply returns the units matching o in input order.
func Apply(units []plant.PlantUnit, o FilterOptions) []plant.PlantUnit {
	out := make([]plant.PlantUnit, 0, len(units))
	for _, u := range units {
		if Matches(u, o) {
			out = append(out, u)
		}
	}
	return out
}

// Facets are the distinct values available to populate filter controls.
type Facets struct {
	Countries      []string `json:"countries"`
	CombustionTech []string `json:"combustion_tech"`
	CoalTypes      []string `json:"coal_types"`
	Subregions     []string `json:"subregions"`
	CapacityMin    float64  `json:"capacity_min"`
	CapacityMax    float64  `json:"capacity_max"`
}

// FacetValues collects sorted distinct values over units with coordinates.
func FacetValues(units []plant.PlantUnit) Facets {
	countries := map[string]bool{}
	tech := map[string]bool{}
	coal := map[string]bool{}
	sub := map[string]bool{}
	minCap, maxCap := math.Inf(1), math.Inf(-1)

	for _, u := range units {
		if !u.HasCoordinates() {
			continue
		}
		add(countries, u.Country)
		add(tech, u.CombustionTechnology)
		add(coal, u.CoalType)
		add(sub, u.Subregion)
		minCap = math.Min(minCap, u.CapacityMW)
		maxCap = math.Max(maxCap, u.CapacityMW)
	}

	f := Facets{
		Countries:      sortedKeys(countries),
		CombustionTech: sortedKeys(tech),
		CoalTypes:      sortedKeys(coal),
		Subregions:     sortedKeys(sub),
	}
	if !math.IsInf(minCap, 1) {
		f.CapacityMin, f.CapacityMax = minCap, maxCap
	}
	return f
}

func add(set map[string]bool, v string) {
	if v != "" {
		set[v] = true
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

//Personal.AI order the ending
