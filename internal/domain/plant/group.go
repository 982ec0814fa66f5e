package plant

// Group is one bucket produced by GroupBy. Representative is the first member
// seen.
type Group[T any] struct {
	Key            string
	Representative T
	Members        []T
}

// Groups is an insertion-ordered collection of groups.
type Groups[T any] struct {
	order []*Group[T]
	index map[string]*Group[T]
}

// GroupBy buckets items by key. Items for which key reports ok=false are
// skipped. Groups are returned in the order their first member appears.
func GroupBy[T any](items []T, key func(T) (string, bool)) *Groups[T] {
	g := &Groups[T]{index: make(map[string]*Group[T])}
	for _, it := range items {
		k, ok := key(it)
		if !ok {
			continue
		}
		grp, found := g.index[k]
		if !found {
			grp = &Group[T]{Key: k, Representative: it}
			g.index[k] = grp
			g.order = append(g.order, grp)
		}
		grp.Members = append(grp.Members, it)
	}
	return g
}

// Len returns the number of groups.
func (g *Groups[T]) Len() int { return len(g.order) }

// Keys returns group keys in first-seen order.
func (g *Groups[T]) Keys() []string {
	keys := make([]string, len(g.order))
	for i, grp := range g.order {
		keys[i] = grp.Key
	}
	return keys
}

// Get returns the group for key.
func (g *Groups[T]) Get(key string) (*Group[T], bool) {
	grp, ok := g.index[key]
	return grp, ok
}

// All returns the groups in first-seen order.
func (g *Groups[T]) All() []*Group[T] {
	out := make([]*Group[T], len(g.order))
	copy(out, g.order)
	return out
}

// SplitByGeometry partitions units into those with usable coordinates and
// those without, preserving order in both.
func SplitByGeometry(units []PlantUnit) (located, missing []PlantUnit) {
	for _, u := range units {
		if u.HasCoordinates() {
			located = append(located, u)
		} else {
			missing = append(missing, u)
		}
	}
	return located, missing
}

// BuildPlants folds units into plants by PlantKey. Units without coordinates
// contribute to no plant. Descriptive fields come from the first unit seen;
// capacity is the sum over all members.
func BuildPlants(units []PlantUnit) []Plant {
	groups := GroupBy(units, func(u PlantUnit) (string, bool) {
		if !u.HasCoordinates() {
			return "", false
		}
		return u.Key(), true
	})

	plants := make([]Plant, 0, groups.Len())
	for _, grp := range groups.order {
		rep := grp.Representative
		p := Plant{
			Key:                  grp.Key,
			Name:                 rep.PlantName,
			Latitude:             *rep.Latitude,
			Longitude:            *rep.Longitude,
			Country:              rep.Country,
			Status:               rep.Status,
			StatusLabel:          rep.StatusLabel,
			Owner:                rep.Owner,
			CombustionTechnology: rep.CombustionTechnology,
			CoalType:             rep.CoalType,
			Subregion:            rep.Subregion,
			Captive:              rep.Captive,
			StartYear:            rep.StartYear,
			UnitDetails:          make([]UnitDetail, 0, len(grp.Members)),
		}
		for _, m := range grp.Members {
			p.CapacityMW += m.CapacityMW
			p.UnitDetails = append(p.UnitDetails, UnitDetail{UnitName: m.UnitName, CapacityMW: m.CapacityMW})
		}
		plants = append(plants, p)
	}
	return plants
}

//Personal.AI order the ending
