package relief

import "math"

// Claims maps category name to the raw claim value: an amount for Fixed
// categories, a unit count for PerUnit ones. Keys outside the registry are
// ignored.
type Claims map[string]float64

// Line is the relief granted for one category.
type Line struct {
	Category string  `json:"category"`
	Claimed  float64 `json:"claimed"`
	Allowed  float64 `json:"allowed"`
}

// Summary is the result of applying a set of claims.
type Summary struct {
	Base  float64 `json:"base"`
	Lines []Line  `json:"lines,omitempty"`
	Total float64 `json:"total"`
}

// Allowance returns the relief a single claim value earns in category c.
// Claim values are expected to be non-negative; Fixed claims are not clamped
// from below.
func (c Category) Allowance(value float64) float64 {
	switch c.Mode {
	case PerUnit:
		units := math.Min(math.Floor(value), float64(c.MaxUnits))
		return units * c.Cap
	default:
		return math.Min(value, c.Cap)
	}
}

// Apply grants relief for claims and reports one line per recognised
// category, in registry order.
func (r *Registry) Apply(claims Claims) Summary {
	s := Summary{Base: BaseRelief, Total: BaseRelief}
	for _, c := range r.categories {
		value, ok := claims[c.Name]
		if !ok {
			continue
		}
		allowed := c.Allowance(value)
		s.Lines = append(s.Lines, Line{Category: c.Name, Claimed: value, Allowed: allowed})
		s.Total += allowed
	}
	return s
}

// Aggregate returns the total relief for claims, base relief included.
func (r *Registry) Aggregate(claims Claims) float64 {
	return r.Apply(claims).Total
}

// Aggregate applies the default registry.
func Aggregate(claims Claims) float64 {
	return defaultRegistry.Aggregate(claims)
}

// Apply applies the default registry.
func Apply(claims Claims) Summary {
	return defaultRegistry.Apply(claims)
}

// SpouseRelief reports whether a spouse with the given annual income
// qualifies, and the relief to claim if so. A qualifying spouse earns the
// full spouse cap.
func SpouseRelief(spouseIncome float64) (float64, bool) {
	if spouseIncome < 0 || spouseIncome > SpouseIncomeLimit {
		return 0, false
	}
	c, _ := defaultRegistry.Lookup(Spouse)
	return c.Cap, true
}
