// Package relief aggregates claimed relief categories into one total relief
// figure.
//
// The category registry is a fixed table built at package init. Callers get
// copies; nothing in the registry changes at runtime.
package relief

import (
	"fmt"
	"strings"
)

// BaseRelief is the unconditional individual relief.
const BaseRelief = 9000.0

// MaxChildren caps the unit count of the child category.
const MaxChildren = 12

// Category names with special handling in the prompt flow.
const (
	Spouse = "spouse"
	Child  = "child"
)

// SpouseIncomeLimit is the highest spouse income that still qualifies for
// spouse relief.
const SpouseIncomeLimit = 4000.0

// Mode decides how a claim value turns into relief.
type Mode int

const (
	// Fixed: the claimed amount is capped at Cap and added once.
	Fixed Mode = iota
	// PerUnit: the claimed count is capped at MaxUnits and multiplied by Cap.
	PerUnit
)

func (m Mode) String() string {
	switch m {
	case Fixed:
		return "fixed"
	case PerUnit:
		return "per-unit"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText lets Mode render as its name in JSON output.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Category is one registry entry.
type Category struct {
	Name     string  `json:"name"`
	Cap      float64 `json:"cap"`
	Mode     Mode    `json:"mode"`
	MaxUnits int     `json:"max_units,omitempty"`
}

// Title is the display name, e.g. "Medical".
func (c Category) Title() string {
	if c.Name == "" {
		return ""
	}
	return strings.ToUpper(c.Name[:1]) + c.Name[1:]
}

// Registry is an immutable, ordered set of categories keyed by name.
type Registry struct {
	categories []Category
	byName     map[string]int
}

// NewRegistry builds a registry. Names must be unique and non-empty.
func NewRegistry(categories ...Category) (*Registry, error) {
	r := &Registry{
		categories: make([]Category, 0, len(categories)),
		byName:     make(map[string]int, len(categories)),
	}
	for i, c := range categories {
		if c.Name == "" {
			return nil, fmt.Errorf("category[%d]: name is required", i)
		}
		if _, dup := r.byName[c.Name]; dup {
			return nil, fmt.Errorf("category[%d]: duplicate name %q", i, c.Name)
		}
		if c.Mode == PerUnit && c.MaxUnits <= 0 {
			return nil, fmt.Errorf("category %q: per-unit categories need max units", c.Name)
		}
		r.byName[c.Name] = len(r.categories)
		r.categories = append(r.categories, c)
	}
	return r, nil
}

var defaultRegistry = mustRegistry(
	Category{Name: Spouse, Cap: 4000, Mode: Fixed},
	Category{Name: Child, Cap: 8000, Mode: PerUnit, MaxUnits: MaxChildren},
	Category{Name: "medical", Cap: 8000, Mode: Fixed},
	Category{Name: "lifestyle", Cap: 2500, Mode: Fixed},
	Category{Name: "education", Cap: 7000, Mode: Fixed},
	Category{Name: "parental", Cap: 5000, Mode: Fixed},
)

func mustRegistry(categories ...Category) *Registry {
	r, err := NewRegistry(categories...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry
}

// Categories returns the categories in registry order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Len returns the number of categories.
func (r *Registry) Len() int {
	return len(r.categories)
}

// At returns the category at 1-based menu position n.
func (r *Registry) At(n int) (Category, bool) {
	if n < 1 || n > len(r.categories) {
		return Category{}, false
	}
	return r.categories[n-1], true
}

// Lookup finds a category by name.
func (r *Registry) Lookup(name string) (Category, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}
