// Package catalog is the data-driven table of airplane models. Derived
// values such as the minimum runway length are computed once when a model
// enters the table and served from there.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/runwaysim/runways/internal/feasibility"
	"github.com/runwaysim/runways/pkg/core"
)

// maxSuggestDistance bounds how far a typo may be from a real model name.
const maxSuggestDistance = 3

// Strategy selects how a custom model list combines with the stock one.
type Strategy string

const (
	Replace Strategy = "replace"
	Add     Strategy = "add"
)

// ParseStrategy validates a strategy name. Empty means Add.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case "", Add:
		return Add, nil
	case Replace:
		return Replace, nil
	}
	return "", fmt.Errorf("unknown catalog strategy: %q", s)
}

// Catalog maps model names to specs. Lookups ignore case; iteration
// follows insertion order.
type Catalog struct {
	order []string
	specs map[string]core.Specs
}

// New builds a catalog from the given entries.
func New(entries ...core.Specs) *Catalog {
	c := &Catalog{specs: make(map[string]core.Specs, len(entries))}
	for _, s := range entries {
		c.put(s)
	}
	return c
}

// Default returns the stock catalog.
func Default() *Catalog {
	return New(builtin...)
}

func (c *Catalog) put(s core.Specs) {
	key := strings.ToLower(s.Model)
	s.MinRunwayLength = feasibility.MinRunwayLength(s)
	if _, ok := c.specs[key]; !ok {
		c.order = append(c.order, key)
	}
	c.specs[key] = s
}

// Len returns the number of models.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Models returns every entry in insertion order.
func (c *Catalog) Models() []core.Specs {
	out := make([]core.Specs, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.specs[k])
	}
	return out
}

// Names returns the canonical model names in insertion order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.specs[k].Model)
	}
	return out
}

// Lookup resolves a model by name. Unknown names come back as
// *core.UnknownModelError with the nearest match filled in.
func (c *Catalog) Lookup(name string) (core.Specs, error) {
	if s, ok := c.specs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return core.Specs{}, &core.UnknownModelError{Input: name, Suggestion: Suggest(name, c.Names())}
}

// Merge combines the catalog with custom entries and returns the result.
// Replace drops the stock models, Add overlays entries by name.
func (c *Catalog) Merge(strategy Strategy, entries []core.Specs) (*Catalog, error) {
	for _, s := range entries {
		if err := Validate(s); err != nil {
			return nil, err
		}
	}
	var out *Catalog
	switch strategy {
	case Replace:
		if len(entries) == 0 {
			return nil, errors.New("replace strategy needs at least one model")
		}
		out = New()
	case Add, "":
		out = New(c.Models()...)
	default:
		return nil, fmt.Errorf("unknown catalog strategy: %q", strategy)
	}
	for _, s := range entries {
		out.put(s)
	}
	return out, nil
}

// Cheapest returns the lowest priced model accepted by keep. Ties go to
// the earlier entry.
func (c *Catalog) Cheapest(keep func(core.Specs) bool) (core.Specs, bool) {
	var best core.Specs
	found := false
	for _, s := range c.Models() {
		if keep != nil && !keep(s) {
			continue
		}
		if !found || s.Price < best.Price {
			best = s
			found = true
		}
	}
	return best, found
}

// Validate rejects specs that would break the flight arithmetic.
func Validate(s core.Specs) error {
	switch {
	case strings.TrimSpace(s.Model) == "":
		return errors.New("airplane model name must not be empty")
	case s.MTOW <= 0:
		return fmt.Errorf("%s: mtow must be positive", s.Model)
	case s.CruiseSpeed <= 0:
		return fmt.Errorf("%s: cruise_speed must be positive", s.Model)
	case s.FuelCapacity <= 0:
		return fmt.Errorf("%s: fuel_capacity must be positive", s.Model)
	case s.FuelConsumption <= 0:
		return fmt.Errorf("%s: fuel_consumption must be positive", s.Model)
	case s.OperatingCost < 0:
		return fmt.Errorf("%s: operating_cost must not be negative", s.Model)
	case s.PayloadCapacity < 0 || s.PassengerCapacity < 0:
		return fmt.Errorf("%s: capacities must not be negative", s.Model)
	case s.Price <= 0:
		return fmt.Errorf("%s: purchase_price must be positive", s.Model)
	case s.Role == core.RoleCargo && s.PassengerCapacity > 0:
		return fmt.Errorf("%s: cargo models carry no passengers", s.Model)
	}
	return nil
}

// Suggest returns the name closest to input within a few edits, or "".
func Suggest(input string, names []string) string {
	in := strings.ToLower(strings.TrimSpace(input))
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, n := range names {
		d := levenshtein.ComputeDistance(in, strings.ToLower(n))
		if d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
