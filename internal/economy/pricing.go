package economy

import (
	"errors"
	"math"

	"github.com/runwaysim/runways/pkg/core"
)

// ValidateFuel checks the pricing bounds.
func ValidateFuel(t core.FuelTuning) error {
	switch {
	case t.Elasticity <= 0 || t.Elasticity >= 1:
		return errors.New("fuel elasticity must be between 0 and 1")
	case t.MinMultiplier <= 0:
		return errors.New("fuel min_multiplier must be positive")
	case t.MaxMultiplier < t.MinMultiplier:
		return errors.New("fuel max_multiplier must be >= min_multiplier")
	}
	return nil
}

// PriceBounds returns the allowed fuel price interval for the airport.
func PriceBounds(a *core.Airport, t core.FuelTuning) (float64, float64) {
	return a.BaseFuelPrice * t.MinMultiplier, a.BaseFuelPrice * t.MaxMultiplier
}

// ClampPrice pulls price into the airport's bounds.
func ClampPrice(a *core.Airport, price float64, t core.FuelTuning) float64 {
	lo, hi := PriceBounds(a, t)
	return math.Max(lo, math.Min(hi, price))
}

// IdleDriftShare is the part of the elasticity an idle airport's price
// still rises by each tick.
const IdleDriftShare = 0.25

// PricingTick moves the airport's fuel price one step. Demand since the
// last tick pushes it up by the elasticity fraction; an idle airport drifts
// upward by IdleDriftShare of that fraction, so an unused pump never
// collapses toward zero. The result is clamped and the sold counter reset.
func PricingTick(a *core.Airport, t core.FuelTuning) {
	step := t.Elasticity
	if a.FuelSold <= 0 {
		step *= IdleDriftShare
	}
	a.FuelPrice = ClampPrice(a, a.FuelPrice*(1+step), t)
	a.FuelSold = 0
}

// ApplyShock multiplies the live price by factor, staying within bounds.
func ApplyShock(a *core.Airport, factor float64, t core.FuelTuning) {
	a.FuelPrice = ClampPrice(a, a.FuelPrice*factor, t)
}
