// Package economy prices every cash movement of the simulation and keeps
// the daily income/expense ledger.
package economy

import (
	"math"

	"github.com/runwaysim/runways/pkg/core"
)

// ResaleFraction is the share of the purchase price refunded on sale.
const ResaleFraction = 0.6

// LandingFee is charged once per arrival: base rate per tonne of MTOW.
func LandingFee(airport *core.Airport, specs core.Specs) float64 {
	return airport.LandingFee * (specs.MTOW / 1000)
}

// ParkingFee is the bill for hours spent parked at the airport.
func ParkingFee(airport *core.Airport, hours core.GameTime) float64 {
	return airport.ParkingFee * float64(hours)
}

// RefuelLitres is the amount needed to top the tank up.
func RefuelLitres(plane *core.Airplane) float64 {
	return math.Max(0, plane.Specs.FuelCapacity-plane.Fuel)
}

// FuelCost prices litres at the airport's live fuel price.
func FuelCost(airport *core.Airport, litres float64) float64 {
	return litres * airport.FuelPrice
}

// OperatingCost is the hourly running cost over a whole flight.
func OperatingCost(specs core.Specs, hours core.GameTime) float64 {
	return specs.OperatingCost * float64(hours)
}

// MaintenanceCost is one hour of operating cost.
func MaintenanceCost(specs core.Specs) float64 {
	return specs.OperatingCost
}

// SaleRefund is what selling a plane of this model returns.
func SaleRefund(specs core.Specs) float64 {
	return specs.Price * ResaleFraction
}

// Debit takes amount from the player's cash. It never lets cash go below
// zero.
func Debit(p *core.Player, amount float64) error {
	if amount > p.Cash {
		return &core.InsufficientFundsError{Have: p.Cash, Need: amount}
	}
	p.Cash -= amount
	return nil
}

// RoundCents rounds a money value to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
