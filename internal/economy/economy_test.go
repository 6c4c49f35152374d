package economy

import (
	"testing"

	"github.com/runwaysim/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAirport() *core.Airport {
	return &core.Airport{
		ID:            1,
		LandingFee:    2.5,
		ParkingFee:    10,
		BaseFuelPrice: 1.0,
		FuelPrice:     1.0,
	}
}

func TestLandingFee(t *testing.T) {
	fee := LandingFee(testAirport(), core.Specs{MTOW: 5000})
	assert.InDelta(t, 12.5, fee, 1e-9)
}

func TestParkingFee(t *testing.T) {
	assert.Equal(t, 0.0, ParkingFee(testAirport(), 0))
	assert.Equal(t, 50.0, ParkingFee(testAirport(), 5))
}

func TestRefuelCost(t *testing.T) {
	a := testAirport()
	a.FuelPrice = 1.5
	plane := &core.Airplane{Specs: core.Specs{FuelCapacity: 200}, Fuel: 80}

	litres := RefuelLitres(plane)
	assert.Equal(t, 120.0, litres)
	assert.InDelta(t, 180, FuelCost(a, litres), 1e-9)

	plane.Fuel = 250
	assert.Equal(t, 0.0, RefuelLitres(plane))
}

func TestSaleRefund(t *testing.T) {
	assert.InDelta(t, 120_000, SaleRefund(core.Specs{Price: 200_000}), 1e-9)
}

func TestDebit(t *testing.T) {
	p := &core.Player{Cash: 100}

	require.NoError(t, Debit(p, 40))
	assert.Equal(t, 60.0, p.Cash)

	err := Debit(p, 61)
	var funds *core.InsufficientFundsError
	require.ErrorAs(t, err, &funds)
	assert.Equal(t, 60.0, funds.Have)
	assert.Equal(t, 61.0, funds.Need)
	assert.Equal(t, 60.0, p.Cash)

	require.NoError(t, Debit(p, 60))
	assert.Equal(t, 0.0, p.Cash)
}

func TestPricingTick_DemandRaisesPrice(t *testing.T) {
	a := testAirport()
	a.FuelSold = 100
	tuning := core.DefaultGameplay().Fuel

	PricingTick(a, tuning)

	assert.InDelta(t, 1.05, a.FuelPrice, 1e-12)
	assert.Equal(t, 0.0, a.FuelSold)
}

func TestPricingTick_IdleDriftsUpward(t *testing.T) {
	tuning := core.DefaultGameplay().Fuel
	step := tuning.Elasticity * IdleDriftShare

	tests := []struct {
		name  string
		price float64
	}{
		{"below base", 0.6},
		{"at base", 1.0},
		{"above base", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAirport()
			a.FuelPrice = tt.price

			PricingTick(a, tuning)

			assert.InDelta(t, tt.price*(1+step), a.FuelPrice, 1e-12)
			assert.Greater(t, a.FuelPrice, tt.price)
			assert.Equal(t, 0.0, a.FuelSold)
		})
	}
}

func TestPricingTick_IdleRiseSlowerThanDemand(t *testing.T) {
	tuning := core.DefaultGameplay().Fuel
	idle, busy := testAirport(), testAirport()
	busy.FuelSold = 10

	PricingTick(idle, tuning)
	PricingTick(busy, tuning)

	assert.Less(t, idle.FuelPrice, busy.FuelPrice)
}

func TestPricingTick_IdleStopsAtCeiling(t *testing.T) {
	tuning := core.DefaultGameplay().Fuel
	a := testAirport()
	_, hi := PriceBounds(a, tuning)
	a.FuelPrice = hi

	PricingTick(a, tuning)

	assert.Equal(t, hi, a.FuelPrice)
}

func TestPricingTick_StaysBounded(t *testing.T) {
	tuning := core.FuelTuning{Elasticity: 0.3, MinMultiplier: 0.8, MaxMultiplier: 1.4}
	a := testAirport()
	a.BaseFuelPrice = 2
	a.FuelPrice = 2

	for i := 0; i < 500; i++ {
		if i%3 != 0 {
			a.FuelSold = 10
		}
		if i%50 == 0 {
			ApplyShock(a, 0.1, tuning)
		}
		PricingTick(a, tuning)
		lo, hi := PriceBounds(a, tuning)
		require.GreaterOrEqual(t, a.FuelPrice, lo)
		require.LessOrEqual(t, a.FuelPrice, hi)
	}
}

func TestApplyShock(t *testing.T) {
	tuning := core.DefaultGameplay().Fuel
	a := testAirport()

	ApplyShock(a, 1.5, tuning)
	assert.InDelta(t, 1.5, a.FuelPrice, 1e-12)

	ApplyShock(a, 10, tuning)
	assert.InDelta(t, 2.0, a.FuelPrice, 1e-12)
}

func TestValidateFuel(t *testing.T) {
	tests := []struct {
		name    string
		tuning  core.FuelTuning
		wantErr bool
	}{
		{"defaults", core.DefaultGameplay().Fuel, false},
		{"zero elasticity", core.FuelTuning{Elasticity: 0, MinMultiplier: 0.5, MaxMultiplier: 2}, true},
		{"elasticity one", core.FuelTuning{Elasticity: 1, MinMultiplier: 0.5, MaxMultiplier: 2}, true},
		{"inverted bounds", core.FuelTuning{Elasticity: 0.1, MinMultiplier: 2, MaxMultiplier: 1}, true},
		{"equal bounds", core.FuelTuning{Elasticity: 0.1, MinMultiplier: 1, MaxMultiplier: 1}, false},
		{"non-positive min", core.FuelTuning{Elasticity: 0.1, MinMultiplier: 0, MaxMultiplier: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFuel(tt.tuning)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLedger_Close(t *testing.T) {
	var l Ledger
	l.Earn(100.004)
	l.Spend(40)
	l.Deliveries = 2
	l.Departures = 3

	s := l.Close(4, 1234.567, 2)

	assert.Equal(t, core.DailyStats{Day: 4, Income: 100, Expenses: 40, NetCash: 1234.57, FleetSize: 2, Deliveries: 2, Departures: 3}, s)
	assert.Equal(t, Ledger{}, l)
}
