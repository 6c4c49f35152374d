package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameTime_Day(t *testing.T) {
	assert.Equal(t, uint64(0), GameTime(0).Day())
	assert.Equal(t, uint64(0), GameTime(23).Day())
	assert.Equal(t, uint64(1), GameTime(24).Day())
}

func TestCoordinate_InBounds(t *testing.T) {
	assert.True(t, Coordinate{0, 0}.InBounds())
	assert.True(t, Coordinate{MapSize, MapSize}.InBounds())
	assert.False(t, Coordinate{-1, 5}.InBounds())
	assert.False(t, Coordinate{5, MapSize + 0.1}.InBounds())
}

func TestParseCargoType(t *testing.T) {
	c, err := ParseCargoType("hauntedmirrors")
	require.NoError(t, err)
	assert.Equal(t, HauntedMirrors, c)

	_, err = ParseCargoType("gold")
	assert.Error(t, err)
	assert.Len(t, CargoTypes(), 18)
}

func TestCargoType_PriceRange(t *testing.T) {
	for _, c := range CargoTypes() {
		lo, hi := c.PriceRange()
		assert.Greater(t, lo, 0.0, c.String())
		assert.Greater(t, hi, lo, c.String())
	}
}

func TestPayload_String(t *testing.T) {
	assert.Equal(t, "250kg Food", CargoPayload(Food, 250).String())
	assert.Equal(t, "12 passengers", PassengerPayload(12).String())
}

func TestOrder_Expired(t *testing.T) {
	o := Order{Deadline: 10}
	assert.False(t, o.Expired(10))
	assert.True(t, o.Expired(11))
}

func TestOrder_JSON(t *testing.T) {
	o := Order{ID: 3, Origin: 1, Destination: 2, Payload: CargoPayload(Seafood, 120.5), Value: 99.99, Deadline: 40, CreatedAt: 4}
	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cargo":"Seafood"`)
	assert.Contains(t, string(data), `"kind":"cargo"`)

	var back Order
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, o, back)
}

func TestSpecs_Range(t *testing.T) {
	s := Specs{CruiseSpeed: 250, FuelCapacity: 200, FuelConsumption: 30}
	assert.InDelta(t, 1666.67, s.Range(), 0.01)
	assert.Equal(t, 0.0, Specs{}.Range())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("passenger")
	require.NoError(t, err)
	assert.Equal(t, RolePassenger, r)
	_, err = ParseRole("tanker")
	assert.Error(t, err)
}

func TestStatus_Text(t *testing.T) {
	for s := StatusParked; s <= StatusGrounded; s++ {
		b, err := s.MarshalText()
		require.NoError(t, err)
		var back Status
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, s, back)
	}
	var s Status
	assert.Error(t, s.UnmarshalText([]byte("Flying")))
}

func TestAirplane_Manifest(t *testing.T) {
	p := Airplane{Manifest: []Order{
		{ID: 1, Payload: CargoPayload(Books, 100)},
		{ID: 2, Payload: PassengerPayload(3)},
		{ID: 3, Payload: CargoPayload(Toys, 50)},
	}}
	assert.Equal(t, 150.0, p.CargoWeight())
	assert.Equal(t, 3, p.Passengers())
	assert.Equal(t, 2, p.ManifestIndex(3))
	assert.Equal(t, -1, p.ManifestIndex(9))
}

func TestAirplane_AtAirport(t *testing.T) {
	p := Airplane{AirportID: 4}
	id, ok := p.AtAirport()
	assert.True(t, ok)
	assert.Equal(t, 4, id)

	p.Transit = &Transit{Destination: 5, ArrivesAt: 12}
	_, ok = p.AtAirport()
	assert.False(t, ok)
	assert.Equal(t, GameTime(2), p.Transit.Remaining(10))
	assert.Equal(t, GameTime(0), p.Transit.Remaining(15))
}

func TestAirport_RemoveOrder(t *testing.T) {
	a := Airport{Orders: []Order{{ID: 1}, {ID: 2}, {ID: 3}}}
	o, ok := a.RemoveOrder(2)
	require.True(t, ok)
	assert.Equal(t, 2, o.ID)
	assert.Equal(t, []Order{{ID: 1}, {ID: 3}}, a.Orders)

	_, ok = a.RemoveOrder(2)
	assert.False(t, ok)
}

func TestPlayer_Owns(t *testing.T) {
	p := Player{Fleet: []int{0, 4}}
	assert.True(t, p.Owns(4))
	assert.False(t, p.Owns(1))
}

func TestEventKind_Text(t *testing.T) {
	for _, k := range EventKinds() {
		b, err := k.MarshalText()
		require.NoError(t, err)
		var back EventKind
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, k, back)
	}
	_, err := EventKind(0).MarshalText()
	assert.Error(t, err)
	assert.Len(t, EventKinds(), 14)
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  GameError
		kind ErrorKind
		msg  string
	}{
		{&OutOfRangeError{Distance: 2000, Range: 1666.67}, KindOutOfRange, "distance 2000.00km exceeds range 1666.67km"},
		{&RunwayTooShortError{Required: 407.5, Available: 300}, KindRunwayTooShort, "runway too short: need 407.50m, have 300.00m"},
		{&MaxPayloadReachedError{Current: 300, Maximum: 500, Added: 600}, KindMaxPayloadReached, "payload capacity reached: 300.00 loaded, 500.00 max, 600.00 added"},
		{&OrderIDInvalidError{ID: 7}, KindOrderIDInvalid, "order id 7 is invalid"},
		{&PlaneIDInvalidError{ID: 7}, KindPlaneIDInvalid, "plane id 7 is invalid"},
		{&AirportIDInvalidError{ID: 7}, KindAirportIDInvalid, "airport id 7 is invalid"},
		{&PlaneNotAtAirportError{PlaneID: 2}, KindPlaneNotAtAirport, "plane 2 is not at an airport"},
		{&PlaneNotReadyError{State: StatusLoading}, KindPlaneNotReady, "plane not ready: Loading"},
		{&InsufficientFundsError{Have: 10, Need: 20}, KindInsufficientFunds, "insufficient funds: have $10.00, need $20.00"},
		{&InsufficientFuelError{Have: 8, Need: 24}, KindInsufficientFuel, "insufficient fuel: have 8.00L, need 24.00L"},
		{&UnknownModelError{Input: "FalconJt", Suggestion: "FalconJet"}, KindUnknownModel, `unknown airplane model "FalconJt", did you mean "FalconJet"?`},
		{&UnknownModelError{Input: "Blimp"}, KindUnknownModel, `unknown airplane model "Blimp"`},
		{&NoCargoError{}, KindNoCargo, "no cargo on board"},
		{&SameAirportError{}, KindSameAirport, "destination is the current airport"},
		{&InvalidCommandError{Msg: "nope"}, KindInvalidCommand, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind())
			assert.Equal(t, tt.msg, tt.err.Error())

			var ge GameError
			require.True(t, errors.As(error(tt.err), &ge))
		})
	}
}
