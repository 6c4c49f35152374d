// pkg/core/errors.go
package core

import "fmt"

// ErrorKind names each member of the closed failure taxonomy.
type ErrorKind uint8

const (
	KindOutOfRange ErrorKind = iota + 1
	KindRunwayTooShort
	KindMaxPayloadReached
	KindOrderIDInvalid
	KindPlaneIDInvalid
	KindAirportIDInvalid
	KindPlaneNotAtAirport
	KindPlaneNotReady
	KindInsufficientFunds
	KindInsufficientFuel
	KindUnknownModel
	KindNoCargo
	KindSameAirport
	KindInvalidCommand
)

// GameError is implemented by every failure an operation can return.
type GameError interface {
	error
	Kind() ErrorKind
}

// OutOfRangeError means the trip needs more fuel than the tank holds.
type OutOfRangeError struct {
	Distance float64
	Range    float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("distance %.2fkm exceeds range %.2fkm", e.Distance, e.Range)
}
func (e *OutOfRangeError) Kind() ErrorKind { return KindOutOfRange }

// RunwayTooShortError means an airport cannot handle the model.
type RunwayTooShortError struct {
	Required  float64
	Available float64
}

func (e *RunwayTooShortError) Error() string {
	return fmt.Sprintf("runway too short: need %.2fm, have %.2fm", e.Required, e.Available)
}
func (e *RunwayTooShortError) Kind() ErrorKind { return KindRunwayTooShort }

// MaxPayloadReachedError means the order does not fit the remaining capacity.
type MaxPayloadReachedError struct {
	Current float64
	Maximum float64
	Added   float64
}

func (e *MaxPayloadReachedError) Error() string {
	return fmt.Sprintf("payload capacity reached: %.2f loaded, %.2f max, %.2f added", e.Current, e.Maximum, e.Added)
}
func (e *MaxPayloadReachedError) Kind() ErrorKind { return KindMaxPayloadReached }

type OrderIDInvalidError struct{ ID int }

func (e *OrderIDInvalidError) Error() string   { return fmt.Sprintf("order id %d is invalid", e.ID) }
func (e *OrderIDInvalidError) Kind() ErrorKind { return KindOrderIDInvalid }

type PlaneIDInvalidError struct{ ID int }

func (e *PlaneIDInvalidError) Error() string   { return fmt.Sprintf("plane id %d is invalid", e.ID) }
func (e *PlaneIDInvalidError) Kind() ErrorKind { return KindPlaneIDInvalid }

type AirportIDInvalidError struct{ ID int }

func (e *AirportIDInvalidError) Error() string   { return fmt.Sprintf("airport id %d is invalid", e.ID) }
func (e *AirportIDInvalidError) Kind() ErrorKind { return KindAirportIDInvalid }

type PlaneNotAtAirportError struct{ PlaneID int }

func (e *PlaneNotAtAirportError) Error() string {
	return fmt.Sprintf("plane %d is not at an airport", e.PlaneID)
}
func (e *PlaneNotAtAirportError) Kind() ErrorKind { return KindPlaneNotAtAirport }

// PlaneNotReadyError means the plane is busy with something else.
type PlaneNotReadyError struct{ State Status }

func (e *PlaneNotReadyError) Error() string   { return fmt.Sprintf("plane not ready: %s", e.State) }
func (e *PlaneNotReadyError) Kind() ErrorKind { return KindPlaneNotReady }

type InsufficientFundsError struct {
	Have float64
	Need float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have $%.2f, need $%.2f", e.Have, e.Need)
}
func (e *InsufficientFundsError) Kind() ErrorKind { return KindInsufficientFunds }

type InsufficientFuelError struct {
	Have float64
	Need float64
}

func (e *InsufficientFuelError) Error() string {
	return fmt.Sprintf("insufficient fuel: have %.2fL, need %.2fL", e.Have, e.Need)
}
func (e *InsufficientFuelError) Kind() ErrorKind { return KindInsufficientFuel }

// UnknownModelError carries the closest catalog name, if any.
type UnknownModelError struct {
	Input      string
	Suggestion string
}

func (e *UnknownModelError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown airplane model %q, did you mean %q?", e.Input, e.Suggestion)
	}
	return fmt.Sprintf("unknown airplane model %q", e.Input)
}
func (e *UnknownModelError) Kind() ErrorKind { return KindUnknownModel }

type NoCargoError struct{}

func (e *NoCargoError) Error() string   { return "no cargo on board" }
func (e *NoCargoError) Kind() ErrorKind { return KindNoCargo }

type SameAirportError struct{}

func (e *SameAirportError) Error() string   { return "destination is the current airport" }
func (e *SameAirportError) Kind() ErrorKind { return KindSameAirport }

type InvalidCommandError struct{ Msg string }

func (e *InvalidCommandError) Error() string   { return e.Msg }
func (e *InvalidCommandError) Kind() ErrorKind { return KindInvalidCommand }
