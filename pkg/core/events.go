// pkg/core/events.go
package core

import "fmt"

// EventKind is the closed set of things the scheduler can fire.
type EventKind uint8

const (
	EventLoadingComplete EventKind = iota + 1
	EventUnloadingComplete
	EventRefuelComplete
	EventFlightTakeoff
	EventFlightArrival
	EventOrderDeadline
	EventRestock
	EventDailyStats
	EventPricingTick
	EventMaintenanceCheck
	EventMaintenanceComplete
	EventWorldEventStart
	EventWorldEventEnd
	EventBreakdown
)

var eventKindNames = map[EventKind]string{
	EventLoadingComplete:     "LoadingComplete",
	EventUnloadingComplete:   "UnloadingComplete",
	EventRefuelComplete:      "RefuelComplete",
	EventFlightTakeoff:       "FlightTakeoff",
	EventFlightArrival:       "FlightArrival",
	EventOrderDeadline:       "OrderDeadline",
	EventRestock:             "Restock",
	EventDailyStats:          "DailyStats",
	EventPricingTick:         "PricingTick",
	EventMaintenanceCheck:    "MaintenanceCheck",
	EventMaintenanceComplete: "MaintenanceComplete",
	EventWorldEventStart:     "WorldEventStart",
	EventWorldEventEnd:       "WorldEventEnd",
	EventBreakdown:           "Breakdown",
}

// EventKinds lists every kind in declaration order.
func EventKinds() []EventKind {
	kinds := make([]EventKind, 0, len(eventKindNames))
	for k := EventLoadingComplete; k <= EventBreakdown; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k EventKind) String() string {
	if n, ok := eventKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

func (k EventKind) MarshalText() ([]byte, error) {
	if _, ok := eventKindNames[k]; !ok {
		return nil, fmt.Errorf("unknown event kind %d", k)
	}
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(b []byte) error {
	for kind, n := range eventKindNames {
		if n == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind: %q", b)
}

// Event is the payload of a scheduled entry. Only the fields relevant
// to Kind are set.
type Event struct {
	Kind    EventKind   `json:"kind"`
	Plane   int         `json:"plane,omitempty"`
	Airport int         `json:"airport,omitempty"`
	Order   int         `json:"order,omitempty"`
	World   *WorldEvent `json:"world,omitempty"`
}

// ScheduledEvent is an event bound to the hour it fires at. Seq orders
// events that share an hour.
type ScheduledEvent struct {
	Time  GameTime `json:"time"`
	Seq   uint64   `json:"seq"`
	Event Event    `json:"event"`
}

// WorldEventKind is a temporary disturbance at one airport.
type WorldEventKind uint8

const (
	FuelShortage WorldEventKind = iota
	FuelGlut
	DemandSurge
)

var worldEventNames = [...]string{"FuelShortage", "FuelGlut", "DemandSurge"}

func (k WorldEventKind) String() string {
	if int(k) < len(worldEventNames) {
		return worldEventNames[k]
	}
	return fmt.Sprintf("WorldEventKind(%d)", k)
}

func (k WorldEventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *WorldEventKind) UnmarshalText(b []byte) error {
	for i, n := range worldEventNames {
		if n == string(b) {
			*k = WorldEventKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown world event: %q", b)
}

// WorldEvent is an active or scheduled disturbance.
type WorldEvent struct {
	Kind    WorldEventKind `json:"kind"`
	Airport int            `json:"airport"`
	Factor  float64        `json:"factor,omitempty"`
	Until   GameTime       `json:"until"`
}
