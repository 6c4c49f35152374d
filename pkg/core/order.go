// pkg/core/order.go
package core

import (
	"fmt"
	"strings"
)

// CargoType is the kind of goods carried by a cargo order.
type CargoType uint8

const (
	PaperGoods CargoType = iota
	RubberDucks
	Food
	Clothing
	Textiles
	Books
	Toys
	Furniture
	Flowers
	Seafood
	Chemicals
	AutomotiveParts
	Machinery
	Electronics
	MedicalEquipment
	Artwork
	HauntedMirrors
	Pharmaceuticals
)

var cargoTypes = [...]struct {
	name     string
	min, max float64
}{
	PaperGoods:       {"PaperGoods", 0.5, 3},
	RubberDucks:      {"RubberDucks", 0.5, 3},
	Food:             {"Food", 2, 10},
	Clothing:         {"Clothing", 5, 20},
	Textiles:         {"Textiles", 3, 12},
	Books:            {"Books", 1, 6},
	Toys:             {"Toys", 2, 8},
	Furniture:        {"Furniture", 4, 15},
	Flowers:          {"Flowers", 6, 25},
	Seafood:          {"Seafood", 8, 30},
	Chemicals:        {"Chemicals", 3, 18},
	AutomotiveParts:  {"AutomotiveParts", 10, 40},
	Machinery:        {"Machinery", 12, 45},
	Electronics:      {"Electronics", 20, 120},
	MedicalEquipment: {"MedicalEquipment", 40, 200},
	Artwork:          {"Artwork", 60, 400},
	HauntedMirrors:   {"HauntedMirrors", 20, 100},
	Pharmaceuticals:  {"Pharmaceuticals", 50, 500},
}

// CargoTypes lists every cargo type in declaration order.
func CargoTypes() []CargoType {
	out := make([]CargoType, len(cargoTypes))
	for i := range cargoTypes {
		out[i] = CargoType(i)
	}
	return out
}

func (c CargoType) String() string {
	if int(c) < len(cargoTypes) {
		return cargoTypes[c].name
	}
	return fmt.Sprintf("CargoType(%d)", c)
}

// PriceRange returns the per-kilogram price bounds for the cargo type.
func (c CargoType) PriceRange() (float64, float64) {
	if int(c) >= len(cargoTypes) {
		return 0, 0
	}
	return cargoTypes[c].min, cargoTypes[c].max
}

// ParseCargoType resolves a cargo type name, ignoring case.
func ParseCargoType(s string) (CargoType, error) {
	for i, ct := range cargoTypes {
		if strings.EqualFold(ct.name, s) {
			return CargoType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cargo type: %q", s)
}

func (c CargoType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CargoType) UnmarshalText(b []byte) error {
	ct, err := ParseCargoType(string(b))
	if err != nil {
		return err
	}
	*c = ct
	return nil
}

// PayloadKind tags what an order carries.
type PayloadKind uint8

const (
	PayloadCargo PayloadKind = iota
	PayloadPassenger
)

func (k PayloadKind) String() string {
	if k == PayloadPassenger {
		return "passenger"
	}
	return "cargo"
}

func (k PayloadKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PayloadKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "cargo":
		*k = PayloadCargo
	case "passenger":
		*k = PayloadPassenger
	default:
		return fmt.Errorf("unknown payload kind: %q", b)
	}
	return nil
}

// Payload is either cargo (type and weight) or a passenger headcount.
type Payload struct {
	Kind       PayloadKind `json:"kind"`
	Cargo      CargoType   `json:"cargo"`
	Weight     float64     `json:"weight,omitempty"`
	Passengers int         `json:"passengers,omitempty"`
}

// CargoPayload builds a cargo payload.
func CargoPayload(t CargoType, weight float64) Payload {
	return Payload{Kind: PayloadCargo, Cargo: t, Weight: weight}
}

// PassengerPayload builds a passenger payload.
func PassengerPayload(count int) Payload {
	return Payload{Kind: PayloadPassenger, Passengers: count}
}

func (p Payload) String() string {
	if p.Kind == PayloadPassenger {
		return fmt.Sprintf("%d passengers", p.Passengers)
	}
	return fmt.Sprintf("%.0fkg %s", p.Weight, p.Cargo)
}

// Order is a delivery contract between two airports.
type Order struct {
	ID          int      `json:"id"`
	Origin      int      `json:"origin"`
	Destination int      `json:"destination"`
	Payload     Payload  `json:"payload"`
	Value       float64  `json:"value"`
	Deadline    GameTime `json:"deadline"`
	CreatedAt   GameTime `json:"created_at"`
}

// Expired reports whether the order can no longer be delivered at now.
func (o Order) Expired(now GameTime) bool {
	return now > o.Deadline
}
