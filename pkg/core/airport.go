// pkg/core/airport.go
package core

// Airport is a node of the world map with its pending orders.
type Airport struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Location      Coordinate  `json:"location"`
	RunwayLength  float64     `json:"runway_length"`
	LandingFee    float64     `json:"landing_fee"` // per tonne of MTOW
	ParkingFee    float64     `json:"parking_fee"` // per hour
	BaseFuelPrice float64     `json:"base_fuel_price"`
	FuelPrice     float64     `json:"fuel_price"`
	FuelSold      float64     `json:"fuel_sold"`
	Orders        []Order     `json:"orders"`
	Event         *WorldEvent `json:"event,omitempty"`
}

// OrderIndex returns the position of the order in the pending set, or -1.
func (a *Airport) OrderIndex(id int) int {
	for i := range a.Orders {
		if a.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveOrder takes the order out of the pending set.
func (a *Airport) RemoveOrder(id int) (Order, bool) {
	i := a.OrderIndex(id)
	if i < 0 {
		return Order{}, false
	}
	o := a.Orders[i]
	a.Orders = append(a.Orders[:i], a.Orders[i+1:]...)
	return o, true
}
