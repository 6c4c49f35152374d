// pkg/core/player.go
package core

// Delivery records one paid order.
type Delivery struct {
	OrderID int      `json:"order_id"`
	Airport int      `json:"airport"`
	Value   float64  `json:"value"`
	Time    GameTime `json:"time"`
}

// Player is the single operator of the simulation.
type Player struct {
	Cash       float64    `json:"cash"`
	Fleet      []int      `json:"fleet"`
	Deliveries []Delivery `json:"deliveries"`
}

// Owns reports whether the plane id is in the fleet.
func (p *Player) Owns(id int) bool {
	for _, f := range p.Fleet {
		if f == id {
			return true
		}
	}
	return false
}

// DailyStats is one closed day of the income/expense ledger.
type DailyStats struct {
	Day        uint64  `json:"day" csv:"day"`
	Income     float64 `json:"income" csv:"income"`
	Expenses   float64 `json:"expenses" csv:"expenses"`
	NetCash    float64 `json:"net_cash" csv:"net_cash"`
	FleetSize  int     `json:"fleet_size" csv:"fleet_size"`
	Deliveries int     `json:"deliveries" csv:"deliveries"`
	Departures int     `json:"departures" csv:"departures"`
}
