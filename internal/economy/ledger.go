package economy

import "github.com/runwaysim/runways/pkg/core"

// Ledger is the running bucket for the current day. It is only read by
// stats queries.
type Ledger struct {
	Income     float64 `json:"income"`
	Expenses   float64 `json:"expenses"`
	Deliveries int     `json:"deliveries"`
	Departures int     `json:"departures"`
}

// Earn books income.
func (l *Ledger) Earn(v float64) {
	l.Income += v
}

// Spend books an expense.
func (l *Ledger) Spend(v float64) {
	l.Expenses += v
}

// Close turns the bucket into a stats row and starts a fresh day.
func (l *Ledger) Close(day uint64, cash float64, fleet int) core.DailyStats {
	s := core.DailyStats{
		Day:        day,
		Income:     RoundCents(l.Income),
		Expenses:   RoundCents(l.Expenses),
		NetCash:    RoundCents(cash),
		FleetSize:  fleet,
		Deliveries: l.Deliveries,
		Departures: l.Departures,
	}
	*l = Ledger{}
	return s
}
