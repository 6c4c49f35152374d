// Package convert maps games and their statistics to GORM rows and back.
package convert

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/runwaysim/runways/internal/game"
	"github.com/runwaysim/runways/internal/model"
	"github.com/runwaysim/runways/pkg/core"
	"gorm.io/datatypes"
)

// coordinateToPoint converts a map coordinate to a geom.Point.
func coordinateToPoint(c core.Coordinate) (geom.Point, error) {
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: c.X, Y: c.Y}, Type: geom.DimXY})
}

// PointToCoordinate is the inverse of the row location. An empty point
// maps to the origin.
func PointToCoordinate(p geom.Point) core.Coordinate {
	xy, ok := p.XY()
	if !ok {
		return core.Coordinate{}
	}
	return core.Coordinate{X: xy.X, Y: xy.Y}
}

// GameToSavedGame snapshots g into a row. An empty id gets a fresh UUID.
func GameToSavedGame(name, id string, g *game.Game, now time.Time) (model.SavedGame, error) {
	state, err := g.MarshalState()
	if err != nil {
		return model.SavedGame{}, fmt.Errorf("encoding game state: %w", err)
	}
	airports, err := ObservationToAirports(g.Observe())
	if err != nil {
		return model.SavedGame{}, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	return model.SavedGame{
		UUID:      id,
		Name:      name,
		Seed:      g.Seed(),
		GameTime:  uint64(g.Time()),
		Cash:      g.Cash(),
		FleetSize: len(g.Fleet()),
		SavedAt:   now.UTC(),
		State:     datatypes.JSON(state),
		Airports:  airports,
	}, nil
}

// SavedGameToGame restores the game a row holds.
func SavedGameToGame(row model.SavedGame, opts ...game.Option) (*game.Game, error) {
	if len(row.State) == 0 {
		return nil, fmt.Errorf("saved game %q has no state", row.Name)
	}
	g, err := game.UnmarshalState(row.State, opts...)
	if err != nil {
		return nil, fmt.Errorf("saved game %q: %w", row.Name, err)
	}
	return g, nil
}

// ObservationToAirports flattens the airport views into rows.
func ObservationToAirports(obs game.Observation) ([]model.AirportRow, error) {
	rows := make([]model.AirportRow, 0, len(obs.Airports))
	for _, a := range obs.Airports {
		loc, err := coordinateToPoint(a.Location)
		if err != nil {
			return nil, fmt.Errorf("airport %d location: %w", a.ID, err)
		}
		rows = append(rows, model.AirportRow{
			AirportID:     a.ID,
			Name:          a.Name,
			Location:      loc,
			RunwayLength:  a.RunwayLength,
			BaseFuelPrice: a.BaseFuelPrice,
			FuelPrice:     a.FuelPrice,
			LandingFee:    a.LandingFee,
			ParkingFee:    a.ParkingFee,
			PendingOrders: a.PendingOrders,
		})
	}
	return rows, nil
}

// StatsToRows converts the closed days of a run.
func StatsToRows(gameID string, seed uint64, stats []core.DailyStats, now time.Time) []model.DailyStatRow {
	rows := make([]model.DailyStatRow, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, model.DailyStatRow{
			GameUUID:   gameID,
			Seed:       seed,
			Day:        s.Day,
			Income:     s.Income,
			Expenses:   s.Expenses,
			NetCash:    s.NetCash,
			FleetSize:  s.FleetSize,
			Deliveries: s.Deliveries,
			Departures: s.Departures,
			RecordedAt: now.UTC(),
		})
	}
	return rows
}

// RowsToStats is the inverse of StatsToRows.
func RowsToStats(rows []model.DailyStatRow) []core.DailyStats {
	out := make([]core.DailyStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.DailyStats{
			Day:        r.Day,
			Income:     r.Income,
			Expenses:   r.Expenses,
			NetCash:    r.NetCash,
			FleetSize:  r.FleetSize,
			Deliveries: r.Deliveries,
			Departures: r.Departures,
		})
	}
	return out
}
