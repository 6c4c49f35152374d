package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels lists every table the save stores migrate.
var DatabaseModels = []any{
	&SavedGame{},
	&AirportRow{},
	&DailyStatRow{},
}

////////////////////////
// SAVE GAMES
////////////////////////

// SavedGame is one named save. State holds the full game snapshot; the
// other columns are copies for listing without decoding it.
type SavedGame struct {
	gorm.Model
	UUID      string         `json:"uuid" gorm:"size:36;uniqueIndex"`
	Name      string         `json:"name" gorm:"size:127;uniqueIndex"`
	Seed      uint64         `json:"seed"`
	GameTime  uint64         `json:"gameTime" gorm:"index"`
	Cash      float64        `json:"cash"`
	FleetSize int            `json:"fleetSize"`
	SavedAt   time.Time      `json:"savedAt" gorm:"index"`
	State     datatypes.JSON `json:"state"`
	Airports  []AirportRow   `json:"airports,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (*SavedGame) TableName() string {
	return "saved_games"
}

// AirportRow is the map of a save, kept as plain rows so it can be
// queried spatially without decoding the snapshot.
type AirportRow struct {
	ID            uint       `json:"-" gorm:"primarykey"`
	SavedGameID   uint       `json:"savedGameId" gorm:"index:idx_airport_saved_game"`
	AirportID     int        `json:"airportId"`
	Name          string     `json:"name" gorm:"size:16"`
	Location      geom.Point `json:"location"`
	RunwayLength  float64    `json:"runwayLength"`
	BaseFuelPrice float64    `json:"baseFuelPrice"`
	FuelPrice     float64    `json:"fuelPrice"`
	LandingFee    float64    `json:"landingFee"`
	ParkingFee    float64    `json:"parkingFee"`
	PendingOrders int        `json:"pendingOrders"`
}

func (*AirportRow) TableName() string {
	return "airports"
}

////////////////////////
// STATISTICS
////////////////////////

// DailyStatRow is one closed day of a run, keyed by the run's UUID.
type DailyStatRow struct {
	ID         uint      `json:"-" gorm:"primarykey"`
	GameUUID   string    `json:"gameUuid" gorm:"size:36;uniqueIndex:idx_stat_game_day"`
	Seed       uint64    `json:"seed"`
	Day        uint64    `json:"day" gorm:"uniqueIndex:idx_stat_game_day"`
	Income     float64   `json:"income"`
	Expenses   float64   `json:"expenses"`
	NetCash    float64   `json:"netCash"`
	FleetSize  int       `json:"fleetSize"`
	Deliveries int       `json:"deliveries"`
	Departures int       `json:"departures"`
	RecordedAt time.Time `json:"recordedAt"`
}

func (*DailyStatRow) TableName() string {
	return "daily_stats"
}
