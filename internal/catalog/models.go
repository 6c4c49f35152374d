package catalog

import "github.com/runwaysim/runways/pkg/core"

// builtin is the stock fleet, cheapest first.
var builtin = []core.Specs{
	{Model: "SparrowLight", MTOW: 5000, CruiseSpeed: 250, FuelCapacity: 200, FuelConsumption: 30, OperatingCost: 300, PayloadCapacity: 500, PassengerCapacity: 4, Role: core.RoleMixed, Price: 200_000},
	{Model: "FalconJet", MTOW: 8000, CruiseSpeed: 800, FuelCapacity: 2000, FuelConsumption: 250, OperatingCost: 1500, PayloadCapacity: 1500, PassengerCapacity: 8, Role: core.RoleMixed, Price: 1_500_000},
	{Model: "CometRegional", MTOW: 20000, CruiseSpeed: 700, FuelCapacity: 5000, FuelConsumption: 600, OperatingCost: 3000, PayloadCapacity: 5000, PassengerCapacity: 78, Role: core.RolePassenger, Price: 10_000_000},
	{Model: "Atlas", MTOW: 40000, CruiseSpeed: 750, FuelCapacity: 12000, FuelConsumption: 1500, OperatingCost: 6000, PayloadCapacity: 15000, Role: core.RoleCargo, Price: 30_000_000},
	{Model: "Zephyr", MTOW: 50000, CruiseSpeed: 900, FuelCapacity: 25000, FuelConsumption: 1200, OperatingCost: 8000, PayloadCapacity: 25000, PassengerCapacity: 220, Role: core.RoleMixed, Price: 50_000_000},
	{Model: "TitanHeavy", MTOW: 100000, CruiseSpeed: 650, FuelCapacity: 20000, FuelConsumption: 3000, OperatingCost: 10000, PayloadCapacity: 50000, Role: core.RoleCargo, Price: 60_000_000},
	{Model: "Lightning", MTOW: 15000, CruiseSpeed: 1800, FuelCapacity: 5000, FuelConsumption: 1000, OperatingCost: 12000, PayloadCapacity: 2000, PassengerCapacity: 12, Role: core.RolePassenger, Price: 80_000_000},
	{Model: "Goliath", MTOW: 200000, CruiseSpeed: 550, FuelCapacity: 40000, FuelConsumption: 6000, OperatingCost: 20000, PayloadCapacity: 100000, Role: core.RoleCargo, Price: 120_000_000},
}

// FallbackStarter is handed out when no model fits the starting airport.
const FallbackStarter = "CometRegional"
