package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/parksim/parksim/sim/road"
)

// testConfig returns a small grid with arrivals switched off so tests spawn
// guests explicitly.
func testConfig() ParkConfig {
	cfg := DefaultParkConfig()
	cfg.SpawnInterval = 0
	cfg.RandomArrivals = false
	cfg.GridWidth = 16
	cfg.GridHeight = 16
	cfg.Debug = true
	return cfg
}

func testCatalog() Catalog {
	return Catalog{
		Facilities: map[string]FacilitySpec{
			"swing":    {Kind: KindGame, Size: Size{W: 1, H: 1}, Price: 100, Capacity: 1, MinUsagePercent: 100, Duration: 1, UsagePrice: 10, Happiness: 5},
			"big-ride": {Kind: KindGame, Size: Size{W: 2, H: 2}, Price: 500, Capacity: 4, MinUsagePercent: 50, Duration: 3, UsagePrice: 20, Happiness: 10},
			"snack":    {Kind: KindRestaurant, Size: Size{W: 1, H: 1}, Price: 100, Capacity: 1, Duration: 2, UsagePrice: 5},
			"toilet":   {Kind: KindRestroom, Size: Size{W: 1, H: 1}, Price: 50, Capacity: 1, Duration: 1, UsagePrice: 1},
		},
		Plants: map[string]PlantSpec{
			"bush": {Size: Size{W: 1, H: 1}, Price: 10, Radius: 1, Happiness: 5},
		},
	}
}

func newTestPark(t *testing.T, cfg ParkConfig) *Simulator {
	t.Helper()
	sim, err := NewSimulator(cfg, testCatalog(), road.T(0, 0), 42)
	require.NoError(t, err)
	return sim
}

func place(t *testing.T, sim *Simulator, kind string, x, y int) {
	t.Helper()
	require.NoError(t, sim.PlaceObject(kind, road.T(x, y)))
}

// placeRoadLine lays road tiles from (x0, y) to (x1, y) inclusive.
func placeRoadLine(t *testing.T, sim *Simulator, x0, x1, y int) {
	t.Helper()
	for x := x0; x <= x1; x++ {
		place(t, sim, KindRoad, x, y)
	}
}

// lineWithSwing builds entrance (0,0), roads (1,0) and (2,0), and a one-seat
// swing at (3,0), returning the swing.
func lineWithSwing(t *testing.T, sim *Simulator) *Facility {
	t.Helper()
	placeRoadLine(t, sim, 1, 2, 0)
	place(t, sim, "swing", 3, 0)
	return sim.Facilities()[0]
}
