package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parksim/parksim/sim/road"
	"github.com/parksim/parksim/sim/trace"
)

func TestNewSimulator_EntranceIsOnlyRoad(t *testing.T) {
	sim := newTestPark(t, testConfig())

	assert.Equal(t, 1, sim.Network().V())
	assert.Equal(t, 0, sim.Network().E())
	assert.True(t, sim.Network().HasVertex(road.T(0, 0)))
	assert.Equal(t, SpeedStopped, sim.Speed())
	assert.Equal(t, testConfig().StartMoney, sim.Money)
}

func TestNewSimulator_RejectsBadInput(t *testing.T) {
	cfg := testConfig()
	_, err := NewSimulator(cfg, testCatalog(), road.T(99, 0), 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	cfg.RepairTicks = 0
	_, err = NewSimulator(cfg, testCatalog(), road.T(0, 0), 1)
	assert.Error(t, err)

	cat := testCatalog()
	cat.Facilities[KindRoad] = cat.Facilities["swing"]
	_, err = NewSimulator(testConfig(), cat, road.T(0, 0), 1)
	assert.Error(t, err)
}

func TestTick_Stopped_ClockHoldsButAgentsMove(t *testing.T) {
	// GIVEN a stopped park with a walking guest
	sim := newTestPark(t, testConfig())
	lineWithSwing(t, sim)
	g := sim.SpawnGuest()
	require.Equal(t, GuestWalking, g.Status)

	// WHEN two ticks pass while stopped
	sim.Tick()
	sim.Tick()

	// THEN the guest advanced but time and needs did not
	assert.Equal(t, int64(0), sim.Clock)
	assert.Equal(t, road.T(1, 0), g.Position)
	assert.Equal(t, 0, g.Hunger)
	assert.Equal(t, int64(0), sim.Metrics.TicksSimulated)
}

func TestScenario_SingleGuestPlaysSwing(t *testing.T) {
	// GIVEN entrance, two road tiles and a one-seat swing, no automatic arrivals
	cfg := testConfig()
	cfg.GuestStartMoney = 100
	sim := newTestPark(t, cfg)
	sim.EnableTrace(trace.TraceLevelDecisions)
	swing := lineWithSwing(t, sim)
	before := sim.Money

	// WHEN one guest arrives and the park runs five ticks
	g := sim.SpawnGuest()
	sim.SetSpeed(SpeedRunning)
	sim.Run(5)

	// THEN the guest walked, queued, played, and became idle again
	seq := sim.Trace().StatusSequence("guest", g.ID)
	require.GreaterOrEqual(t, len(seq), 5)
	assert.Equal(t, []string{"idle", "walking", "waiting", "playing", "idle"}, seq[:5])

	// AND the park collected the entrance fee plus one ticket
	assert.Equal(t, before+cfg.EntranceFee+swing.UsagePrice, sim.Money)
	assert.Equal(t, 100-swing.UsagePrice, g.Money)
	assert.Equal(t, 100-cfg.HealthDecay, swing.HealthPercent)
	assert.Equal(t, 1, sim.Metrics.Services[KindGame])
	assert.Equal(t, int64(5), sim.Clock)
}

func TestScenario_BreakdownDispatchAndRepair(t *testing.T) {
	// GIVEN a worn swing one service away from breaking, and one employee
	cfg := testConfig()
	cfg.RepairTicks = 3
	sim := newTestPark(t, cfg)
	sim.EnableTrace(trace.TraceLevelDecisions)
	swing := lineWithSwing(t, sim)
	swing.HealthPercent = 6
	emp, err := sim.BuyEmployee()
	require.NoError(t, err)

	var broke, repaired []road.Tile
	sim.Subscribe(ObserverFuncs{
		Broke:    func(at road.Tile) { broke = append(broke, at) },
		Repaired: func(at road.Tile) { repaired = append(repaired, at) },
	})

	// WHEN a guest rides it once
	sim.SpawnGuest()
	sim.SetSpeed(SpeedRunning)
	sim.Run(5)

	// THEN it broke exactly once and the employee was sent to it
	assert.Equal(t, 4, swing.HealthPercent)
	assert.Equal(t, []road.Tile{swing.Position}, broke)
	assert.Equal(t, FacilityRepairing, swing.Status)
	assert.Equal(t, emp, swing.Janitor)
	assert.Equal(t, EmployeeToRepair, sim.Employees()[emp].Status)
	assert.Equal(t, 1, sim.Metrics.Breakdowns)

	// WHEN the repair runs its course
	sim.Run(4)

	// THEN the swing is back at full health and the employee patrols again
	assert.Equal(t, []road.Tile{swing.Position}, repaired)
	assert.Equal(t, FacilityReady, swing.Status)
	assert.Equal(t, 100, swing.HealthPercent)
	assert.Equal(t, -1, swing.Janitor)
	assert.Equal(t, EmployeeWalking, sim.Employees()[emp].Status)
	assert.Equal(t, 1, sim.Metrics.Repairs)

	seq := sim.Trace().StatusSequence("employee", sim.Employees()[emp].ID)
	assert.Contains(t, seq, "to-repair")
	assert.Contains(t, seq, "repairing")
}

func TestTick_SpawnInterval_SpawnsOnMultiples(t *testing.T) {
	cfg := testConfig()
	cfg.SpawnInterval = 3
	sim := newTestPark(t, cfg)
	sim.SetSpeed(SpeedRunning)

	sim.Run(7) // ticks 0..6 spawn at 0, 3, 6

	assert.Equal(t, 3, sim.Metrics.GuestsSpawned)
	assert.Equal(t, 3, sim.Stats().Guests)
	assert.Equal(t, cfg.StartMoney+3*cfg.EntranceFee, sim.Money)
}

func TestTick_RandomArrivals_DeterministicPerSeed(t *testing.T) {
	run := func() int {
		cfg := testConfig()
		cfg.RandomArrivals = true
		cfg.SpawnInterval = 100
		sim, err := NewSimulator(cfg, testCatalog(), road.T(0, 0), 7)
		require.NoError(t, err)
		sim.SetSpeed(SpeedRunning)
		sim.Run(300)
		return sim.Metrics.GuestsSpawned
	}
	first := run()
	assert.Equal(t, first, run())
	assert.Greater(t, first, 3, "random arrivals should add to the scheduled ones")
}

func TestSetSpeed_IgnoresResumeAfterGameOver(t *testing.T) {
	sim := newTestPark(t, testConfig())
	sim.gameOver = true
	sim.SetSpeed(SpeedRunning)
	assert.Equal(t, SpeedStopped, sim.Speed())
}

func TestStats_CountsBrokenFacilities(t *testing.T) {
	sim := newTestPark(t, testConfig())
	swing := lineWithSwing(t, sim)
	swing.Status = FacilityBroken

	st := sim.Stats()
	assert.Equal(t, 1, st.Facilities)
	assert.Equal(t, 1, st.Broken)
	assert.Equal(t, SpeedStopped, st.Speed)
}

func TestCheckInvariants_DebugPanics(t *testing.T) {
	cfg := testConfig()
	sim := newTestPark(t, cfg)
	g := sim.SpawnGuest()
	g.Happiness = 150
	assert.Panics(t, func() { sim.checkInvariants() })

	cfg.Debug = false
	relaxed := newTestPark(t, cfg)
	relaxed.SpawnGuest().Hunger = -1
	assert.NotPanics(t, func() { relaxed.checkInvariants() })
}

func TestCheckInvariants_SharedJanitorPanics(t *testing.T) {
	sim := newTestPark(t, testConfig())
	placeRoadLine(t, sim, 1, 2, 0)
	place(t, sim, "swing", 3, 0)
	place(t, sim, "snack", 2, 1)
	for _, f := range sim.Facilities() {
		f.Status = FacilityRepairing
		f.Janitor = 0
	}
	assert.Panics(t, func() { sim.checkInvariants() })
}

func TestConnected_ReflectsRoadLinks(t *testing.T) {
	sim := newTestPark(t, testConfig())
	place(t, sim, "swing", 5, 5)
	f := sim.Facilities()[0]
	assert.False(t, sim.Connected(f))

	placeRoadLine(t, sim, 1, 4, 0)
	for y := 1; y <= 5; y++ {
		place(t, sim, KindRoad, 4, y)
	}
	assert.True(t, sim.Connected(f))
}

// assertInBounds checks every meter and health value lies in [0, 100].
func assertInBounds(t *testing.T, sim *Simulator) {
	t.Helper()
	for _, g := range sim.Guests() {
		assert.True(t, g.Happiness >= 0 && g.Happiness <= 100, "guest %d happiness %d", g.ID, g.Happiness)
		assert.True(t, g.Hunger >= 0 && g.Hunger <= 100, "guest %d hunger %d", g.ID, g.Hunger)
		assert.True(t, g.Toilet >= 0 && g.Toilet <= 100, "guest %d toilet %d", g.ID, g.Toilet)
	}
	for _, f := range sim.Facilities() {
		assert.True(t, f.HealthPercent >= 0 && f.HealthPercent <= 100, "facility %d health %d", f.ID, f.HealthPercent)
	}
}

func TestTick_LongRunOverFullPark_StaysInBounds(t *testing.T) {
	// GIVEN a busy park with every facility kind, a plant and staff, in debug mode
	cfg := testConfig()
	cfg.SpawnInterval = 3
	cfg.RandomArrivals = true
	cfg.RepairTicks = 5
	sim := newTestPark(t, cfg)
	placeRoadLine(t, sim, 1, 6, 0)
	place(t, sim, "swing", 1, 1)
	place(t, sim, "big-ride", 2, 1)
	place(t, sim, "snack", 4, 1)
	place(t, sim, "toilet", 5, 1)
	place(t, sim, "bush", 0, 1)
	_, err := sim.BuyEmployee()
	require.NoError(t, err)

	// WHEN it runs for a long time, checking bounds along the way
	sim.SetSpeed(SpeedRunning)
	assert.NotPanics(t, func() {
		for i := 0; i < 10; i++ {
			sim.Run(100)
			assertInBounds(t, sim)
		}
	})

	// THEN every service path was exercised
	assert.False(t, sim.GameOver())
	assert.Greater(t, sim.Metrics.Services[KindGame], 0)
	assert.Greater(t, sim.Metrics.Services[KindRestaurant], 0)
	assert.Greater(t, sim.Metrics.Services[KindRestroom], 0)
	assert.Greater(t, sim.Metrics.Breakdowns, 0)
}
