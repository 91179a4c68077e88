package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parksim/parksim/sim"
	"github.com/parksim/parksim/sim/road"
	"github.com/parksim/parksim/sim/store"
)

// setFlag overrides a package-level flag value for the duration of a test.
func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func starterPark(t *testing.T) (*ParkFile, *sim.Simulator) {
	t.Helper()
	pf, err := LoadParkFile("../park.yaml")
	require.NoError(t, err)
	s, err := pf.Build(42)
	require.NoError(t, err)
	return pf, s
}

func TestRunPark_AdvancesAndStops(t *testing.T) {
	_, s := starterPark(t)

	runPark(s, 200)

	assert.Equal(t, int64(200), s.Clock)
	assert.Equal(t, int64(200), s.Metrics.TicksSimulated)
	assert.Greater(t, s.Metrics.GuestsSpawned, 0)
	assert.Equal(t, sim.SpeedStopped, s.Speed(), "the park is left editable")
}

func TestRunPark_StarterParkKeepsMetersInBounds(t *testing.T) {
	// GIVEN the starter park with invariant violations made fatal
	pf, err := LoadParkFile("../park.yaml")
	require.NoError(t, err)
	pf.Park.Debug = true
	s, err := pf.Build(7)
	require.NoError(t, err)

	// WHEN it runs for a long stretch
	assert.NotPanics(t, func() { runPark(s, 1500) })

	// THEN every guest meter and facility health is still within [0, 100]
	for _, g := range s.Guests() {
		for _, v := range []int{g.Happiness, g.Hunger, g.Toilet} {
			assert.True(t, v >= 0 && v <= 100, "guest %d meter %d", g.ID, v)
		}
	}
	for _, f := range s.Facilities() {
		assert.True(t, f.HealthPercent >= 0 && f.HealthPercent <= 100, "%s health %d", f.Name, f.HealthPercent)
	}
	assert.Greater(t, s.Metrics.Services[sim.KindGame], 0)
}

func TestRunPark_SameSeedSameOutcome(t *testing.T) {
	_, a := starterPark(t)
	_, b := starterPark(t)

	runPark(a, 300)
	runPark(b, 300)

	assert.Equal(t, a.Stats(), b.Stats())
	assert.Equal(t, a.Metrics, b.Metrics)
}

func TestRunPark_EndsAtGameOver(t *testing.T) {
	// GIVEN a park that can barely afford its upkeep
	pf := DefaultParkFile()
	pf.Park.StartMoney = 3000
	pf.Park.GameOverMoney = 0
	pf.Park.MaintenanceEvery = 1
	pf.Park.SpawnInterval = 0
	pf.Park.RandomArrivals = false
	pf.Layout.Objects = []PlacedObject{{Kind: "carousel", At: road.T(2, 0)}}
	s, err := pf.Build(1)
	require.NoError(t, err)

	// WHEN it runs far longer than its funds last
	runPark(s, 1000)

	// THEN it stops on the tick the game ended
	assert.True(t, s.GameOver())
	assert.Equal(t, int64(2), s.Clock)
}

func TestSavePark_FileRoundTrip(t *testing.T) {
	// GIVEN a park saved to a file after some play
	pf, s := starterPark(t)
	runPark(s, 120)
	target := filepath.Join(t.TempDir(), "midday")
	require.NoError(t, savePark(context.Background(), s, nil, target))

	// WHEN it is loaded back through --load
	setFlag(t, &loadPath, target+".yaml")
	setFlag(t, &seed, int64(42))
	restored, err := loadOrBuild(context.Background(), pf, nil)

	// THEN the restored park matches the saved one
	require.NoError(t, err)
	assert.Equal(t, s.Stats(), restored.Stats())
	assert.Equal(t, s.Network().Adjacency(), restored.Network().Adjacency())
}

func TestSavePark_DatabaseSlot(t *testing.T) {
	ctx := context.Background()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	defer db.Close()
	pf, s := starterPark(t)
	runPark(s, 60)

	require.NoError(t, savePark(ctx, s, db, "first"))
	slots, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "first", slots[0].Label)

	setFlag(t, &loadPath, slots[0].ID)
	restored, err := loadOrBuild(ctx, pf, db)
	require.NoError(t, err)
	assert.Equal(t, s.Stats(), restored.Stats())

	setFlag(t, &loadPath, "no-such-slot")
	_, err = loadOrBuild(ctx, pf, db)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLoadOrBuild_WithoutLoadBuildsLayout(t *testing.T) {
	setFlag(t, &loadPath, "")
	pf, _ := starterPark(t)

	s, err := loadOrBuild(context.Background(), pf, nil)

	require.NoError(t, err)
	assert.Len(t, s.Facilities(), 5)
}
