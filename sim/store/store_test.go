package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/parksim/parksim/sim"
	"github.com/parksim/parksim/sim/road"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}

// samplePark builds a small running park with a guest mid-ride.
func samplePark(t *testing.T) *sim.Simulator {
	t.Helper()
	cfg := sim.DefaultParkConfig()
	cfg.SpawnInterval = 0
	cfg.RandomArrivals = false
	s, err := sim.NewSimulator(cfg, sim.DefaultCatalog(), road.T(0, 0), 3)
	require.NoError(t, err)
	for x := 1; x <= 3; x++ {
		require.NoError(t, s.PlaceObject(sim.KindRoad, road.T(x, 0)))
	}
	require.NoError(t, s.PlaceObject("hot-dog-stand", road.T(2, 1)))
	require.NoError(t, s.PlaceObject("carousel", road.T(4, 0)))
	require.NoError(t, s.PlaceObject("bush", road.T(0, 1)))
	_, err = s.BuyEmployee()
	require.NoError(t, err)
	s.SpawnGuest().Hunger = 100
	s.SpawnGuest()
	s.SetSpeed(sim.SpeedRunning)
	s.Run(6)
	return s
}

func TestFileStore_RoundTrip(t *testing.T) {
	// GIVEN a saved park
	park := samplePark(t)
	snap := park.Snapshot()
	path := filepath.Join(t.TempDir(), "saves", "park.yaml")

	// WHEN it is written and read back
	require.NoError(t, FileStore{}.Save(path, snap))
	got, err := FileStore{}.Load(path)

	// THEN nothing is lost and the park restores
	require.NoError(t, err)
	want, err := yaml.Marshal(snap)
	require.NoError(t, err)
	have, err := yaml.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(have))
	restored, err := sim.Restore(got, park.Config(), sim.DefaultCatalog(), 3)
	require.NoError(t, err)
	assert.Equal(t, park.Stats(), restored.Stats())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file must be renamed away")
}

func TestFileStore_Load_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clock: 3\nsurprise: true\n"), 0o644))

	_, err := FileStore{}.Load(path)
	assert.Error(t, err)
}

func TestFileStore_Load_MissingFile(t *testing.T) {
	_, err := FileStore{}.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSQLiteStore_SaveLoadListDelete(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "park.db"))
	require.NoError(t, err)
	defer db.Close()

	park := samplePark(t)
	first := park.Snapshot()
	id1, err := db.Save(ctx, "morning", first)
	require.NoError(t, err)
	park.Run(3)
	id2, err := db.Save(ctx, "noon", park.Snapshot())
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	got, err := db.Load(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	list, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "noon", list[0].Label)
	assert.Equal(t, first.Clock, list[1].Clock)
	assert.Equal(t, first.Money, list[1].Money)

	require.NoError(t, db.Delete(ctx, id1))
	_, err = db.Load(ctx, id1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.Delete(ctx, id1), ErrNotFound)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecorder_LogsParkNotifications(t *testing.T) {
	// GIVEN a recorder subscribed to a park
	ctx := context.Background()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()
	clock := int64(12)
	rec := NewRecorder(ctx, db, "run-1", func() int64 { return clock })

	// WHEN notifications arrive
	rec.OnObjectBroke(road.T(4, 0))
	clock = 30
	rec.OnObjectRepaired(road.T(4, 0))
	rec.OnGameOver()

	// THEN they are stored in order under the run
	events, err := db.Events(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "broke", events[0].Kind)
	assert.Equal(t, int64(12), events[0].Clock)
	assert.Equal(t, road.T(4, 0), events[0].At)
	assert.Equal(t, "repaired", events[1].Kind)
	assert.Equal(t, "gameover", events[2].Kind)
	assert.True(t, events[2].At.IsUnset())

	other, err := db.Events(ctx, "run-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}
