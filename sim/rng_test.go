package sim

import (
	"math"
	"math/rand"
	"testing"
)

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// BDD: Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemGuests).Float64()
		v2 := rng2.ForSubsystem(SubsystemGuests).Float64()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// BDD: Drawing from subsystem A doesn't affect subsystem B
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemArrivals).Float64()
	}
	aFirst := rngA.ForSubsystem(SubsystemGuests).Float64()

	fresh := NewPartitionedRNG(NewSimulationKey(42))
	want := fresh.ForSubsystem(SubsystemGuests).Float64()

	if aFirst != want {
		t.Errorf("guests draw after arrivals draws = %v, want %v (isolation broken)", aFirst, want)
	}
}

func TestPartitionedRNG_Arrivals_UsesMasterSeed(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(7))
	got := p.ForSubsystem(SubsystemArrivals).Int63()
	want := rand.New(rand.NewSource(7)).Int63()
	if got != want {
		t.Errorf("arrivals first draw = %d, want %d", got, want)
	}
}

func TestPartitionedRNG_ForSubsystem_Caches(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(1))
	if p.ForSubsystem(SubsystemEmployees) != p.ForSubsystem(SubsystemEmployees) {
		t.Error("ForSubsystem must return the cached instance")
	}
	if p.Key() != NewSimulationKey(1) {
		t.Errorf("Key() = %d, want 1", p.Key())
	}
}

func TestOneIn(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	if !oneIn(rng, 1) || !oneIn(rng, 0) || !oneIn(rng, -5) {
		t.Error("spans below 2 must always hit")
	}
	hits := 0
	for i := 0; i < 10000; i++ {
		if oneIn(rng, 4) {
			hits++
		}
	}
	if hits < 2000 || hits > 3000 {
		t.Errorf("oneIn(4) hit %d/10000 times, want about 2500", hits)
	}
}

func TestPartitionedRNG_Replay_ContinuesSequence(t *testing.T) {
	// BDD: a fresh RNG replayed with Draws continues where the first left off
	orig := NewPartitionedRNG(NewSimulationKey(42))
	for i := 0; i < 7; i++ {
		orig.ForSubsystem(SubsystemGuests).Intn(5)
	}
	orig.ForSubsystem(SubsystemArrivals).Float64()
	draws := orig.Draws()
	if draws[SubsystemGuests] < 7 || draws[SubsystemArrivals] < 1 {
		t.Fatalf("Draws() = %v, want at least 7 guests and 1 arrivals draws", draws)
	}

	replayed := NewPartitionedRNG(NewSimulationKey(42))
	replayed.Replay(draws)

	for _, name := range []string{SubsystemGuests, SubsystemArrivals, SubsystemEmployees} {
		want := orig.ForSubsystem(name).Int63()
		got := replayed.ForSubsystem(name).Int63()
		if got != want {
			t.Errorf("%s after replay = %d, want %d", name, got, want)
		}
	}
}

func TestPartitionedRNG_Draws_FreshIsNil(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(1))
	p.ForSubsystem(SubsystemEmployees)
	if d := p.Draws(); d != nil {
		t.Errorf("Draws() on an unused RNG = %v, want nil", d)
	}
}
