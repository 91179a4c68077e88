package sim

import (
	"hash/fnv"
	"math/rand"
	"sort"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two parks with the same SimulationKey, layout and configuration
// MUST evolve identically tick for tick.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemArrivals is the RNG subsystem for reputation-driven guest spawns.
	// Uses master seed directly.
	SubsystemArrivals = "arrivals"

	// SubsystemGuests is the RNG subsystem for guest destination choice.
	SubsystemGuests = "guests"

	// SubsystemEmployees is the RNG subsystem for employee patrol routes.
	SubsystemEmployees = "employees"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem,
// so that adding a guest draw never shifts the spawn sequence.
//
// Derivation formula:
//   - For SubsystemArrivals: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
	sources    map[string]*countingSource
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
		sources:    make(map[string]*countingSource),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemArrivals {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	src := &countingSource{src: rand.NewSource(derivedSeed).(rand.Source64)}
	rng := rand.New(src)
	p.sources[name] = src
	p.subsystems[name] = rng
	return rng
}

// Draws returns how many values each subsystem has consumed from its source.
// Subsystems that have drawn nothing are absent, and a fresh PartitionedRNG
// returns nil.
func (p *PartitionedRNG) Draws() map[string]int64 {
	var out map[string]int64
	for name, src := range p.sources {
		if src.draws == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]int64)
		}
		out[name] = src.draws
	}
	return out
}

// Replay fast-forwards each named subsystem by the given number of draws, so
// that a fresh PartitionedRNG with the same key continues where Draws left
// off. Subsystems are advanced in name order.
func (p *PartitionedRNG) Replay(draws map[string]int64) {
	names := make([]string, 0, len(draws))
	for name := range draws {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.ForSubsystem(name)
		src := p.sources[name]
		for src.draws < draws[name] {
			src.Int63()
		}
	}
}

// countingSource counts the values drawn from the wrapped source.
type countingSource struct {
	src   rand.Source64
	draws int64
}

func (c *countingSource) Int63() int64 {
	c.draws++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.draws = 0
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// oneIn reports true with probability 1/span. Spans below 1 always hit.
func oneIn(rng *rand.Rand, span int) bool {
	if span <= 1 {
		return true
	}
	return rng.Intn(span) == 0
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
