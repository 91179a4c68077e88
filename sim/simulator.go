// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/parksim/parksim/sim/road"
	"github.com/parksim/parksim/sim/trace"
)

// Speed is the park's run mode. Objects can only be placed or removed while
// the park is stopped.
type Speed string

const (
	SpeedStopped Speed = "stopped"
	SpeedRunning Speed = "running"
)

// Simulator is the core object that holds the park state, the clock, and the
// scheduled completions. It is advanced one Tick at a time by a single driver;
// nothing else may mutate it concurrently.
type Simulator struct {
	Clock      int64 // index of the next running tick
	Money      int
	Reputation int // mean guest happiness, drives arrivals
	Metrics    *Metrics

	cfg      ParkConfig
	catalog  Catalog
	network  *road.Network
	entrance road.Tile
	occupied map[road.Tile]occupant

	// Placement order is kept; facilities are processed by kind in this order.
	facilities []*Facility
	plants     []*Plant
	guests     []*Guest
	employees  []*Employee

	speed        Speed
	gameOver     bool
	nextObjectID int
	nextAgentID  int

	// events holds delayed service and repair completions keyed by due tick.
	events  EventQueue
	nextSeq int64

	rng       *PartitionedRNG
	observers []Observer
	trace     *trace.SimulationTrace
}

// NewSimulator creates an empty, stopped park whose only road tile is the
// entrance.
func NewSimulator(cfg ParkConfig, catalog Catalog, entrance road.Tile, seed int64) (*Simulator, error) {
	sim, err := newSimulator(cfg, catalog, seed)
	if err != nil {
		return nil, err
	}
	if !sim.inBounds(entrance, Size{W: 1, H: 1}) {
		return nil, fmt.Errorf("entrance %s: %w", entrance, ErrOutOfBounds)
	}
	sim.entrance = entrance
	sim.network.AddVertex(entrance, nil)
	sim.occupied[entrance] = occupant{kind: occEntrance}
	sim.Money = cfg.StartMoney
	logrus.Infof("Park created: entrance %s, grid %dx%d, funds %d", entrance, cfg.GridWidth, cfg.GridHeight, cfg.StartMoney)
	return sim, nil
}

func newSimulator(cfg ParkConfig, catalog Catalog, seed int64) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid park config: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &Simulator{
		Metrics:  NewMetrics(),
		cfg:      cfg,
		catalog:  catalog,
		network:  road.NewNetwork(),
		occupied: make(map[road.Tile]occupant),
		speed:    SpeedStopped,
		events:   make(EventQueue, 0),
		rng:      NewPartitionedRNG(NewSimulationKey(seed)),
	}, nil
}

// Tick advances the park by one step.
//
// While running, the step order is: matured completions, arrivals,
// reputation, need decay, plants, games, restaurants, restrooms, upkeep,
// then agent movement. While stopped only agents move and the clock holds.
func (sim *Simulator) Tick() {
	running := sim.speed == SpeedRunning
	if running {
		logrus.Debugf("[tick %07d] begin: %d guests, %d employees, funds %d", sim.Clock, len(sim.guests), len(sim.employees), sim.Money)
		sim.drainDue()
		sim.spawnStep()
		sim.updateReputation()
		sim.decayNeeds()
		sim.applyPlants()
		for _, kind := range facilityKindOrder {
			sim.checkFacilities(kind)
		}
		sim.chargeMaintenance()
	}
	sim.moveEmployees()
	sim.moveGuests()
	if running {
		sim.checkInvariants()
		sim.Metrics.PeakGuests = max(sim.Metrics.PeakGuests, len(sim.guests))
		sim.Metrics.TicksSimulated++
		sim.Clock++
	}
}

// Run executes n ticks.
func (sim *Simulator) Run(n int) {
	for i := 0; i < n; i++ {
		sim.Tick()
	}
	logrus.Infof("[tick %07d] Ran %d ticks: %d guests, funds %d, reputation %d", sim.Clock, n, len(sim.guests), sim.Money, sim.Reputation)
}

// SetSpeed switches between stopped and running. A park that hit game over
// stays stopped.
func (sim *Simulator) SetSpeed(s Speed) {
	if sim.gameOver && s == SpeedRunning {
		logrus.Warnf("Ignoring resume: the game is over")
		return
	}
	sim.speed = s
}

// Speed returns the current run mode.
func (sim *Simulator) Speed() Speed { return sim.speed }

// GameOver reports whether funds fell below the configured threshold.
func (sim *Simulator) GameOver() bool { return sim.gameOver }

// Config returns the park settings.
func (sim *Simulator) Config() ParkConfig { return sim.cfg }

// Network returns the road network. Callers must not mutate it directly.
func (sim *Simulator) Network() *road.Network { return sim.network }

// Entrance returns the park entrance tile.
func (sim *Simulator) Entrance() road.Tile { return sim.entrance }

// Guests returns the guests currently in the park, oldest first.
func (sim *Simulator) Guests() []*Guest { return append([]*Guest(nil), sim.guests...) }

// Employees returns every hired employee; the index is the employee handle.
func (sim *Simulator) Employees() []*Employee { return append([]*Employee(nil), sim.employees...) }

// Facilities returns the facilities in placement order.
func (sim *Simulator) Facilities() []*Facility { return append([]*Facility(nil), sim.facilities...) }

// Plants returns the plants in placement order.
func (sim *Simulator) Plants() []*Plant { return append([]*Plant(nil), sim.plants...) }

// Facility returns the facility with the given ID, or nil.
func (sim *Simulator) Facility(id int) *Facility {
	for _, f := range sim.facilities {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Guest returns the guest with the given ID, or nil once it has left.
func (sim *Simulator) Guest(id int) *Guest {
	for _, g := range sim.guests {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// EnableTrace starts recording decisions at the given level.
func (sim *Simulator) EnableTrace(level trace.TraceLevel) {
	if level == trace.TraceLevelNone || level == "" {
		sim.trace = nil
		return
	}
	sim.trace = trace.NewSimulationTrace(level)
}

// Trace returns the decision trace, or nil when tracing is off.
func (sim *Simulator) Trace() *trace.SimulationTrace { return sim.trace }

// Stats is a compact view of the park for presentation layers.
type Stats struct {
	Clock      int64 `json:"clock"`
	Money      int   `json:"money"`
	Reputation int   `json:"reputation"`
	Guests     int   `json:"guests"`
	Employees  int   `json:"employees"`
	Facilities int   `json:"facilities"`
	Broken     int   `json:"broken"`
	Speed      Speed `json:"speed"`
	GameOver   bool  `json:"game_over"`
}

// Stats summarizes the current park state.
func (sim *Simulator) Stats() Stats {
	broken := 0
	for _, f := range sim.facilities {
		if f.out() {
			broken++
		}
	}
	return Stats{
		Clock:      sim.Clock,
		Money:      sim.Money,
		Reputation: sim.Reputation,
		Guests:     len(sim.guests),
		Employees:  len(sim.employees),
		Facilities: len(sim.facilities),
		Broken:     broken,
		Speed:      sim.speed,
		GameOver:   sim.gameOver,
	}
}

// route returns the shortest path between two tiles, or ok=false if either is
// off the network or no path connects them.
func (sim *Simulator) route(from, to road.Tile) ([]road.Tile, bool) {
	if !sim.network.HasVertex(from) || !sim.network.HasVertex(to) {
		return nil, false
	}
	return sim.network.ShortestPath(from, to)
}

// routeToFacility returns the shortest path from a tile to the facility's
// nearest entrance. Ties go to the entrance listed first.
func (sim *Simulator) routeToFacility(from road.Tile, f *Facility) ([]road.Tile, bool) {
	var best []road.Tile
	for _, e := range sim.entrances(f) {
		if p, ok := sim.route(from, e); ok && (best == nil || len(p) < len(best)) {
			best = p
		}
	}
	return best, best != nil
}

// entrances lists the road tiles edge-adjacent to the facility's footprint,
// scanning the footprint row by row.
func (sim *Simulator) entrances(f *Facility) []road.Tile {
	var out []road.Tile
	seen := make(map[road.Tile]bool)
	for _, t := range f.Footprint() {
		for _, o := range t.Orthogonal() {
			if seen[o] || f.Covers(o) || !sim.network.HasVertex(o) {
				continue
			}
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// Connected reports whether the facility can be reached from the park entrance.
func (sim *Simulator) Connected(f *Facility) bool {
	_, ok := sim.routeToFacility(sim.entrance, f)
	return ok
}

// checkInvariants verifies meters and health stay within [0, 100] and that
// no employee is assigned to two facilities.
func (sim *Simulator) checkInvariants() {
	for _, g := range sim.guests {
		for name, v := range map[string]int{"happiness": g.Happiness, "hunger": g.Hunger, "toilet": g.Toilet} {
			if v < 0 || v > 100 {
				sim.violation(fmt.Sprintf("guest %d %s=%d outside [0, 100]", g.ID, name, v))
			}
		}
	}
	assigned := make(map[int]int)
	for _, f := range sim.facilities {
		if f.HealthPercent < 0 || f.HealthPercent > 100 {
			sim.violation(fmt.Sprintf("facility %d health=%d outside [0, 100]", f.ID, f.HealthPercent))
		}
		if f.Janitor == -1 {
			continue
		}
		if other, dup := assigned[f.Janitor]; dup {
			sim.violation(fmt.Sprintf("employee %d assigned to facilities %d and %d", f.Janitor, other, f.ID))
		}
		assigned[f.Janitor] = f.ID
	}
}

func (sim *Simulator) violation(msg string) {
	if sim.cfg.Debug {
		panic("invariant violation: " + msg)
	}
	logrus.Errorf("[tick %07d] invariant violation: %s", sim.Clock, msg)
}
