package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/parksim/parksim/sim/road"
)

// Snapshot is a self-contained copy of a park, suitable for saving and
// restoring. Random streams are captured as per-subsystem draw counts: a park
// restored with the same seed replays them and continues the same sequences.
type Snapshot struct {
	Clock        int64               `yaml:"clock" json:"clock"`
	Money        int                 `yaml:"money" json:"money"`
	Reputation   int                 `yaml:"reputation" json:"reputation"`
	Speed        Speed               `yaml:"speed" json:"speed"`
	GameOver     bool                `yaml:"game_over" json:"game_over"`
	NextObjectID int                 `yaml:"next_object_id" json:"next_object_id"`
	NextAgentID  int                 `yaml:"next_agent_id" json:"next_agent_id"`
	Entrance     road.Tile           `yaml:"entrance" json:"entrance"`
	Roads        []road.Vertex       `yaml:"roads" json:"roads"`
	Facilities   []FacilityState     `yaml:"facilities" json:"facilities"`
	Plants       []Plant             `yaml:"plants" json:"plants"`
	Guests       []Guest             `yaml:"guests" json:"guests"`
	Employees    []Employee          `yaml:"employees" json:"employees"`
	Pending      []PendingCompletion `yaml:"pending" json:"pending"`
	Metrics      Metrics             `yaml:"metrics" json:"metrics"`
	RNGDraws     map[string]int64    `yaml:"rng_draws,omitempty" json:"rng_draws,omitempty"`
}

// FacilityState is a facility together with its waiting line.
type FacilityState struct {
	Facility Facility `yaml:"facility" json:"facility"`
	Waiting  []int    `yaml:"waiting,flow" json:"waiting"`
}

// Completion kinds in a PendingCompletion.
const (
	CompletionService = "service"
	CompletionRepair  = "repair"
)

// PendingCompletion is a scheduled service or repair completion, listed in
// execution order.
type PendingCompletion struct {
	Kind       string `yaml:"kind" json:"kind"`
	Due        int64  `yaml:"due" json:"due"`
	Priority   int    `yaml:"priority" json:"priority"`
	FacilityID int    `yaml:"facility_id" json:"facility_id"`
	GuestIDs   []int  `yaml:"guest_ids,flow,omitempty" json:"guest_ids,omitempty"`
	Employee   int    `yaml:"employee" json:"employee"`
}

// Snapshot copies the full park state.
func (sim *Simulator) Snapshot() *Snapshot {
	snap := &Snapshot{
		Clock:        sim.Clock,
		Money:        sim.Money,
		Reputation:   sim.Reputation,
		Speed:        sim.speed,
		GameOver:     sim.gameOver,
		NextObjectID: sim.nextObjectID,
		NextAgentID:  sim.nextAgentID,
		Entrance:     sim.entrance,
		Roads:        sim.network.Adjacency(),
		Metrics:      sim.Metrics.clone(),
		RNGDraws:     sim.rng.Draws(),
	}
	for _, f := range sim.facilities {
		cp := *f
		cp.Waiting = nil
		snap.Facilities = append(snap.Facilities, FacilityState{Facility: cp, Waiting: f.Waiting.Items()})
	}
	for _, p := range sim.plants {
		snap.Plants = append(snap.Plants, *p)
	}
	for _, g := range sim.guests {
		cp := *g
		cp.Path = append([]road.Tile(nil), g.Path...)
		snap.Guests = append(snap.Guests, cp)
	}
	for _, e := range sim.employees {
		cp := *e
		cp.Path = append([]road.Tile(nil), e.Path...)
		snap.Employees = append(snap.Employees, cp)
	}
	for _, ev := range sim.pending() {
		switch ev := ev.(type) {
		case *ServiceCompletionEvent:
			snap.Pending = append(snap.Pending, PendingCompletion{
				Kind:       CompletionService,
				Due:        ev.time,
				Priority:   ev.priority,
				FacilityID: ev.FacilityID,
				GuestIDs:   append([]int(nil), ev.GuestIDs...),
				Employee:   -1,
			})
		case *RepairCompletionEvent:
			snap.Pending = append(snap.Pending, PendingCompletion{
				Kind:       CompletionRepair,
				Due:        ev.time,
				Priority:   repairPriority,
				FacilityID: ev.FacilityID,
				Employee:   ev.Employee,
			})
		}
	}
	return snap
}

// Restore rebuilds a park from a snapshot. Road neighbor order, waiting lines
// and pending completions come back exactly as captured.
func Restore(snap *Snapshot, cfg ParkConfig, catalog Catalog, seed int64) (*Simulator, error) {
	sim, err := newSimulator(cfg, catalog, seed)
	if err != nil {
		return nil, err
	}
	network, err := buildNetwork(snap.Roads)
	if err != nil {
		return nil, err
	}
	if !network.HasVertex(snap.Entrance) {
		return nil, fmt.Errorf("snapshot entrance %s is not a road tile", snap.Entrance)
	}
	sim.network = network
	sim.entrance = snap.Entrance
	sim.Clock = snap.Clock
	sim.Money = snap.Money
	sim.Reputation = snap.Reputation
	sim.speed = snap.Speed
	sim.gameOver = snap.GameOver
	sim.nextObjectID = snap.NextObjectID
	sim.nextAgentID = snap.NextAgentID
	if sim.speed == "" {
		sim.speed = SpeedStopped
	}
	m := snap.Metrics.clone()
	sim.Metrics = &m
	sim.rng.Replay(snap.RNGDraws)

	for _, v := range snap.Roads {
		sim.occupied[v.Tile] = occupant{kind: occRoad}
	}
	sim.occupied[snap.Entrance] = occupant{kind: occEntrance}
	for _, fs := range snap.Facilities {
		f := fs.Facility
		f.Waiting = NewWaitQueue(fs.Waiting...)
		if err := sim.occupy(footprint(f.Position, f.Size), occupant{kind: occFacility, id: f.ID}); err != nil {
			return nil, fmt.Errorf("restoring facility %d: %w", f.ID, err)
		}
		sim.facilities = append(sim.facilities, &f)
	}
	for _, p := range snap.Plants {
		if err := sim.occupy(footprint(p.Position, p.Size), occupant{kind: occPlant, id: p.ID}); err != nil {
			return nil, fmt.Errorf("restoring plant %d: %w", p.ID, err)
		}
		sim.plants = append(sim.plants, &p)
	}
	for _, g := range snap.Guests {
		g.Path = append([]road.Tile(nil), g.Path...)
		sim.guests = append(sim.guests, &g)
	}
	for _, e := range snap.Employees {
		e.Path = append([]road.Tile(nil), e.Path...)
		sim.employees = append(sim.employees, &e)
	}
	for _, pc := range snap.Pending {
		switch pc.Kind {
		case CompletionService:
			sim.Schedule(&ServiceCompletionEvent{
				time:       pc.Due,
				priority:   pc.Priority,
				FacilityID: pc.FacilityID,
				GuestIDs:   append([]int(nil), pc.GuestIDs...),
			})
		case CompletionRepair:
			sim.Schedule(&RepairCompletionEvent{time: pc.Due, FacilityID: pc.FacilityID, Employee: pc.Employee})
		default:
			return nil, fmt.Errorf("unknown pending completion kind %q", pc.Kind)
		}
	}
	logrus.Infof("Restored park at tick %d: %d facilities, %d guests, %d employees, %d pending completions",
		sim.Clock, len(sim.facilities), len(sim.guests), len(sim.employees), len(snap.Pending))
	return sim, nil
}

// buildNetwork converts the panic of a malformed adjacency list into an error.
func buildNetwork(roads []road.Vertex) (n *road.Network, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed road network: %v", r)
		}
	}()
	return road.FromAdjacency(roads), nil
}

func (sim *Simulator) occupy(tiles []road.Tile, occ occupant) error {
	for _, t := range tiles {
		if _, taken := sim.occupied[t]; taken {
			return fmt.Errorf("%s: %w", t, ErrOccupied)
		}
		sim.occupied[t] = occ
	}
	return nil
}
