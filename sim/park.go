package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/parksim/parksim/sim/road"
)

// KindRoad is the placement kind for a single road tile.
const KindRoad = "road"

var (
	ErrParkRunning       = errors.New("park must be stopped to edit the layout")
	ErrOutOfBounds       = errors.New("outside the park grid")
	ErrOccupied          = errors.New("tile already occupied")
	ErrUnknownKind       = errors.New("unknown object kind")
	ErrNothingThere      = errors.New("nothing to remove")
	ErrEntranceFixed     = errors.New("the entrance cannot be removed")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type occupantKind int

const (
	occEntrance occupantKind = iota
	occRoad
	occFacility
	occPlant
)

// occupant records what sits on a grid tile. id is the facility or plant ID.
type occupant struct {
	kind occupantKind
	id   int
}

// PlaceObject puts a road tile, a catalog facility or a plant with its
// top-left corner at the given tile. The park must be stopped.
func (sim *Simulator) PlaceObject(kind string, at road.Tile) error {
	if sim.speed != SpeedStopped {
		return fmt.Errorf("placing %s at %s: %w", kind, at, ErrParkRunning)
	}
	if kind == KindRoad {
		return sim.placeRoad(at)
	}
	if spec, ok := sim.catalog.Facilities[kind]; ok {
		return sim.placeFacility(kind, spec, at)
	}
	if spec, ok := sim.catalog.Plants[kind]; ok {
		return sim.placePlant(kind, spec, at)
	}
	return fmt.Errorf("placing %q at %s: %w", kind, at, ErrUnknownKind)
}

func (sim *Simulator) placeRoad(at road.Tile) error {
	if err := sim.claim(KindRoad, at, Size{W: 1, H: 1}, sim.cfg.RoadPrice); err != nil {
		return err
	}
	var neighbors []road.Tile
	for _, o := range at.Orthogonal() {
		if sim.network.HasVertex(o) {
			neighbors = append(neighbors, o)
		}
	}
	sim.network.AddVertex(at, neighbors)
	sim.occupied[at] = occupant{kind: occRoad}
	sim.Money -= sim.cfg.RoadPrice
	logrus.Debugf("Placed road at %s linked to %v", at, neighbors)
	return nil
}

func (sim *Simulator) placeFacility(name string, spec FacilitySpec, at road.Tile) error {
	if err := sim.claim(name, at, spec.Size, spec.Price); err != nil {
		return err
	}
	f := NewFacility(sim.nextObjectID, name, spec, at)
	sim.nextObjectID++
	for _, t := range f.Footprint() {
		sim.occupied[t] = occupant{kind: occFacility, id: f.ID}
	}
	sim.facilities = append(sim.facilities, f)
	sim.Money -= spec.Price
	logrus.Infof("Placed %s", f)
	return nil
}

func (sim *Simulator) placePlant(name string, spec PlantSpec, at road.Tile) error {
	if err := sim.claim(name, at, spec.Size, spec.Price); err != nil {
		return err
	}
	p := &Plant{
		ID:        sim.nextObjectID,
		Name:      name,
		Position:  at,
		Size:      spec.Size,
		Radius:    spec.Radius,
		Happiness: spec.Happiness,
	}
	sim.nextObjectID++
	for _, t := range footprint(at, spec.Size) {
		sim.occupied[t] = occupant{kind: occPlant, id: p.ID}
	}
	sim.plants = append(sim.plants, p)
	sim.Money -= spec.Price
	logrus.Debugf("Placed %s #%d at %s", name, p.ID, at)
	return nil
}

// claim checks that a footprint is free, inside the grid, and affordable.
func (sim *Simulator) claim(kind string, at road.Tile, size Size, price int) error {
	if !sim.inBounds(at, size) {
		return fmt.Errorf("placing %s at %s: %w", kind, at, ErrOutOfBounds)
	}
	for _, t := range footprint(at, size) {
		if _, taken := sim.occupied[t]; taken {
			return fmt.Errorf("placing %s at %s: %s: %w", kind, at, t, ErrOccupied)
		}
	}
	if sim.Money < price {
		return fmt.Errorf("placing %s at %s costs %d, have %d: %w", kind, at, price, sim.Money, ErrInsufficientFunds)
	}
	return nil
}

func (sim *Simulator) inBounds(at road.Tile, size Size) bool {
	return at.X >= 0 && at.Y >= 0 && at.X+size.W <= sim.cfg.GridWidth && at.Y+size.H <= sim.cfg.GridHeight
}

// RemoveObject deletes whatever occupies the tile and returns that object's
// top-left corner and size. The park must be stopped. Guests and employees
// whose plans involve the object are sent back to idle or rerouted.
func (sim *Simulator) RemoveObject(at road.Tile) (road.Tile, Size, error) {
	if sim.speed != SpeedStopped {
		return road.Unset, Size{}, fmt.Errorf("removing object at %s: %w", at, ErrParkRunning)
	}
	occ, ok := sim.occupied[at]
	if !ok {
		return road.Unset, Size{}, fmt.Errorf("removing object at %s: %w", at, ErrNothingThere)
	}
	switch occ.kind {
	case occEntrance:
		return road.Unset, Size{}, fmt.Errorf("removing object at %s: %w", at, ErrEntranceFixed)
	case occRoad:
		sim.removeRoad(at)
		return at, Size{W: 1, H: 1}, nil
	case occFacility:
		f := sim.Facility(occ.id)
		sim.removeFacility(f)
		return f.Position, f.Size, nil
	default:
		p := sim.removePlant(occ.id)
		return p.Position, p.Size, nil
	}
}

func (sim *Simulator) removeRoad(at road.Tile) {
	sim.network.RemoveVertex(at)
	delete(sim.occupied, at)
	logrus.Debugf("Removed road at %s", at)

	for _, g := range sim.guests {
		if !g.routesThrough(at) {
			continue
		}
		switch g.Status {
		case GuestWalking:
			g.clearRoute()
			sim.setGuestStatus(g, GuestIdle)
		case GuestOut:
			g.Path, _ = sim.route(g.Position, sim.entrance)
		}
	}
	for i, e := range sim.employees {
		if !e.routesThrough(at) {
			continue
		}
		switch e.Status {
		case EmployeeWalking:
			e.clearRoute()
			sim.setEmployeeStatus(e, EmployeeIdle)
		case EmployeeToRepair:
			sim.rerouteRepair(i, e)
		}
	}
}

func (sim *Simulator) removeFacility(f *Facility) {
	for _, g := range sim.guests {
		if g.TargetID != f.ID {
			continue
		}
		g.clearRoute()
		if g.Status != GuestOut {
			sim.setGuestStatus(g, GuestIdle)
		}
	}
	for _, e := range sim.employees {
		if e.TargetID == f.ID {
			e.clearRoute()
			sim.setEmployeeStatus(e, EmployeeIdle)
		}
	}
	for _, t := range f.Footprint() {
		delete(sim.occupied, t)
	}
	for i, other := range sim.facilities {
		if other == f {
			sim.facilities = append(sim.facilities[:i], sim.facilities[i+1:]...)
			break
		}
	}
	logrus.Infof("Removed %s", f)
}

func (sim *Simulator) removePlant(id int) *Plant {
	for i, p := range sim.plants {
		if p.ID != id {
			continue
		}
		for _, t := range footprint(p.Position, p.Size) {
			delete(sim.occupied, t)
		}
		sim.plants = append(sim.plants[:i], sim.plants[i+1:]...)
		return p
	}
	panic(fmt.Sprintf("occupancy refers to missing plant %d", id))
}
