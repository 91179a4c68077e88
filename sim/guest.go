package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/parksim/parksim/sim/road"
	"github.com/parksim/parksim/sim/trace"
)

// SpawnGuest admits a new guest at the entrance, collects the entrance fee,
// and lets the guest pick a first destination.
func (sim *Simulator) SpawnGuest() *Guest {
	g := &Guest{
		Agent: Agent{
			ID:       sim.nextAgentID,
			Position: sim.entrance,
			Target:   road.Unset,
			TargetID: -1,
		},
		Status:    GuestIdle,
		Happiness: 100,
		Money:     sim.cfg.GuestStartMoney,
	}
	sim.nextAgentID++
	sim.guests = append(sim.guests, g)
	sim.Money += sim.cfg.EntranceFee
	sim.Metrics.GuestsSpawned++
	sim.Metrics.EntranceRevenue += sim.cfg.EntranceFee
	logrus.Debugf("[tick %07d] Guest %d arrived", sim.Clock, g.ID)
	sim.planGuest(g)
	return g
}

func (sim *Simulator) spawnStep() {
	if sim.cfg.SpawnInterval > 0 && sim.Clock%int64(sim.cfg.SpawnInterval) == 0 {
		sim.SpawnGuest()
		return
	}
	if sim.cfg.RandomArrivals && oneIn(sim.rng.ForSubsystem(SubsystemArrivals), 101-sim.Reputation) {
		sim.SpawnGuest()
	}
}

// updateReputation sets reputation to the mean guest happiness. An empty park
// keeps its last value.
func (sim *Simulator) updateReputation() {
	if len(sim.guests) == 0 {
		return
	}
	total := 0
	for _, g := range sim.guests {
		total += g.Happiness
	}
	sim.Reputation = total / len(sim.guests)
}

func (sim *Simulator) decayNeeds() {
	for _, g := range sim.guests {
		switch g.Status {
		case GuestWaiting:
			if g.Happiness > 2 {
				g.Happiness -= 2
			}
		case GuestIdle, GuestWalking:
			if g.Happiness > 2 {
				g.Happiness--
			}
		}
		if g.Hunger > sim.cfg.UnhappyThreshold && g.Happiness > 2 {
			g.Happiness--
		}
		if g.Toilet > sim.cfg.UnhappyThreshold && g.Happiness > 2 {
			g.Happiness--
		}
		g.Hunger = clampMeter(g.Hunger + 1)
		g.Toilet = clampMeter(g.Toilet + 1)
	}
}

func (sim *Simulator) applyPlants() {
	for _, p := range sim.plants {
		for _, g := range sim.guests {
			if g.Happiness < 80 && p.Reaches(g.Position) {
				g.Happiness = clampMeter(g.Happiness + p.Happiness)
			}
		}
	}
}

// planGuest chooses the guest's next destination. Broke, miserable or
// stranded guests head for the exit; a guest with no reachable choice stays
// idle and retries next tick.
func (sim *Simulator) planGuest(g *Guest) {
	if g.Money <= 0 || g.Happiness <= 0 || !sim.network.HasVertex(g.Position) {
		sim.sendHome(g)
		return
	}
	f, path := sim.pickDestination(g)
	if f == nil {
		return
	}
	g.setRoute(path, f.ID)
	sim.setGuestStatus(g, GuestWalking)
}

func (sim *Simulator) sendHome(g *Guest) {
	g.clearRoute()
	g.Target = sim.entrance
	g.Path, _ = sim.route(g.Position, sim.entrance)
	sim.setGuestStatus(g, GuestOut)
}

// pickDestination prefers a restaurant for a hungry guest and a restroom for
// one who needs it, each with a chance that grows with the need. Otherwise a
// game is picked uniformly among eligible ones.
func (sim *Simulator) pickDestination(g *Guest) (*Facility, []road.Tile) {
	rng := sim.rng.ForSubsystem(SubsystemGuests)
	if g.Hunger > sim.cfg.NeedThreshold && oneIn(rng, 101-g.Hunger) {
		if f, path := sim.randomEligible(g.Position, KindRestaurant, rng); f != nil {
			return f, path
		}
	}
	if g.Toilet > sim.cfg.NeedThreshold && oneIn(rng, 101-g.Toilet) {
		if f, path := sim.randomEligible(g.Position, KindRestroom, rng); f != nil {
			return f, path
		}
	}
	return sim.randomEligible(g.Position, KindGame, rng)
}

// randomEligible picks uniformly among working facilities of a kind that are
// below the waiting soft cap and reachable from the given tile.
func (sim *Simulator) randomEligible(from road.Tile, kind FacilityKind, rng *rand.Rand) (*Facility, []road.Tile) {
	var (
		candidates []*Facility
		paths      [][]road.Tile
	)
	for _, f := range sim.facilities {
		if f.Kind != kind || f.out() || f.Waiting.Len() >= sim.cfg.WaitingSoftCap {
			continue
		}
		if path, ok := sim.routeToFacility(from, f); ok {
			candidates = append(candidates, f)
			paths = append(paths, path)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	i := rng.Intn(len(candidates))
	return candidates[i], paths[i]
}

func (sim *Simulator) moveGuests() {
	kept := sim.guests[:0]
	for _, g := range sim.guests {
		if g.Status == GuestIdle {
			sim.planGuest(g)
		}
		switch g.Status {
		case GuestWalking:
			sim.advanceGuest(g)
		case GuestOut:
			if len(g.Path) == 0 {
				sim.removeGuest(g)
				continue
			}
			g.step()
		}
		kept = append(kept, g)
	}
	clear(sim.guests[len(kept):])
	sim.guests = kept
}

// advanceGuest steps a walking guest and, on arrival, joins the target's line.
func (sim *Simulator) advanceGuest(g *Guest) {
	if len(g.Path) > 1 {
		g.step()
		return
	}
	if len(g.Path) == 1 {
		g.Position = g.Path[0]
	}
	g.Path = nil
	f := sim.Facility(g.TargetID)
	if f == nil || f.out() {
		g.clearRoute()
		sim.setGuestStatus(g, GuestIdle)
		return
	}
	f.Waiting.Enqueue(g.ID)
	sim.setGuestStatus(g, GuestWaiting)
}

func (sim *Simulator) removeGuest(g *Guest) {
	for _, f := range sim.facilities {
		f.Waiting.Remove(g.ID)
	}
	sim.Metrics.GuestsExited++
	logrus.Debugf("[tick %07d] Guest %d left with %d money, happiness %d", sim.Clock, g.ID, g.Money, g.Happiness)
}

func (sim *Simulator) setGuestStatus(g *Guest, s GuestStatus) {
	if g.Status == s {
		return
	}
	if sim.trace != nil {
		sim.trace.RecordTransition(trace.TransitionRecord{
			Clock:   sim.Clock,
			AgentID: g.ID,
			Role:    "guest",
			From:    string(g.Status),
			To:      string(s),
		})
	}
	g.Status = s
}
