package sim

import "github.com/parksim/parksim/sim/road"

// Observer receives fire-and-forget park notifications. Callbacks run inside
// the tick that raised them and must not call back into the Simulator.
type Observer interface {
	OnObjectBroke(at road.Tile)
	OnObjectRepaired(at road.Tile)
	OnGameOver()
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Broke    func(at road.Tile)
	Repaired func(at road.Tile)
	GameOver func()
}

func (o ObserverFuncs) OnObjectBroke(at road.Tile) {
	if o.Broke != nil {
		o.Broke(at)
	}
}

func (o ObserverFuncs) OnObjectRepaired(at road.Tile) {
	if o.Repaired != nil {
		o.Repaired(at)
	}
}

func (o ObserverFuncs) OnGameOver() {
	if o.GameOver != nil {
		o.GameOver()
	}
}

// Subscribe registers an observer. Observers are notified in subscription order.
func (sim *Simulator) Subscribe(o Observer) {
	sim.observers = append(sim.observers, o)
}

func (sim *Simulator) notifyBroke(at road.Tile) {
	for _, o := range sim.observers {
		o.OnObjectBroke(at)
	}
}

func (sim *Simulator) notifyRepaired(at road.Tile) {
	for _, o := range sim.observers {
		o.OnObjectRepaired(at)
	}
}

func (sim *Simulator) notifyGameOver() {
	for _, o := range sim.observers {
		o.OnGameOver()
	}
}
