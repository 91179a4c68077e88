// Defines the park's agents: guests who queue for facilities and employees
// who patrol and repair them. Behavior lives in guest.go and employee.go.

package sim

import (
	"fmt"

	"github.com/parksim/parksim/sim/road"
)

// GuestStatus is the lifecycle state of a guest.
type GuestStatus string

const (
	GuestIdle          GuestStatus = "idle"
	GuestWalking       GuestStatus = "walking"
	GuestWaiting       GuestStatus = "waiting"
	GuestPlaying       GuestStatus = "playing"
	GuestEating        GuestStatus = "eating"
	GuestUsingRestroom GuestStatus = "using-restroom"
	GuestOut           GuestStatus = "out" // heading for the exit
)

// EmployeeStatus is the lifecycle state of an employee.
type EmployeeStatus string

const (
	EmployeeIdle      EmployeeStatus = "idle"
	EmployeeWalking   EmployeeStatus = "walking" // patrolling
	EmployeeToRepair  EmployeeStatus = "to-repair"
	EmployeeRepairing EmployeeStatus = "repairing"
)

// Agent holds what guests and employees share.
type Agent struct {
	ID       int         `yaml:"id" json:"id"`
	Position road.Tile   `yaml:"position" json:"position"`
	Target   road.Tile   `yaml:"target" json:"target"`
	TargetID int         `yaml:"target_id" json:"target_id"` // facility ID, or -1
	Path     []road.Tile `yaml:"path,flow" json:"path"`      // remaining waypoints, head = next step
}

// step moves the agent onto the head of its path.
func (a *Agent) step() {
	a.Position = a.Path[0]
	a.Path = a.Path[1:]
}

// routesThrough reports whether t lies on the agent's remaining path.
func (a *Agent) routesThrough(t road.Tile) bool {
	for _, p := range a.Path {
		if p == t {
			return true
		}
	}
	return false
}

// clearRoute drops the agent's destination.
func (a *Agent) clearRoute() {
	a.Target = road.Unset
	a.TargetID = -1
	a.Path = nil
}

// setRoute points the agent along path, whose last tile becomes its target.
func (a *Agent) setRoute(path []road.Tile, targetID int) {
	a.Path = path
	a.Target = path[len(path)-1]
	a.TargetID = targetID
}

// Guest is a visitor with need meters and a wallet.
type Guest struct {
	Agent     `yaml:",inline"`
	Status    GuestStatus `yaml:"status" json:"status"`
	Happiness int         `yaml:"happiness" json:"happiness"`
	Hunger    int         `yaml:"hunger" json:"hunger"`
	Toilet    int         `yaml:"toilet" json:"toilet"`
	Money     int         `yaml:"money" json:"money"`
}

func (g *Guest) String() string {
	return fmt.Sprintf("Guest{ID: %d, Status: %s, At: %s, Happiness: %d, Hunger: %d, Toilet: %d, Money: %d}",
		g.ID, g.Status, g.Position, g.Happiness, g.Hunger, g.Toilet, g.Money)
}

// inService reports whether a facility currently holds the guest.
func (g *Guest) inService() bool {
	return g.Status == GuestPlaying || g.Status == GuestEating || g.Status == GuestUsingRestroom
}

// Employee is a maintenance worker. Employees are never removed, so their
// index in the simulator's employee list is a stable handle.
type Employee struct {
	Agent  `yaml:",inline"`
	Status EmployeeStatus `yaml:"status" json:"status"`
}

func (e *Employee) String() string {
	return fmt.Sprintf("Employee{ID: %d, Status: %s, At: %s, TargetID: %d}", e.ID, e.Status, e.Position, e.TargetID)
}

// available reports whether the employee can take a repair job.
func (e *Employee) available() bool {
	return e.Status == EmployeeIdle || e.Status == EmployeeWalking
}

// clampMeter bounds a need meter to [0, 100].
func clampMeter(v int) int {
	return max(0, min(100, v))
}
