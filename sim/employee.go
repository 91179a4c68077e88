package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/parksim/parksim/sim/road"
	"github.com/parksim/parksim/sim/trace"
)

// BuyEmployee hires an employee at the entrance and returns its index, the
// handle used by DispatchEmployee and repair records.
func (sim *Simulator) BuyEmployee() (int, error) {
	if sim.Money < sim.cfg.EmployeePrice {
		return -1, fmt.Errorf("hiring costs %d, have %d: %w", sim.cfg.EmployeePrice, sim.Money, ErrInsufficientFunds)
	}
	sim.Money -= sim.cfg.EmployeePrice
	e := &Employee{
		Agent: Agent{
			ID:       sim.nextAgentID,
			Position: sim.entrance,
			Target:   road.Unset,
			TargetID: -1,
		},
		Status: EmployeeIdle,
	}
	sim.nextAgentID++
	sim.employees = append(sim.employees, e)
	logrus.Infof("Hired employee %d", e.ID)
	sim.patrol(e)
	return len(sim.employees) - 1, nil
}

// patrol sends the employee toward a random reachable game or restaurant.
// With nothing reachable the employee idles and tries again next tick.
func (sim *Simulator) patrol(e *Employee) {
	if !sim.network.HasVertex(e.Position) {
		e.Position = sim.entrance
	}
	var (
		candidates []*Facility
		paths      [][]road.Tile
	)
	for _, f := range sim.facilities {
		if f.Kind != KindGame && f.Kind != KindRestaurant {
			continue
		}
		if path, ok := sim.routeToFacility(e.Position, f); ok {
			candidates = append(candidates, f)
			paths = append(paths, path)
		}
	}
	if len(candidates) == 0 {
		e.clearRoute()
		sim.setEmployeeStatus(e, EmployeeIdle)
		return
	}
	i := sim.rng.ForSubsystem(SubsystemEmployees).Intn(len(candidates))
	e.setRoute(paths[i], -1)
	sim.setEmployeeStatus(e, EmployeeWalking)
}

// moveEmployees advances every employee one tile. A patrolling employee
// with at most its final waypoint left picks a new destination instead.
func (sim *Simulator) moveEmployees() {
	for i, e := range sim.employees {
		switch e.Status {
		case EmployeeToRepair:
			if len(e.Path) > 0 {
				e.step()
			}
			if len(e.Path) == 0 && e.Position != e.Target {
				sim.rerouteRepair(i, e)
			}
		case EmployeeWalking:
			if len(e.Path) > 1 {
				e.step()
			} else {
				sim.patrol(e)
			}
		case EmployeeIdle:
			sim.patrol(e)
		}
	}
}

// DispatchEmployee assigns the first available employee that can reach the
// broken facility covering at, and returns its index. It returns -1 when the
// facility is not waiting for help or nobody can reach it. Asking twice for
// the same breakdown assigns at most one employee.
func (sim *Simulator) DispatchEmployee(at road.Tile, facilityID int) int {
	f := sim.Facility(facilityID)
	if f == nil {
		panic(fmt.Sprintf("DispatchEmployee: no facility %d", facilityID))
	}
	if !f.Covers(at) {
		panic(fmt.Sprintf("DispatchEmployee: facility %d does not cover %s", facilityID, at))
	}
	if f.Status != FacilityBroken || f.Janitor != -1 {
		return -1
	}
	for i, e := range sim.employees {
		if !e.available() {
			continue
		}
		if !sim.network.HasVertex(e.Position) {
			e.Position = sim.entrance
		}
		path, ok := sim.routeToFacility(e.Position, f)
		if !ok {
			continue
		}
		e.setRoute(path, f.ID)
		sim.setEmployeeStatus(e, EmployeeToRepair)
		f.Janitor = i
		f.Status = FacilityRepairing
		sim.recordDispatch(f.ID, i, "assigned")
		logrus.Debugf("[tick %07d] Employee %d dispatched to %s", sim.Clock, e.ID, f)
		return i
	}
	sim.Metrics.DispatchFailures++
	sim.recordDispatch(f.ID, -1, "no reachable employee")
	logrus.Warnf("[tick %07d] No employee can reach broken facility %d", sim.Clock, f.ID)
	return -1
}

// rerouteRepair recomputes an employee's path to its repair job, giving the
// job up if the facility is gone or unreachable.
func (sim *Simulator) rerouteRepair(i int, e *Employee) {
	f := sim.Facility(e.TargetID)
	if f == nil {
		e.clearRoute()
		sim.setEmployeeStatus(e, EmployeeIdle)
		return
	}
	if sim.network.HasVertex(e.Position) {
		if path, ok := sim.routeToFacility(e.Position, f); ok {
			e.setRoute(path, f.ID)
			return
		}
	}
	if f.Janitor == i {
		f.Janitor = -1
		f.Status = FacilityBroken
	}
	e.clearRoute()
	sim.setEmployeeStatus(e, EmployeeIdle)
	sim.recordDispatch(f.ID, -1, "route lost")
	logrus.Warnf("[tick %07d] Employee %d lost its route to facility %d", sim.Clock, e.ID, f.ID)
}

func (sim *Simulator) setEmployeeStatus(e *Employee, s EmployeeStatus) {
	if e.Status == s {
		return
	}
	if sim.trace != nil {
		sim.trace.RecordTransition(trace.TransitionRecord{
			Clock:   sim.Clock,
			AgentID: e.ID,
			Role:    "employee",
			From:    string(e.Status),
			To:      string(s),
		})
	}
	e.Status = s
}

func (sim *Simulator) recordDispatch(facilityID, employee int, reason string) {
	if sim.trace == nil {
		return
	}
	sim.trace.RecordDispatch(trace.DispatchRecord{
		Clock:      sim.Clock,
		FacilityID: facilityID,
		Employee:   employee,
		Reason:     reason,
	})
}
