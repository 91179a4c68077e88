package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/parksim/parksim/sim/trace"
)

// checkFacilities runs one step of the service cycle for every facility of a kind.
func (sim *Simulator) checkFacilities(kind FacilityKind) {
	for _, f := range sim.facilities {
		if f.Kind != kind {
			continue
		}
		switch f.Status {
		case FacilityBroken:
			sim.handleBroken(f)
		case FacilityRepairing:
			sim.handleRepairing(f)
		default:
			sim.startService(f)
		}
	}
}

// handleBroken turns away guests still heading for the facility and asks
// for an employee.
func (sim *Simulator) handleBroken(f *Facility) {
	for _, g := range sim.guests {
		if g.TargetID != f.ID || (g.Status != GuestWalking && g.Status != GuestWaiting) {
			continue
		}
		g.clearRoute()
		sim.setGuestStatus(g, GuestIdle)
		sim.planGuest(g)
	}
	f.Waiting.Clear()
	sim.DispatchEmployee(f.Position, f.ID)
}

// handleRepairing starts the repair once the assigned employee has arrived.
// If the employee was lost the facility goes back to waiting for help.
func (sim *Simulator) handleRepairing(f *Facility) {
	j := f.Janitor
	if j < 0 || j >= len(sim.employees) {
		f.Janitor = -1
		f.Status = FacilityBroken
		return
	}
	e := sim.employees[j]
	switch {
	case e.Status == EmployeeRepairing && e.TargetID == f.ID:
		return
	case e.Status != EmployeeToRepair || e.TargetID != f.ID:
		logrus.Warnf("[tick %07d] Employee %d no longer assigned to facility %d", sim.Clock, e.ID, f.ID)
		f.Janitor = -1
		f.Status = FacilityBroken
		return
	case len(e.Path) > 0 || e.Position != e.Target:
		return
	}
	sim.setEmployeeStatus(e, EmployeeRepairing)
	sim.Schedule(&RepairCompletionEvent{
		time:       sim.Clock + int64(sim.cfg.RepairTicks),
		FacilityID: f.ID,
		Employee:   j,
	})
}

// startService admits waiting guests. A game runs only once enough guests
// are waiting to fill its minimum usage; restaurants and restrooms admit one
// guest at a time up to capacity.
func (sim *Simulator) startService(f *Facility) {
	if f.Kind == KindGame {
		if f.Status != FacilityReady {
			return
		}
		n := f.batchThreshold()
		if f.Waiting.Len() < n {
			return
		}
		sim.beginService(f, f.Waiting.DequeueN(n))
		return
	}
	if f.Serving >= f.ServeCapacity || f.Waiting.Len() == 0 {
		return
	}
	sim.beginService(f, f.Waiting.DequeueN(1))
}

func (sim *Simulator) beginService(f *Facility, ids []int) {
	served := make([]int, 0, len(ids))
	for _, id := range ids {
		g := sim.Guest(id)
		if g == nil {
			continue
		}
		sim.setGuestStatus(g, f.servingStatus())
		served = append(served, id)
	}
	if len(served) == 0 {
		return
	}
	f.Serving += len(served)
	f.Status = FacilityServing
	sim.Schedule(&ServiceCompletionEvent{
		time:       sim.Clock + int64(f.Duration),
		priority:   eventKindPriority[f.Kind],
		FacilityID: f.ID,
		GuestIDs:   served,
	})
	logrus.Debugf("[tick %07d] %s started serving %v", sim.Clock, f, served)
}

// completeService releases the guests of one service cycle, charges them,
// and wears the facility down, breaking it below the health floor. A cycle
// whose facility was removed is a no-op: removal already released its guests.
func (sim *Simulator) completeService(facilityID int, guestIDs []int) {
	f := sim.Facility(facilityID)
	if f == nil {
		return
	}
	for _, id := range guestIDs {
		g := sim.Guest(id)
		if g == nil || !g.inService() || g.TargetID != facilityID {
			continue
		}
		f.serve(g)
		sim.Money += f.UsagePrice
		sim.Metrics.UsageRevenue += f.UsagePrice
		g.clearRoute()
		sim.setGuestStatus(g, GuestIdle)
	}
	f.Serving = max(0, f.Serving-len(guestIDs))
	if f.out() {
		return
	}
	sim.Metrics.Services[f.Kind]++
	f.HealthPercent = max(0, f.HealthPercent-sim.cfg.HealthDecay)
	if f.HealthPercent < sim.cfg.BrokenBelow {
		sim.breakDown(f)
		return
	}
	if f.Serving == 0 {
		f.Status = FacilityReady
	}
}

func (sim *Simulator) breakDown(f *Facility) {
	f.Status = FacilityBroken
	for _, id := range f.Waiting.Clear() {
		if g := sim.Guest(id); g != nil && g.Status == GuestWaiting {
			g.clearRoute()
			sim.setGuestStatus(g, GuestIdle)
		}
	}
	sim.Metrics.Breakdowns++
	sim.recordFacility(f, "broke")
	logrus.Infof("[tick %07d] %s broke down", sim.Clock, f)
	sim.notifyBroke(f.Position)
}

// completeRepair restores the facility if the employee still holds the job,
// then returns the employee to patrol.
func (sim *Simulator) completeRepair(facilityID, j int) {
	var e *Employee
	if j >= 0 && j < len(sim.employees) {
		e = sim.employees[j]
		if e.Status != EmployeeRepairing || e.TargetID != facilityID {
			e = nil
		}
	}
	if f := sim.Facility(facilityID); f != nil && f.Janitor == j {
		f.HealthPercent = 100
		f.Status = FacilityReady
		f.Janitor = -1
		sim.Metrics.Repairs++
		sim.recordFacility(f, "repaired")
		logrus.Infof("[tick %07d] %s repaired", sim.Clock, f)
		sim.notifyRepaired(f.Position)
	}
	if e != nil {
		e.clearRoute()
		sim.patrol(e)
	}
}

// chargeMaintenance bills upkeep for every ready facility and ends the game
// when funds sink below the floor.
func (sim *Simulator) chargeMaintenance() {
	if sim.Clock == 0 || sim.Clock%int64(sim.cfg.MaintenanceEvery) != 0 {
		return
	}
	cost := 0
	for _, f := range sim.facilities {
		if f.Status == FacilityReady {
			cost += f.maintenance()
		}
	}
	sim.Money -= cost
	sim.Metrics.MaintenanceCharge += cost
	logrus.Debugf("[tick %07d] Charged %d maintenance, funds %d", sim.Clock, cost, sim.Money)
	if sim.Money < sim.cfg.GameOverMoney && !sim.gameOver {
		sim.gameOver = true
		sim.speed = SpeedStopped
		logrus.Warnf("[tick %07d] Game over: funds %d below %d", sim.Clock, sim.Money, sim.cfg.GameOverMoney)
		sim.notifyGameOver()
	}
}

func (sim *Simulator) recordFacility(f *Facility, event string) {
	if sim.trace == nil {
		return
	}
	sim.trace.RecordFacility(trace.FacilityRecord{
		Clock:      sim.Clock,
		FacilityID: f.ID,
		Event:      event,
		Health:     f.HealthPercent,
	})
}
