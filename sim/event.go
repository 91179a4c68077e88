package sim

import (
	"container/heap"

	"github.com/sirupsen/logrus"
)

// Event is a delayed completion scheduled for an absolute tick.
// Each event has a Timestamp (in ticks) and an Execute method that
// advances simulation state when the tick matures.
type Event interface {
	Timestamp() int64
	Priority() int // lower runs first among events due on the same tick
	Execute(*Simulator)
}

// Same-tick ordering: service completions follow the facility processing
// order, and repairs settle after every service.
var eventKindPriority = map[FacilityKind]int{
	KindGame:       0,
	KindRestaurant: 1,
	KindRestroom:   2,
}

const repairPriority = 3

// ServiceCompletionEvent ends one service cycle at a facility.
type ServiceCompletionEvent struct {
	time       int64
	priority   int
	FacilityID int
	GuestIDs   []int
}

// Timestamp returns the tick the service ends.
func (e *ServiceCompletionEvent) Timestamp() int64 { return e.time }

func (e *ServiceCompletionEvent) Priority() int { return e.priority }

// Execute releases the served guests and wears the facility.
func (e *ServiceCompletionEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< ServiceCompletion: facility %d, guests %v at %d ticks", e.FacilityID, e.GuestIDs, e.time)
	sim.completeService(e.FacilityID, e.GuestIDs)
}

// RepairCompletionEvent ends an employee's repair job.
type RepairCompletionEvent struct {
	time       int64
	FacilityID int
	Employee   int // index into the employee list
}

// Timestamp returns the tick the repair ends.
func (e *RepairCompletionEvent) Timestamp() int64 { return e.time }

func (e *RepairCompletionEvent) Priority() int { return repairPriority }

// Execute restores the facility and sends the employee back on patrol.
func (e *RepairCompletionEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< RepairCompletion: facility %d by employee %d at %d ticks", e.FacilityID, e.Employee, e.time)
	sim.completeRepair(e.FacilityID, e.Employee)
}

// eventEntry wraps an Event with a sequence ID for deterministic FIFO
// tie-breaking when timestamp and priority are equal.
type eventEntry struct {
	event Event
	seqID int64
}

// EventQueue is a min-heap ordered by (Timestamp, Priority, seqID).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []eventEntry

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].event.Timestamp() != eq[j].event.Timestamp() {
		return eq[i].event.Timestamp() < eq[j].event.Timestamp()
	}
	if eq[i].event.Priority() != eq[j].event.Priority() {
		return eq[i].event.Priority() < eq[j].event.Priority()
	}
	return eq[i].seqID < eq[j].seqID
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(eventEntry))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Schedule pushes an event onto the simulator's queue.
func (sim *Simulator) Schedule(ev Event) {
	sim.nextSeq++
	heap.Push(&sim.events, eventEntry{event: ev, seqID: sim.nextSeq})
}

// drainDue executes, in order, every event due at or before the current tick.
func (sim *Simulator) drainDue() {
	for len(sim.events) > 0 && sim.events[0].event.Timestamp() <= sim.Clock {
		ev := heap.Pop(&sim.events).(eventEntry).event
		logrus.Debugf("[tick %07d] Executing %T", sim.Clock, ev)
		ev.Execute(sim)
	}
}

// pending returns the scheduled events in execution order without consuming them.
func (sim *Simulator) pending() []Event {
	cp := make(EventQueue, len(sim.events))
	copy(cp, sim.events)
	out := make([]Event, 0, len(cp))
	for cp.Len() > 0 {
		out = append(out, heap.Pop(&cp).(eventEntry).event)
	}
	return out
}
