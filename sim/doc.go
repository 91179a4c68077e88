// Package sim provides the tick-driven amusement park simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - simulator.go: the Simulator state and the per-tick step order
//   - agent.go: guest and employee lifecycles
//   - facility.go: facilities, plants, and what a service does to a guest
//   - service.go: the service cycle, breakdowns, repairs, and upkeep
//   - event.go: delayed completions ordered by (tick, priority, sequence)
//
// # Architecture
//
// Roads form an undirected graph kept in sim/road; agents walk shortest
// paths over it. Persistence lives in sim/store, the live websocket feed in
// sim/feed, and decision tracing in sim/trace. None of those sub-packages
// mutate a Simulator: they consume Snapshot, Stats, and Observer callbacks.
//
// Randomness is partitioned per subsystem (arrivals, guests, employees) so
// that changing one subsystem's draws does not perturb the others.
package sim
