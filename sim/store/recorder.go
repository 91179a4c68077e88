package store

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/parksim/parksim/sim"
	"github.com/parksim/parksim/sim/road"
)

// Recorder is a sim.Observer that logs notifications to a SQLiteStore.
// Write failures are logged and dropped; they never stall the tick loop.
type Recorder struct {
	ctx   context.Context
	store *SQLiteStore
	runID string
	clock func() int64
}

var _ sim.Observer = (*Recorder)(nil)

// NewRecorder logs notifications under runID, stamping each with clock().
func NewRecorder(ctx context.Context, s *SQLiteStore, runID string, clock func() int64) *Recorder {
	return &Recorder{ctx: ctx, store: s, runID: runID, clock: clock}
}

func (r *Recorder) OnObjectBroke(at road.Tile)    { r.append("broke", at) }
func (r *Recorder) OnObjectRepaired(at road.Tile) { r.append("repaired", at) }
func (r *Recorder) OnGameOver()                   { r.append("gameover", road.Unset) }

func (r *Recorder) append(kind string, at road.Tile) {
	err := r.store.AppendEvent(r.ctx, EventRecord{RunID: r.runID, Clock: r.clock(), Kind: kind, At: at})
	if err != nil {
		logrus.Warnf("Dropping %s notification for run %s: %v", kind, r.runID, err)
	}
}
