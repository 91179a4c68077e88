package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/parksim/parksim/sim"
	"github.com/parksim/parksim/sim/feed"
	"github.com/parksim/parksim/sim/road"
	"github.com/parksim/parksim/sim/store"
)

// parkServer owns a live park. Every access to the simulator goes through mu,
// so HTTP handlers only ever see it between ticks.
type parkServer struct {
	mu    sync.Mutex
	park  *sim.Simulator
	db    *store.SQLiteStore
	hub   *feed.Hub
	clock atomic.Int64
}

func newParkServer(s *sim.Simulator, db *store.SQLiteStore) *parkServer {
	srv := &parkServer{park: s, db: db}
	srv.clock.Store(s.Clock)
	srv.hub = feed.NewHub(srv.clock.Load)
	s.Subscribe(srv.hub)
	return srv
}

// step advances the park one tick and publishes its summary.
func (srv *parkServer) step() {
	srv.mu.Lock()
	srv.park.Tick()
	stats := srv.park.Stats()
	srv.mu.Unlock()
	srv.clock.Store(stats.Clock)
	srv.hub.PublishTick(stats)
}

func (srv *parkServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", srv.hub)
	mux.HandleFunc("GET /api/stats", srv.handleStats)
	mux.HandleFunc("GET /api/snapshot", srv.handleSnapshot)
	mux.HandleFunc("POST /api/speed", srv.handleSpeed)
	mux.HandleFunc("POST /api/objects", srv.handlePlace)
	mux.HandleFunc("DELETE /api/objects", srv.handleRemove)
	mux.HandleFunc("POST /api/employees", srv.handleBuyEmployee)
	mux.HandleFunc("POST /api/saves", srv.handleSave)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, sim.ErrParkRunning), errors.Is(err, sim.ErrOccupied),
		errors.Is(err, sim.ErrInsufficientFunds), errors.Is(err, sim.ErrEntranceFixed):
		status = http.StatusConflict
	case errors.Is(err, sim.ErrNothingThere), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (srv *parkServer) handleStats(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	stats := srv.park.Stats()
	srv.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

func (srv *parkServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	snap := srv.park.Snapshot()
	srv.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (srv *parkServer) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Speed sim.Speed `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	if req.Speed != sim.SpeedStopped && req.Speed != sim.SpeedRunning {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "speed must be stopped or running"})
		return
	}
	srv.mu.Lock()
	srv.park.SetSpeed(req.Speed)
	stats := srv.park.Stats()
	srv.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}

func (srv *parkServer) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string    `json:"kind"`
		At   road.Tile `json:"at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	srv.mu.Lock()
	err := srv.park.PlaceObject(req.Kind, req.At)
	money := srv.park.Money
	srv.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"kind": req.Kind, "at": req.At, "money": money})
}

func (srv *parkServer) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		At road.Tile `json:"at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	srv.mu.Lock()
	at, size, err := srv.park.RemoveObject(req.At)
	srv.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"at": at, "size": size})
}

func (srv *parkServer) handleBuyEmployee(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	idx, err := srv.park.BuyEmployee()
	srv.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"employee": idx})
}

func (srv *parkServer) handleSave(w http.ResponseWriter, r *http.Request) {
	if srv.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no save database configured"})
		return
	}
	var req struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	srv.mu.Lock()
	snap := srv.park.Snapshot()
	srv.mu.Unlock()
	id, err := srv.db.Save(r.Context(), req.Label, snap)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// loop ticks the park every interval until ctx is done.
func (srv *parkServer) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			srv.step()
		}
	}
}

// serve runs the hub, the tick loop and the HTTP server until ctx is done.
func serve(ctx context.Context, srv *parkServer, addr string, interval time.Duration) error {
	go srv.hub.Run(ctx)
	go srv.loop(ctx, interval)

	httpServer := &http.Server{Addr: addr, Handler: srv.routes()}
	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Park server listening on %s, ticking every %s", addr, interval)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logrus.Info("Shutting down park server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
