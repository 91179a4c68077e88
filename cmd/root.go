package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/parksim/parksim/sim"
	"github.com/parksim/parksim/sim/store"
	"github.com/parksim/parksim/sim/trace"
)

var (
	seed         int64         // Seed for guest arrivals and choices
	ticks        int64         // Number of running ticks to simulate
	logLevel     string        // Log verbosity level
	traceLevel   string        // Decision trace verbosity
	configPath   string        // Park file (park, catalog, layout)
	savePath     string        // Snapshot destination: a YAML path, or a slot label with --db
	loadPath     string        // Snapshot source: a YAML path, or a slot ID with --db
	dbPath       string        // SQLite database for save slots and notification log
	addr         string        // Listen address for serve
	tickInterval time.Duration // Wall-clock time between ticks for serve
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "parksim",
	Short: "Tick-based theme park simulator",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q", logLevel)
		}
		logrus.SetLevel(level)
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("invalid trace level %q (want none or decisions)", traceLevel)
		}
		return nil
	},
}

// runCmd advances a park headlessly and prints its metrics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the park for a number of ticks",
	Run: func(cmd *cobra.Command, args []string) {
		s, db, err := openPark()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if db != nil {
			defer db.Close()
			runID := uuid.NewString()
			s.Subscribe(store.NewRecorder(cmd.Context(), db, runID, func() int64 { return s.Clock }))
			logrus.Infof("Recording notifications under run %s", runID)
		}

		logrus.Infof("Starting park: money=%d, ticks=%d, seed=%d", s.Money, ticks, seed)
		startTime := time.Now()
		runPark(s, ticks)
		logrus.Infof("Simulated %d ticks in %s", s.Metrics.TicksSimulated, time.Since(startTime))

		s.Metrics.Print(s.Money, s.Reputation)
		if st := s.Trace(); st != nil {
			printTraceSummary(trace.Summarize(st))
		}
		if savePath != "" {
			if err := savePark(cmd.Context(), s, db, savePath); err != nil {
				logrus.Fatalf("%v", err)
			}
		}
		logrus.Info("Simulation complete.")
	},
}

// serveCmd ticks a park in real time and streams it over a websocket
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the park in real time with a websocket feed",
	Run: func(cmd *cobra.Command, args []string) {
		s, db, err := openPark()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if db != nil {
			defer db.Close()
		}
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()
		if err := serve(ctx, newParkServer(s, db), addr, tickInterval); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// openPark builds the park from the park file, or restores it when --load is set.
func openPark() (*sim.Simulator, *store.SQLiteStore, error) {
	pf := DefaultParkFile()
	if configPath != "" {
		var err error
		if pf, err = LoadParkFile(configPath); err != nil {
			return nil, nil, err
		}
	}

	var db *store.SQLiteStore
	if dbPath != "" {
		var err error
		if db, err = store.OpenSQLite(dbPath); err != nil {
			return nil, nil, err
		}
	}

	s, err := loadOrBuild(context.Background(), pf, db)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}
	s.EnableTrace(trace.TraceLevel(traceLevel))
	return s, db, nil
}

func loadOrBuild(ctx context.Context, pf *ParkFile, db *store.SQLiteStore) (*sim.Simulator, error) {
	if loadPath == "" {
		return pf.Build(seed)
	}
	var (
		snap *sim.Snapshot
		err  error
	)
	if db != nil {
		snap, err = db.Load(ctx, loadPath)
	} else {
		snap, err = store.FileStore{}.Load(loadPath)
	}
	if err != nil {
		return nil, err
	}
	logrus.Infof("Restoring park from %s at tick %d", loadPath, snap.Clock)
	return sim.Restore(snap, pf.Park, pf.Catalog, seed)
}

// runPark sets the park running and advances it n ticks, stopping early at game over.
func runPark(s *sim.Simulator, n int64) {
	s.SetSpeed(sim.SpeedRunning)
	for i := int64(0); i < n && !s.GameOver(); i++ {
		s.Tick()
	}
	s.SetSpeed(sim.SpeedStopped)
}

// savePark writes a snapshot to a save slot when a database is open, to a
// YAML file otherwise.
func savePark(ctx context.Context, s *sim.Simulator, db *store.SQLiteStore, target string) error {
	snap := s.Snapshot()
	if db != nil {
		id, err := db.Save(ctx, target, snap)
		if err != nil {
			return err
		}
		fmt.Printf("Saved slot %s\n", id)
		return nil
	}
	if filepath.Ext(target) == "" {
		target += ".yaml"
	}
	return store.FileStore{}.Save(target, snap)
}

func printTraceSummary(ts *trace.TraceSummary) {
	fmt.Println("=== Decision Trace ===")
	fmt.Printf("Transitions          : %d\n", ts.TotalTransitions)
	fmt.Printf("Dispatched           : %d\n", ts.Dispatched)
	fmt.Printf("Dispatch Failures    : %d\n", ts.DispatchFailures)
	fmt.Printf("Breakdowns           : %d\n", ts.Breakdowns)
	fmt.Printf("Repairs              : %d\n", ts.Repairs)
	keys := make([]string, 0, len(ts.StatusDistribution))
	for k := range ts.StatusDistribution {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Printf("  %-28s: %d\n", strings.ReplaceAll(k, ":", " -> "), ts.StatusDistribution[k])
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Seed for guest arrivals and choices")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Park file with park, catalog and layout sections")
	rootCmd.PersistentFlags().StringVar(&loadPath, "load", "", "Restore from a snapshot file, or a save slot ID with --db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database for save slots and the notification log")

	runCmd.Flags().Int64Var(&ticks, "ticks", 1000, "Number of running ticks to simulate")
	runCmd.Flags().StringVar(&savePath, "save", "", "Save the final park to a snapshot file, or a labelled slot with --db")

	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().DurationVar(&tickInterval, "tick-interval", 250*time.Millisecond, "Wall-clock time between ticks")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}
