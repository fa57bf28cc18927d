package app

import (
	"log/slog"

	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/telemetry"
)

// Reporter handles closed stats windows: optional console logging and CSV
// output.
type Reporter struct {
	logStats bool
	output   *telemetry.OutputManager
	windows  int
}

// NewReporter creates a reporter. An empty outputDir disables CSV output.
// The config snapshot is written alongside the CSVs.
func NewReporter(cfg *config.Config, logStats bool, outputDir string) (*Reporter, error) {
	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}
	if om != nil {
		slog.Info("writing telemetry", "dir", om.Dir())
	}
	return &Reporter{logStats: logStats, output: om}, nil
}

// OnWindow is installed as the simulation's window callback.
func (r *Reporter) OnWindow(stats telemetry.WindowStats, perf telemetry.PerfStats) {
	r.windows++

	if r.logStats {
		stats.LogStats()
		perf.LogStats()
	}

	if r.output != nil {
		if err := r.output.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := r.output.WritePerf(perf, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Windows returns the number of windows reported.
func (r *Reporter) Windows() int { return r.windows }

// Close flushes and closes the CSV files.
func (r *Reporter) Close() error {
	return r.output.Close()
}
