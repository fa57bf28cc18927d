package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gogpu/gg"

	"github.com/pthm-cable/windmap/app"
	"github.com/pthm-cable/windmap/config"
	"github.com/pthm-cable/windmap/game"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one front end and returns the process exit code. Deferred
// cleanup runs on every path.
func run(args []string) int {
	// CLI flags
	fs := flag.NewFlagSet("windmap", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml (empty = use defaults)")
	fieldPath := fs.String("field", "", "Wind field file, .json or .csv (empty = config, then synthetic)")
	mode := fs.String("mode", "window", "Front end: window, term or headless")
	logStats := fs.Bool("log-stats", false, "Output stats via slog")
	logFile := fs.String("log-file", "", "Write logs to this file instead of stdout")
	statsWindow := fs.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := fs.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := fs.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := fs.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	pngPath := fs.String("png", "", "Headless: save the final frame to this PNG")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Set up slog (JSON for structured logging). The terminal front end owns
	// stdout, so it logs nowhere unless a file is given.
	var logOut io.Writer = os.Stdout
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			return 1
		}
		defer f.Close()
		logOut = f
	} else if *mode == "term" {
		logOut = io.Discard
	}
	logger := slog.New(slog.NewJSONHandler(logOut, nil))
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		if err := cfg.SetStatsWindow(*statsWindow); err != nil {
			slog.Error("invalid stats window", "error", err)
			return 1
		}
	}
	if *fieldPath != "" {
		cfg.Field.Path = *fieldPath
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	grid, err := app.LoadField(cfg.Field)
	if err != nil {
		slog.Error("failed to load wind field", "error", err)
		return 1
	}

	reporter, err := app.NewReporter(cfg, *logStats, *outputDir)
	if err != nil {
		slog.Error("failed to set up output", "error", err)
		return 1
	}
	defer reporter.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := app.Options{
		Seed:     rngSeed,
		MaxTicks: *maxTicks,
		Reporter: reporter,
		PNGPath:  *pngPath,
	}

	switch *mode {
	case "headless":
		// Headless mode - software rendering, no window needed
		if _, err := app.RunHeadless(ctx, cfg, grid, opts); err != nil {
			slog.Error("headless run failed", "error", err)
			return 1
		}

	case "term":
		if err := app.RunTerminal(ctx, cfg, grid, opts); err != nil {
			slog.Error("terminal run failed", "error", err)
			return 1
		}

	case "window":
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Wind Map")
		defer rl.CloseWindow()

		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		g := game.NewGame(cfg, grid, game.Options{Seed: rngSeed, Reporter: reporter})
		defer g.Unload()

		slog.Info("starting window", "seed", rngSeed, "max_ticks", *maxTicks)

		for !rl.WindowShouldClose() && ctx.Err() == nil {
			g.Update()
			g.Draw()

			if *maxTicks > 0 && g.Tick() >= int64(*maxTicks) {
				slog.Info("max ticks reached", "tick", g.Tick())
				break
			}
		}

	default:
		slog.Error("unknown mode", "mode", *mode)
		return 2
	}
	return 0
}
