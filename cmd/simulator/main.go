// Command simulator runs the tactical simulation: carriers with
// over-the-horizon sensors on a discretized board, stepped by a time
// controller and rendered as text after every drained tick.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/signalsfoundry/horizon-sim/core"
	"github.com/signalsfoundry/horizon-sim/engine"
	"github.com/signalsfoundry/horizon-sim/internal/logging"
	"github.com/signalsfoundry/horizon-sim/internal/observability"
	"github.com/signalsfoundry/horizon-sim/timectrl"
)

func main() {
	maxX := flag.Int("max-x", 10, "board cells along x")
	maxY := flag.Int("max-y", 10, "board cells along y")
	maxZ := flag.Int("max-z", 10, "board cells along z")
	workers := flag.Int("workers", 4, "dispatch worker pool size")
	tick := flag.Duration("tick", 500*time.Millisecond, "tick interval")
	duration := flag.Duration("duration", 30*time.Second, "total simulated duration")
	accelerated := flag.Bool("accelerated", false, "free-run instead of real-time ticking")
	scenarioPath := flag.String("scenario", "", "JSON scenario file (defaults to the built-in bootstrap board)")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus /metrics listen address (empty disables)")
	render := flag.Bool("render", true, "print the board after every tick")

	flag.Parse()

	ctx := context.Background()
	log := logging.NewFromEnv()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewEngineCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn(ctx, "metrics listener stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
	}

	scenario, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Error(ctx, "scenario load failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	world := core.NewWorld(*maxX, *maxY, *maxZ)
	eng := engine.New(world,
		engine.WithWorkers(*workers),
		engine.WithLogger(log),
		engine.WithCollector(collector),
	)
	eng.ApplyScenario(scenario)

	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	tc := timectrl.NewTimeController(time.Now().UTC(), *tick, mode)
	tc.AddListener(func(simTime time.Time) {
		eng.Tick(ctx)
		if *render {
			renderBoard(os.Stdout, world, simTime)
		}
	})

	log.Info(ctx, "starting simulation",
		logging.String("duration", duration.String()),
		logging.String("tick", tick.String()),
		logging.Int("workers", *workers),
		logging.Int("units", len(scenario.Units)),
	)
	<-tc.Start(*duration)
	fmt.Println("Simulation complete.")
}

func loadScenario(path string) (*core.Scenario, error) {
	if path == "" {
		return core.DefaultScenario(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario %q: %w", path, err)
	}
	defer f.Close()
	return core.LoadScenario(f)
}
