// Package engine ties the world, the dispatch bus, and the
// observability stack into a steppable simulation.
package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/horizon-sim/bus"
	"github.com/signalsfoundry/horizon-sim/core"
	"github.com/signalsfoundry/horizon-sim/internal/logging"
	"github.com/signalsfoundry/horizon-sim/internal/observability"
)

// Engine owns the dispatch bus and sequences logical simulation ticks
// over a world. One tick is: post update-board, wait for the drain
// barrier to clear every resulting update-entity, observe.
type Engine struct {
	world   *core.World
	bus     *bus.Bus
	log     logging.Logger
	metrics *observability.EngineCollector
	tracer  trace.Tracer
	ticks   int
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	workers int
	log     logging.Logger
	metrics *observability.EngineCollector
}

// WithWorkers sets the bus worker pool size.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLogger sets the engine logger.
func WithLogger(log logging.Logger) Option {
	return func(c *config) { c.log = log }
}

// WithCollector wires the Prometheus collector.
func WithCollector(m *observability.EngineCollector) Option {
	return func(c *config) { c.metrics = m }
}

// New constructs an engine around the world, subscribes the logic
// handler, wires launch/kill telemetry, and starts the worker pool. The
// pool runs for the process lifetime.
func New(world *core.World, opts ...Option) *Engine {
	cfg := config{log: logging.Noop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		world:   world,
		log:     cfg.log,
		metrics: cfg.metrics,
		tracer:  otel.Tracer("horizon-sim/engine"),
	}

	busOpts := []bus.Option{
		bus.WithLogger(cfg.log),
		bus.WithPanicHook(func(bus.Message, any) { e.metrics.IncHandlerPanics() }),
	}
	if cfg.workers > 0 {
		busOpts = append(busOpts, bus.WithWorkers(cfg.workers))
	}
	e.bus = bus.New(busOpts...)
	e.bus.Subscribe(NewLogic(world, e.bus, cfg.log, cfg.metrics))

	world.OnLaunch(func(ev core.LaunchEvent) {
		e.metrics.IncLaunches()
		e.log.Debug(context.Background(), "projectile launched",
			logging.Int("sensor_id", ev.SensorID),
			logging.Float64("target_x", ev.Target.X),
			logging.Float64("target_y", ev.Target.Y),
			logging.Float64("target_z", ev.Target.Z),
		)
	})
	world.OnKill(func(ev core.KillEvent) {
		e.metrics.IncKillEvents()
		e.log.Info(context.Background(), "kill detected",
			logging.Int("projectile_id", ev.ProjectileID),
			logging.Int("target_id", ev.TargetID),
			logging.Float64("separation", ev.Separation),
		)
	})

	e.bus.Start()
	return e
}

// World returns the simulated world.
func (e *Engine) World() *core.World {
	return e.world
}

// Post enqueues a command message. Non-blocking.
func (e *Engine) Post(kind bus.Kind, payload any) {
	e.bus.Post(kind, payload)
}

// Drain blocks until the queue is fully drained.
func (e *Engine) Drain() {
	e.bus.Drain()
}

// Tick runs one full simulation round and records its telemetry.
func (e *Engine) Tick(ctx context.Context) {
	e.ticks++
	ctx, span := e.tracer.Start(ctx, "engine.tick",
		trace.WithAttributes(
			attribute.Int("tick", e.ticks),
			attribute.Int("entities", e.world.EntityCount()),
		),
	)
	defer span.End()

	start := time.Now()
	e.bus.Post(bus.KindUpdateBoard, nil)
	e.bus.Drain()
	e.metrics.ObserveTick(time.Since(start))

	e.metrics.SetQueueDepth(e.bus.QueueDepth())
	entities, projectiles := e.boardCounts()
	e.metrics.SetBoardCounts(entities, projectiles)
}

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() int {
	return e.ticks
}

// ApplyScenario posts the scenario's units through the same command
// path the interface uses: adds first, then standing orders once the
// occupancy grid holds the new ids.
func (e *Engine) ApplyScenario(s *core.Scenario) {
	for _, u := range s.Units {
		e.bus.Post(bus.KindAdd, AddOrder{Position: u.PositionVec(), Velocity: u.VelocityVec()})
	}
	e.bus.Drain()

	for _, u := range s.Units {
		dest, ok := u.DestinationVec()
		if !ok {
			continue
		}
		e.bus.Post(bus.KindMoveOrder, MoveOrder{From: core.CellOf(u.PositionVec()), Destination: dest})
	}
	e.bus.Drain()
}

func (e *Engine) boardCounts() (entities, projectiles int) {
	for _, view := range e.world.Snapshot() {
		entities++
		projectiles += len(view.Projectiles)
	}
	return entities, projectiles
}
