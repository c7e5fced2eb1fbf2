// Package observability bundles the Prometheus metrics and OTel tracing
// used by the simulation engine.
package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineCollector bundles Prometheus metrics for the simulation engine.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	MessagesHandled *prometheus.CounterVec
	QueueDepth      prometheus.Gauge
	TickDuration    prometheus.Histogram

	LiveEntities        prometheus.Gauge
	ProjectilesInFlight prometheus.Gauge
	Launches            prometheus.Counter
	KillEvents          prometheus.Counter
	HandlerPanics       prometheus.Counter
}

// NewEngineCollector registers engine metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_messages_total",
		Help: "Total number of messages handled by the logic subscriber, labeled by kind.",
	}, []string{"kind"})
	messages, err := registerCounterVec(reg, messages, "sim_messages_total")
	if err != nil {
		return nil, err
	}

	depth, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_queue_depth",
		Help: "Messages waiting on the dispatch queue.",
	}), "sim_queue_depth")
	if err != nil {
		return nil, err
	}

	tickDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Wall time to fully drain one update-board fan-out.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})
	tickDuration, err = registerHistogram(reg, tickDuration, "sim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	entities, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_live_entities",
		Help: "Current number of entities in the world arena.",
	}), "sim_live_entities")
	if err != nil {
		return nil, err
	}

	projectiles, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_projectiles_in_flight",
		Help: "Projectiles launched and still being stepped (they are never removed).",
	}), "sim_projectiles_in_flight")
	if err != nil {
		return nil, err
	}

	launches, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_launches_total",
		Help: "Cumulative projectile launches.",
	}), "sim_launches_total")
	if err != nil {
		return nil, err
	}

	kills, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_kill_events_total",
		Help: "Cumulative collision-detection hits. Observe-only; no damage is applied.",
	}), "sim_kill_events_total")
	if err != nil {
		return nil, err
	}

	panics, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_handler_panics_total",
		Help: "Subscriber panics contained by the worker pool.",
	}), "sim_handler_panics_total")
	if err != nil {
		return nil, err
	}

	return &EngineCollector{
		gatherer:            gatherer,
		MessagesHandled:     messages,
		QueueDepth:          depth,
		TickDuration:        tickDuration,
		LiveEntities:        entities,
		ProjectilesInFlight: projectiles,
		Launches:            launches,
		KillEvents:          kills,
		HandlerPanics:       panics,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *EngineCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveMessage counts one handled message of the given kind.
func (c *EngineCollector) ObserveMessage(kind string) {
	if c == nil || c.MessagesHandled == nil {
		return
	}
	c.MessagesHandled.WithLabelValues(kind).Inc()
}

// SetQueueDepth updates the queue depth gauge.
func (c *EngineCollector) SetQueueDepth(depth int) {
	if c == nil || c.QueueDepth == nil {
		return
	}
	c.QueueDepth.Set(float64(depth))
}

// ObserveTick records a full tick duration.
func (c *EngineCollector) ObserveTick(d time.Duration) {
	if c == nil || c.TickDuration == nil {
		return
	}
	c.TickDuration.Observe(d.Seconds())
}

// SetBoardCounts updates the entity and projectile gauges.
func (c *EngineCollector) SetBoardCounts(entities, projectiles int) {
	if c == nil {
		return
	}
	if c.LiveEntities != nil {
		c.LiveEntities.Set(float64(entities))
	}
	if c.ProjectilesInFlight != nil {
		c.ProjectilesInFlight.Set(float64(projectiles))
	}
}

// IncLaunches counts one projectile launch.
func (c *EngineCollector) IncLaunches() {
	if c == nil || c.Launches == nil {
		return
	}
	c.Launches.Inc()
}

// IncKillEvents counts one collision-detection hit.
func (c *EngineCollector) IncKillEvents() {
	if c == nil || c.KillEvents == nil {
		return
	}
	c.KillEvents.Inc()
}

// IncHandlerPanics counts one contained subscriber panic.
func (c *EngineCollector) IncHandlerPanics() {
	if c == nil || c.HandlerPanics == nil {
		return
	}
	c.HandlerPanics.Inc()
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
