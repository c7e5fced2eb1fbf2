package engine

import (
	"context"

	"github.com/signalsfoundry/horizon-sim/bus"
	"github.com/signalsfoundry/horizon-sim/core"
	"github.com/signalsfoundry/horizon-sim/internal/logging"
	"github.com/signalsfoundry/horizon-sim/internal/observability"
)

// AddOrder asks the logic subscriber to create a carrier.
type AddOrder struct {
	Position core.Vec3
	Velocity core.Vec3
}

// MoveOrder routes a destination to whichever entity occupies From.
type MoveOrder struct {
	From        core.Cell
	Destination core.Vec3
}

// Logic is the subscriber that applies bus commands to the world. Any
// add or move-order that fails validation is logged and dropped; it
// never crashes a worker.
type Logic struct {
	world   *core.World
	bus     *bus.Bus
	log     logging.Logger
	metrics *observability.EngineCollector
}

// NewLogic constructs the logic subscriber. log may be nil; metrics
// may be nil.
func NewLogic(world *core.World, b *bus.Bus, log logging.Logger, metrics *observability.EngineCollector) *Logic {
	if log == nil {
		log = logging.Noop()
	}
	return &Logic{world: world, bus: b, log: log, metrics: metrics}
}

// HandleMessage dispatches on the message kind. Unknown kinds are
// ignored.
func (l *Logic) HandleMessage(msg bus.Message) {
	l.metrics.ObserveMessage(msg.Kind.String())
	switch msg.Kind {
	case bus.KindAdd:
		l.add(msg.Payload)
	case bus.KindMoveOrder:
		l.moveOrder(msg.Payload)
	case bus.KindUpdateBoard:
		l.updateBoard()
	case bus.KindUpdateEntity:
		l.updateEntity(msg.Payload)
	}
}

func (l *Logic) add(payload any) {
	ctx := context.Background()
	order, ok := payload.(AddOrder)
	if !ok {
		l.log.Warn(ctx, "malformed add payload dropped")
		return
	}
	id, err := l.world.AddEntity(order.Position, order.Velocity)
	if err != nil {
		l.log.Warn(ctx, "add command dropped", logging.String("error", err.Error()))
		return
	}
	l.log.Debug(ctx, "carrier added",
		logging.Int("id", id),
		logging.Float64("x", order.Position.X),
		logging.Float64("y", order.Position.Y),
		logging.Float64("z", order.Position.Z),
	)
}

func (l *Logic) moveOrder(payload any) {
	ctx := context.Background()
	order, ok := payload.(MoveOrder)
	if !ok {
		l.log.Warn(ctx, "malformed move-order payload dropped")
		return
	}
	if err := l.world.IssueMoveOrder(order.From, order.Destination); err != nil {
		l.log.Warn(ctx, "move order dropped", logging.String("error", err.Error()))
		return
	}
	l.log.Debug(ctx, "move order issued",
		logging.Int("from_x", order.From.X),
		logging.Int("from_y", order.From.Y),
		logging.Int("from_z", order.From.Z),
	)
}

// updateBoard fans the tick out: one update-entity message per live
// entity, handled in parallel by the pool.
func (l *Logic) updateBoard() {
	for _, e := range l.world.LiveEntities() {
		l.bus.Post(bus.KindUpdateEntity, e)
	}
}

func (l *Logic) updateEntity(payload any) {
	ctx := context.Background()
	e, ok := payload.(core.Entity)
	if !ok {
		l.log.Warn(ctx, "malformed update-entity payload dropped")
		return
	}
	if err := e.Update(l.world); err != nil {
		l.log.Warn(ctx, "entity update incomplete",
			logging.Int("id", e.ID()),
			logging.String("error", err.Error()),
		)
	}
}
