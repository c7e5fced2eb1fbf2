package bus

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/horizon-sim/internal/logging"
)

// defaultWorkers is the pool size used when none is configured.
const defaultWorkers = 4

// Bus drains one shared queue with a fixed pool of workers,
// broadcasting each message to every subscriber in registration order.
// Dequeue order is FIFO across the pool, but handling of distinct
// messages interleaves arbitrarily between workers.
//
// The pool runs for the process lifetime; there is no shutdown path and
// no per-message timeout.
type Bus struct {
	queue       *Queue
	subscribers []Subscriber
	workers     int
	log         logging.Logger
	onPanic     func(msg Message, recovered any)
	started     bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithWorkers sets the pool size.
func WithWorkers(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the bus logger.
func WithLogger(log logging.Logger) Option {
	return func(b *Bus) {
		if log != nil {
			b.log = log
		}
	}
}

// WithPanicHook registers a callback invoked after a subscriber panic
// has been contained, for telemetry.
func WithPanicHook(fn func(msg Message, recovered any)) Option {
	return func(b *Bus) {
		b.onPanic = fn
	}
}

// New constructs a bus. Subscribe before calling Start.
func New(opts ...Option) *Bus {
	b := &Bus{
		queue:   NewQueue(),
		workers: defaultWorkers,
		log:     logging.Noop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a subscriber. Must not be called after Start.
func (b *Bus) Subscribe(s Subscriber) {
	if b.started {
		panic("bus: Subscribe after Start")
	}
	b.subscribers = append(b.subscribers, s)
}

// Start spawns the worker pool. It may be called once.
func (b *Bus) Start() {
	if b.started {
		panic("bus: Start called twice")
	}
	b.started = true
	for i := 0; i < b.workers; i++ {
		go b.worker()
	}
}

// Post enqueues a message. Non-blocking.
func (b *Bus) Post(kind Kind, payload any) {
	b.queue.Push(Message{Kind: kind, Payload: payload})
}

// Drain blocks until the queue has been fully drained, including any
// messages posted by handlers while draining.
func (b *Bus) Drain() {
	b.queue.Join()
}

// QueueDepth returns the number of messages waiting to be dequeued.
func (b *Bus) QueueDepth() int {
	return b.queue.Len()
}

func (b *Bus) worker() {
	for {
		msg := b.queue.Pop()
		for _, s := range b.subscribers {
			b.dispatch(s, msg)
		}
		b.queue.TaskDone()
	}
}

// dispatch isolates subscriber panics so a failing update terminates
// only its own handling, never the pool.
func (b *Bus) dispatch(s Subscriber, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error(context.Background(), "subscriber panicked",
				logging.String("kind", msg.Kind.String()),
				logging.String("panic", fmt.Sprint(r)),
			)
			if b.onPanic != nil {
				b.onPanic(msg, r)
			}
		}
	}()
	s.HandleMessage(msg)
}
