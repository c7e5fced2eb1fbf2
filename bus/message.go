// Package bus implements the simulation's message fabric: an unbounded
// FIFO queue drained by a fixed pool of workers, each dequeued message
// broadcast to every subscriber, with a drain barrier that sequences
// logical simulation ticks.
package bus

// Kind identifies the message types understood by subscribers.
type Kind int

const (
	// KindAdd creates a carrier; payload is owned by the logic subscriber.
	KindAdd Kind = iota
	// KindMoveOrder routes a destination to the entity at a cell.
	KindMoveOrder
	// KindUpdateBoard fans out one KindUpdateEntity per live entity.
	KindUpdateBoard
	// KindUpdateEntity invokes a single entity's update.
	KindUpdateEntity
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindMoveOrder:
		return "move-order"
	case KindUpdateBoard:
		return "update-board"
	case KindUpdateEntity:
		return "update-entity"
	default:
		return "unknown"
	}
}

// Message pairs a kind with its payload. Payload contracts belong to
// the subscribers; the bus never inspects them.
type Message struct {
	Kind    Kind
	Payload any
}

// Subscriber receives every message dequeued by the pool. Handlers for
// distinct messages may run concurrently on different workers.
type Subscriber interface {
	HandleMessage(msg Message)
}
