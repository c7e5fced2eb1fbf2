package bus

import "sync"

// Queue is an unbounded FIFO with a pending count covering both queued
// and in-flight items. Every popped message must be matched by a
// TaskDone call; Join blocks until the pending count returns to zero,
// which is the only round boundary the simulation has.
type Queue struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	idle     *sync.Cond
	items    []Message
	pending  int
}

// NewQueue constructs an empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.nonEmpty = sync.NewCond(&q.mu)
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Push enqueues a message. It never blocks.
func (q *Queue) Push(msg Message) {
	q.mu.Lock()
	q.items = append(q.items, msg)
	q.pending++
	q.mu.Unlock()
	q.nonEmpty.Signal()
}

// Pop blocks until a message is available and removes it in enqueue
// order. The caller owes a TaskDone once handling completes.
func (q *Queue) Pop() Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		q.nonEmpty.Wait()
	}
	msg := q.items[0]
	q.items = q.items[1:]
	return msg
}

// TaskDone marks one previously popped message as fully handled.
func (q *Queue) TaskDone() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == 0 {
		panic("bus: TaskDone called more times than messages were queued")
	}
	q.pending--
	if q.pending == 0 {
		q.idle.Broadcast()
	}
}

// Join blocks until every message queued before or during the call,
// including messages posted by handlers while draining, has been popped
// and marked done.
func (q *Queue) Join() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.pending != 0 {
		q.idle.Wait()
	}
}

// Len returns the number of messages waiting to be popped.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending returns queued plus in-flight messages.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
