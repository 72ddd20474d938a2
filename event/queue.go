package event

import (
	"sync/atomic"

	"github.com/lixenwraith/maze-chain/parameter"
)

// Queue is a lock-free MPSC ring buffer of chain events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Consume: Single consumer (host tick)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest events overwritten when full, counted in Dropped
type Queue struct {
	events    []Event
	published []atomic.Bool // True = slot fully written
	mask      uint64
	size      uint64
	head      atomic.Uint64 // Read index
	tail      atomic.Uint64 // Write index
	dropped   atomic.Uint64
}

// NewQueue creates a queue holding at least capacity events, rounded up to a power of two
// Non-positive capacity uses parameter.EventQueueSize
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = parameter.EventQueueSize
	}
	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}
	return &Queue{
		events:    make([]Event, size),
		published: make([]atomic.Bool, size),
		mask:      size - 1,
		size:      size,
	}
}

// Push adds an event using CAS on the tail, then publishes the slot
// Safe for concurrent producers. O(1) amortized
func (q *Queue) Push(ev Event) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & q.mask

			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread events
			currentHead := q.head.Load()
			if nextTail-currentHead > q.size {
				if q.head.CompareAndSwap(currentHead, nextTail-q.size) {
					q.dropped.Add(1)
				}
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
// Single-consumer. Stops at the first slot whose writer has not published yet
func (q *Queue) Consume() []Event {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		available := currentTail - currentHead
		if available > q.size {
			available = q.size
			currentHead = currentTail - q.size
		}

		result := make([]Event, 0, available)
		for i := uint64(0); i < available; i++ {
			idx := (currentHead + i) & q.mask

			if !q.published[idx].Load() {
				break // Writer incomplete
			}

			result = append(result, q.events[idx])
			q.published[idx].Store(false)
		}

		if q.head.CompareAndSwap(currentHead, currentHead+uint64(len(result))) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns the approximate pending event count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := tail - head
	if diff > q.size {
		return int(q.size)
	}
	return int(diff)
}

// Dropped returns how many unread events were overwritten
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}

// Cap returns the ring capacity
func (q *Queue) Cap() int {
	return int(q.size)
}
