package event

// Handler processes specific event types within a context T
type Handler[T any] interface {
	// HandleEvent processes a single event
	// Called synchronously during the dispatch phase
	HandleEvent(ctx T, ev Event)

	// EventTypes returns the event types this handler processes
	EventTypes() []Type
}

// HandlerFunc adapts a function to Handler for a fixed set of types
type HandlerFunc[T any] struct {
	Types []Type
	Fn    func(ctx T, ev Event)
}

func (h HandlerFunc[T]) HandleEvent(ctx T, ev Event) { h.Fn(ctx, ev) }

func (h HandlerFunc[T]) EventTypes() []Type { return h.Types }

// Router dispatches queued events to registered handlers
//
// Architecture:
//   - Single-threaded dispatch
//   - Multiple handlers can register for the same event type
//   - Handlers are invoked in registration order
type Router[T any] struct {
	handlers map[Type][]Handler[T]
	queue    *Queue
}

// NewRouter creates a router attached to the given queue
func NewRouter[T any](queue *Queue) *Router[T] {
	return &Router[T]{
		handlers: make(map[Type][]Handler[T]),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router[T]) Register(handler Handler[T]) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes all pending events and routes them in FIFO order
// Returns the number of events consumed
func (r *Router[T]) DispatchAll(ctx T) int {
	events := r.queue.Consume()
	for _, ev := range events {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ctx, ev)
		}
	}
	return len(events)
}

// HandlerCount returns the number of handlers registered for the given type
func (r *Router[T]) HandlerCount(t Type) int {
	return len(r.handlers[t])
}
