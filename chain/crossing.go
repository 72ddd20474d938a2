package chain

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/maze-chain/collectible"
	"github.com/lixenwraith/maze-chain/event"
	"github.com/lixenwraith/maze-chain/maze"
	"github.com/lixenwraith/maze-chain/status"
)

var (
	ErrSegmentUnresolved = errors.New("next segment could not be resolved")
	ErrNotStarted        = errors.New("crossing coordinator not started")
)

// Outcome classifies a crossing request
type Outcome int

const (
	// OutcomeEntered: the player was moved into the next segment
	OutcomeEntered Outcome = iota
	// OutcomeDuplicate: a transition is in progress or the segment was already left
	OutcomeDuplicate
	// OutcomeMismatch: the signal names a segment ahead of the player
	OutcomeMismatch
	// OutcomeTerminal: the segment is the last allowed one
	OutcomeTerminal
	// OutcomeFailed: the next segment could not be resolved, the player did not move
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEntered:
		return "entered"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeTerminal:
		return "terminal"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Crossing is the result of one exit-zone signal
type Crossing struct {
	From     int
	To       int
	Position Vec2
	Outcome  Outcome
}

// Teleporter applies the computed player position in the host
type Teleporter interface {
	Teleport(index int, pos Vec2)
}

// EffectApplier receives consumed collectibles
type EffectApplier func(t collectible.ItemType, value float64)

// Coordinator moves the player between segments
// Single-threaded: call Cross/Update/Overlap from the host tick
// SignalExitReached is safe from any goroutine
type Coordinator struct {
	chain    *Manager
	events   *event.Queue
	requests *event.Queue

	teleporter Teleporter
	applier    EffectApplier
	listeners  []func(index int)

	started       bool
	current       int
	position      Vec2
	transitioning bool
	tick          int64

	statCrossings *atomic.Int64
	statFailed    *atomic.Int64
	statIgnored   *atomic.Int64
}

// NewCoordinator creates a coordinator over chain
// events may be nil to disable notifications; metrics may be nil
func NewCoordinator(chain *Manager, events *event.Queue, metrics *status.Registry) *Coordinator {
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	return &Coordinator{
		chain:         chain,
		events:        events,
		requests:      event.NewQueue(0),
		statCrossings: metrics.Ints.Get("crossing.count"),
		statFailed:    metrics.Ints.Get("crossing.failed"),
		statIgnored:   metrics.Ints.Get("crossing.ignored"),
	}
}

// SetTeleporter installs the host position sink
func (c *Coordinator) SetTeleporter(t Teleporter) {
	c.teleporter = t
}

// SetEffectApplier installs the host collectible callback
func (c *Coordinator) SetEffectApplier(fn EffectApplier) {
	c.applier = fn
}

// OnPlayerEnteredSegment registers a listener fired once per successful crossing
func (c *Coordinator) OnPlayerEnteredSegment(fn func(index int)) {
	c.listeners = append(c.listeners, fn)
}

// Current returns the segment the player is in
func (c *Coordinator) Current() int {
	return c.current
}

// Position returns the last applied world position
func (c *Coordinator) Position() Vec2 {
	return c.position
}

// Transitioning reports whether a crossing is being applied
func (c *Coordinator) Transitioning() bool {
	return c.transitioning
}

// Start places the player at the entrance of segment 0 and fills the look-ahead window
// Calling Start again returns the current placement
func (c *Coordinator) Start() (Crossing, error) {
	if c.started {
		return Crossing{From: c.current, To: c.current, Position: c.position, Outcome: OutcomeDuplicate}, nil
	}

	seg, err := c.chain.Generate(0)
	if err != nil {
		return Crossing{From: -1, To: -1, Outcome: OutcomeFailed}, fmt.Errorf("%w: segment 0: %w", ErrSegmentUnresolved, err)
	}
	if err := c.chain.EnsureAhead(0); err != nil {
		log.Printf("crossing: look-ahead from segment 0 failed: %v", err)
	}

	c.started = true
	c.current = 0
	c.apply(0, seg.WorldPosition(seg.Entrance))

	return Crossing{From: -1, To: 0, Position: c.position, Outcome: OutcomeEntered}, nil
}

func (c *Coordinator) apply(index int, pos Vec2) {
	c.position = pos
	if c.teleporter != nil {
		c.teleporter.Teleport(index, pos)
	}
}

// Cross handles "player reached the exit zone of segment k"
// On failure the player stays in k and the error wraps ErrSegmentUnresolved
func (c *Coordinator) Cross(k int) (Crossing, error) {
	if !c.started {
		return Crossing{From: k, To: k, Outcome: OutcomeFailed}, ErrNotStarted
	}

	stay := Crossing{From: k, To: c.current, Position: c.position}
	switch {
	case c.transitioning, k < c.current:
		stay.Outcome = OutcomeDuplicate
	case k > c.current:
		stay.Outcome = OutcomeMismatch
	case c.chain.IsLast(k):
		stay.Outcome = OutcomeTerminal
	default:
		return c.advance(k)
	}
	c.statIgnored.Add(1)
	return stay, nil
}

// advance moves the player from k into k+1
// transitioning stays set until the new position is applied
func (c *Coordinator) advance(k int) (Crossing, error) {
	c.transitioning = true
	next, err := c.request(k)
	if err != nil {
		c.transitioning = false
		c.statFailed.Add(1)
		c.emit(event.EventCrossingFailed, &event.CrossingFailedPayload{From: k, Reason: err.Error()})
		log.Printf("crossing: out of segment %d aborted: %v", k, err)

		stay := Crossing{From: k, To: k, Position: c.position, Outcome: OutcomeFailed}
		return stay, fmt.Errorf("%w: segment %d: %w", ErrSegmentUnresolved, k+1, err)
	}

	pos := next.WorldPosition(next.Entrance)
	c.current = next.Index
	c.apply(next.Index, pos)
	c.transitioning = false

	c.statCrossings.Add(1)
	c.emit(event.EventPlayerEnteredSegment, &event.PlayerEnteredPayload{Index: next.Index, X: pos.X, Y: pos.Y})
	for _, fn := range c.listeners {
		fn(next.Index)
	}

	if err := c.chain.EnsureAhead(next.Index); err != nil {
		log.Printf("crossing: look-ahead from segment %d failed: %v", next.Index, err)
	}

	return Crossing{From: k, To: next.Index, Position: pos, Outcome: OutcomeEntered}, nil
}

// request generates k+1 (required) and the rest of the window past k (best effort)
func (c *Coordinator) request(k int) (*Segment, error) {
	next, err := c.chain.Generate(k + 1)
	if err != nil {
		return nil, err
	}
	for i := k + 2; i <= k+c.chain.Config().LookAhead; i++ {
		if _, err := c.chain.Generate(i); err != nil && !errors.Is(err, ErrIndexOutOfRange) {
			log.Printf("crossing: look-ahead segment %d failed: %v", i, err)
		}
	}
	return next, nil
}

// SignalExitReached queues a crossing for the next Update; safe from any goroutine
func (c *Coordinator) SignalExitReached(k int) {
	c.requests.Push(event.Event{Type: event.EventExitReached, Payload: &event.ExitReachedPayload{Index: k}})
}

// Update processes queued exit signals in arrival order
// Failures are joined into the returned error; successful crossings are still applied
func (c *Coordinator) Update() ([]Crossing, error) {
	c.tick++
	c.chain.SetTick(c.tick)

	pending := c.requests.Consume()
	if len(pending) == 0 {
		return nil, nil
	}

	crossings := make([]Crossing, 0, len(pending))
	var errs []error
	for _, ev := range pending {
		p, ok := ev.Payload.(*event.ExitReachedPayload)
		if !ok {
			continue
		}
		cr, err := c.Cross(p.Index)
		crossings = append(crossings, cr)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return crossings, errors.Join(errs...)
}

// Overlap consumes the collectible on cell p of segment index, if any, and applies its effect
func (c *Coordinator) Overlap(index int, p maze.Point) (collectible.Item, bool) {
	item, ok := c.chain.Collect(index, p)
	if !ok {
		return item, false
	}
	if c.applier != nil {
		c.applier(item.Type, item.Value)
	}
	c.emit(event.EventCollectibleConsumed, &event.CollectibleConsumedPayload{Index: index, Cell: p, Item: item})
	return item, true
}

func (c *Coordinator) emit(t event.Type, payload any) {
	if c.events == nil {
		return
	}
	c.events.Push(event.Event{Type: t, Payload: payload, Tick: c.tick})
}
