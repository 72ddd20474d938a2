package chain

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/maze-chain/collectible"
	"github.com/lixenwraith/maze-chain/event"
	"github.com/lixenwraith/maze-chain/maze"
	"github.com/lixenwraith/maze-chain/status"
)

// ErrIndexOutOfRange is returned for negative indices or indices past MaxSegments
var ErrIndexOutOfRange = errors.New("segment index out of range")

// CarveFunc builds the topology of one segment
type CarveFunc func(size int, start maze.Point, rng *rand.Rand) (*maze.Grid, maze.Stats, error)

// State is the process-wide chain bookkeeping; it only grows
type State struct {
	Generated        mapset.Set[int]
	CumulativeOffset float64
}

// Manager owns every generated segment and generates lazily, once per index
// Segments always form the contiguous prefix 0..n-1: generating i first generates
// any missing predecessor, since entrance(i) derives from exit(i-1)
// Calls are serialized; a second caller waits for the in-flight generation
type Manager struct {
	mu sync.Mutex

	cfg   Config
	seed  int64
	seq   *Sequencer
	align *Aligner
	carve CarveFunc

	segments []*Segment
	state    State
	events   *event.Queue
	tick     atomic.Int64 // stamped on generation events

	statGenerated *atomic.Int64
	statGrafts    *atomic.Int64
	statItems     *atomic.Int64
	statCollected *atomic.Int64
	statOffset    *status.AtomicFloat
}

// NewManager validates cfg and creates an empty chain
// events may be nil to disable notifications; metrics may be nil
func NewManager(cfg Config, events *event.Queue, metrics *status.Registry) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	seq := NewSequencer(cfg.BaseSize, cfg.SizeIncrement)
	return &Manager{
		cfg:   cfg,
		seed:  seed,
		seq:   seq,
		align: NewAligner(seq, cfg.AlignmentX),
		carve: maze.Carve,
		state: State{Generated: mapset.New[int]()},

		events:        events,
		statGenerated: metrics.Ints.Get("chain.generated"),
		statGrafts:    metrics.Ints.Get("chain.grafts"),
		statItems:     metrics.Ints.Get("chain.items"),
		statCollected: metrics.Ints.Get("collect.count"),
		statOffset:    metrics.Floats.Get("chain.offset"),
	}, nil
}

// SetTick sets the host tick stamped on subsequent generation events
func (m *Manager) SetTick(tick int64) {
	m.tick.Store(tick)
}

// Seed returns the resolved session seed
func (m *Manager) Seed() int64 {
	return m.seed
}

// Config returns the chain configuration
func (m *Manager) Config() Config {
	return m.cfg
}

// segmentSeed mixes the session seed with the index (splitmix64) so each segment is
// reproducible independently of when it is generated
func segmentSeed(seed int64, index int) int64 {
	z := uint64(seed) + uint64(index+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

func (m *Manager) checkIndex(index int) error {
	if index < 0 || (m.cfg.MaxSegments > 0 && index >= m.cfg.MaxSegments) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return nil
}

// Generate returns segment index, building it and any missing predecessor first
// Repeated calls return the stored segment untouched
func (m *Manager) Generate(index int) (*Segment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generate(index)
}

func (m *Manager) generate(index int) (*Segment, error) {
	if err := m.checkIndex(index); err != nil {
		return nil, err
	}
	if m.state.Generated.Has(index) {
		return m.segments[index], nil
	}
	for next := len(m.segments); next <= index; next++ {
		if err := m.build(next); err != nil {
			return nil, err
		}
	}
	return m.segments[index], nil
}

// build runs sizing, alignment, carving and placement for the next index
// On failure the chain is left unchanged so a later call can retry
func (m *Manager) build(index int) error {
	size := m.seq.Size(index)
	entrance := m.align.EntranceWithSize(size, index)
	exit := m.align.ExitWithSize(size, index)

	seed := segmentSeed(m.seed, index)
	rng := rand.New(rand.NewSource(seed))

	grid, stats, err := m.carve(size, entrance, rng)
	m.statGrafts.Add(int64(stats.Grafts))
	if err != nil {
		log.Printf("chain: segment %d (size %d) failed: %v", index, size, err)
		return fmt.Errorf("segment %d: %w", index, err)
	}

	grid.OpenBoundary(entrance, maze.Up)
	grid.OpenBoundary(exit, maze.Down)

	seg := &Segment{
		Index:        index,
		Size:         size,
		Seed:         seed,
		Grid:         grid,
		Entrance:     entrance,
		Exit:         exit,
		Collectibles: collectible.Place(grid, entrance, exit, index, rng),
		Offset:       m.state.CumulativeOffset,
		CellSize:     m.cfg.CellSize,
	}

	m.segments = append(m.segments, seg)
	m.state.Generated.Put(index)
	m.state.CumulativeOffset += float64(size)*m.cfg.CellSize + m.cfg.Spacing

	m.statGenerated.Add(1)
	m.statItems.Add(int64(len(seg.Collectibles)))
	m.statOffset.Set(m.state.CumulativeOffset)

	if m.events != nil {
		m.events.Push(event.Event{
			Type: event.EventSegmentGenerated,
			Tick: m.tick.Load(),
			Payload: &event.SegmentGeneratedPayload{
				Index:    index,
				Size:     size,
				Entrance: entrance,
				Exit:     exit,
				Items:    len(seg.Collectibles),
				Offset:   seg.Offset,
			},
		})
	}

	log.Printf("chain: generated segment %d size=%d entrance=%v exit=%v items=%d",
		index, size, entrance, exit, len(seg.Collectibles))
	return nil
}

// EnsureAhead generates the look-ahead window index+1..index+LookAhead
// Indices past the chain bound are skipped
func (m *Manager) EnsureAhead(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := index + 1; i <= index+m.cfg.LookAhead; i++ {
		if _, err := m.generate(i); err != nil {
			if errors.Is(err, ErrIndexOutOfRange) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Segment returns a generated segment
func (m *Manager) Segment(index int) (*Segment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index < 0 || index >= len(m.segments) {
		return nil, false
	}
	return m.segments[index], true
}

// Size returns the side length of index whether or not it was generated
func (m *Manager) Size(index int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq.Size(index)
}

// Entrance returns the entrance cell of index at its sequenced size
func (m *Manager) Entrance(index int) maze.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.align.Entrance(index)
}

// Exit returns the exit cell of index at its sequenced size
func (m *Manager) Exit(index int) maze.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.align.Exit(index)
}

// EntrancePosition returns the entrance of index for an explicit side length
func (m *Manager) EntrancePosition(size, index int) maze.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.align.EntranceWithSize(size, index)
}

// ExitPosition returns the exit of index for an explicit side length
func (m *Manager) ExitPosition(size, index int) maze.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.align.ExitWithSize(size, index)
}

// GeneratedCount returns how many segments exist
func (m *Manager) GeneratedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Generated.Size()
}

// IsLast reports whether index is the final allowed segment of a bounded chain
func (m *Manager) IsLast(index int) bool {
	return m.cfg.MaxSegments > 0 && index >= m.cfg.MaxSegments-1
}

// State returns a copy of the chain bookkeeping
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	generated := mapset.New[int]()
	m.state.Generated.Each(func(i int) {
		generated.Put(i)
	})
	return State{Generated: generated, CumulativeOffset: m.state.CumulativeOffset}
}

// GeneratedIndices returns the generated indices in ascending order
func (m *Manager) GeneratedIndices() []int {
	m.mu.Lock()
	defer m.mu.Unlock()

	indices := make([]int, 0, m.state.Generated.Size())
	m.state.Generated.Each(func(i int) {
		indices = append(indices, i)
	})
	sort.Ints(indices)
	return indices
}

// Collect removes and returns the collectible on cell p of segment index
func (m *Manager) Collect(index int, p maze.Point) (collectible.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.segments) {
		return collectible.Item{}, false
	}
	seg := m.segments[index]
	item, ok := seg.Collectibles[p]
	if !ok {
		return collectible.Item{}, false
	}
	delete(seg.Collectibles, p)
	m.statCollected.Add(1)
	return item, true
}
