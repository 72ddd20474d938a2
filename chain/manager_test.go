package chain

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/lixenwraith/maze-chain/event"
	"github.com/lixenwraith/maze-chain/maze"
	"github.com/lixenwraith/maze-chain/status"
)

var errCarveFailed = errors.New("carve failed")

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return cfg
}

func newTestManager(t *testing.T, cfg Config) (*Manager, *event.Queue, *status.Registry) {
	t.Helper()
	q := event.NewQueue(256)
	reg := status.NewRegistry()
	m, err := NewManager(cfg, q, reg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m, q, reg
}

// failAbove carves normally up to maxSize and fails for larger segments
func failAbove(maxSize int) CarveFunc {
	return func(size int, start maze.Point, rng *rand.Rand) (*maze.Grid, maze.Stats, error) {
		if size > maxSize {
			return nil, maze.Stats{}, errCarveFailed
		}
		return maze.Carve(size, start, rng)
	}
}

// renderDiff returns a unified diff of two renders, empty when identical
func renderDiff(a, b []string) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(a, "\n") + "\n"),
		B:        difflib.SplitLines(strings.Join(b, "\n") + "\n"),
		FromFile: "first",
		ToFile:   "second",
		Context:  2,
	})
	return diff
}

func TestNewManagerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BaseSize = 2
	if _, err := NewManager(cfg, nil, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

// Test that repeated generation returns the stored segment untouched
func TestGenerateIdempotent(t *testing.T) {
	m, q, _ := newTestManager(t, testConfig())

	first, err := m.Generate(3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	before := first.Render()
	q.Consume()

	second, err := m.Generate(3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if first != second {
		t.Error("Expected the same segment pointer on repeat")
	}
	if d := renderDiff(before, second.Render()); d != "" {
		t.Errorf("Segment changed on repeat:\n%s", d)
	}
	if m.GeneratedCount() != 4 {
		t.Errorf("Expected 4 generated, got %d", m.GeneratedCount())
	}
	if n := q.Len(); n != 0 {
		t.Errorf("Expected no events on repeat, got %d", n)
	}
}

// Test that generating index k first builds every missing predecessor
func TestGenerateBuildsPredecessors(t *testing.T) {
	m, q, reg := newTestManager(t, testConfig())

	if _, err := m.Generate(4); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got := m.GeneratedIndices(); !reflect.DeepEqual(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("Expected indices 0..4, got %v", got)
	}

	events := q.Consume()
	if len(events) != 5 {
		t.Fatalf("Expected 5 generated events, got %d", len(events))
	}
	for i, ev := range events {
		p := ev.Payload.(*event.SegmentGeneratedPayload)
		if ev.Type != event.EventSegmentGenerated || p.Index != i {
			t.Errorf("Expected generated event for %d, got %s for %d", i, ev.Type, p.Index)
		}
	}
	if got := reg.Ints.Get("chain.generated").Load(); got != 5 {
		t.Errorf("Expected chain.generated 5, got %d", got)
	}
}

func TestGenerateOutOfRange(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSegments = 3
	m, _, _ := newTestManager(t, cfg)

	if _, err := m.Generate(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange for -1, got %v", err)
	}
	if _, err := m.Generate(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange for 3, got %v", err)
	}
	if _, err := m.Generate(2); err != nil {
		t.Errorf("Expected index 2 to generate, got %v", err)
	}
	if err := m.EnsureAhead(1); err != nil {
		t.Errorf("Expected look-ahead past the bound to be skipped, got %v", err)
	}
	if !m.IsLast(2) || m.IsLast(1) {
		t.Error("Expected only index 2 to be last")
	}
}

// Test size and anchor queries for segments that were never generated
func TestQueriesWithoutGeneration(t *testing.T) {
	m, _, _ := newTestManager(t, testConfig())

	if got := m.Size(10); got != 25 {
		t.Errorf("Expected size 25, got %d", got)
	}
	if got := m.Entrance(1); got != (maze.Point{X: 1, Y: 0}) {
		t.Errorf("Expected entrance (1,0), got %v", got)
	}
	if got := m.ExitPosition(9, 4); got != (maze.Point{X: 1, Y: 8}) {
		t.Errorf("Expected exit (1,8), got %v", got)
	}
	if got := m.Entrance(1_000_000_000); got != (maze.Point{X: 1, Y: 0}) {
		t.Errorf("Expected far entrance (1,0), got %v", got)
	}
	if got := m.EntrancePosition(m.Size(math.MaxInt/2), math.MaxInt/2); got.X != 1 {
		t.Errorf("Expected far entrance column 1, got %d", got.X)
	}
	if m.GeneratedCount() != 0 {
		t.Errorf("Expected no generation from queries, got %d", m.GeneratedCount())
	}
}

// Test segment 0 and 1 anchors for the default alignment
func TestGeneratedAnchors(t *testing.T) {
	m, _, _ := newTestManager(t, testConfig())

	s0, err := m.Generate(0)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	s1, err := m.Generate(1)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if s0.Size != 5 || s1.Size != 7 {
		t.Errorf("Expected sizes 5 and 7, got %d and %d", s0.Size, s1.Size)
	}
	if s0.Entrance != (maze.Point{X: 1, Y: 0}) || s0.Exit != (maze.Point{X: 1, Y: 4}) {
		t.Errorf("Expected segment 0 anchors (1,0)/(1,4), got %v/%v", s0.Entrance, s0.Exit)
	}
	if s1.Entrance != (maze.Point{X: 1, Y: 0}) {
		t.Errorf("Expected segment 1 entrance (1,0), got %v", s1.Entrance)
	}
}

// Test that every segment keeps its boundary openings, item clearance and path
func TestGeneratedSegmentInvariants(t *testing.T) {
	m, _, _ := newTestManager(t, testConfig())
	if _, err := m.Generate(12); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, i := range m.GeneratedIndices() {
		seg, ok := m.Segment(i)
		if !ok {
			t.Fatalf("Expected segment %d", i)
		}
		if !seg.Grid.At(seg.Entrance).Open(maze.Up) {
			t.Errorf("segment %d: expected entrance top wall open", i)
		}
		if !seg.Grid.At(seg.Exit).Open(maze.Down) {
			t.Errorf("segment %d: expected exit bottom wall open", i)
		}
		if path := seg.Grid.Path(seg.Entrance, seg.Exit); path == nil {
			t.Errorf("segment %d: expected a path from entrance to exit", i)
		}
		if got, want := seg.Grid.OpenPairs(), seg.Size*seg.Size-1; got != want {
			t.Errorf("segment %d: expected %d passages, got %d", i, want, got)
		}
		for p := range seg.Collectibles {
			if p.Chebyshev(seg.Entrance) <= 1 || p.Chebyshev(seg.Exit) <= 1 {
				t.Errorf("segment %d: item at %v too close to entrance or exit", i, p)
			}
			if !seg.Grid.InBounds(p) {
				t.Errorf("segment %d: item at %v out of bounds", i, p)
			}
		}
		if i == 0 && len(seg.Collectibles) > 1 {
			t.Errorf("segment 0: expected at most 1 item, got %d", len(seg.Collectibles))
		}
	}
}

// Test cumulative world offsets
func TestSegmentOffsets(t *testing.T) {
	m, _, reg := newTestManager(t, testConfig())
	if _, err := m.Generate(2); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// cell size 4, spacing 8: 0, 5*4+8, 28+7*4+8
	want := []float64{0, 28, 64}
	for i, w := range want {
		seg, _ := m.Segment(i)
		if seg.Offset != w {
			t.Errorf("segment %d: expected offset %v, got %v", i, w, seg.Offset)
		}
	}
	if got := m.State().CumulativeOffset; got != 64+9*4+8 {
		t.Errorf("Expected cumulative offset 108, got %v", got)
	}
	if got := reg.Floats.Get("chain.offset").Get(); got != 108 {
		t.Errorf("Expected chain.offset 108, got %v", got)
	}
}

func TestWorldPositionRoundTrip(t *testing.T) {
	m, _, _ := newTestManager(t, testConfig())
	seg, err := m.Generate(1)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	pos := seg.WorldPosition(seg.Entrance)
	if pos != (Vec2{X: 6, Y: 30}) {
		t.Errorf("Expected entrance world position (6,30), got %v", pos)
	}
	cell, ok := seg.CellAt(pos)
	if !ok || cell != seg.Entrance {
		t.Errorf("Expected CellAt to return %v, got %v %v", seg.Entrance, cell, ok)
	}
	if _, ok := seg.CellAt(Vec2{X: 6, Y: 0}); ok {
		t.Error("Expected a position above the segment to be outside")
	}
}

// Test that the same seed reproduces the same chain regardless of generation order
func TestManagersShareSeed(t *testing.T) {
	a, _, _ := newTestManager(t, testConfig())
	b, _, _ := newTestManager(t, testConfig())

	if _, err := a.Generate(5); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i := 0; i <= 5; i++ {
		if _, err := b.Generate(i); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
	}

	for i := 0; i <= 5; i++ {
		sa, _ := a.Segment(i)
		sb, _ := b.Segment(i)
		if d := renderDiff(sa.Render(), sb.Render()); d != "" {
			t.Errorf("segment %d differs:\n%s", i, d)
		}
		if !reflect.DeepEqual(sa.Collectibles, sb.Collectibles) {
			t.Errorf("segment %d: expected identical collectibles", i)
		}
	}
}

// Test that a failed carve leaves the chain untouched and can be retried
func TestGenerateFailureLeavesState(t *testing.T) {
	m, q, _ := newTestManager(t, testConfig())
	m.carve = failAbove(5)

	if _, err := m.Generate(0); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	before := m.State()
	q.Consume()

	if _, err := m.Generate(2); !errors.Is(err, errCarveFailed) {
		t.Fatalf("Expected carve error, got %v", err)
	}
	after := m.State()
	if after.Generated.Size() != 1 || after.CumulativeOffset != before.CumulativeOffset {
		t.Errorf("Expected unchanged state, got %d segments offset %v", after.Generated.Size(), after.CumulativeOffset)
	}
	if q.Len() != 0 {
		t.Errorf("Expected no events after failure, got %d", q.Len())
	}

	m.carve = maze.Carve
	if _, err := m.Generate(2); err != nil {
		t.Errorf("Expected retry to succeed, got %v", err)
	}
}

func TestStateIsCopy(t *testing.T) {
	m, _, _ := newTestManager(t, testConfig())
	if _, err := m.Generate(1); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	st := m.State()
	st.Generated.Put(99)
	if m.GeneratedCount() != 2 {
		t.Errorf("Expected manager state unaffected, got %d", m.GeneratedCount())
	}
}

func TestCollect(t *testing.T) {
	m, _, reg := newTestManager(t, testConfig())
	seg, err := m.Generate(4)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(seg.Collectibles) == 0 {
		t.Fatal("Expected items in segment 4")
	}

	var cell maze.Point
	for p := range seg.Collectibles {
		cell = p
		break
	}
	want := seg.Collectibles[cell]

	got, ok := m.Collect(4, cell)
	if !ok || got != want {
		t.Errorf("Expected %v, got %v %v", want, got, ok)
	}
	if _, ok := m.Collect(4, cell); ok {
		t.Error("Expected item to be consumed once")
	}
	if _, ok := m.Collect(9, cell); ok {
		t.Error("Expected no item in ungenerated segment")
	}
	if got := reg.Ints.Get("collect.count").Load(); got != 1 {
		t.Errorf("Expected collect.count 1, got %d", got)
	}
}

// Test concurrent generation of overlapping ranges
func TestGenerateConcurrent(t *testing.T) {
	m, _, _ := newTestManager(t, testConfig())
	done := make(chan *Segment, 8)
	for i := 0; i < 8; i++ {
		go func() {
			seg, _ := m.Generate(6)
			done <- seg
		}()
	}
	first := <-done
	for i := 1; i < 8; i++ {
		if seg := <-done; seg != first {
			t.Error("Expected every caller to observe the same segment")
		}
	}
	if m.GeneratedCount() != 7 {
		t.Errorf("Expected 7 generated, got %d", m.GeneratedCount())
	}
}
