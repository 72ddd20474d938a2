package maze

import (
	"errors"
	"testing"
)

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		d, want Direction
	}{
		{Up, Down},
		{Down, Up},
		{Left, Right},
		{Right, Left},
	}
	for _, tt := range tests {
		if got := tt.d.Opposite(); got != tt.want {
			t.Errorf("%s.Opposite() = %s, want %s", tt.d, got, tt.want)
		}
		if tt.d.Opposite().Opposite() != tt.d {
			t.Errorf("Expected double opposite of %s to round-trip", tt.d)
		}
	}
}

func TestChebyshev(t *testing.T) {
	tests := []struct {
		a, b Point
		want int
	}{
		{Point{0, 0}, Point{0, 0}, 0},
		{Point{1, 0}, Point{2, 1}, 1},
		{Point{1, 0}, Point{4, 1}, 3},
		{Point{3, 3}, Point{1, 0}, 3},
	}
	for _, tt := range tests {
		if got := tt.a.Chebyshev(tt.b); got != tt.want {
			t.Errorf("%v.Chebyshev(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// Test that force-opening only applies to outward-facing sides
func TestOpenBoundary(t *testing.T) {
	g := NewGrid(5)

	if !g.OpenBoundary(Point{1, 0}, Up) {
		t.Error("Expected top side of (1,0) to open")
	}
	if !g.At(Point{1, 0}).Open(Up) {
		t.Error("Expected (1,0) Up to be open")
	}
	if g.OpenBoundary(Point{1, 0}, Down) {
		t.Error("Expected interior side to be refused")
	}
	if g.At(Point{1, 0}).Open(Down) {
		t.Error("Expected (1,0) Down to stay closed")
	}
	if !g.OpenBoundary(Point{1, 4}, Down) {
		t.Error("Expected bottom side of (1,4) to open")
	}

	// Boundary openings are not interior passages
	if g.OpenPairs() != 0 {
		t.Errorf("Expected 0 passages, got %d", g.OpenPairs())
	}
	// Moving out of the grid is never allowed even through an open boundary
	if g.CanMove(Point{1, 0}, Up) {
		t.Error("Expected CanMove to refuse leaving the grid")
	}
}

// Test wall disagreement detection
func TestValidateWallMismatch(t *testing.T) {
	g := NewGrid(2)
	g.Cells[0][0].Walls &^= Right

	if err := g.Validate(); !errors.Is(err, ErrWallMismatch) {
		t.Errorf("Expected ErrWallMismatch, got %v", err)
	}
}

// Test cycle detection on a fully open 2x2 grid
func TestValidateCycle(t *testing.T) {
	g := NewGrid(2)
	g.removeWall(Point{0, 0}, Right)
	g.removeWall(Point{0, 0}, Down)
	g.removeWall(Point{1, 0}, Down)
	g.removeWall(Point{0, 1}, Right)

	if err := g.Validate(); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected ErrCycle, got %v", err)
	}
}

func TestPathUnreachable(t *testing.T) {
	g := NewGrid(3)
	if p := g.Path(Point{0, 0}, Point{2, 2}); p != nil {
		t.Errorf("Expected nil path in closed grid, got %v", p)
	}
	if p := g.Path(Point{0, 0}, Point{5, 5}); p != nil {
		t.Errorf("Expected nil path for out-of-bounds end, got %v", p)
	}
	if p := g.Path(Point{1, 1}, Point{1, 1}); len(p) != 1 {
		t.Errorf("Expected single-cell path, got %v", p)
	}
}

func TestRender(t *testing.T) {
	g := NewGrid(2)
	g.removeWall(Point{0, 0}, Right)
	g.removeWall(Point{1, 0}, Down)
	g.OpenBoundary(Point{0, 0}, Up)

	rows := g.Render(func(p Point) rune {
		if p == (Point{1, 1}) {
			return 'E'
		}
		return 0
	})

	want := []string{
		"█ ███",
		"█   █",
		"███ █",
		"█ █E█",
		"█████",
	}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: expected %q, got %q", i, want[i], rows[i])
		}
	}
}
