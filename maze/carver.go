package maze

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// ErrInvalidSize is returned by Carve for a non-positive size
var ErrInvalidSize = errors.New("maze size must be positive")

// Stats describes how a grid was carved
type Stats struct {
	// Grafts counts roots started by the fallback scan after the stack emptied
	// Always zero on a fully open grid
	Grafts int
}

// Carve builds a perfect maze (spanning tree) on a size×size grid using randomized
// depth-first backtracking with an explicit stack, starting from start
// A nil rng is replaced by a time-seeded source
// The result is validated; a grid that is not a single tree is returned alongside the error
func Carve(size int, start Point, rng *rand.Rand) (*Grid, Stats, error) {
	if size < 1 {
		return nil, Stats{}, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := NewGrid(size)
	if !g.InBounds(start) {
		start = Point{}
	}

	g.Cells[start.Y][start.X].visited = true
	g.walk(start, rng)

	stats := Stats{Grafts: g.resume(rng)}
	if stats.Grafts > 0 {
		log.Printf("maze: carve of size %d needed %d fallback root(s)", size, stats.Grafts)
	}

	if err := g.Validate(); err != nil {
		return g, stats, err
	}
	return g, stats, nil
}

// walk runs the backtracker from root until its stack empties
// root must already be marked visited
func (g *Grid) walk(root Point, rng *rand.Rand) {
	stack := []Point{root}
	candidates := make([]Direction, 0, 4)

	for len(stack) > 0 {
		curr := stack[len(stack)-1]

		candidates = candidates[:0]
		for _, d := range Directions {
			n := curr.Step(d)
			if g.InBounds(n) && !g.Cells[n.Y][n.X].visited {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		next := curr.Step(d)
		g.removeWall(curr, d)
		g.Cells[next.Y][next.X].visited = true
		stack = append(stack, next)
	}
}

// resume scans row-major for cells the walk never reached, grafts each onto an already
// visited neighbor and carves from it
// A root with no visited neighbor stays a separate component; Validate reports it
func (g *Grid) resume(rng *rand.Rand) int {
	grafts := 0
	// Visits only accumulate, so the scan never needs to revisit earlier cells
	for i := 0; i < g.Size*g.Size; i++ {
		p := Point{i % g.Size, i / g.Size}
		if g.Cells[p.Y][p.X].visited {
			continue
		}

		g.Cells[p.Y][p.X].visited = true
		grafts++

		anchors := make([]Direction, 0, 4)
		for _, d := range Directions {
			n := p.Step(d)
			if g.InBounds(n) && g.Cells[n.Y][n.X].visited {
				anchors = append(anchors, d)
			}
		}
		if len(anchors) > 0 {
			g.removeWall(p, anchors[rng.Intn(len(anchors))])
		}

		g.walk(p, rng)
	}
	return grafts
}
