package maze

import (
	"errors"
	"fmt"
)

// Validate failures
var (
	// ErrWallMismatch means a passage is open on one side of a shared wall only
	ErrWallMismatch = errors.New("maze walls disagree between neighbors")
	// ErrDisconnected means some cell is unreachable from (0,0)
	ErrDisconnected = errors.New("maze is not connected")
	// ErrCycle means there are more passages than a spanning tree allows
	ErrCycle        = errors.New("maze contains a cycle")
)

// OpenPairs counts interior passages, each shared side counted once
func (g *Grid) OpenPairs() int {
	pairs := 0
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			c := g.Cells[y][x]
			if x+1 < g.Size && c.Open(Right) {
				pairs++
			}
			if y+1 < g.Size && c.Open(Down) {
				pairs++
			}
		}
	}
	return pairs
}

// Reachable returns the number of cells reachable from p through open sides
func (g *Grid) Reachable(p Point) int {
	if !g.InBounds(p) {
		return 0
	}
	seen := make([]bool, g.Size*g.Size)
	seen[p.Y*g.Size+p.X] = true
	queue := []Point{p}
	count := 0

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		count++

		for _, d := range Directions {
			if !g.CanMove(curr, d) {
				continue
			}
			n := curr.Step(d)
			if idx := n.Y*g.Size + n.X; !seen[idx] {
				seen[idx] = true
				queue = append(queue, n)
			}
		}
	}
	return count
}

// Validate checks the perfect-maze property: consistent walls, one component,
// exactly size²−1 interior passages
func (g *Grid) Validate() error {
	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			p := Point{x, y}
			for _, d := range Directions {
				n := p.Step(d)
				if !g.InBounds(n) {
					continue
				}
				if g.At(p).Open(d) != g.At(n).Open(d.Opposite()) {
					return fmt.Errorf("%w: (%d,%d) %s", ErrWallMismatch, x, y, d)
				}
			}
		}
	}

	total := g.Size * g.Size
	if reached := g.Reachable(Point{}); reached != total {
		return fmt.Errorf("%w: reached %d of %d cells", ErrDisconnected, reached, total)
	}
	if pairs := g.OpenPairs(); pairs != total-1 {
		return fmt.Errorf("%w: %d passages for %d cells", ErrCycle, pairs, total)
	}
	return nil
}

// Path returns the cells from start to end inclusive, nil if either is outside the grid or unreachable
func (g *Grid) Path(start, end Point) []Point {
	if !g.InBounds(start) || !g.InBounds(end) {
		return nil
	}

	cameFrom := make(map[Point]Point)
	visited := map[Point]bool{start: true}
	queue := []Point{start}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if curr == end {
			path := []Point{curr}
			for curr != start {
				curr = cameFrom[curr]
				path = append(path, curr)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, d := range Directions {
			if !g.CanMove(curr, d) {
				continue
			}
			next := curr.Step(d)
			if !visited[next] {
				visited[next] = true
				cameFrom[next] = curr
				queue = append(queue, next)
			}
		}
	}
	return nil
}
