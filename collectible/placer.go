package collectible

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/maze-chain/maze"
	"github.com/lixenwraith/maze-chain/parameter"
)

// Candidates returns every cell of a size×size grid farther than the clearance radius
// (Chebyshev) from both entrance and exit, in row-major order
func Candidates(size int, entrance, exit maze.Point) []maze.Point {
	reserved := mapset.New[maze.Point]()
	for _, anchor := range []maze.Point{entrance, exit} {
		for dy := -parameter.ItemClearance; dy <= parameter.ItemClearance; dy++ {
			for dx := -parameter.ItemClearance; dx <= parameter.ItemClearance; dx++ {
				reserved.Put(maze.Point{X: anchor.X + dx, Y: anchor.Y + dy})
			}
		}
	}

	candidates := make([]maze.Point, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := maze.Point{X: x, Y: y}
			if !reserved.Has(p) {
				candidates = append(candidates, p)
			}
		}
	}
	return candidates
}

// BaseCount is the index-driven item count, min(index, 5)
func BaseCount(index int) int {
	if index < 0 {
		return 0
	}
	if index > parameter.MaxBaseItemCount {
		return parameter.MaxBaseItemCount
	}
	return index
}

// ItemCount returns baseCount(index) plus a random 0..1, clamped to available cells
func ItemCount(index, available int, rng *rand.Rand) int {
	count := BaseCount(index) + rng.Intn(parameter.ItemCountJitter)
	if count > available {
		count = available
	}
	if count < 0 {
		count = 0
	}
	return count
}

// Place assigns weighted-random items to shuffled candidate cells of grid
// Cells near entrance or exit never receive an item; one item per cell
func Place(grid *maze.Grid, entrance, exit maze.Point, index int, rng *rand.Rand) map[maze.Point]Item {
	candidates := Candidates(grid.Size, entrance, exit)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	count := ItemCount(index, len(candidates), rng)
	weights := WeightsFor(index)

	items := make(map[maze.Point]Item, count)
	for _, p := range candidates[:count] {
		t := weights.Draw(rng)
		items[p] = Item{Type: t, Value: t.Effect().Roll(rng)}
	}
	return items
}
