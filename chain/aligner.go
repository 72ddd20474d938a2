package chain

import "github.com/lixenwraith/maze-chain/maze"

// Aligner derives entrance/exit columns so each segment's entrance lines up with the
// previous segment's exit: x(0) = clamp(alignX), x(i) = clamp(x(i-1)) against size(i)
// Entrance is on row 0, exit on the bottom row, both in the same column
// Sizes never shrink, so a column clamped for size(0) fits every later segment and
// the chain keeps one column throughout
type Aligner struct {
	seq    *Sequencer
	alignX int
	column int // clamp(alignX) against size(0)
}

func NewAligner(seq *Sequencer, alignX int) *Aligner {
	return &Aligner{seq: seq, alignX: alignX, column: clampColumn(alignX, seq.Size(0))}
}

// clampColumn keeps x off the side walls: min(x, size-2), at least 1
func clampColumn(x, size int) int {
	if x > size-2 {
		x = size - 2
	}
	if x < 1 {
		x = 1
	}
	return x
}

// EntranceX returns the entrance column of segment index
func (a *Aligner) EntranceX(index int) int {
	return a.column
}

// previousExitX is the column a player leaves segment index-1 through, or the alignment point for index 0
func (a *Aligner) previousExitX(index int) int {
	if index <= 0 {
		return a.alignX
	}
	return a.EntranceX(index - 1)
}

// EntranceWithSize returns the entrance of segment index assuming side length size
func (a *Aligner) EntranceWithSize(size, index int) maze.Point {
	return maze.Point{X: clampColumn(a.previousExitX(index), size), Y: 0}
}

// ExitWithSize returns the exit of segment index assuming side length size
func (a *Aligner) ExitWithSize(size, index int) maze.Point {
	return maze.Point{X: clampColumn(a.previousExitX(index), size), Y: size - 1}
}

// Entrance returns the entrance of segment index at its sequenced size
func (a *Aligner) Entrance(index int) maze.Point {
	return a.EntranceWithSize(a.seq.Size(index), index)
}

// Exit returns the exit of segment index at its sequenced size
func (a *Aligner) Exit(index int) maze.Point {
	return a.ExitWithSize(a.seq.Size(index), index)
}
