package chain

import (
	"math"

	"github.com/lixenwraith/maze-chain/parameter"
)

// Sequencer computes segment side lengths: size(i) = base + i*increment
// Not safe for concurrent use; Manager serializes access
type Sequencer struct {
	base      int
	increment int
	memo      []int
}

func NewSequencer(base, increment int) *Sequencer {
	return &Sequencer{base: base, increment: increment}
}

// Size returns the side length of segment index; negative indices are treated as 0
// Sizes saturate at math.MaxInt instead of overflowing
func (s *Sequencer) Size(index int) int {
	if index < 0 {
		index = 0
	}
	if index < len(s.memo) {
		return s.memo[index]
	}
	if index >= parameter.SizeMemoLimit {
		if s.increment > 0 && index > (math.MaxInt-s.base)/s.increment {
			return math.MaxInt
		}
		return s.base + index*s.increment
	}
	for i := len(s.memo); i <= index; i++ {
		s.memo = append(s.memo, s.base+i*s.increment)
	}
	return s.memo[index]
}
