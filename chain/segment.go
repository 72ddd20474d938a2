package chain

import (
	"math"

	"github.com/lixenwraith/maze-chain/collectible"
	"github.com/lixenwraith/maze-chain/maze"
)

// Vec2 is a world-space position; Y runs along the chain axis
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is one generated maze of the chain
// Immutable once stored except for collectible consumption through Manager.Collect
type Segment struct {
	Index        int
	Size         int
	Seed         int64
	Grid         *maze.Grid
	Entrance     maze.Point
	Exit         maze.Point
	Collectibles map[maze.Point]collectible.Item
	Offset       float64 // World Y of row 0
	CellSize     float64
}

// Length is the world-space extent of the segment along the chain axis
func (s *Segment) Length() float64 {
	return float64(s.Size) * s.CellSize
}

// LocalOffset returns the centre of cell p relative to the segment origin
func (s *Segment) LocalOffset(p maze.Point) Vec2 {
	return Vec2{
		X: (float64(p.X) + 0.5) * s.CellSize,
		Y: (float64(p.Y) + 0.5) * s.CellSize,
	}
}

// WorldPosition returns the world-space centre of cell p
func (s *Segment) WorldPosition(p maze.Point) Vec2 {
	local := s.LocalOffset(p)
	return Vec2{X: local.X, Y: s.Offset + local.Y}
}

// CellAt maps a world position back to the cell containing it
func (s *Segment) CellAt(pos Vec2) (maze.Point, bool) {
	if s.CellSize <= 0 {
		return maze.Point{}, false
	}
	p := maze.Point{
		X: int(math.Floor(pos.X / s.CellSize)),
		Y: int(math.Floor((pos.Y - s.Offset) / s.CellSize)),
	}
	return p, s.Grid.InBounds(p)
}

// ItemAt returns the collectible on cell p, if any
func (s *Segment) ItemAt(p maze.Point) (collectible.Item, bool) {
	item, ok := s.Collectibles[p]
	return item, ok
}

// Render draws the segment with entrance 'S', exit 'E' and item glyphs
func (s *Segment) Render() []string {
	return s.Grid.Render(func(p maze.Point) rune {
		switch p {
		case s.Entrance:
			return 'S'
		case s.Exit:
			return 'E'
		}
		if item, ok := s.Collectibles[p]; ok {
			return item.Type.Glyph()
		}
		return 0
	})
}
