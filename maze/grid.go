package maze

// Direction is a single wall bit of a cell; a cell's walls are the OR of its closed sides
type Direction uint8

const (
	Up Direction = 1 << iota
	Right
	Down
	Left
)

// AllWalls is the mask of a fully closed cell
const AllWalls = Up | Right | Down | Left

// Directions lists the four sides in a fixed order so seeded carving is reproducible
var Directions = [4]Direction{Up, Right, Down, Left}

// Opposite returns the facing side
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Right:
		return Left
	case Left:
		return Right
	}
	return 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return "unknown"
}

// Point is a grid position; Y grows downward, row 0 is the top (entrance) row
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the orthogonal neighbor position in direction d
func (p Point) Step(d Direction) Point {
	switch d {
	case Up:
		return Point{p.X, p.Y - 1}
	case Down:
		return Point{p.X, p.Y + 1}
	case Right:
		return Point{p.X + 1, p.Y}
	case Left:
		return Point{p.X - 1, p.Y}
	}
	return p
}

// Chebyshev returns the king-move distance between two points
func (p Point) Chebyshev(o Point) int {
	dx, dy := p.X-o.X, p.Y-o.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Cell holds the closed sides of one grid position
// visited is carving scratch state and carries no meaning afterwards
type Cell struct {
	Walls   Direction
	visited bool
}

// Open reports whether side d has no wall
func (c Cell) Open(d Direction) bool {
	return c.Walls&d == 0
}

// Grid is a square maze; Cells is indexed [y][x]
type Grid struct {
	Size  int
	Cells [][]Cell
}

// NewGrid returns a size×size grid with every wall closed
func NewGrid(size int) *Grid {
	cells := make([][]Cell, size)
	for y := range cells {
		cells[y] = make([]Cell, size)
		for x := range cells[y] {
			cells[y][x] = Cell{Walls: AllWalls}
		}
	}
	return &Grid{Size: size, Cells: cells}
}

// InBounds reports whether p lies inside the grid
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Size && p.Y >= 0 && p.Y < g.Size
}

// At returns the cell at p; p must be in bounds
func (g *Grid) At(p Point) Cell {
	return g.Cells[p.Y][p.X]
}

// CanMove reports whether a walker at p may step in direction d without leaving the grid
func (g *Grid) CanMove(p Point, d Direction) bool {
	if !g.InBounds(p) || !g.At(p).Open(d) {
		return false
	}
	return g.InBounds(p.Step(d))
}

// removeWall opens the shared side between p and its neighbor in direction d
func (g *Grid) removeWall(p Point, d Direction) {
	n := p.Step(d)
	g.Cells[p.Y][p.X].Walls &^= d
	g.Cells[n.Y][n.X].Walls &^= d.Opposite()
}

// OpenBoundary force-opens side d of p when that side faces outside the grid
// Interior sides are left to the spanning tree
func (g *Grid) OpenBoundary(p Point, d Direction) bool {
	if !g.InBounds(p) || g.InBounds(p.Step(d)) {
		return false
	}
	g.Cells[p.Y][p.X].Walls &^= d
	return true
}

// Clone returns a deep copy
func (g *Grid) Clone() *Grid {
	c := &Grid{Size: g.Size, Cells: make([][]Cell, g.Size)}
	for y := range g.Cells {
		c.Cells[y] = append([]Cell(nil), g.Cells[y]...)
	}
	return c
}
