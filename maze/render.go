package maze

import "strings"

const (
	WallRune    = '█'
	PassageRune = ' '
)

// Render draws the grid as (2·size+1) text rows: cells sit on odd coordinates, walls between them
// mark overrides the rune of a cell; return 0 to keep the passage rune
func (g *Grid) Render(mark func(Point) rune) []string {
	dim := 2*g.Size + 1
	canvas := make([][]rune, dim)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(string(WallRune), dim))
	}

	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			p := Point{x, y}
			c := g.At(p)
			cx, cy := 2*x+1, 2*y+1

			canvas[cy][cx] = PassageRune
			if mark != nil {
				if r := mark(p); r != 0 {
					canvas[cy][cx] = r
				}
			}

			if c.Open(Up) {
				canvas[cy-1][cx] = PassageRune
			}
			if c.Open(Down) {
				canvas[cy+1][cx] = PassageRune
			}
			if c.Open(Left) {
				canvas[cy][cx-1] = PassageRune
			}
			if c.Open(Right) {
				canvas[cy][cx+1] = PassageRune
			}
		}
	}

	rows := make([]string, dim)
	for y, row := range canvas {
		rows[y] = string(row)
	}
	return rows
}
