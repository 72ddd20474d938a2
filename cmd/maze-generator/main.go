package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/maze-chain/chain"
	"github.com/lixenwraith/maze-chain/maze"
	"github.com/lixenwraith/maze-chain/parameter"
)

func main() {
	log.SetOutput(io.Discard)
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("\n=== MAZE CHAIN GENERATOR ===")

		cfg := chain.DefaultConfig()
		cfg.Seed = getInt64(reader, "Seed (default 0 = time): ", 0)
		cfg.BaseSize = getInt(reader, fmt.Sprintf("Base size (default %d): ", parameter.BaseSegmentSize), parameter.BaseSegmentSize)
		cfg.SizeIncrement = getInt(reader, fmt.Sprintf("Size increment (default %d): ", parameter.SegmentSizeIncrement), parameter.SegmentSizeIncrement)
		cfg.AlignmentX = getInt(reader, fmt.Sprintf("Alignment column (default %d): ", parameter.DefaultAlignmentX), parameter.DefaultAlignmentX)
		count := getInt(reader, "Segments (default 3): ", 3)

		fmt.Println("\nGenerating...")
		if err := generate(os.Stdout, cfg, count); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		fmt.Print("\nGenerate another? [Y/n]: ")
		cont, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(cont)) == "n" {
			break
		}
	}
}

// generate builds count segments of a chain and prints each one with its solution path
func generate(w io.Writer, cfg chain.Config, count int) error {
	m, err := chain.NewManager(cfg, nil, nil)
	if err != nil {
		return err
	}

	startT := time.Now()
	if count > 0 {
		if _, err := m.Generate(count - 1); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "Done in %v, seed %d\n", time.Since(startT), m.Seed())

	for _, i := range m.GeneratedIndices() {
		seg, _ := m.Segment(i)
		path := seg.Grid.Path(seg.Entrance, seg.Exit)

		fmt.Fprintf(w, "\nSegment %d: %dx%d, entrance %v, exit %v, items %d, offset %.1f\n",
			seg.Index, seg.Size, seg.Size, seg.Entrance, seg.Exit, len(seg.Collectibles), seg.Offset)
		fmt.Fprintf(w, "Solution Path Length: %d steps\n", len(path))
		draw(w, seg, path)
	}
	return nil
}

func draw(w io.Writer, seg *chain.Segment, path []maze.Point) {
	pathMap := make(map[maze.Point]bool, len(path))
	for _, p := range path {
		pathMap[p] = true
	}

	rows := seg.Grid.Render(func(p maze.Point) rune {
		switch {
		case p == seg.Entrance:
			return 'S'
		case p == seg.Exit:
			return 'E'
		}
		if item, ok := seg.Collectibles[p]; ok {
			return item.Type.Glyph()
		}
		if pathMap[p] {
			return '•'
		}
		return 0
	})
	for _, row := range rows {
		fmt.Fprintln(w, row)
	}
}

// --- Input Helpers ---

func getInt(r *bufio.Reader, prompt string, def int) int {
	fmt.Print(prompt)
	s, _ := r.ReadString('\n')
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getInt64(r *bufio.Reader, prompt string, def int64) int64 {
	fmt.Print(prompt)
	s, _ := r.ReadString('\n')
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}
