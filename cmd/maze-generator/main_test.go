package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/lixenwraith/maze-chain/chain"
)

func TestGeneratePrintsSegments(t *testing.T) {
	cfg := chain.DefaultConfig()
	cfg.Seed = 11

	var out bytes.Buffer
	if err := generate(&out, cfg, 2); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	text := out.String()

	for _, want := range []string{"seed 11", "Segment 0: 5x5", "Segment 1: 7x7", "Solution Path Length"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	if strings.Count(text, "S") < 2 || strings.Count(text, "E") < 2 {
		t.Error("Expected entrance and exit marks for both segments")
	}
	if !strings.Contains(text, "•") {
		t.Error("Expected solution path dots")
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	cfg := chain.DefaultConfig()
	cfg.BaseSize = 1
	if err := generate(&bytes.Buffer{}, cfg, 1); err == nil {
		t.Error("Expected invalid config error")
	}
}

func TestInputHelpers(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\n17\nabc\n-9\n"))
	if got := getInt(r, "", 3); got != 3 {
		t.Errorf("Expected default 3, got %d", got)
	}
	if got := getInt(r, "", 3); got != 17 {
		t.Errorf("Expected 17, got %d", got)
	}
	if got := getInt(r, "", 3); got != 3 {
		t.Errorf("Expected default on garbage, got %d", got)
	}
	if got := getInt64(r, "", 0); got != -9 {
		t.Errorf("Expected -9, got %d", got)
	}
}
