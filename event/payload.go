package event

import (
	"github.com/lixenwraith/maze-chain/collectible"
	"github.com/lixenwraith/maze-chain/maze"
)

// SegmentGeneratedPayload describes a stored segment
type SegmentGeneratedPayload struct {
	Index    int        `json:"index"`
	Size     int        `json:"size"`
	Entrance maze.Point `json:"entrance"`
	Exit     maze.Point `json:"exit"`
	Items    int        `json:"items"`
	Offset   float64    `json:"offset"`
}

// ExitReachedPayload carries the segment whose exit zone the player touched
type ExitReachedPayload struct {
	Index int `json:"index"`
}

// PlayerEnteredPayload carries the teleport result of a crossing
type PlayerEnteredPayload struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// CrossingFailedPayload reports why a crossing out of From was aborted
type CrossingFailedPayload struct {
	From   int    `json:"from"`
	Reason string `json:"reason"`
}

// CollectibleConsumedPayload identifies the consumed item and its effect
type CollectibleConsumedPayload struct {
	Index int              `json:"index"`
	Cell  maze.Point       `json:"cell"`
	Item  collectible.Item `json:"item"`
}
