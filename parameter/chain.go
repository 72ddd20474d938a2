package parameter

// Segment sizing
const (
	// BaseSegmentSize is the side length of segment 0
	BaseSegmentSize = 5

	// SegmentSizeIncrement is added to the side length per segment index
	SegmentSizeIncrement = 2

	// MinSegmentSize is the smallest side that still leaves an interior column for the entrance
	MinSegmentSize = 3

	// SizeMemoLimit caps sequencer memoization; larger indices are computed directly
	SizeMemoLimit = 4096
)

// Chain alignment and layout
const (
	// DefaultAlignmentX is the entrance column of segment 0 before clamping
	DefaultAlignmentX = 1

	// DefaultCellSize is the world-space edge length of one maze cell
	DefaultCellSize = 4.0

	// DefaultSegmentSpacing is the world-space gap between consecutive segments
	DefaultSegmentSpacing = 8.0
)

// Look-ahead policy
const (
	// DefaultLookAhead is how many segments past the player's current one are kept generated
	DefaultLookAhead = 2

	// MaxLookAhead bounds the window to keep per-tick generation cost predictable
	MaxLookAhead = 16
)
