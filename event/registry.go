package event

import "strings"

var typeNames = [typeCount]string{
	EventNone:                 "none",
	EventSegmentGenerated:     "segment_generated",
	EventExitReached:          "exit_reached",
	EventPlayerEnteredSegment: "player_entered_segment",
	EventCrossingFailed:       "crossing_failed",
	EventCollectibleConsumed:  "collectible_consumed",
}

var nameToType = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for i, n := range typeNames {
		m[n] = Type(i)
	}
	return m
}()

// Name returns the wire name of an event type
func (t Type) Name() string {
	if t < 0 || t >= typeCount {
		return "unknown"
	}
	return typeNames[t]
}

func (t Type) String() string {
	return t.Name()
}

// Lookup resolves a wire name, case-insensitive
func Lookup(name string) (Type, bool) {
	t, ok := nameToType[strings.ToLower(name)]
	return t, ok
}

// Types returns every emitted event type in declaration order
func Types() []Type {
	types := make([]Type, 0, typeCount-1)
	for t := EventNone + 1; t < typeCount; t++ {
		types = append(types, t)
	}
	return types
}
