package event

// Type identifies a chain event
type Type int

const (
	// EventNone is the zero value and never emitted
	EventNone Type = iota

	// EventSegmentGenerated reports a newly built segment
	// Trigger: Manager after storing a segment
	// Consumer: feed, host renderer | Payload: *SegmentGeneratedPayload
	EventSegmentGenerated

	// EventExitReached requests a crossing out of a segment
	// Trigger: host collision with the exit zone
	// Consumer: Coordinator.Update | Payload: *ExitReachedPayload
	EventExitReached

	// EventPlayerEnteredSegment fires once per successful crossing
	// Trigger: Coordinator after the teleport is applied
	// Consumer: host, audio, feed | Payload: *PlayerEnteredPayload
	EventPlayerEnteredSegment

	// EventCrossingFailed reports an aborted crossing; the player stays in From
	// Trigger: Coordinator when the next segment cannot be resolved
	// Consumer: host, audio, feed | Payload: *CrossingFailedPayload
	EventCrossingFailed

	// EventCollectibleConsumed reports a collectible removed from a segment
	// Trigger: Coordinator.Overlap
	// Consumer: host, audio, feed | Payload: *CollectibleConsumedPayload
	EventCollectibleConsumed

	typeCount
)

// Event is a single queued notification
type Event struct {
	Type    Type
	Payload any
	Tick    int64
}
