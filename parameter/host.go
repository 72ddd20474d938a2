package parameter

import "time"

// Terminal host
const (
	// HostStartTime is the countdown a run begins with; hourglasses extend it
	HostStartTime = 90 * time.Second

	// MessageDuration is how long a status message stays on the bar
	MessageDuration = 2 * time.Second

	// MaxDashSteps bounds a single boots slide
	MaxDashSteps = 64
)
