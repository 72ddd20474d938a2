package parameter

import "time"

// Audio output
const (
	AudioSampleRate     = 44100
	AudioBufferDuration = 100 * time.Millisecond
	DefaultAudioVolume  = 0.6
)

// Cue shapes
const (
	CollectCueDuration  = 90 * time.Millisecond
	CollectCueBaseFreq  = 660.0
	CollectCueFreqStep  = 110.0
	CrossingCueDuration = 350 * time.Millisecond
	CrossingCueLowFreq  = 220.0
	CrossingCueHighFreq = 880.0
	FailureCueDuration  = 160 * time.Millisecond
	FailureCueFreq      = 110.0
	CueAttack           = 5 * time.Millisecond
	CueRelease          = 30 * time.Millisecond
)
