package audio

import (
	"github.com/gopxl/beep"

	"github.com/lixenwraith/maze-chain/collectible"
	"github.com/lixenwraith/maze-chain/event"
	"github.com/lixenwraith/maze-chain/parameter"
)

// Cue identifies a short sound tied to a chain event
type Cue int

const (
	CueNone Cue = iota
	CueCollect
	CueCrossing
	CueFailure
)

func (c Cue) String() string {
	switch c {
	case CueCollect:
		return "collect"
	case CueCrossing:
		return "crossing"
	case CueFailure:
		return "failure"
	}
	return "none"
}

// collectFreq pitches the collect blip by item type, rarer items sound higher
func collectFreq(t collectible.ItemType) float64 {
	return parameter.CollectCueBaseFreq + float64(t)*parameter.CollectCueFreqStep
}

// BuildCue renders a cue into a finite streamer; item only affects CueCollect
func BuildCue(c Cue, item collectible.ItemType, rate beep.SampleRate) beep.Streamer {
	switch c {
	case CueCollect:
		d := parameter.CollectCueDuration
		return NewEnvelope(NewOscillator(collectFreq(item), d, WaveSine, rate),
			d, parameter.CueAttack, parameter.CueRelease, rate)
	case CueCrossing:
		d := parameter.CrossingCueDuration
		return NewEnvelope(NewSweep(parameter.CrossingCueLowFreq, parameter.CrossingCueHighFreq, d, WaveTriangle, rate),
			d, parameter.CueAttack, parameter.CueRelease, rate)
	case CueFailure:
		d := parameter.FailureCueDuration
		return NewEnvelope(NewOscillator(parameter.FailureCueFreq, d, WaveSquare, rate),
			d, parameter.CueAttack, parameter.CueRelease, rate)
	}
	return nil
}

// cueFor maps a chain event to its cue
func cueFor(ev event.Event) (Cue, collectible.ItemType) {
	switch ev.Type {
	case event.EventCollectibleConsumed:
		if p, ok := ev.Payload.(*event.CollectibleConsumedPayload); ok {
			return CueCollect, p.Item.Type
		}
		return CueCollect, collectible.ItemCoin
	case event.EventPlayerEnteredSegment:
		return CueCrossing, 0
	case event.EventCrossingFailed:
		return CueFailure, 0
	}
	return CueNone, 0
}
