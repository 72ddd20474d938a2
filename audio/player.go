package audio

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/maze-chain/collectible"
	"github.com/lixenwraith/maze-chain/event"
	"github.com/lixenwraith/maze-chain/parameter"
	"github.com/lixenwraith/maze-chain/status"
)

// Player mixes event cues onto the speaker
// Until Init succeeds every Play is a no-op, so hosts without audio need no special casing
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	volume      float64
	initialized bool

	statPlayed *atomic.Int64
}

// NewPlayer creates an uninitialized player; metrics may be nil
func NewPlayer(sampleRate int, volume float64, metrics *status.Registry) *Player {
	if sampleRate <= 0 {
		sampleRate = parameter.AudioSampleRate
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	return &Player{
		mixer:      &beep.Mixer{},
		rate:       beep.SampleRate(sampleRate),
		volume:     volume,
		statPlayed: metrics.Ints.Get("audio.played"),
	}
}

// Init opens the speaker and attaches the mixer
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences pending cues and detaches from the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	p.mixer.Clear()
	p.initialized = false
}

// Play queues cue c; item selects the collect pitch
func (p *Player) Play(c Cue, item collectible.ItemType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || c == CueNone {
		return false
	}
	s := BuildCue(c, item, p.rate)
	if s == nil {
		return false
	}

	speaker.Lock()
	p.mixer.Add(newVolume(s, p.volume))
	speaker.Unlock()

	p.statPlayed.Add(1)
	return true
}

// HandleEvent plays the cue mapped to ev
func (p *Player) HandleEvent(ev event.Event) {
	c, item := cueFor(ev)
	p.Play(c, item)
}

// Handler returns a router handler that voices crossing and collect events
func Handler[T any](p *Player) event.Handler[T] {
	return event.HandlerFunc[T]{
		Types: []event.Type{
			event.EventCollectibleConsumed,
			event.EventPlayerEnteredSegment,
			event.EventCrossingFailed,
		},
		Fn: func(_ T, ev event.Event) {
			p.HandleEvent(ev)
		},
	}
}
