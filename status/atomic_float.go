package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat stores a float64 as its IEEE bits; the zero value is 0.0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}
