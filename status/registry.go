package status

import "sync/atomic"

// Registry is the central metrics facade
// Components cache pointers at construction; hot paths write directly to atomics
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count()
}

// Snapshot copies every metric value into a plain map keyed by metric name
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Ints.Range(func(key string, v *atomic.Int64) {
		out[key] = v.Load()
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		out[key] = v.Get()
	})
	return out
}
