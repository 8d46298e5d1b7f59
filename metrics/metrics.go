// Package metrics instruments a donut3d.Backend with Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phanxgames/donut3d"
)

// Backend forwards mutation batches to another backend and counts them.
type Backend struct {
	next donut3d.Backend

	mutations *prometheus.CounterVec
	batches   prometheus.Counter
	errors    prometheus.Counter
	batchSize prometheus.Histogram
}

// Instrument wraps next and registers its collectors with reg. A nil next
// only counts.
func Instrument(next donut3d.Backend, reg prometheus.Registerer) (*Backend, error) {
	b := &Backend{
		next: next,
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donut3d_mutations_total",
				Help: "Scene mutations sent to the backend, by operation.",
			},
			[]string{"op"},
		),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "donut3d_batches_total",
			Help: "Mutation batches sent to the backend.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "donut3d_backend_errors_total",
			Help: "Batches the backend rejected.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "donut3d_batch_size",
			Help:    "Mutations per batch.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	for _, c := range []prometheus.Collector{b.mutations, b.batches, b.errors, b.batchSize} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Apply counts muts and forwards them. It implements donut3d.Backend.
func (b *Backend) Apply(muts []donut3d.Mutation) error {
	b.batches.Inc()
	b.batchSize.Observe(float64(len(muts)))
	for _, m := range muts {
		b.mutations.WithLabelValues(m.Op.String()).Inc()
	}
	if b.next == nil {
		return nil
	}
	if err := b.next.Apply(muts); err != nil {
		b.errors.Inc()
		return err
	}
	return nil
}
