package observability

import (
	"strconv"

	"github.com/aretw0/sectionkit/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors updated by engine hooks.
type Metrics struct {
	OperationsQueued  *prometheus.CounterVec
	OperationsApplied *prometheus.CounterVec
	QueueDepth        *prometheus.GaugeVec
	Sections          *prometheus.GaugeVec
	Items             *prometheus.GaugeVec
	Impressions       *prometheus.CounterVec
	PrefetchRouted    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsQueued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionkit_operations_queued_total",
			Help: "Mutations submitted to the engine",
		}, []string{"list", "op"}),
		OperationsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionkit_operations_applied_total",
			Help: "Mutations whose snapshot reached the surface",
		}, []string{"list", "op", "mode", "changed"}),
		QueueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sectionkit_queue_depth",
			Help: "Mutations waiting behind the one in progress",
		}, []string{"list"}),
		Sections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sectionkit_sections",
			Help: "Sections in the last applied snapshot",
		}, []string{"list"}),
		Items: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sectionkit_items",
			Help: "Items in the last applied snapshot",
		}, []string{"list"}),
		Impressions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionkit_impressions_total",
			Help: "First-time item impressions",
		}, []string{"list", "section"}),
		PrefetchRouted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sectionkit_prefetch_indices_total",
			Help: "Item indices forwarded to sections for prefetching",
		}, []string{"list", "section", "kind"}),
	}
}

// Hooks returns engine hooks that update m.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnOperationQueued: func(e *domain.OperationEvent) {
			m.OperationsQueued.WithLabelValues(e.ListID, string(e.Op)).Inc()
			m.QueueDepth.WithLabelValues(e.ListID).Set(float64(e.Pending))
		},
		OnOperationApplied: func(e *domain.OperationEvent) {
			m.OperationsApplied.WithLabelValues(e.ListID, string(e.Op), e.Mode.String(), strconv.FormatBool(e.Changed)).Inc()
			m.QueueDepth.WithLabelValues(e.ListID).Set(float64(e.Pending))
			m.Sections.WithLabelValues(e.ListID).Set(float64(e.Sections))
			m.Items.WithLabelValues(e.ListID).Set(float64(e.Items))
		},
		OnImpression: func(e *domain.ImpressionEvent) {
			m.Impressions.WithLabelValues(e.ListID, e.Section).Inc()
		},
		OnPrefetch: func(e *domain.PrefetchEvent) {
			m.PrefetchRouted.WithLabelValues(e.ListID, e.Section, "prefetch").Add(float64(len(e.Indices)))
		},
		OnCancelPrefetch: func(e *domain.PrefetchEvent) {
			m.PrefetchRouted.WithLabelValues(e.ListID, e.Section, "cancel").Add(float64(len(e.Indices)))
		},
	}
}

// Chain returns hooks that call every non-nil callback of sets in order.
func Chain(sets ...domain.Hooks) domain.Hooks {
	var out domain.Hooks
	for _, h := range sets {
		out.OnOperationQueued = chain(out.OnOperationQueued, h.OnOperationQueued)
		out.OnOperationApplied = chain(out.OnOperationApplied, h.OnOperationApplied)
		out.OnImpression = chain(out.OnImpression, h.OnImpression)
		out.OnPrefetch = chain(out.OnPrefetch, h.OnPrefetch)
		out.OnCancelPrefetch = chain(out.OnCancelPrefetch, h.OnCancelPrefetch)
	}
	return out
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
