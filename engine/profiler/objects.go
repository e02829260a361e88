package profiler

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "oxyvk"

// ObjectMetrics is a vulkan.Observer exporting the number of live native objects by kind and the number of
// failed create calls by kind.
type ObjectMetrics struct {
	live     *prometheus.GaugeVec
	created  *prometheus.CounterVec
	failures *prometheus.CounterVec

	mu     sync.Mutex
	counts map[vulkan.ObjectKind]int
}

var _ vulkan.Observer = &ObjectMetrics{}

// NewObjectMetrics creates the collectors and registers them with reg. Every kind starts at zero so the
// series exist before the first object is created.
//
// Parameters:
//   - reg: the registry, usually prometheus.DefaultRegisterer
//
// Returns:
//   - *ObjectMetrics: the observer to pass to vulkan.WithObserver
//   - error: a registration error
func NewObjectMetrics(reg prometheus.Registerer) (*ObjectMetrics, error) {
	m := &ObjectMetrics{
		counts: make(map[vulkan.ObjectKind]int),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "vulkan",
			Name:      "live_objects",
			Help:      "Native objects currently alive, by kind.",
		}, []string{"kind"}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vulkan",
			Name:      "objects_created_total",
			Help:      "Native objects created, by kind.",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vulkan",
			Name:      "create_failures_total",
			Help:      "Native create calls that failed, by kind.",
		}, []string{"kind"}),
	}
	for _, c := range []prometheus.Collector{m.live, m.created, m.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	for _, k := range vulkan.ObjectKinds {
		m.live.WithLabelValues(string(k))
		m.created.WithLabelValues(string(k))
		m.failures.WithLabelValues(string(k))
	}
	return m, nil
}

func (m *ObjectMetrics) ObjectCreated(kind vulkan.ObjectKind) {
	m.mu.Lock()
	m.counts[kind]++
	m.mu.Unlock()
	m.live.WithLabelValues(string(kind)).Inc()
	m.created.WithLabelValues(string(kind)).Inc()
}

func (m *ObjectMetrics) ObjectDestroyed(kind vulkan.ObjectKind) {
	m.mu.Lock()
	m.counts[kind]--
	m.mu.Unlock()
	m.live.WithLabelValues(string(kind)).Dec()
}

func (m *ObjectMetrics) CreateFailed(kind vulkan.ObjectKind, err error) {
	m.failures.WithLabelValues(string(kind)).Inc()
}

// Live returns the number of live objects of kind as counted by this observer.
func (m *ObjectMetrics) Live(kind vulkan.ObjectKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[kind]
}

// Leaked returns the kinds that still have live objects. Empty after a complete teardown.
func (m *ObjectMetrics) Leaked() map[vulkan.ObjectKind]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[vulkan.ObjectKind]int)
	for k, n := range m.counts {
		if n != 0 {
			out[k] = n
		}
	}
	return out
}
