package index

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Query operation labels of dgap_index_queries_total.
const (
	opPostings        = "postings"
	opIntersect       = "intersect"
	opUnion           = "union"
	opPrefix          = "prefix"
	opIntersectPrefix = "intersect_prefix"
	opDecode          = "decode"
)

// metrics holds the collectors of one Index. A nil *metrics records nothing.
type metrics struct {
	terms        prometheus.Gauge
	encodedBytes prometheus.Gauge
	writes       prometheus.Counter
	decodeErrors prometheus.Counter
	queries      *prometheus.CounterVec
}

// newMetrics creates and registers the collectors, or returns nil when reg is nil.
//
// Registration is all or nothing: when a collector fails to register, the ones
// registered before it are unregistered and the error is returned.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil //nolint:nilnil
	}

	m := &metrics{
		terms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dgap_index_terms",
			Help: "Number of terms in the index.",
		}),
		encodedBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dgap_index_encoded_bytes",
			Help: "Total size of the stored postings blobs in bytes.",
		}),
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dgap_index_writes_total",
			Help: "Total number of postings list writes (add, put and delete).",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dgap_index_decode_errors_total",
			Help: "Total number of stored postings lists that failed to decode.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dgap_index_queries_total",
			Help: "Total number of queries by operation.",
		}, []string{"op"}),
	}

	collectors := []prometheus.Collector{m.terms, m.encodedBytes, m.writes, m.decodeErrors, m.queries}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			for _, done := range collectors[:i] {
				reg.Unregister(done)
			}

			return nil, fmt.Errorf("register index metrics: %w", err)
		}
	}

	return m, nil
}

func (m *metrics) observeWrite(terms, bytes int) {
	if m == nil {
		return
	}
	m.writes.Inc()
	m.terms.Set(float64(terms))
	m.encodedBytes.Set(float64(bytes))
}

func (m *metrics) observeQuery(op string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(op).Inc()
}

func (m *metrics) observeDecodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}
