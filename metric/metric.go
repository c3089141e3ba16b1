// Package metric provides the Prometheus counters accumulated during a
// replacement run. The tool is a one-shot process, so the registry is
// gathered at the end of the run and reported through the logger rather
// than scraped.
package metric

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "obdm"

// Metrics holds the counters of a replacement run.
type Metrics struct {
	registry *prometheus.Registry

	// TriplesReplaced counts triples removed and re-added with rewritten
	// identifiers.
	TriplesReplaced prometheus.Counter
	// TriplesAdded counts provenance triples added to the graph.
	TriplesAdded prometheus.Counter
	// URIsMinted counts freshly allocated internal identifiers.
	URIsMinted prometheus.Counter
	// PrefixesAdded counts prefixes adopted from the public registry.
	PrefixesAdded prometheus.Counter
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TriplesReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_replaced_total",
			Help:      "Triples rewritten to reference internal identifiers",
		}),
		TriplesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_added_total",
			Help:      "Provenance triples added during rewrite",
		}),
		URIsMinted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uris_minted_total",
			Help:      "Internal identifiers minted for public identifiers",
		}),
		PrefixesAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prefixes_added_total",
			Help:      "Prefixes adopted from public registries",
		}),
	}
	m.registry.MustRegister(m.TriplesReplaced, m.TriplesAdded, m.URIsMinted, m.PrefixesAdded)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Summary gathers the registry into a flat metric-name-to-value map for
// end-of-run reporting.
func (m *Metrics) Summary() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(families))
	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER {
			continue
		}
		var total float64
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		out[family.GetName()] = total
	}
	return out, nil
}

// Names returns the gathered metric names in sorted order. Convenient for
// stable log output.
func (m *Metrics) Names() ([]string, error) {
	summary, err := m.Summary()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
