package rewrite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novonordisk-research/OBDM-manuscript/curie"
	"github.com/novonordisk-research/OBDM-manuscript/errors"
	"github.com/novonordisk-research/OBDM-manuscript/graph"
	"github.com/novonordisk-research/OBDM-manuscript/metric"
	"github.com/novonordisk-research/OBDM-manuscript/prefixregistry"
	"github.com/novonordisk-research/OBDM-manuscript/sssom"
	"github.com/novonordisk-research/OBDM-manuscript/vocabulary"
)

func newTestMinter(t *testing.T) *sssom.Minter {
	t.Helper()
	conv, err := curie.FromPrefixMap(map[string]string{
		"ex":     "http://example.org/",
		"skos":   "http://www.w3.org/2004/02/skos/core#",
		"skosxl": "http://www.w3.org/2008/05/skos-xl#",
	})
	require.NoError(t, err)
	m, err := sssom.New(sssom.Options{Converter: conv})
	require.NoError(t, err)
	minter, err := sssom.NewMinter(m, "chemistry", "07")
	require.NoError(t, err)
	return minter
}

func newRewriter(t *testing.T, g graph.Graph, minter *sssom.Minter, resolver prefixregistry.Resolver) *Rewriter {
	t.Helper()
	rw, err := New(Config{Graph: g, Minter: minter, Resolver: resolver})
	require.NoError(t, err)
	return rw
}

// referencesValue reports whether any triple in g mentions the identifier
// as subject or as a non-literal object.
func referencesValue(g graph.Graph, value string) bool {
	for _, triple := range g.Triples() {
		if triple.Subject.IsIRI() && triple.Subject.Value == value {
			return true
		}
		if triple.Object.IsIRI() && triple.Object.Value == value {
			return true
		}
	}
	return false
}

func TestRunBasicRewrite(t *testing.T) {
	g := graph.NewMemoryGraph()
	concept := graph.IRI("http://example.org/1")
	other := graph.IRI("http://example.org/other")
	referrer := graph.IRI("http://example.org/someone")

	g.Add(graph.Triple{Subject: concept, Predicate: graph.IRI(vocabulary.RdfType), Object: graph.IRI(vocabulary.SkosConcept)})
	g.Add(graph.Triple{Subject: concept, Predicate: graph.IRI(vocabulary.RdfsLabel), Object: graph.Literal("water")})
	g.Add(graph.Triple{Subject: concept, Predicate: graph.IRI("http://example.org/related"), Object: other})
	g.Add(graph.Triple{Subject: referrer, Predicate: graph.IRI("http://example.org/refers"), Object: concept})

	minter := newTestMinter(t)
	rw := newRewriter(t, g, minter, nil)

	stats, err := rw.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Candidates)
	assert.Equal(t, 1, stats.Minted)
	assert.Equal(t, 4, stats.TriplesReplaced)
	assert.Equal(t, 1, stats.TriplesAdded)

	// zero remaining triples reference the original identifier
	assert.False(t, referencesValue(g, "http://example.org/1"))

	minted := "https://ontology.novonordisk.com/07000001"
	assert.True(t, g.Has(graph.Triple{
		Subject:   graph.IRI(minted),
		Predicate: graph.IRI(vocabulary.RdfType),
		Object:    graph.IRI(vocabulary.SkosConcept),
	}))
	// literal objects pass through unchanged
	assert.True(t, g.Has(graph.Triple{
		Subject:   graph.IRI(minted),
		Predicate: graph.IRI(vocabulary.RdfsLabel),
		Object:    graph.Literal("water"),
	}))
	// non-candidate objects are left unchanged
	assert.True(t, g.Has(graph.Triple{
		Subject:   graph.IRI(minted),
		Predicate: graph.IRI("http://example.org/related"),
		Object:    other,
	}))
	// incoming triple now points at the minted identifier
	assert.True(t, g.Has(graph.Triple{
		Subject:   referrer,
		Predicate: graph.IRI("http://example.org/refers"),
		Object:    graph.IRI(minted),
	}))

	// exactly one provenance triple references the qualified original
	provenance := g.SubjectPredicates(graph.Literal("ex:1"))
	require.Len(t, provenance, 1)
	assert.Equal(t, graph.IRI(minted), provenance[0].Subject)
	assert.Equal(t, graph.IRI(vocabulary.SourcedFrom), provenance[0].Predicate)
}

func TestRunLabelNodeAttachment(t *testing.T) {
	g := graph.NewMemoryGraph()
	concept := graph.IRI("http://example.org/1")
	label := graph.IRI("http://example.org/1_label_en")

	g.Add(graph.Triple{Subject: concept, Predicate: graph.IRI(vocabulary.RdfType), Object: graph.IRI(vocabulary.SkosConcept)})
	g.Add(graph.Triple{Subject: concept, Predicate: graph.IRI(vocabulary.SkosxlPrefLabel), Object: label})
	g.Add(graph.Triple{Subject: label, Predicate: graph.IRI(vocabulary.RdfType), Object: graph.IRI(vocabulary.SkosxlLabel)})
	g.Add(graph.Triple{Subject: label, Predicate: graph.IRI(vocabulary.SkosxlLiteralForm), Object: graph.LangLiteral("water", "en")})

	minter := newTestMinter(t)
	rw := newRewriter(t, g, minter, nil)

	stats, err := rw.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TriplesReplaced)

	// the label node is renamed by substitution, not minted independently
	minted := "https://ontology.novonordisk.com/07000001"
	newLabel := graph.IRI(minted + "_label_en")
	assert.True(t, g.Has(graph.Triple{
		Subject:   graph.IRI(minted),
		Predicate: graph.IRI(vocabulary.SkosxlPrefLabel),
		Object:    newLabel,
	}))
	assert.True(t, g.Has(graph.Triple{
		Subject:   newLabel,
		Predicate: graph.IRI(vocabulary.SkosxlLiteralForm),
		Object:    graph.LangLiteral("water", "en"),
	}))
	assert.True(t, g.Has(graph.Triple{
		Subject:   newLabel,
		Predicate: graph.IRI(vocabulary.RdfType),
		Object:    graph.IRI(vocabulary.SkosxlLabel),
	}))
	assert.False(t, referencesValue(g, "http://example.org/1"))
	assert.False(t, referencesValue(g, "http://example.org/1_label_en"))

	// the mapping records only the concept, not the label node
	assert.Equal(t, 1, minter.Len())
}

func TestRunCandidateToCandidateReferences(t *testing.T) {
	g := graph.NewMemoryGraph()
	water := graph.IRI("http://example.org/1")
	liquid := graph.IRI("http://example.org/2")
	broader := graph.IRI("http://www.w3.org/2004/02/skos/core#broader")

	for _, c := range []graph.Term{water, liquid} {
		g.Add(graph.Triple{Subject: c, Predicate: graph.IRI(vocabulary.RdfType), Object: graph.IRI(vocabulary.SkosConcept)})
	}
	g.Add(graph.Triple{Subject: water, Predicate: broader, Object: liquid})

	minter := newTestMinter(t)
	rw := newRewriter(t, g, minter, nil)

	_, err := rw.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, g.Has(graph.Triple{
		Subject:   graph.IRI("https://ontology.novonordisk.com/07000001"),
		Predicate: broader,
		Object:    graph.IRI("https://ontology.novonordisk.com/07000002"),
	}))
	assert.False(t, referencesValue(g, "http://example.org/1"))
	assert.False(t, referencesValue(g, "http://example.org/2"))
}

func TestRunDeterministicAssignmentOrder(t *testing.T) {
	// insertion order differs from lexicographic order; assignment must not
	g := graph.NewMemoryGraph()
	for _, local := range []string{"9", "1", "5"} {
		g.Add(graph.Triple{
			Subject:   graph.IRI("http://example.org/" + local),
			Predicate: graph.IRI(vocabulary.RdfType),
			Object:    graph.IRI(vocabulary.SkosConcept),
		})
	}

	minter := newTestMinter(t)
	rw := newRewriter(t, g, minter, nil)
	_, err := rw.Run(context.Background())
	require.NoError(t, err)

	got, err := minter.Get("ex:1")
	require.NoError(t, err)
	assert.Equal(t, "NN:07000001", got)
	got, err = minter.Get("ex:5")
	require.NoError(t, err)
	assert.Equal(t, "NN:07000002", got)
	got, err = minter.Get("ex:9")
	require.NoError(t, err)
	assert.Equal(t, "NN:07000003", got)
}

func TestRunSubtypeClosure(t *testing.T) {
	g := graph.NewMemoryGraph()
	localType := graph.IRI("http://example.org/LocalConcept")
	subject := graph.IRI("http://example.org/1")

	g.Add(graph.Triple{Subject: localType, Predicate: graph.IRI(vocabulary.RdfsSubClassOf), Object: graph.IRI(vocabulary.SkosConcept)})
	g.Add(graph.Triple{Subject: subject, Predicate: graph.IRI(vocabulary.RdfType), Object: localType})

	minter := newTestMinter(t)
	rw := newRewriter(t, g, minter, nil)

	stats, err := rw.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Candidates)
	assert.True(t, minter.Contains("ex:1"))
}

func TestRunSkipsInternalSubjects(t *testing.T) {
	g := graph.NewMemoryGraph()
	internal := graph.IRI("https://ontology.novonordisk.com/07000042")
	g.Add(graph.Triple{Subject: internal, Predicate: graph.IRI(vocabulary.RdfType), Object: graph.IRI(vocabulary.SkosConcept)})

	minter := newTestMinter(t)
	rw := newRewriter(t, g, minter, nil)

	stats, err := rw.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Candidates)
	assert.Equal(t, 0, stats.TriplesReplaced)
	assert.True(t, g.Has(graph.Triple{Subject: internal, Predicate: graph.IRI(vocabulary.RdfType), Object: graph.IRI(vocabulary.SkosConcept)}))
}

func TestRunSecondPassIsIdle(t *testing.T) {
	g := graph.NewMemoryGraph()
	g.Add(graph.Triple{
		Subject:   graph.IRI("http://example.org/1"),
		Predicate: graph.IRI(vocabulary.RdfType),
		Object:    graph.IRI(vocabulary.SkosConcept),
	})

	minter := newTestMinter(t)
	rw := newRewriter(t, g, minter, nil)
	_, err := rw.Run(context.Background())
	require.NoError(t, err)

	// everything is internal now, a second pass changes nothing
	stats, err := rw.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Candidates)
	assert.Equal(t, 0, stats.TriplesReplaced)
	assert.Equal(t, 0, stats.TriplesAdded)
}

func TestRunReusesPersistedAssignments(t *testing.T) {
	g := graph.NewMemoryGraph()
	g.Add(graph.Triple{
		Subject:   graph.IRI("http://example.org/1"),
		Predicate: graph.IRI(vocabulary.RdfType),
		Object:    graph.IRI(vocabulary.SkosConcept),
	})

	minter := newTestMinter(t)
	require.NoError(t, minter.Set("ex:1", "NN:07000123"))

	rw := newRewriter(t, g, minter, nil)
	stats, err := rw.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Minted)
	assert.True(t, g.Has(graph.Triple{
		Subject:   graph.IRI("https://ontology.novonordisk.com/07000123"),
		Predicate: graph.IRI(vocabulary.RdfType),
		Object:    graph.IRI(vocabulary.SkosConcept),
	}))
}

func TestRunUnresolvedCandidateAborts(t *testing.T) {
	g := graph.NewMemoryGraph()
	g.Add(graph.Triple{
		Subject:   graph.IRI("http://mystery.org/1"),
		Predicate: graph.IRI(vocabulary.RdfType),
		Object:    graph.IRI(vocabulary.SkosConcept),
	})

	minter := newTestMinter(t)
	rw := newRewriter(t, g, minter, nil)

	_, err := rw.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnknownPrefix(err))

	// no mutation happened before the abort
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 0, minter.Len())
}

func TestRunEnrichmentResolvesUnknownNamespace(t *testing.T) {
	g := graph.NewMemoryGraph()
	g.Add(graph.Triple{
		Subject:   graph.IRI("http://purl.obolibrary.org/obo/CHEBI_15377"),
		Predicate: graph.IRI(vocabulary.RdfType),
		Object:    graph.IRI(vocabulary.SkosConcept),
	})

	resolver, err := prefixregistry.NewStatic(map[string]string{
		"CHEBI": "http://purl.obolibrary.org/obo/CHEBI_",
	})
	require.NoError(t, err)

	minter := newTestMinter(t)
	rw := newRewriter(t, g, minter, resolver)

	stats, err := rw.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PrefixesAdded)
	assert.Equal(t, 1, stats.Candidates)

	got, err := minter.Get("CHEBI:15377")
	require.NoError(t, err)
	assert.Equal(t, "NN:07000001", got)

	// provenance uses the newly qualified form
	provenance := g.SubjectPredicates(graph.Literal("CHEBI:15377"))
	assert.Len(t, provenance, 1)
}

func TestRunMetricsAccumulate(t *testing.T) {
	g := graph.NewMemoryGraph()
	g.Add(graph.Triple{
		Subject:   graph.IRI("http://example.org/1"),
		Predicate: graph.IRI(vocabulary.RdfType),
		Object:    graph.IRI(vocabulary.SkosConcept),
	})

	metrics := metric.New()
	rw, err := New(Config{Graph: g, Minter: newTestMinter(t), Metrics: metrics})
	require.NoError(t, err)

	stats, err := rw.Run(context.Background())
	require.NoError(t, err)

	summary, err := metrics.Summary()
	require.NoError(t, err)
	assert.Equal(t, float64(stats.TriplesReplaced), summary["obdm_triples_replaced_total"])
	assert.Equal(t, float64(stats.TriplesAdded), summary["obdm_triples_added_total"])
	assert.Equal(t, float64(stats.Minted), summary["obdm_uris_minted_total"])
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Minter: newTestMinter(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = New(Config{Graph: graph.NewMemoryGraph()})
	require.Error(t, err)
}

func TestRunCanceledContext(t *testing.T) {
	g := graph.NewMemoryGraph()
	g.Add(graph.Triple{
		Subject:   graph.IRI("http://example.org/1"),
		Predicate: graph.IRI(vocabulary.RdfType),
		Object:    graph.IRI(vocabulary.SkosConcept),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rw := newRewriter(t, g, newTestMinter(t), nil)
	_, err := rw.Run(ctx)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}
