package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	m := New()
	m.TriplesReplaced.Add(3)
	m.TriplesAdded.Inc()
	m.URIsMinted.Add(2)

	summary, err := m.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3.0, summary["obdm_triples_replaced_total"])
	assert.Equal(t, 1.0, summary["obdm_triples_added_total"])
	assert.Equal(t, 2.0, summary["obdm_uris_minted_total"])
	assert.Equal(t, 0.0, summary["obdm_prefixes_added_total"])
}

func TestNamesSorted(t *testing.T) {
	m := New()
	names, err := m.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"obdm_prefixes_added_total",
		"obdm_triples_added_total",
		"obdm_triples_replaced_total",
		"obdm_uris_minted_total",
	}, names)
}
