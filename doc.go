// Package obdm provides tooling for bringing externally sourced ontologies
// under an organisation-internal identifier scheme.
//
// # Philosophy
//
// Public ontologies name their concepts with identifiers the organisation
// does not control. This module rewrites such graphs so every concept gets
// a stable internal identifier, while an SSSOM mapping file preserves the
// link back to the public original. The mapping is the source of truth:
// rewriting the same graph twice, or two graphs sharing concepts, always
// yields the same internal identifiers.
//
// # Architecture
//
// The rewrite is a single pass over an in-memory triple graph:
//
//	┌──────────────┐    ┌──────────────┐    ┌──────────────┐
//	│  N-Triples   │    │    SSSOM     │    │    Public    │
//	│    graph     │    │   mapping    │    │  registries  │
//	└──────┬───────┘    └──────┬───────┘    └──────┬───────┘
//	       │                   │                   │
//	       ↓                   ↓                   ↓
//	┌─────────────────────────────────────────────────────┐
//	│                      Rewriter                       │
//	│  select concepts → resolve prefixes → mint → swap   │
//	└─────────────────────────┬───────────────────────────┘
//	                          ↓
//	         rewritten graph + updated mapping
//
// The full identifier assignment is computed before any mutation begins,
// in lexicographic order of the original identifiers, so allocation is
// reproducible. Any unresolvable candidate aborts the run before anything
// is persisted.
//
// # Packages
//
// Identifier handling:
//   - curie: CURIE/URI conversion with strict and lenient modes
//   - prefixregistry: prefix resolution against public ontology registries
//   - vocabulary: well-known property and class identifiers
//
// Mapping persistence:
//   - sssom: SSSOM mapping files, domain-code registry, identifier minting
//
// Graph handling:
//   - graph: triple term model, indexed in-memory graph, N-Triples codec
//   - rewrite: the selection/minting/rewrite pass
//
// Infrastructure:
//   - errors: structured error handling
//   - metric: Prometheus run counters
//
// # Binary
//
// The replace-uris command wires the packages together:
//
//	# Rewrite a graph in place, minting in the chemistry domain
//	replace-uris --input=concepts.nt --mapping=chemistry.sssom.tsv \
//	    --domain=chemistry --domain-code=07
//
//	# Preview without writing anything
//	replace-uris --input=concepts.nt --mapping=chemistry.sssom.tsv \
//	    --domain=chemistry --dry
package obdm
