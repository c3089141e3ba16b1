// Package vocabulary provides the IRI constants used across the
// URI-replacement toolkit: the internal organization namespace, the
// provenance property, and the W3C standard terms the rewrite algorithm
// matches against.
//
// References:
// - RDF: https://www.w3.org/TR/rdf11-concepts/
// - RDFS: https://www.w3.org/TR/rdf-schema/
// - SKOS: https://www.w3.org/TR/skos-reference/
// - SKOS-XL: https://www.w3.org/TR/skos-reference/skos-xl.html
package vocabulary

// Internal namespace IRIs
const (
	// InternalBase is the organization-internal namespace into which
	// public identifiers are re-minted.
	InternalBase = "https://ontology.novonordisk.com/"

	// InternalPrefix is the CURIE prefix registered for InternalBase.
	InternalPrefix = "NN"

	// PropertyNamespace holds internal properties attached during rewrite.
	PropertyNamespace = InternalBase + "property/"

	// SourcedFrom is the provenance property linking a minted internal
	// identifier back to the public identifier it replaced.
	SourcedFrom = PropertyNamespace + "sourced_from"
)

// RDF and RDF Schema standard IRIs
const (
	// RdfType relates a resource to its class.
	RdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	// RdfsSubClassOf relates a class to its superclass. Used to discover
	// the closure of concept types before candidate selection.
	RdfsSubClassOf = "http://www.w3.org/2000/01/rdf-schema#subClassOf"

	// RdfsLabel provides a human-readable name for a resource.
	RdfsLabel = "http://www.w3.org/2000/01/rdf-schema#label"
)

// SKOS (Simple Knowledge Organization System) standard IRIs
const (
	// SkosConcept is the root type of rewrite candidates.
	SkosConcept = "http://www.w3.org/2004/02/skos/core#Concept"

	// SkosExactMatch is the default mapping predicate recorded for each
	// public-to-internal pair.
	SkosExactMatch = "http://www.w3.org/2004/02/skos/core#exactMatch"

	// SkosPrefLabel provides the preferred lexical label for a resource.
	SkosPrefLabel = "http://www.w3.org/2004/02/skos/core#prefLabel"
)

// SKOS-XL standard IRIs
const (
	// SkosxlLabel is the class of reified label nodes. Label nodes attached
	// to a rewritten concept are carried along by identifier substitution
	// rather than minted independently.
	SkosxlLabel = "http://www.w3.org/2008/05/skos-xl#Label"

	// SkosxlLiteralForm holds the literal text of a reified label.
	SkosxlLiteralForm = "http://www.w3.org/2008/05/skos-xl#literalForm"

	// SkosxlPrefLabel links a concept to its preferred reified label.
	SkosxlPrefLabel = "http://www.w3.org/2008/05/skos-xl#prefLabel"
)

// Other namespaces seen in ingested ontologies
const (
	// OboInOwlNamespace is used by OBO-derived ontologies for annotation
	// properties.
	OboInOwlNamespace = "http://www.geneontology.org/formats/oboInOwl#"

	// SemapvLexicalMatching is the default mapping justification.
	SemapvLexicalMatching = "https://w3id.org/semapv/vocab/LexicalMatching"
)
