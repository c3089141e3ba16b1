// Package graph defines the triple-graph collaborator used by the rewrite
// algorithm: an RDF term model, a mutable Graph interface with the lookup
// directions the rewriter needs, and an indexed in-memory implementation.
package graph

// TermKind distinguishes resource identifiers from literal values.
type TermKind int

const (
	// KindIRI is a resource identifier.
	KindIRI TermKind = iota
	// KindLiteral is a literal value, optionally language-tagged or typed.
	KindLiteral
	// KindBlank is an anonymous node with a document-scoped label.
	KindBlank
)

// Term is a node in the graph. Terms are value types and safe to use as
// map keys.
type Term struct {
	Kind     TermKind
	Value    string
	Lang     string // language tag, literals only
	Datatype string // datatype IRI, literals only
}

// IRI returns a resource term.
func IRI(value string) Term {
	return Term{Kind: KindIRI, Value: value}
}

// Literal returns a plain literal term.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// LangLiteral returns a language-tagged literal term.
func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: lang}
}

// TypedLiteral returns a datatyped literal term.
func TypedLiteral(value, datatype string) Term {
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// Blank returns an anonymous node term with the given label.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// IsIRI reports whether the term is a resource identifier.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsLiteral reports whether the term is a literal value.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// Triple is a subject-predicate-object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// PredicateObject is the (predicate, object) half of a triple, returned
// when enumerating by subject.
type PredicateObject struct {
	Predicate Term
	Object    Term
}

// SubjectPredicate is the (subject, predicate) half of a triple, returned
// when enumerating by object.
type SubjectPredicate struct {
	Subject   Term
	Predicate Term
}

// Graph is the mutable triple store the rewriter operates on. Add and
// Remove have set semantics: adding an existing triple or removing a
// missing one is a no-op. Enumeration methods return snapshots, so callers
// may mutate the graph while ranging over results.
type Graph interface {
	// Add inserts a triple.
	Add(t Triple)
	// Remove deletes a triple.
	Remove(t Triple)
	// Has reports whether the graph contains the triple.
	Has(t Triple) bool
	// Len returns the number of triples.
	Len() int
	// Triples returns every triple in the graph.
	Triples() []Triple
	// Subjects returns the distinct subjects of triples matching the given
	// predicate and object.
	Subjects(predicate, object Term) []Term
	// PredicateObjects returns the predicate/object pairs of triples with
	// the given subject.
	PredicateObjects(subject Term) []PredicateObject
	// SubjectPredicates returns the subject/predicate pairs of triples
	// with the given object.
	SubjectPredicates(object Term) []SubjectPredicate
}
