package graph

// MemoryGraph is an in-memory Graph backed by a triple set with subject and
// object indexes. Not safe for concurrent use; the rewrite pass is
// single-threaded by design.
type MemoryGraph struct {
	triples   map[Triple]struct{}
	bySubject map[Term]map[Triple]struct{}
	byObject  map[Term]map[Triple]struct{}
}

// NewMemoryGraph returns an empty MemoryGraph.
func NewMemoryGraph() *MemoryGraph {
	return &MemoryGraph{
		triples:   make(map[Triple]struct{}),
		bySubject: make(map[Term]map[Triple]struct{}),
		byObject:  make(map[Term]map[Triple]struct{}),
	}
}

// Add inserts a triple. Adding an existing triple is a no-op.
func (g *MemoryGraph) Add(t Triple) {
	if _, ok := g.triples[t]; ok {
		return
	}
	g.triples[t] = struct{}{}
	addIndex(g.bySubject, t.Subject, t)
	addIndex(g.byObject, t.Object, t)
}

// Remove deletes a triple. Removing a missing triple is a no-op.
func (g *MemoryGraph) Remove(t Triple) {
	if _, ok := g.triples[t]; !ok {
		return
	}
	delete(g.triples, t)
	removeIndex(g.bySubject, t.Subject, t)
	removeIndex(g.byObject, t.Object, t)
}

// Has reports whether the graph contains the triple.
func (g *MemoryGraph) Has(t Triple) bool {
	_, ok := g.triples[t]
	return ok
}

// Len returns the number of triples.
func (g *MemoryGraph) Len() int { return len(g.triples) }

// Triples returns every triple in the graph.
func (g *MemoryGraph) Triples() []Triple {
	out := make([]Triple, 0, len(g.triples))
	for t := range g.triples {
		out = append(out, t)
	}
	return out
}

// Subjects returns the distinct subjects of triples matching predicate and
// object.
func (g *MemoryGraph) Subjects(predicate, object Term) []Term {
	seen := make(map[Term]struct{})
	var out []Term
	for t := range g.byObject[object] {
		if t.Predicate != predicate {
			continue
		}
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// PredicateObjects returns the predicate/object pairs of triples with the
// given subject.
func (g *MemoryGraph) PredicateObjects(subject Term) []PredicateObject {
	var out []PredicateObject
	for t := range g.bySubject[subject] {
		out = append(out, PredicateObject{Predicate: t.Predicate, Object: t.Object})
	}
	return out
}

// SubjectPredicates returns the subject/predicate pairs of triples with the
// given object.
func (g *MemoryGraph) SubjectPredicates(object Term) []SubjectPredicate {
	var out []SubjectPredicate
	for t := range g.byObject[object] {
		out = append(out, SubjectPredicate{Subject: t.Subject, Predicate: t.Predicate})
	}
	return out
}

func addIndex(index map[Term]map[Triple]struct{}, key Term, t Triple) {
	set, ok := index[key]
	if !ok {
		set = make(map[Triple]struct{})
		index[key] = set
	}
	set[t] = struct{}{}
}

func removeIndex(index map[Term]map[Triple]struct{}, key Term, t Triple) {
	set, ok := index[key]
	if !ok {
		return
	}
	delete(set, t)
	if len(set) == 0 {
		delete(index, key)
	}
}
