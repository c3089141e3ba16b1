// Package prefixregistry resolves the namespaces of public identifiers
// against prefix registries. The rewrite pass uses a Resolver to enrich a
// mapping's prefix table with prefixes discovered for candidate
// identifiers; a candidate whose namespace cannot be resolved is simply
// skipped, never an error.
package prefixregistry

import (
	"github.com/novonordisk-research/OBDM-manuscript/curie"
)

// Resolver reports the registered prefix owning a full identifier, by
// longest-namespace match. ok is false when no registered namespace owns
// the identifier.
type Resolver interface {
	Resolve(uri string) (prefix, namespace string, ok bool)
}

// ConverterResolver adapts a curie.Converter into a Resolver. Useful both
// for registry snapshots fetched from public sources and for fixed tables
// in tests.
type ConverterResolver struct {
	conv *curie.Converter
}

// NewConverterResolver wraps conv. The converter is used read-only.
func NewConverterResolver(conv *curie.Converter) *ConverterResolver {
	return &ConverterResolver{conv: conv}
}

// NewStatic builds a Resolver from a fixed prefix table.
func NewStatic(prefixes map[string]string) (*ConverterResolver, error) {
	conv, err := curie.FromPrefixMap(prefixes)
	if err != nil {
		return nil, err
	}
	return &ConverterResolver{conv: conv}, nil
}

// Resolve implements Resolver.
func (r *ConverterResolver) Resolve(uri string) (prefix, namespace string, ok bool) {
	return r.conv.MatchURI(uri)
}

// Len returns the number of prefixes known to the resolver.
func (r *ConverterResolver) Len() int { return r.conv.Len() }
