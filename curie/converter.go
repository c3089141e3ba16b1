// Package curie converts identifiers between their two textual
// representations: the qualified CURIE form ("skos:Concept") and the fully
// expanded URI form ("http://www.w3.org/2004/02/skos/core#Concept").
//
// A Converter holds a registered prefix table and offers strict conversion
// (unknown namespaces are hard errors) and lenient conversion (unknown
// values pass through unchanged), matching the two validation modes used
// when loading trusted versus legacy mapping files.
package curie

import (
	"net/url"
	"sort"
	"strings"

	"github.com/novonordisk-research/OBDM-manuscript/errors"
)

// Mode selects the validation behavior of Compress and Expand.
type Mode int

const (
	// Strict fails with UnknownPrefixError when a value's namespace or
	// prefix is not registered, and with InvalidURIError when an expanded
	// value does not satisfy general URI syntax.
	Strict Mode = iota
	// Lenient returns the input unchanged when it cannot be converted.
	// Empty input yields empty output.
	Lenient
)

// Form classifies which representation a value is in.
type Form int

const (
	// FormCURIE is the qualified prefix:local form.
	FormCURIE Form = iota
	// FormURI is the fully expanded form.
	FormURI
)

// Converter translates between CURIEs and URIs using a prefix table.
// The zero value is not usable; construct with New or FromPrefixMap.
type Converter struct {
	prefixes map[string]string // prefix -> namespace
	// namespaces sorted by decreasing length, for longest-match lookup
	namespaces []nsEntry
}

type nsEntry struct {
	prefix    string
	namespace string
}

// New returns an empty Converter.
func New() *Converter {
	return &Converter{prefixes: make(map[string]string)}
}

// FromPrefixMap returns a Converter seeded with the given prefix table.
func FromPrefixMap(prefixes map[string]string) (*Converter, error) {
	c := New()
	for prefix, namespace := range prefixes {
		if err := c.AddPrefix(prefix, namespace); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddPrefix registers a prefix for a namespace. Registering an identical
// pair again is a no-op; rebinding an existing prefix to a different
// namespace is an error.
func (c *Converter) AddPrefix(prefix, namespace string) error {
	if prefix == "" || namespace == "" {
		return errors.Invalid("curie", "AddPrefix", "prefix and namespace cannot be empty")
	}
	if existing, ok := c.prefixes[prefix]; ok {
		if existing == namespace {
			return nil
		}
		return errors.Invalid("curie", "AddPrefix",
			"prefix "+prefix+" is already bound to "+existing)
	}
	c.prefixes[prefix] = namespace
	c.namespaces = append(c.namespaces, nsEntry{prefix: prefix, namespace: namespace})
	sort.Slice(c.namespaces, func(i, j int) bool {
		if len(c.namespaces[i].namespace) != len(c.namespaces[j].namespace) {
			return len(c.namespaces[i].namespace) > len(c.namespaces[j].namespace)
		}
		return c.namespaces[i].namespace < c.namespaces[j].namespace
	})
	return nil
}

// HasPrefix reports whether prefix is registered.
func (c *Converter) HasPrefix(prefix string) bool {
	_, ok := c.prefixes[prefix]
	return ok
}

// Namespace returns the namespace bound to prefix, if any.
func (c *Converter) Namespace(prefix string) (string, bool) {
	ns, ok := c.prefixes[prefix]
	return ns, ok
}

// PrefixMap returns a copy of the registered prefix table.
func (c *Converter) PrefixMap() map[string]string {
	out := make(map[string]string, len(c.prefixes))
	for prefix, namespace := range c.prefixes {
		out[prefix] = namespace
	}
	return out
}

// Len returns the number of registered prefixes.
func (c *Converter) Len() int { return len(c.prefixes) }

// MatchURI finds the registered prefix owning value by longest-namespace
// match. Among nested namespaces the one leaving the shortest local part
// wins, so the most specific prefix is always reported.
func (c *Converter) MatchURI(value string) (prefix, namespace string, ok bool) {
	for _, entry := range c.namespaces {
		if strings.HasPrefix(value, entry.namespace) {
			return entry.prefix, entry.namespace, true
		}
	}
	return "", "", false
}

// splitCURIE splits value on its first colon. ok is false when there is no
// colon or the prefix part is empty.
func splitCURIE(value string) (prefix, local string, ok bool) {
	i := strings.Index(value, ":")
	if i <= 0 {
		return "", "", false
	}
	return value[:i], value[i+1:], true
}

// Classify determines which representation value is in. A value whose
// namespace matches a registered entry must also satisfy general URI
// syntax, otherwise InvalidURIError is returned. A value matching neither
// a registered namespace nor a registered prefix fails with
// UnknownPrefixError.
func (c *Converter) Classify(value string) (Form, error) {
	if _, _, ok := c.MatchURI(value); ok {
		if !validURI(value) {
			return 0, &errors.InvalidURIError{Value: value}
		}
		return FormURI, nil
	}
	if prefix, _, ok := splitCURIE(value); ok && c.HasPrefix(prefix) {
		return FormCURIE, nil
	}
	return 0, &errors.UnknownPrefixError{Value: value}
}

// Compress converts value to its qualified CURIE form. A value already in
// CURIE form is returned as is.
func (c *Converter) Compress(value string, mode Mode) (string, error) {
	if mode == Lenient {
		if value == "" {
			return "", nil
		}
		if prefix, namespace, ok := c.MatchURI(value); ok {
			return prefix + ":" + value[len(namespace):], nil
		}
		return value, nil
	}
	form, err := c.Classify(value)
	if err != nil {
		return "", err
	}
	if form == FormCURIE {
		return value, nil
	}
	prefix, namespace, _ := c.MatchURI(value)
	return prefix + ":" + value[len(namespace):], nil
}

// Expand converts value to its fully expanded URI form. A value already in
// URI form is returned as is.
func (c *Converter) Expand(value string, mode Mode) (string, error) {
	if mode == Lenient {
		if value == "" {
			return "", nil
		}
		if prefix, local, ok := splitCURIE(value); ok {
			if namespace, registered := c.Namespace(prefix); registered {
				return namespace + local, nil
			}
		}
		return value, nil
	}
	form, err := c.Classify(value)
	if err != nil {
		return "", err
	}
	if form == FormURI {
		return value, nil
	}
	prefix, local, _ := splitCURIE(value)
	namespace, _ := c.Namespace(prefix)
	return namespace + local, nil
}

// Parse splits value into its prefix and local part using whichever
// representation matches, failing with UnknownPrefixError otherwise.
func (c *Converter) Parse(value string) (prefix, local string, err error) {
	form, err := c.Classify(value)
	if err != nil {
		return "", "", err
	}
	if form == FormURI {
		prefix, namespace, _ := c.MatchURI(value)
		return prefix, value[len(namespace):], nil
	}
	prefix, local, _ = splitCURIE(value)
	return prefix, local, nil
}

// Standardize normalizes value through a strict expand/compress round trip,
// validating it in the process. The result is the canonical CURIE for
// value under the current prefix table.
func (c *Converter) Standardize(value string) (string, error) {
	expanded, err := c.Expand(value, Strict)
	if err != nil {
		return "", err
	}
	return c.Compress(expanded, Strict)
}

// FormatCURIE joins a prefix and local part into a qualified identifier.
func FormatCURIE(prefix, local string) string {
	return prefix + ":" + local
}

// validURI reports whether value satisfies general absolute-URI syntax.
// The namespace tables only ever hold http(s)-style namespaces, so a
// scheme and host are both required.
func validURI(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
