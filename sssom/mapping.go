package sssom

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/novonordisk-research/OBDM-manuscript/curie"
	"github.com/novonordisk-research/OBDM-manuscript/errors"
)

// preamble keys recognized by the store. Any other key found in a loaded
// file is preserved verbatim and written back on save.
const (
	preambleCurieMap    = "curie_map"
	preambleDomainCodes = "domain_codes"
)

// Record is the per-subject metadata of a mapping: column name to value.
// ObjectColumn is mandatory for records inserted through Set.
type Record map[string]string

// DefaultValues returns the column defaults elided from storage and
// reconstructed on read.
func DefaultValues() map[string]string {
	return map[string]string{
		"predicate_id":          "skos:exactMatch",
		"mapping_justification": "semapv:LexicalMatching",
	}
}

// Options configures a Mapping.
type Options struct {
	// Converter supplies the prefix table; a fresh empty converter is used
	// when nil.
	Converter *curie.Converter
	// Defaults overrides DefaultValues when non-nil.
	Defaults map[string]string
	// Preamble carries the structured header block of a loaded file.
	Preamble map[string]any
	// Logger receives load/save events; slog.Default when nil.
	Logger *slog.Logger
}

// Mapping is a persistent associative structure from subject identifiers
// to metadata records. Keys are stored internally in expanded form and
// presented in qualified form.
type Mapping struct {
	conv     *curie.Converter
	defaults map[string]string
	preamble map[string]any
	records  map[string]Record
	logger   *slog.Logger
}

// New creates a Mapping. Prefixes found in the preamble's curie_map that
// are not yet registered on the converter are added to it.
func New(opts Options) (*Mapping, error) {
	conv := opts.Converter
	if conv == nil {
		conv = curie.New()
	}
	defaults := opts.Defaults
	if defaults == nil {
		defaults = DefaultValues()
	}
	preamble := opts.Preamble
	if preamble == nil {
		preamble = make(map[string]any)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Mapping{
		conv:     conv,
		defaults: defaults,
		preamble: preamble,
		records:  make(map[string]Record),
		logger:   logger,
	}
	if raw, ok := preamble[preambleCurieMap]; ok {
		prefixes, err := stringMap(raw)
		if err != nil {
			return nil, errors.Wrap(err, "sssom", "New", "read curie_map preamble")
		}
		for prefix, namespace := range prefixes {
			if !conv.HasPrefix(prefix) {
				if err := conv.AddPrefix(prefix, namespace); err != nil {
					return nil, err
				}
			}
		}
	}
	return m, nil
}

// Converter returns the underlying identifier converter.
func (m *Mapping) Converter() *curie.Converter { return m.conv }

// AddPrefix registers a prefix on the underlying converter.
func (m *Mapping) AddPrefix(prefix, namespace string) error {
	return m.conv.AddPrefix(prefix, namespace)
}

// Defaults returns a copy of the configured column defaults.
func (m *Mapping) Defaults() map[string]string {
	out := make(map[string]string, len(m.defaults))
	for k, v := range m.defaults {
		out[k] = v
	}
	return out
}

// Len returns the number of records.
func (m *Mapping) Len() int { return len(m.records) }

// Set inserts a bare subject-to-object mapping. Equivalent to SetRecord
// with a record containing only object_id.
func (m *Mapping) Set(key, objectID string) error {
	return m.SetRecord(key, Record{ObjectColumn: objectID})
}

// SetRecord inserts a metadata record for key. Key and any non-empty
// object_id are expanded in strict mode. Columns equal to the configured
// defaults are elided. Inserting an identical record again is a no-op;
// inserting a different record for an existing key fails with
// RecordExistsError.
func (m *Mapping) SetRecord(key string, rec Record) error {
	if _, ok := rec[ObjectColumn]; !ok {
		return errors.ErrMissingObjectID
	}
	ekey, err := m.conv.Expand(key, curie.Strict)
	if err != nil {
		return err
	}
	value := make(Record, len(rec))
	for col, v := range rec {
		if def, ok := m.defaults[col]; ok && def == v {
			continue
		}
		value[col] = v
	}
	if objectID := rec[ObjectColumn]; objectID != "" {
		expanded, err := m.conv.Expand(objectID, curie.Strict)
		if err != nil {
			return err
		}
		value[ObjectColumn] = expanded
	}
	if existing, ok := m.records[ekey]; ok {
		if equalRecords(existing, value) {
			return nil
		}
		return &errors.RecordExistsError{Key: ekey}
	}
	m.records[ekey] = value
	return nil
}

// FastSet is the bulk-load variant of SetRecord: all values are expanded
// leniently and no existence or duplication checks are performed. Used
// when loading untrusted or legacy files.
func (m *Mapping) FastSet(key string, rec Record) {
	value := make(Record, len(rec))
	for col, v := range rec {
		if def, ok := m.defaults[col]; ok && def == v {
			continue
		}
		expanded, _ := m.conv.Expand(v, curie.Lenient)
		value[col] = expanded
	}
	ekey, _ := m.conv.Expand(key, curie.Lenient)
	m.records[ekey] = value
}

// GetValues returns the requested columns for key in request order. Each
// value is the lenient-compressed stored value, falling back to the
// configured default, else the empty string.
func (m *Mapping) GetValues(key string, columns ...string) []string {
	ekey, _ := m.conv.Expand(key, curie.Lenient)
	rec := m.records[ekey]
	out := make([]string, len(columns))
	for i, col := range columns {
		v, ok := rec[col]
		if !ok {
			v = m.defaults[col]
		}
		compressed, _ := m.conv.Compress(v, curie.Lenient)
		out[i] = compressed
	}
	return out
}

// Get returns the qualified mapped-to identifier for key, or ErrKeyNotFound.
func (m *Mapping) Get(key string) (string, error) {
	ekey, err := m.conv.Expand(key, curie.Strict)
	if err != nil {
		return "", err
	}
	rec, ok := m.records[ekey]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, errors.ErrKeyNotFound)
	}
	compressed, _ := m.conv.Compress(rec[ObjectColumn], curie.Lenient)
	return compressed, nil
}

// GetURI returns the fully expanded mapped-to identifier for key.
func (m *Mapping) GetURI(key string) (string, error) {
	value, err := m.Get(key)
	if err != nil {
		return "", err
	}
	return m.conv.Expand(value, curie.Strict)
}

// BestURI returns the expanded mapped-to identifier for key, making the
// best effort when the lookup or a prefix fails: an unmapped key is
// expanded and returned, and a key with an unknown prefix is returned
// verbatim. BestURI never fails.
func (m *Mapping) BestURI(key string) string {
	uri, err := m.GetURI(key)
	if err == nil {
		return uri
	}
	var unknown *errors.UnknownPrefixError
	if errors.As(err, &unknown) && unknown.Value == key {
		return key
	}
	if expanded, err := m.conv.Expand(key, curie.Strict); err == nil {
		return expanded
	}
	return key
}

// Contains reports whether key has a record. Keys with unknown prefixes
// are never contained.
func (m *Mapping) Contains(key string) bool {
	ekey, err := m.conv.Expand(key, curie.Strict)
	if err != nil {
		return false
	}
	_, ok := m.records[ekey]
	return ok
}

// Keys returns all subject identifiers in qualified form, sorted
// lexicographically.
func (m *Mapping) Keys() []string {
	out := make([]string, 0, len(m.records))
	for ekey := range m.records {
		compressed, _ := m.conv.Compress(ekey, curie.Lenient)
		out = append(out, compressed)
	}
	sort.Strings(out)
	return out
}

func equalRecords(a, b Record) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// stringMap converts a decoded YAML mapping into map[string]string.
func stringMap(raw any) (map[string]string, error) {
	out := make(map[string]string)
	switch typed := raw.(type) {
	case map[string]any:
		for k, v := range typed {
			out[k] = fmt.Sprint(v)
		}
	case map[string]string:
		for k, v := range typed {
			out[k] = v
		}
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", raw)
	}
	return out, nil
}
