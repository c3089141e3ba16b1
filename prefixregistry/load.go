package prefixregistry

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/novonordisk-research/OBDM-manuscript/errors"
)

// Load reads a YAML prefix table (prefix to namespace) and returns it as
// a Resolver. Used for locally maintained registry snapshots.
func Load(r io.Reader) (*ConverterResolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "prefixregistry", "Load", "read prefix table")
	}
	var table map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.Wrap(err, "prefixregistry", "Load", "decode prefix table")
	}
	return NewStatic(table)
}

// LoadFile reads the YAML prefix table at path.
func LoadFile(path string) (*ConverterResolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	return Load(f)
}

// Chain joins resolvers; the first one to resolve an identifier wins.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(uri string) (prefix, namespace string, ok bool) {
	for _, r := range c {
		if prefix, namespace, ok = r.Resolve(uri); ok {
			return prefix, namespace, true
		}
	}
	return "", "", false
}
