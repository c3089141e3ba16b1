package sssom

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/novonordisk-research/OBDM-manuscript/curie"
	"github.com/novonordisk-research/OBDM-manuscript/errors"
	"github.com/novonordisk-research/OBDM-manuscript/vocabulary"
)

const (
	// mintCeiling bounds the per-domain serial space. Serials at or above
	// the ceiling are never allocated.
	mintCeiling = 900000
	// serialWidth is the fixed zero-padded width of minted serials.
	serialWidth = 6
)

// Minter extends a Mapping with a per-domain collision-free sequential
// identifier allocator. The domain-code registry is persisted in the
// mapping preamble so it round-trips across runs; the in-use identifier
// set is snapshotted from the stored object identifiers at construction
// and is not influenced by external concurrent writers.
type Minter struct {
	*Mapping

	codes      *DomainCodes
	domainCode string
	inUse      map[string]struct{}
	next       int
}

// NewMinter wraps m with an identifier allocator for the given domain.
// At least one of domain and code must be given: a lone domain or code is
// resolved against the registry persisted in the mapping preamble, and a
// full pair is registered (validated against any pre-existing binding).
func NewMinter(m *Mapping, domain, code string) (*Minter, error) {
	if domain == "" && code == "" {
		return nil, errors.Invalid("sssom", "NewMinter", "either domain or domain code is required")
	}

	codes, err := domainCodesFromPreamble(m.preamble[preambleDomainCodes])
	if err != nil {
		return nil, err
	}

	var domainCode string
	switch {
	case domain != "" && code != "":
		if err := codes.Register(domain, code); err != nil {
			return nil, err
		}
		domainCode, _ = codes.Code(domain)
	case domain != "":
		domainCode, err = codes.Code(domain)
		if err != nil {
			return nil, err
		}
	default:
		domainCode, err = FormatCode(code)
		if err != nil {
			return nil, err
		}
		if _, err := codes.Domain(domainCode); err != nil {
			return nil, fmt.Errorf("domain code %s is not registered in the mapping file: %w",
				domainCode, errors.ErrNotRegistered)
		}
	}
	m.preamble[preambleDomainCodes] = codes.Map()

	if !m.conv.HasPrefix(vocabulary.InternalPrefix) {
		if err := m.AddPrefix(vocabulary.InternalPrefix, vocabulary.InternalBase); err != nil {
			return nil, err
		}
	}

	inUse := make(map[string]struct{}, len(m.records))
	for _, rec := range m.records {
		if objectID := rec[ObjectColumn]; objectID != "" {
			inUse[objectID] = struct{}{}
		}
	}

	return &Minter{
		Mapping:    m,
		codes:      codes,
		domainCode: domainCode,
		inUse:      inUse,
		next:       1,
	}, nil
}

// Domain returns the domain name the minter allocates for.
func (mt *Minter) Domain() string {
	domain, _ := mt.codes.Domain(mt.domainCode)
	return domain
}

// DomainCode returns the 2-digit code the minter allocates under.
func (mt *Minter) DomainCode() string { return mt.domainCode }

// Codes returns the domain-code registry.
func (mt *Minter) Codes() *DomainCodes { return mt.codes }

// NextSerial returns the next available zero-padded serial without
// committing it. The counter is monotonic within a run: it skips serials
// already present in the in-use set and never rewinds, and repeated calls
// without an intervening commit return the same candidate. Fails with
// MintCeilingError when the serial space is exhausted.
func (mt *Minter) NextSerial() (string, error) {
	n, err := mt.nextAvailable()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", serialWidth, n), nil
}

func (mt *Minter) nextAvailable() (int, error) {
	n := mt.next
	for {
		if _, taken := mt.inUse[mt.formatInternalURI(n)]; !taken {
			break
		}
		n++
		if n >= mintCeiling {
			return 0, &errors.MintCeilingError{Ceiling: mintCeiling}
		}
	}
	mt.next = n
	return n, nil
}

// FormatInternalURI renders a serial as a full internal identifier:
// internal namespace, domain code and serial concatenated without
// separators.
func (mt *Minter) FormatInternalURI(serial string) (string, error) {
	var n int
	if _, err := fmt.Sscanf(serial, "%d", &n); err != nil {
		return "", errors.Invalid("sssom", "FormatInternalURI", "serial "+serial+" is not numeric")
	}
	return mt.formatInternalURI(n), nil
}

func (mt *Minter) formatInternalURI(n int) string {
	return fmt.Sprintf("%s%s%0*d", vocabulary.InternalBase, mt.domainCode, serialWidth, n)
}

// GetOrMint returns the qualified internal identifier mapped to key,
// minting, committing and returning a fresh one when the key is unmapped.
// Minting commits the new record immediately and marks the identifier as
// in use, so repeated calls for the same key within a run are idempotent
// and advance the counter exactly once.
func (mt *Minter) GetOrMint(key string) (string, error) {
	existing, err := mt.Get(key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errors.ErrKeyNotFound) {
		return "", err
	}

	n, err := mt.nextAvailable()
	if err != nil {
		return "", err
	}
	uri := mt.formatInternalURI(n)
	if err := mt.Set(key, uri); err != nil {
		return "", err
	}
	mt.inUse[uri] = struct{}{}
	return mt.Get(key)
}

// GetOrMintURI is GetOrMint with the result in fully expanded form.
func (mt *Minter) GetOrMintURI(key string) (string, error) {
	value, err := mt.GetOrMint(key)
	if err != nil {
		return "", err
	}
	return mt.conv.Expand(value, curie.Strict)
}

// Save writes the mapping with the current domain-code registry synced
// into the preamble.
func (mt *Minter) Save(w io.Writer) error {
	mt.preamble[preambleDomainCodes] = mt.codes.Map()
	return mt.Mapping.Save(w)
}

// SaveFile writes the mapping to path, fully rendered in memory first.
func (mt *Minter) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := mt.Save(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
