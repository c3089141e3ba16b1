package sssom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/novonordisk-research/OBDM-manuscript/errors"
)

// DomainCodes is a bijection between human-readable domain names and
// zero-padded 2-digit numeric codes. Both directions are unique;
// re-registering an identical pair is a no-op and any conflicting pair is
// an error.
type DomainCodes struct {
	byDomain map[string]string
	byCode   map[string]string
}

// NewDomainCodes returns an empty registry.
func NewDomainCodes() *DomainCodes {
	return &DomainCodes{
		byDomain: make(map[string]string),
		byCode:   make(map[string]string),
	}
}

// FormatCode normalizes a domain code to its zero-padded 2-digit form.
// Codes must parse as integers in [0, 99].
func FormatCode(code string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return "", errors.Invalid("sssom", "FormatCode", "domain code "+code+" is not numeric")
	}
	if n < 0 || n >= 100 {
		return "", errors.Invalid("sssom", "FormatCode",
			fmt.Sprintf("domain code %d is out of bounds: 0 <= code < 100", n))
	}
	return fmt.Sprintf("%02d", n), nil
}

// Register binds domain to code. The code is normalized to 2 digits, the
// domain must contain no whitespace. Registering the exact pair again is a
// no-op; a conflict on either side fails with DomainConflictError.
func (d *DomainCodes) Register(domain, code string) error {
	formatted, err := FormatCode(code)
	if err != nil {
		return err
	}
	if existing, ok := d.byDomain[domain]; ok && existing == formatted {
		return nil
	}
	if domain == "" || len(strings.Fields(domain)) != 1 || strings.TrimSpace(domain) != domain {
		return errors.Invalid("sssom", "Register", "domain cannot be empty or contain whitespace")
	}
	if existing, ok := d.byDomain[domain]; ok {
		return &errors.DomainConflictError{Domain: domain, Code: formatted, ExistingCode: existing}
	}
	if existing, ok := d.byCode[formatted]; ok {
		return &errors.DomainConflictError{Domain: domain, Code: formatted, ExistingDomain: existing}
	}
	d.byDomain[domain] = formatted
	d.byCode[formatted] = domain
	return nil
}

// Code returns the 2-digit code registered for domain.
func (d *DomainCodes) Code(domain string) (string, error) {
	code, ok := d.byDomain[domain]
	if !ok {
		return "", fmt.Errorf("domain %q is %w", domain, errors.ErrNotRegistered)
	}
	return code, nil
}

// Domain returns the domain registered for code. The code is normalized
// before the lookup, so "7" and "07" resolve identically.
func (d *DomainCodes) Domain(code string) (string, error) {
	formatted, err := FormatCode(code)
	if err != nil {
		return "", err
	}
	domain, ok := d.byCode[formatted]
	if !ok {
		return "", fmt.Errorf("domain code %s is %w", formatted, errors.ErrNotRegistered)
	}
	return domain, nil
}

// Len returns the number of registered pairs.
func (d *DomainCodes) Len() int { return len(d.byDomain) }

// Map returns a copy of the domain-to-code table, suitable for persisting
// into a mapping preamble.
func (d *DomainCodes) Map() map[string]string {
	out := make(map[string]string, len(d.byDomain))
	for domain, code := range d.byDomain {
		out[domain] = code
	}
	return out
}

// domainCodesFromPreamble rebuilds a registry from a decoded preamble
// value. Codes may have been written as integers by other tooling, so
// values are normalized through Register.
func domainCodesFromPreamble(raw any) (*DomainCodes, error) {
	codes := NewDomainCodes()
	if raw == nil {
		return codes, nil
	}
	table, err := stringMap(raw)
	if err != nil {
		return nil, errors.Wrap(err, "sssom", "domainCodesFromPreamble", "read domain_codes preamble")
	}
	for domain, code := range table {
		if err := codes.Register(domain, code); err != nil {
			return nil, err
		}
	}
	return codes, nil
}
