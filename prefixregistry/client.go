package prefixregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/novonordisk-research/OBDM-manuscript/curie"
	"github.com/novonordisk-research/OBDM-manuscript/errors"
)

// DefaultSources lists the public registries consulted when fetching a
// prefix table, in precedence order: a prefix seen in an earlier source
// wins over later ones.
var DefaultSources = []string{
	"http://purl.obolibrary.org/meta/obo_context.jsonld",
	"https://raw.githubusercontent.com/prefixcommons/biocontext/master/registry/go_context.jsonld",
	"https://raw.githubusercontent.com/prefixcommons/biocontext/master/registry/monarch_context.jsonld",
	"https://w3id.org/biopragmatics/bioregistry.epm.json",
}

// Client fetches prefix tables from public registries. Two document shapes
// are understood: JSON-LD context documents ("@context" object) and
// extended prefix map arrays (records with prefix and uri_prefix).
type Client struct {
	httpClient *http.Client
	sources    []string
	logger     *slog.Logger
}

// NewClient creates a registry client for the given source URLs, falling
// back to DefaultSources when none are given.
func NewClient(sources ...string) *Client {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sources:    sources,
		logger:     slog.Default(),
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Converter fetches every source and joins the results into a single
// converter. Sources earlier in the list take precedence for conflicting
// prefixes.
func (c *Client) Converter(ctx context.Context) (*curie.Converter, error) {
	conv := curie.New()
	for _, source := range c.sources {
		table, err := c.fetch(ctx, source)
		if err != nil {
			return nil, errors.Wrap(err, "prefixregistry", "Converter", "fetch "+source)
		}
		added := 0
		for prefix, namespace := range table {
			if conv.HasPrefix(prefix) {
				continue
			}
			if err := conv.AddPrefix(prefix, namespace); err != nil {
				return nil, err
			}
			added++
		}
		c.logger.Debug("loaded prefix registry source", "source", source, "prefixes", added)
	}
	c.logger.Info("loaded prefixes from public sources", "prefixes", conv.Len())
	return conv, nil
}

// Resolver fetches every source and returns the joined table as a Resolver.
func (c *Client) Resolver(ctx context.Context) (Resolver, error) {
	conv, err := c.Converter(ctx)
	if err != nil {
		return nil, err
	}
	return NewConverterResolver(conv), nil
}

func (c *Client) fetch(ctx context.Context, source string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // response body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, err
	}
	return parseRegistryDocument(body)
}

// parseRegistryDocument decodes either document shape into a prefix table.
func parseRegistryDocument(body []byte) (map[string]string, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var records []extendedPrefixRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("decode extended prefix map: %w", err)
		}
		table := make(map[string]string, len(records))
		for _, rec := range records {
			if rec.Prefix == "" || rec.URIPrefix == "" {
				continue
			}
			table[rec.Prefix] = rec.URIPrefix
		}
		return table, nil
	}

	var doc struct {
		Context map[string]json.RawMessage `json:"@context"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode context document: %w", err)
	}
	if doc.Context == nil {
		return nil, fmt.Errorf("document has neither records nor @context")
	}
	table := make(map[string]string, len(doc.Context))
	for prefix, raw := range doc.Context {
		if strings.HasPrefix(prefix, "@") {
			continue
		}
		// context values may be strings or expanded term definitions;
		// only plain namespace strings are usable as prefixes
		var namespace string
		if err := json.Unmarshal(raw, &namespace); err != nil {
			continue
		}
		if namespace == "" {
			continue
		}
		table[prefix] = namespace
	}
	return table, nil
}

type extendedPrefixRecord struct {
	Prefix    string `json:"prefix"`
	URIPrefix string `json:"uri_prefix"`
}
