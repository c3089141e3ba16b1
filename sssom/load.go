package sssom

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/novonordisk-research/OBDM-manuscript/curie"
	"github.com/novonordisk-research/OBDM-manuscript/errors"
)

// LoadOptions configures parsing of a mapping file.
type LoadOptions struct {
	// FastLoad skips per-record validation and duplicate detection,
	// expanding identifiers leniently. Use for untrusted or legacy files.
	FastLoad bool
	// Defaults overrides DefaultValues when non-nil.
	Defaults map[string]string
	// Logger receives load events; slog.Default when nil.
	Logger *slog.Logger
}

// LoadFile parses the mapping file at path.
func LoadFile(path string, opts LoadOptions) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	return Load(f, opts)
}

// Load parses a mapping file: a comment-marked YAML preamble holding at
// minimum the prefix table, one tab-delimited header row, then one row per
// record. The first column is always the subject identifier. A header
// without a subject column yields no records. Malformed rows fail with a
// line-numbered InvalidLineError.
func Load(r io.Reader, opts LoadOptions) (*Mapping, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	// comment-marked preamble block
	var preambleText strings.Builder
	var header string
	lineNr := 0
	hasHeader := false
	for scanner.Scan() {
		lineNr++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			preambleText.WriteString(strings.TrimRight(line[1:], " \t\r") + "\n")
			continue
		}
		header = strings.TrimRight(line, "\r")
		hasHeader = true
		break
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "sssom", "Load", "read preamble")
	}

	preamble := make(map[string]any)
	if preambleText.Len() > 0 {
		if err := yaml.Unmarshal([]byte(preambleText.String()), &preamble); err != nil {
			return nil, errors.Wrap(err, "sssom", "Load", "parse preamble")
		}
		if preamble == nil {
			preamble = make(map[string]any)
		}
	}

	conv := curie.New()
	mapping, err := New(Options{
		Converter: conv,
		Defaults:  opts.Defaults,
		Preamble:  preamble,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	if !hasHeader {
		return mapping, nil
	}

	columns := strings.Split(header, "\t")
	subjectIndex := -1
	for i, col := range columns {
		if col == SubjectColumn {
			subjectIndex = i
			break
		}
	}
	if subjectIndex < 0 {
		// tolerated: a header lacking the subject column yields no records
		logger.Warn("mapping header has no subject column, no records loaded",
			"header", header)
		return mapping, nil
	}

	for scanner.Scan() {
		lineNr++
		line := strings.TrimRight(scanner.Text(), "\r")
		fields := strings.Split(line, "\t")
		if len(fields) != len(columns) {
			return nil, &errors.InvalidLineError{Line: line, LineNr: lineNr}
		}
		rec := make(Record, len(columns)-1)
		for i, col := range columns {
			if i == subjectIndex {
				continue
			}
			rec[col] = fields[i]
		}
		if opts.FastLoad {
			mapping.FastSet(fields[subjectIndex], rec)
			continue
		}
		if err := mapping.SetRecord(fields[subjectIndex], rec); err != nil {
			return nil, errors.Wrap(err, "sssom", "Load", "insert record")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "sssom", "Load", "read rows")
	}

	logger.Debug("mapping loaded",
		"prefixes", conv.Len(),
		"records", mapping.Len())
	return mapping, nil
}
