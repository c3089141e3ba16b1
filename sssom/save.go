package sssom

import (
	"bytes"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/novonordisk-research/OBDM-manuscript/errors"
)

// SaveFile writes the mapping to path. The content is fully rendered in
// memory first, so a failure never leaves a partially written file behind
// an existing one.
func (m *Mapping) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Save writes the mapping: the structured preamble as a comment block, a
// tab-delimited header, then one row per subject in lexicographic order of
// the qualified key. The saved column set is the canonical column order
// restricted to columns actually used, the default columns, and the
// subject column. Columns outside the canonical vocabulary are dropped and
// reported to the logger.
func (m *Mapping) Save(w io.Writer) error {
	m.preamble[preambleCurieMap] = m.conv.PrefixMap()

	rendered, err := yaml.Marshal(m.preamble)
	if err != nil {
		return errors.Wrap(err, "sssom", "Save", "render preamble")
	}

	var buf bytes.Buffer
	for _, line := range strings.Split(strings.TrimRight(string(rendered), "\n"), "\n") {
		buf.WriteString("#" + line + "\n")
	}

	// final column set: canonical order ∩ (used ∪ defaults ∪ subject)
	used := make(map[string]struct{})
	for _, rec := range m.records {
		for col := range rec {
			used[col] = struct{}{}
		}
	}
	for col := range m.defaults {
		used[col] = struct{}{}
	}
	used[SubjectColumn] = struct{}{}

	columns := make([]string, 0, len(used))
	for _, col := range canonicalColumns {
		if _, ok := used[col]; ok {
			columns = append(columns, col)
		}
	}
	m.logger.Info("saving mapping columns", "columns", strings.Join(columns, ", "))

	var dropped []string
	for col := range used {
		if !IsColumn(col) {
			dropped = append(dropped, col)
		}
	}
	if len(dropped) > 0 {
		sort.Strings(dropped)
		m.logger.Info("dropping columns that are not valid SSSOM slots",
			"columns", strings.Join(dropped, ", "))
	}

	buf.WriteString(strings.Join(columns, "\t") + "\n")
	for _, key := range m.Keys() {
		row := append([]string{key}, m.GetValues(key, columns[1:]...)...)
		m.logger.Debug("saving row", "subject", key)
		buf.WriteString(strings.Join(row, "\t") + "\n")
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "sssom", "Save", "write mapping")
	}
	return nil
}
