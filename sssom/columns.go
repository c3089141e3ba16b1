// Package sssom implements the persistent mapping store between public and
// internal identifiers, backed by SSSOM-style tab-separated files with a
// YAML preamble. On top of the store it provides the domain-code registry
// and the collision-free internal identifier minter.
package sssom

// SubjectColumn is the mandatory first column of every mapping file.
const SubjectColumn = "subject_id"

// ObjectColumn is the mandatory record column holding the mapped-to
// identifier.
const ObjectColumn = "object_id"

// canonicalColumns is the fixed, ordered vocabulary of recognized columns.
// Files are always saved with their columns in this order; columns outside
// the vocabulary are dropped on save.
var canonicalColumns = []string{
	"subject_id",
	"subject_label",
	"subject_category",
	"predicate_id",
	"predicate_label",
	"predicate_modifier",
	"object_id",
	"object_label",
	"object_category",
	"mapping_justification",
	"author_id",
	"author_label",
	"reviewer_id",
	"reviewer_label",
	"creator_id",
	"creator_label",
	"license",
	"subject_type",
	"subject_source",
	"subject_source_version",
	"object_type",
	"object_source",
	"object_source_version",
	"mapping_provider",
	"mapping_source",
	"mapping_cardinality",
	"mapping_tool",
	"mapping_tool_version",
	"mapping_date",
	"confidence",
	"curation_rule",
	"curation_rule_text",
	"subject_match_field",
	"object_match_field",
	"match_string",
	"subject_preprocessing",
	"object_preprocessing",
	"semantic_similarity_score",
	"semantic_similarity_measure",
	"see_also",
	"other",
	"comment",
}

var canonicalSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(canonicalColumns))
	for _, c := range canonicalColumns {
		set[c] = struct{}{}
	}
	return set
}()

// Columns returns a copy of the canonical column vocabulary in save order.
func Columns() []string {
	out := make([]string, len(canonicalColumns))
	copy(out, canonicalColumns)
	return out
}

// IsColumn reports whether name belongs to the canonical vocabulary.
func IsColumn(name string) bool {
	_, ok := canonicalSet[name]
	return ok
}
