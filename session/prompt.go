// prompt.go builds the message sequence for the completion service
// and maintains the schema text embedded in the template.
//
// There are two substitution mechanisms, and they are intentionally
// distinct:
//
//   - ComposeMessages replaces the FIRST occurrence of the marker in
//     the template at send time (single-shot). This is the path every
//     completion request goes through.
//   - EmbedSchema rewrites the region between a PAIR of markers in
//     the stored template when the scope changes, keeping the markers.
//     With the default single-marker template it does nothing.
//
// Both behaviors are documented contract; do not unify them.
package session

import (
	"strings"

	"github.com/kqlcommander/kqlcommander/ai"
)

// SchemaMarker is the placeholder the serialized schema is substituted
// into. The default template contains exactly one.
const SchemaMarker = "<SCHEMA>"

// ComposeMessages produces exactly two messages: the system prompt
// with the first schema marker substituted, and the verbatim user
// prompt. No validation and no size limiting — an oversized schema is
// the caller's responsibility.
func ComposeMessages(s Settings) []ai.Message {
	return []ai.Message{
		{Role: "system", Content: strings.Replace(s.SystemPrompt, SchemaMarker, s.Schema, 1)},
		{Role: "user", Content: s.Prompt},
	}
}

// EmbedSchema replaces the content between the first two occurrences
// of the schema marker with the given schema, preserving everything
// outside the marker pair verbatim (markers included). A template with
// fewer than two markers is returned unchanged.
func EmbedSchema(template, schema string) string {
	first := strings.Index(template, SchemaMarker)
	if first < 0 {
		return template
	}
	rest := first + len(SchemaMarker)
	second := strings.Index(template[rest:], SchemaMarker)
	if second < 0 {
		return template
	}
	second += rest
	return template[:rest] + schema + template[second:]
}
