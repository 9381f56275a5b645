package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeMessages(t *testing.T) {
	s := Settings{
		SystemPrompt: "Use this schema:\n<SCHEMA>\nDone.",
		Schema:       `{"DatabasesTree": []}`,
		Prompt:       "show me everything",
	}

	msgs := ComposeMessages(s)
	require.Len(t, msgs, 2)

	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "Use this schema:\n{\"DatabasesTree\": []}\nDone.", msgs[0].Content)

	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "show me everything", msgs[1].Content)
}

func TestComposeMessages_FirstOccurrenceOnly(t *testing.T) {
	s := Settings{
		SystemPrompt: "<SCHEMA> and again <SCHEMA>",
		Schema:       "X",
		Prompt:       "q",
	}

	msgs := ComposeMessages(s)
	assert.Equal(t, "X and again <SCHEMA>", msgs[0].Content)
}

func TestEmbedSchema_MarkerPair(t *testing.T) {
	template := "head <SCHEMA>old schema text<SCHEMA> tail"

	out := EmbedSchema(template, "NEW")
	assert.Equal(t, "head <SCHEMA>NEW<SCHEMA> tail", out)

	// Re-embedding replaces the region again.
	out = EmbedSchema(out, "NEWER")
	assert.Equal(t, "head <SCHEMA>NEWER<SCHEMA> tail", out)
}

func TestEmbedSchema_SingleMarkerUnchanged(t *testing.T) {
	// The default template has one marker; the pair mechanism must
	// leave it alone (single-marker substitution happens at compose
	// time instead). These are two distinct, documented behaviors.
	template := "before <SCHEMA> after"
	assert.Equal(t, template, EmbedSchema(template, "NEW"))
}

func TestEmbedSchema_NoMarkerUnchanged(t *testing.T) {
	assert.Equal(t, "plain text", EmbedSchema("plain text", "NEW"))
}

func TestDefaultTemplateHasSingleMarker(t *testing.T) {
	s := New()
	assert.Equal(t, 1, countMarker(s.Settings.SystemPrompt))
}

func countMarker(s string) int {
	n := 0
	for i := 0; i+len(SchemaMarker) <= len(s); i++ {
		if s[i:i+len(SchemaMarker)] == SchemaMarker {
			n++
		}
	}
	return n
}
