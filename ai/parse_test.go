package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
		{"fence without newlines", "```json{\"a\":1}```", `{"a":1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripFence(tt.input))
			// Unfenced output strips to itself.
			assert.Equal(t, tt.expected, StripFence(StripFence(tt.input)))
		})
	}
}

func TestParseCompletion(t *testing.T) {
	c, err := ParseCompletion("```json\n{\"query\":\"t1 | take 10\",\"explanation\":\"ok\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "t1 | take 10", c.Query)
	assert.Equal(t, "ok", c.Explanation)
}

func TestParseCompletion_Unfenced(t *testing.T) {
	c, err := ParseCompletion(`{"query":"q","explanation":"e"}`)
	require.NoError(t, err)
	assert.Equal(t, "q", c.Query)
}

func TestParseCompletion_Malformed(t *testing.T) {
	for _, content := range []string{
		"not json at all",
		"```json\nstill not json\n```",
		"",
	} {
		_, err := ParseCompletion(content)
		require.Error(t, err)

		var malformed *MalformedCompletionError
		require.True(t, errors.As(err, &malformed), "want MalformedCompletionError for %q", content)
		assert.Equal(t, content, malformed.Raw)
	}
}

func TestParseRepair(t *testing.T) {
	r, err := ParseRepair("```json\n{\"newQuery\":\"t1 | take 5\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "t1 | take 5", r.NewQuery)

	_, err = ParseRepair("nope")
	var malformed *MalformedCompletionError
	assert.True(t, errors.As(err, &malformed))
}

func TestRepairMessage(t *testing.T) {
	msg := RepairMessage("t1 | bogus", "Syntax error near 'take'")

	assert.Equal(t, "user", msg.Role)
	assert.Contains(t, msg.Content, "t1 | bogus")
	assert.Contains(t, msg.Content, "Syntax error near 'take'")
	assert.NotContains(t, msg.Content, "<QUERY>")
	assert.NotContains(t, msg.Content, "<ERROR>")
	assert.Contains(t, msg.Content, `"newQuery"`)
}
