package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRepairable(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		expected bool
	}{
		{"lowercase syntax", "Syntax error near 'take'", true},
		{"uppercase syntax", "SYNTAX ERROR: unexpected token", true},
		{"embedded syntax", "query has a syntax problem", true},
		{"semantic", "Semantic error: unknown column 'foo'", true},
		{"mixed case semantic", "SeMaNtIc issue", true},
		{"table not found", "table not found", false},
		{"generic failure", "internal server error", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRepairable(tt.detail))
		})
	}
}
