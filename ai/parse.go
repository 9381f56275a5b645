// parse.go decodes the completion service's content strings.
//
// The model is instructed to answer with a bare JSON object, but in
// practice it sometimes wraps it in a markdown code fence. StripFence
// unwraps that one known shape; anything that still fails to decode
// is a MalformedCompletionError and the attempt is abandoned.
package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Completion is the parsed query-generation response.
type Completion struct {
	Query       string `json:"query"`
	Explanation string `json:"explanation"`
}

// Repair is the parsed query-repair response.
type Repair struct {
	NewQuery string `json:"newQuery"`
}

// MalformedCompletionError means the response content was not the
// expected JSON shape, even after fence stripping.
type MalformedCompletionError struct {
	Raw string
	Err error
}

func (e *MalformedCompletionError) Error() string {
	return fmt.Sprintf("malformed completion: %v", e.Err)
}

func (e *MalformedCompletionError) Unwrap() error { return e.Err }

// StripFence removes a leading ```json (or bare ```) line and a
// trailing ``` marker if present. It is not a markdown parser: it
// unwraps exactly one optional fence and leaves anything else alone.
// Stripping an unfenced string is a no-op.
func StripFence(content string) string {
	s := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	default:
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseCompletion decodes a {query, explanation} content string.
func ParseCompletion(content string) (*Completion, error) {
	var c Completion
	if err := json.Unmarshal([]byte(StripFence(content)), &c); err != nil {
		return nil, &MalformedCompletionError{Raw: content, Err: err}
	}
	return &c, nil
}

// ParseRepair decodes a {newQuery} content string.
func ParseRepair(content string) (*Repair, error) {
	var r Repair
	if err := json.Unmarshal([]byte(StripFence(content)), &r); err != nil {
		return nil, &MalformedCompletionError{Raw: content, Err: err}
	}
	return &r, nil
}
