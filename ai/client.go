// Package ai talks to the completion service that turns natural
// language plus a schema into a structured KQL query.
//
// Design decisions:
//   - The service is a plain HTTP collaborator; no SDK. The request
//     shape ({messages, temperature, chat_model}) and the JSON-in-a-
//     string response contract live here and nowhere else.
//   - Parsing of the model output (fence stripping, query/repair
//     shapes) is in parse.go so it can be tested without a server.
//   - All calls accept a context for cancellation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Client calls the completion endpoint.
type Client struct {
	url         string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a completion client. A nil httpClient falls back
// to http.DefaultClient.
func NewClient(url, model string, temperature float64, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:         url,
		model:       model,
		temperature: temperature,
		httpClient:  httpClient,
	}
}

// Model returns the configured model name for display.
func (c *Client) Model() string { return c.model }

// Complete sends the message sequence and returns the raw content
// string from the response. The content is itself expected to be a
// (possibly fenced) JSON document; decoding it is the caller's job
// via ParseCompletion or ParseRepair.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	body := map[string]any{
		"messages":    messages,
		"temperature": c.temperature,
		"chat_model":  c.model,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, respBody)}
	}

	var result struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return result.Content, nil
}

// TransportError wraps a network or HTTP-level failure reaching the
// completion service. Reported, never retried automatically.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion request: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
