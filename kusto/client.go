// Package kusto implements the HTTP client for the two data-plane
// backend services: the schema tree endpoint and the query execution
// endpoint.
//
// Design decisions:
//   - All calls accept a context (async-friendly; the TUI issues them
//     from tea.Cmd closures).
//   - No local timeouts and no automatic retries: transport behavior
//     is delegated to the injected http.Client, failures are surfaced
//     to the caller once.
//   - Errors are returned, never logged or printed.
package kusto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to the tree and execution endpoints.
type Client struct {
	treeURL    string
	executeURL string
	httpClient *http.Client
}

// NewClient creates a backend client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(treeURL, executeURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		treeURL:    treeURL,
		executeURL: executeURL,
		httpClient: httpClient,
	}
}

// FetchTree retrieves the database/table/column tree.
// With useCache the backend may serve a cached snapshot, flagged via
// Tree.IsCached; the caller is expected to reconcile with a fresh
// fetch afterwards.
func (c *Client) FetchTree(ctx context.Context, useCache bool) (*Tree, error) {
	url := fmt.Sprintf("%s?use_cache=%t", c.treeURL, useCache)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Op: "fetch tree", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "fetch tree", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "fetch tree", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "fetch tree", Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}

	var tree Tree
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, &TransportError{Op: "fetch tree", Err: fmt.Errorf("decode response: %w", err)}
	}
	return &tree, nil
}

// Execute runs a query against the given database and returns the raw
// primary results. A 400-class response with a detail string becomes
// an *ExecutionError; everything else that fails is a *TransportError.
// An empty db is sent as-is — the backend owns that validation.
func (c *Client) Execute(ctx context.Context, db, query string) (*PrimaryResults, error) {
	payload, err := json.Marshal(map[string]string{"db": db, "query": query})
	if err != nil {
		return nil, &TransportError{Op: "execute", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.executeURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "execute", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "execute", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "execute", Err: err}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &detail); err != nil || detail.Detail == "" {
			detail.Detail = string(body)
		}
		return nil, &ExecutionError{StatusCode: resp.StatusCode, Detail: detail.Detail}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "execute", Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}

	var pr PrimaryResults
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, &TransportError{Op: "execute", Err: fmt.Errorf("decode response: %w", err)}
	}
	return &pr, nil
}
