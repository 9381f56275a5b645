package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientComplete(t *testing.T) {
	var got struct {
		Messages    []Message `json:"messages"`
		Temperature float64   `json:"temperature"`
		ChatModel   string    `json:"chat_model"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"content": `{"query":"q","explanation":"e"}`})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gpt-4o", 0.1, nil)
	content, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "ask"},
	})

	require.NoError(t, err)
	assert.Equal(t, `{"query":"q","explanation":"e"}`, content)
	assert.Equal(t, "gpt-4o", got.ChatModel)
	assert.Equal(t, 0.1, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "ask", got.Messages[1].Content)
}

func TestClientComplete_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "gpt-4o", 0.1, nil)
	_, err := c.Complete(context.Background(), nil)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Contains(t, transport.Error(), "503")
}

func TestClientComplete_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "gpt-4o", 0.1, nil)
	_, err := c.Complete(context.Background(), nil)

	var transport *TransportError
	assert.ErrorAs(t, err, &transport)
}
