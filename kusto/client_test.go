package kusto

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTree(t *testing.T) {
	var gotUseCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		gotUseCache = r.URL.Query().Get("use_cache")
		json.NewEncoder(w).Encode(Tree{
			DatabasesTree: []DatabaseTree{{DatabaseName: "Sales"}},
			IsCached:      true,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	tree, err := c.FetchTree(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, "true", gotUseCache)
	assert.True(t, tree.IsCached)
	require.Len(t, tree.DatabasesTree, 1)
	assert.Equal(t, "Sales", tree.DatabasesTree[0].DatabaseName)

	_, err = c.FetchTree(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "false", gotUseCache)
}

func TestFetchTree_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	_, err := c.FetchTree(context.Background(), true)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, "fetch tree", transport.Op)
}

func TestExecute(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(PrimaryResults{
			TableName: "PrimaryResult",
			Columns:   []ColumnDef{{ColumnName: "Name", ColumnType: "string"}},
			RawRows:   [][]any{{"alpha"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	pr, err := c.Execute(context.Background(), "Sales", "Customers | take 10")

	require.NoError(t, err)
	assert.Equal(t, "Sales", got["db"])
	assert.Equal(t, "Customers | take 10", got["query"])
	require.Len(t, pr.RawRows, 1)
	assert.Equal(t, "alpha", pr.RawRows[0][0])
}

func TestExecute_ExecutionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Syntax error: unexpected token"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	_, err := c.Execute(context.Background(), "Sales", "bad |||")

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, http.StatusBadRequest, execErr.StatusCode)
	assert.Equal(t, "Syntax error: unexpected token", execErr.Detail)
}

func TestExecute_ExecutionErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	_, err := c.Execute(context.Background(), "Sales", "q")

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, http.StatusUnprocessableEntity, execErr.StatusCode)
	assert.Equal(t, "not json", execErr.Detail)
}

func TestExecute_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, nil)
	_, err := c.Execute(context.Background(), "Sales", "q")

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, "execute", transport.Op)

	var execErr *ExecutionError
	assert.NotErrorAs(t, err, &execErr)
}
