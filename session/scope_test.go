package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kqlcommander/kqlcommander/kusto"
)

func sampleTree() *kusto.Tree {
	return &kusto.Tree{
		DatabasesTree: []kusto.DatabaseTree{
			{
				DatabaseName: "db1",
				Tables: []kusto.TableInfo{
					{TableName: "t1", Schema: []kusto.ColumnSchema{
						{ColumnName: "c1", DataType: "System.String"},
						{ColumnName: "c2", DataType: "System.Int64"},
					}},
				},
			},
			{
				DatabaseName: "db2",
				Tables: []kusto.TableInfo{
					{TableName: "t2", Schema: []kusto.ColumnSchema{
						{ColumnName: "x", DataType: "System.DateTime"},
					}},
				},
			},
			{
				DatabaseName: "db3",
				Tables:       []kusto.TableInfo{{TableName: "t3"}},
			},
		},
	}
}

func TestAllDatabases(t *testing.T) {
	scope := AllDatabases(sampleTree())
	assert.Equal(t, []int{0, 1, 2}, scope.Indices())

	assert.Empty(t, AllDatabases(nil).Indices())
}

func TestScopeToggle(t *testing.T) {
	scope := AllDatabases(sampleTree())

	scope.Toggle(1)
	assert.Equal(t, []int{0, 2}, scope.Indices())
	assert.False(t, scope.Contains(1))

	scope.Toggle(1)
	assert.Equal(t, []int{0, 1, 2}, scope.Indices())
}

func TestStripTypePrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"with prefix", "System.String", "String"},
		{"already stripped", "String", "String"},
		{"every occurrence", "System.Nullable<System.Int32>", "Nullable<Int32>"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripTypePrefix(tt.input))
			// Idempotent: a second strip changes nothing.
			assert.Equal(t, tt.expected, StripTypePrefix(StripTypePrefix(tt.input)))
		})
	}
}

func TestSerializeSchema_FiltersAndStrips(t *testing.T) {
	tree := sampleTree()
	scope := Scope{0: {}}

	out := SerializeSchema(tree, scope)
	assert.Contains(t, out, `"DatabaseName": "db1"`)
	assert.Contains(t, out, `"DataType": "String"`)
	assert.NotContains(t, out, "System.")
	assert.NotContains(t, out, "db2")
	assert.NotContains(t, out, "IsCached")
}

func TestSerializeSchema_PreservesTreeOrder(t *testing.T) {
	tree := sampleTree()
	// Insertion order into the set must not matter.
	scope := Scope{}
	scope.Toggle(2)
	scope.Toggle(0)

	var parsed kusto.Tree
	require.NoError(t, json.Unmarshal([]byte(SerializeSchema(tree, scope)), &parsed))
	require.Len(t, parsed.DatabasesTree, 2)
	assert.Equal(t, "db1", parsed.DatabasesTree[0].DatabaseName)
	assert.Equal(t, "db3", parsed.DatabasesTree[1].DatabaseName)
}

func TestSerializeSchema_RoundTrip(t *testing.T) {
	tree := sampleTree()
	scopes := []Scope{
		{0: {}},
		{1: {}},
		{0: {}, 1: {}},
		{0: {}, 1: {}, 2: {}},
	}

	for _, scope := range scopes {
		var parsed kusto.Tree
		require.NoError(t, json.Unmarshal([]byte(SerializeSchema(tree, scope)), &parsed))

		indices := scope.Indices()
		require.Len(t, parsed.DatabasesTree, len(indices))
		for n, i := range indices {
			want := tree.DatabasesTree[i]
			got := parsed.DatabasesTree[n]
			assert.Equal(t, want.DatabaseName, got.DatabaseName)
			require.Len(t, got.Tables, len(want.Tables))
			for j, tbl := range want.Tables {
				assert.Equal(t, tbl.TableName, got.Tables[j].TableName)
				assert.Len(t, got.Tables[j].Schema, len(tbl.Schema))
			}
		}
	}
}

func TestSerializeSchema_IsCachedNeverSerialized(t *testing.T) {
	tree := sampleTree()
	tree.IsCached = true

	out := SerializeSchema(tree, AllDatabases(tree))
	assert.NotContains(t, out, "IsCached")
}
