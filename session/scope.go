// scope.go implements the schema scope: the subset of databases
// included when the tree is serialized for prompt embedding.
//
// A Scope is a set of indices into the current tree snapshot's
// database sequence. Indices are only meaningful for the snapshot
// they were computed against; any tree replacement recomputes the
// default scope (all databases selected).
package session

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/kqlcommander/kqlcommander/kusto"
)

// TypePrefix is the data-type namespace prefix stripped for display
// and prompt serialization. The stored tree keeps the full value.
const TypePrefix = "System."

// Scope is a set of database indices.
type Scope map[int]struct{}

// AllDatabases returns the default scope for a tree: every database
// selected.
func AllDatabases(tree *kusto.Tree) Scope {
	s := Scope{}
	if tree == nil {
		return s
	}
	for i := range tree.DatabasesTree {
		s[i] = struct{}{}
	}
	return s
}

// Toggle flips membership of the given index.
func (s Scope) Toggle(i int) {
	if _, ok := s[i]; ok {
		delete(s, i)
	} else {
		s[i] = struct{}{}
	}
}

// Contains reports whether the index is in scope.
func (s Scope) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

// Indices returns the scope as a sorted slice.
func (s Scope) Indices() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// StripTypePrefix removes every occurrence of the type-name prefix
// from a data-type string. Idempotent: stripping an already-stripped
// string is a no-op.
func StripTypePrefix(dataType string) string {
	return strings.ReplaceAll(dataType, TypePrefix, "")
}

// SerializeSchema filters the tree to the databases in scope
// (preserving tree order), strips the type prefix from every column's
// data type, and serializes the result as indented JSON. The IsCached
// flag never appears in the output.
func SerializeSchema(tree *kusto.Tree, scope Scope) string {
	filtered := kusto.Tree{DatabasesTree: []kusto.DatabaseTree{}}
	if tree != nil {
		for i, db := range tree.DatabasesTree {
			if !scope.Contains(i) {
				continue
			}
			fdb := kusto.DatabaseTree{DatabaseName: db.DatabaseName}
			for _, tbl := range db.Tables {
				ftbl := kusto.TableInfo{TableName: tbl.TableName}
				for _, col := range tbl.Schema {
					ftbl.Schema = append(ftbl.Schema, kusto.ColumnSchema{
						ColumnName: col.ColumnName,
						DataType:   StripTypePrefix(col.DataType),
					})
				}
				fdb.Tables = append(fdb.Tables, ftbl)
			}
			filtered.DatabasesTree = append(filtered.DatabasesTree, fdb)
		}
	}

	data, err := json.MarshalIndent(&filtered, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
