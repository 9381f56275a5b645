// tree.go defines the schema tree wire types returned by the backend
// tree endpoint, plus structural equality used by cache reconciliation.
//
// Field names match the backend JSON exactly (DatabasesTree,
// DatabaseName, Tables, Schema, ColumnName, DataType, IsCached).
package kusto

// ColumnSchema is one column of a table: name and Kusto data type.
// DataType is stored as received; the "System." prefix is stripped
// only when rendering or serializing for the prompt.
type ColumnSchema struct {
	ColumnName string `json:"ColumnName"`
	DataType   string `json:"DataType"`
}

// TableInfo is a table with its column schema.
type TableInfo struct {
	TableName string         `json:"TableName"`
	Schema    []ColumnSchema `json:"Schema"`
}

// DatabaseTree is a database with its tables.
type DatabaseTree struct {
	DatabaseName string      `json:"DatabaseName"`
	Tables       []TableInfo `json:"Tables"`
}

// Tree is the full database/table/column tree for the cluster.
// IsCached marks a payload served from the backend-side cache; it is
// never part of user-visible schema text (omitempty keeps it out of
// serialized scopes).
type Tree struct {
	DatabasesTree []DatabaseTree `json:"DatabasesTree"`
	IsCached      bool           `json:"IsCached,omitempty"`
}

// Equal reports structural equality of two trees, ignoring IsCached.
// Order matters: the backend returns databases, tables and columns
// sorted, so positional comparison is correct and cheap.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.DatabasesTree) != len(other.DatabasesTree) {
		return false
	}
	for i, db := range t.DatabasesTree {
		odb := other.DatabasesTree[i]
		if db.DatabaseName != odb.DatabaseName || len(db.Tables) != len(odb.Tables) {
			return false
		}
		for j, tbl := range db.Tables {
			otbl := odb.Tables[j]
			if tbl.TableName != otbl.TableName || len(tbl.Schema) != len(otbl.Schema) {
				return false
			}
			for k, col := range tbl.Schema {
				if col != otbl.Schema[k] {
					return false
				}
			}
		}
	}
	return true
}
