// results.go reshapes the raw tabular output of the execution
// endpoint into a grid-ready column/row structure.
package kusto

// ColumnDef is one column descriptor from the execution response.
type ColumnDef struct {
	ColumnName string `json:"column_name"`
	ColumnType string `json:"column_type"`
	Ordinal    int    `json:"ordinal"`
}

// PrimaryResults is the raw execution response body.
type PrimaryResults struct {
	TableName string      `json:"table_name"`
	TableID   int         `json:"table_id"`
	TableKind string      `json:"table_kind"`
	Columns   []ColumnDef `json:"columns"`
	RawRows   [][]any     `json:"raw_rows"`
}

// GridColumn is a display column: Key indexes into Row, Name is the header.
type GridColumn struct {
	Key  string
	Name string
}

// Row maps column names to cell values, plus a synthetic "id" field.
type Row map[string]any

// ResultSet is the display-ready result of one execution. It is built
// fresh on every run; the "id" of a row is its zero-based position in
// the raw row sequence at reshape time, not a stable identity.
type ResultSet struct {
	Columns []GridColumn
	Rows    []Row
}

// Reshape converts raw results into a ResultSet. Each row record maps
// every column name to the value at the matching ordinal position.
// Rows shorter than the column list simply lack the trailing keys.
func Reshape(pr *PrimaryResults) *ResultSet {
	rs := &ResultSet{}
	if pr == nil || len(pr.Columns) == 0 {
		return rs
	}
	for _, c := range pr.Columns {
		rs.Columns = append(rs.Columns, GridColumn{Key: c.ColumnName, Name: c.ColumnName})
	}
	for idx, raw := range pr.RawRows {
		row := Row{"id": idx}
		for i, c := range pr.Columns {
			if i < len(raw) {
				row[c.ColumnName] = raw[i]
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs
}
