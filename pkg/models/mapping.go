package models

// Kind is the storage type of a column.
type Kind int

const (
	KindInt Kind = iota
	KindString
	KindFloat
)

// Column describes one field of a storage record as it is laid out in the
// destination table.
type Column struct {
	Name       string
	Kind       Kind
	PrimaryKey bool
	Size       int // only for KindString
}

// Row is a storage record: a flat value with a fixed table layout.
// Columns and Values must have the same length and order.
//
// Implementations use value receivers so the layout is available from a
// zero value, which lets a loader reset the schema for an empty batch.
type Row interface {
	TableName() string
	Columns() []Column
	Values() []any
}

// PrimaryKeyIndex returns the position of the primary key column, or -1.
func PrimaryKeyIndex(cols []Column) int {
	for i, c := range cols {
		if c.PrimaryKey {
			return i
		}
	}
	return -1
}
