package reconcile

// Field is one comparison field with a typed accessor.
type Field[R any] struct {
	// Name is the column name used in headers and reports.
	Name string

	// Value extracts the field's value from a record.
	Value func(record R) Value
}

// Adapter defines the model-specific knowledge the engine needs for a record
// type: how to read the key and which fields to compare, in report order.
type Adapter[R any] interface {
	// Name returns the unique name of this adapter (e.g., "clients").
	Name() string

	// KeyField returns the column name of the key (e.g., "client_id").
	KeyField() string

	// Key returns the key of a record.
	Key(record R) int64

	// Fields returns the comparison fields in their fixed order. The key
	// field must not be part of this list.
	Fields() []Field[R]
}

// Columns returns the full schema of an adapter: the key column followed by
// the comparison fields.
func Columns[R any](adapter Adapter[R]) []string {
	fields := adapter.Fields()
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, adapter.KeyField())
	for _, f := range fields {
		cols = append(cols, f.Name)
	}
	return cols
}
