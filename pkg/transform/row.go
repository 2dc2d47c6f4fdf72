package transform

// RawRecord is an untyped field mapping as returned by one API page,
// scoped to one table.
type RawRecord map[string]interface{}

// Row is an output row with a stable column order. It is never mutated
// after the transformer hands it to the sink.
type Row struct {
	columns []string
	values  map[string]string
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]string)}
}

// Set assigns a column value, recording first-seen column order.
func (r *Row) Set(column, value string) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns a column value, or "" if absent.
func (r *Row) Get(column string) string {
	return r.values[column]
}

// Has reports whether the column is present.
func (r *Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Columns returns column names in insertion order.
func (r *Row) Columns() []string {
	return r.columns
}
