package scv

// Record is one ordered customer/account row from a submission file.
// Records are immutable inputs to validation; the only derived attribute
// (individual classification) is computed from the record, attached to the
// output row, and never written back into the record.
type Record struct {
	columns []string
	values  map[string]Value
}

// NewRecord builds a record from parallel column/value slices. A values slice
// shorter than columns is padded with absent cells, matching a sparse
// spreadsheet row.
func NewRecord(columns []string, values []Value) *Record {
	r := &Record{
		columns: columns,
		values:  make(map[string]Value, len(columns)),
	}
	for i, col := range columns {
		if i < len(values) {
			r.values[col] = values[i]
		} else {
			r.values[col] = AbsentValue()
		}
	}
	return r
}

// Columns returns the record's column names in file order.
// The returned slice is shared; callers must not modify it.
func (r *Record) Columns() []string { return r.columns }

// Value returns the cell for a column, or the absent value when the column
// does not exist in this record.
func (r *Record) Value(column string) Value {
	if v, ok := r.values[column]; ok {
		return v
	}
	return AbsentValue()
}

// Has reports whether the column exists in this record at all, populated or
// not. Catalog/record mismatches produce empty verdict cells, so the driver
// needs presence separate from emptiness.
func (r *Record) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Individual reports the derived individual/non-individual classification:
// a record with a populated title field describes an individual customer.
func (r *Record) Individual() bool {
	return !r.Value(fieldTitle).IsAbsent()
}

// IndividualStatus is the value written into the derived output column.
func (r *Record) IndividualStatus() string {
	if r.Individual() {
		return "Individual"
	}
	return ""
}
