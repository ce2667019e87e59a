package scv

import "strings"

// IndividualStatusColumn is the derived classification column appended to
// every data row of the annotated output.
const IndividualStatusColumn = "Individual_Status"

// AnnotatedTable is the validation output: for each input record, the
// original row (augmented with the derived classification) followed by its
// verdict row, column-aligned and in original record order. The table is
// handed to the I/O collaborator for persistence; the engine performs no
// I/O itself.
type AnnotatedTable struct {
	Columns []string
	Rows    [][]string
}

// Assemble interleaves records with their verdicts. The verdicts slice must
// be parallel to records, each entry aligned with that record's columns; a
// nil verdict renders as an empty cell. Assemble performs no validation
// logic.
func Assemble(records []*Record, verdicts [][]*Verdict) *AnnotatedTable {
	t := &AnnotatedTable{}
	if len(records) == 0 {
		return t
	}

	t.Columns = append(append([]string{}, records[0].Columns()...), IndividualStatusColumn)
	t.Rows = make([][]string, 0, 2*len(records))

	for i, rec := range records {
		cols := rec.Columns()

		dataRow := make([]string, len(cols)+1)
		for j, col := range cols {
			dataRow[j] = rec.Value(col).Display()
		}
		dataRow[len(cols)] = rec.IndividualStatus()

		verdictRow := make([]string, len(cols)+1)
		for j := range cols {
			if v := verdicts[i][j]; v != nil {
				verdictRow[j] = v.String()
			}
		}

		t.Rows = append(t.Rows, dataRow, verdictRow)
	}
	return t
}

// RecordCount returns the number of input records represented.
func (t *AnnotatedTable) RecordCount() int {
	return len(t.Rows) / 2
}

// FailureCount returns the number of failing verdict cells across the table.
func (t *AnnotatedTable) FailureCount() int {
	n := 0
	for i := 1; i < len(t.Rows); i += 2 {
		for _, cell := range t.Rows[i] {
			if strings.HasPrefix(cell, "Fail") {
				n++
			}
		}
	}
	return n
}

// HasFooter reports whether the last data row ends with the 20-nines file
// footer required of submission files. Missing footers are a warning for the
// caller to log, never a verdict.
func (t *AnnotatedTable) HasFooter() bool {
	if len(t.Rows) < 2 {
		return false
	}
	last := t.Rows[len(t.Rows)-2]
	footer := strings.Repeat("9", 20)
	for i := len(last) - 1; i >= 0; i-- {
		if cell := strings.TrimSpace(last[i]); cell != "" {
			return strings.HasSuffix(cell, footer)
		}
	}
	return false
}
