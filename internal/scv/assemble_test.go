package scv

import (
	"strings"
	"testing"
)

func TestAssembleInterleavesDataAndVerdicts(t *testing.T) {
	cat := testCatalog(t)
	first := baseCells()
	first["title"] = TextValue("Mrs")
	second := baseCells()
	second["account_number"] = TextValue("ACC1002")
	second["address_line_1"] = TextValue("14 High Street")
	table := NewEngine(cat, Options{}).Validate([]*Record{
		rec(t, cat, first), rec(t, cat, second),
	})

	if got := len(table.Rows); got != 4 {
		t.Fatalf("len(Rows) = %d, want 4 (data+verdict per record)", got)
	}
	if got, want := len(table.Columns), len(cat.Fields())+1; got != want {
		t.Fatalf("len(Columns) = %d, want %d", got, want)
	}
	if last := table.Columns[len(table.Columns)-1]; last != IndividualStatusColumn {
		t.Fatalf("last column = %q, want %q", last, IndividualStatusColumn)
	}

	// Even rows carry the original data, odd rows the verdicts.
	if got := table.Rows[0][indexOf(t, table.Columns, "surname")]; got != "Winterbourne" {
		t.Errorf("data cell = %q, want original value", got)
	}
	if got := table.Rows[1][indexOf(t, table.Columns, "surname")]; got != "Pass" {
		t.Errorf("verdict cell = %q, want Pass", got)
	}
	if got := table.Rows[2][indexOf(t, table.Columns, "account_number")]; got != "ACC1002" {
		t.Errorf("second data row account_number = %q", got)
	}
}

func TestAssembleIndividualStatus(t *testing.T) {
	cat := testCatalog(t)
	individual := baseCells()
	individual["title"] = TextValue("Dr")
	individual["customer_first_forename"] = TextValue("Edith")
	individual["other_national_identity_number"] = TextValue("AB123456C")
	individual["other_national_identifier"] = TextValue("NID")
	individual["date_of_birth"] = TextValue("01021990")
	entity := baseCells()
	entity["account_number"] = TextValue("ACC1002")
	entity["address_line_1"] = TextValue("14 High Street")
	table := NewEngine(cat, Options{}).Validate([]*Record{
		rec(t, cat, individual), rec(t, cat, entity),
	})

	statusIdx := len(table.Columns) - 1
	if got := table.Rows[0][statusIdx]; got != "Individual" {
		t.Errorf("titled record status = %q, want Individual", got)
	}
	if got := table.Rows[1][statusIdx]; got != "" {
		t.Errorf("verdict row status = %q, want empty", got)
	}
	if got := table.Rows[2][statusIdx]; got != "" {
		t.Errorf("untitled record status = %q, want empty", got)
	}
}

func TestFailureCount(t *testing.T) {
	cat := testCatalog(t)
	cells := baseCells()
	cells["surname"] = TextValue("X")                    // too short
	cells["bank_recovery_and_resolution_marking"] = TextValue("MAYBE") // invalid flag
	table := NewEngine(cat, Options{}).Validate([]*Record{rec(t, cat, cells)})

	if got := table.FailureCount(); got != 2 {
		t.Errorf("FailureCount() = %d, want 2", got)
	}
}

func TestHasFooter(t *testing.T) {
	cat := testCatalog(t)

	plain := baseCells()
	// Trailer rows carry only the marker; they fail validation but that is
	// the caller's warning to log, not a verdict concern.
	footer := map[string]Value{
		"account_number": TextValue(strings.Repeat("9", 20)),
	}

	withFooter := NewEngine(cat, Options{}).Validate([]*Record{
		rec(t, cat, plain), rec(t, cat, footer),
	})
	if !withFooter.HasFooter() {
		t.Error("HasFooter() = false for a 20-nines trailer record")
	}

	without := NewEngine(cat, Options{}).Validate([]*Record{rec(t, cat, baseCells())})
	if without.HasFooter() {
		t.Error("HasFooter() = true for a file with no trailer")
	}

	empty := NewEngine(cat, Options{}).Validate(nil)
	if empty.HasFooter() {
		t.Error("HasFooter() = true for an empty file")
	}
}

func indexOf(t *testing.T, columns []string, name string) int {
	t.Helper()
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	t.Fatalf("column %q not present", name)
	return -1
}
