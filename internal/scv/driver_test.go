package scv

import (
	"reflect"
	"strings"
	"testing"
)

// ----------------------------------------------------------------------------
// Verdict cell contract
// ----------------------------------------------------------------------------

func TestVerdictCellForm(t *testing.T) {
	cat := testCatalog(t)
	cells := baseCells()
	cells["bank_recovery_and_resolution_marking"] = TextValue("NO")
	table := NewEngine(cat, Options{}).Validate([]*Record{rec(t, cat, cells)})

	verdictRow := table.Rows[1]
	for i, col := range table.Columns {
		got := verdictRow[i]
		if col == IndividualStatusColumn {
			if got != "" {
				t.Errorf("%s verdict cell = %q, want empty", col, got)
			}
			continue
		}
		if got != "Pass" && !strings.HasPrefix(got, "Fail - ") {
			t.Errorf("%s verdict cell = %q, want Pass or Fail - ...", col, got)
		}
	}
}

func TestUncatalogedColumnYieldsEmptyCell(t *testing.T) {
	cat := testCatalog(t)
	cols := append(cat.Fields(), "internal_notes")
	values := make([]Value, len(cols))
	for i := range values {
		values[i] = AbsentValue()
	}
	values[len(values)-1] = TextValue("operator comment ~~~")
	// Populate the mandatory fields so the record is otherwise clean.
	for i, col := range cols {
		switch col {
		case "surname":
			values[i] = TextValue("Winterbourne")
		case "address_line_1":
			values[i] = TextValue("12 High Street")
		case "account_number":
			values[i] = TextValue("ACC1001")
		case "compensatable_amount":
			values[i] = TextValue("100.00")
		}
	}
	record := NewRecord(cols, values)

	table := NewEngine(cat, Options{}).Validate([]*Record{record})
	if got := cell(t, table, 0, "internal_notes"); got != "" {
		t.Errorf("uncataloged column verdict = %q, want empty cell", got)
	}
}

// ----------------------------------------------------------------------------
// Determinism and file-local state
// ----------------------------------------------------------------------------

func TestIdempotence(t *testing.T) {
	cat := testCatalog(t)
	build := func() []*Record {
		first := baseCells()
		first["title"] = TextValue("Mr")
		first["product_type"] = TextValue("IAA")
		first["transferable_eligible_deposit"] = TextValue("10.00")
		second := baseCells()
		second["product_type"] = TextValue("NA")
		second["transferable_eligible_deposit"] = TextValue("10.00")
		return []*Record{rec(t, cat, first), rec(t, cat, second)}
	}

	one := NewEngine(cat, Options{}).Validate(build())
	two := NewEngine(cat, Options{}).Validate(build())
	if !reflect.DeepEqual(one.Rows, two.Rows) {
		t.Error("two runs over identical input produced different rows")
	}
}

func TestUniquenessIsFileLocal(t *testing.T) {
	cat := testCatalog(t)
	engine := NewEngine(cat, Options{})

	// The same account number in two separate validation runs must not be
	// reported as a duplicate in either run.
	for run := 0; run < 2; run++ {
		table := engine.Validate([]*Record{rec(t, cat, baseCells())})
		if got := cell(t, table, 0, "account_number"); got != "Pass" {
			t.Errorf("run %d: account_number = %q, want Pass", run, got)
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	cat := testCatalog(t)
	build := func() []*Record {
		var records []*Record
		for i := 0; i < 40; i++ {
			cells := baseCells()
			cells["account_number"] = TextValue("ACC" + string(rune('A'+i%20)))
			cells["address_line_1"] = TextValue("12 High Street")
			cells["postcode"] = TextValue("AB1 " + string(rune('A'+i%10)))
			if i%3 == 0 {
				cells["product_type"] = TextValue("IAA")
			} else {
				cells["product_type"] = TextValue("NA")
				cells["transferable_eligible_deposit"] = TextValue("25.00")
			}
			records = append(records, rec(t, cat, cells))
		}
		return records
	}

	serial := NewEngine(cat, Options{Workers: 1}).Validate(build())
	parallel := NewEngine(cat, Options{Workers: 8}).Validate(build())
	if !reflect.DeepEqual(serial.Rows, parallel.Rows) {
		t.Error("parallel stateless evaluation changed the result")
	}
}

// ----------------------------------------------------------------------------
// Numeric canonicalization at the driver level
// ----------------------------------------------------------------------------

func TestSortCodeLengthBoundary(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"six digit string", TextValue("123456"), "Pass"},
		{"seven digits", TextValue("1234567"), "Fail - Exceeds Max Length"},
		{"float cell canonicalizes", NumberValue(123456.0), "Pass"},
		{"text float canonicalizes", TextValue("123456.0"), "Pass"},
		{"non-numeric", TextValue("12-34-5x"), "Fail - Invalid Numeric Format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := testCatalog(t)
			cells := baseCells()
			cells["sort_code"] = tt.value
			table := NewEngine(cat, Options{}).Validate([]*Record{rec(t, cat, cells)})
			if got := cell(t, table, 0, "sort_code"); got != tt.want {
				t.Errorf("sort_code = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNonASCIIReportedOnAnyField(t *testing.T) {
	cat := testCatalog(t)
	cells := baseCells()
	cells["account_title"] = TextValue("Crème Brûlée Savings")
	table := NewEngine(cat, Options{}).Validate([]*Record{rec(t, cat, cells)})
	if got := cell(t, table, 0, "account_title"); !strings.Contains(got, "Invalid Characters Outside ASCII Range") {
		t.Errorf("account_title = %q, want ASCII range reason", got)
	}
}

func TestOneBadFieldDoesNotAbortOthers(t *testing.T) {
	cat := testCatalog(t)
	first := baseCells()
	first["sort_code"] = TextValue("not a sort code")
	first["email_address"] = TextValue("not-an-email")
	second := baseCells()
	second["account_number"] = TextValue("ACC1002")
	second["address_line_1"] = TextValue("14 High Street")
	table := NewEngine(cat, Options{}).Validate([]*Record{
		rec(t, cat, first), rec(t, cat, second),
	})

	if got := cell(t, table, 0, "sort_code"); got != "Fail - Invalid Numeric Format" {
		t.Errorf("sort_code = %q", got)
	}
	if got := cell(t, table, 0, "email_address"); got != "Fail - Invalid Email Format" {
		t.Errorf("email_address = %q", got)
	}
	// The bad first record must not stop the second from validating.
	if got := cell(t, table, 1, "account_number"); got != "Pass" {
		t.Errorf("second record account_number = %q, want Pass", got)
	}
	if table.RecordCount() != 2 {
		t.Errorf("RecordCount() = %d, want 2", table.RecordCount())
	}
}
