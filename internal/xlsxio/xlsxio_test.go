package xlsxio

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/scvtools/scvcheck/internal/scv"
)

// workbook builds an in-memory xlsx with one sheet populated row by row.
func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("DeleteSheet: %v", err)
		}
	}
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

// ----------------------------------------------------------------------------
// Rule catalog
// ----------------------------------------------------------------------------

func TestReadCatalog(t *testing.T) {
	r := workbook(t, CatalogSheet, [][]any{
		{"Name in File", "Type of data", "Max Number of Characters", "Mandate or not"},
		{"surname", "Alpha", 50, "Yes"},
		{"sort_code", "Numeric", 6, "No"},
		{"email_address", "Email", 100, ""},
		{"", "", "", ""}, // trailing blank row
	})

	cat, err := ReadCatalog(r)
	if err != nil {
		t.Fatalf("ReadCatalog: %v", err)
	}
	if got := cat.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	spec, ok := cat.Lookup("surname")
	if !ok {
		t.Fatal("surname not cataloged")
	}
	if spec.Type != scv.TypeAlpha || spec.MaxLength != 50 || !spec.Mandatory {
		t.Errorf("surname spec = %+v", spec)
	}

	spec, _ = cat.Lookup("sort_code")
	if spec.Type != scv.TypeNumeric || spec.MaxLength != 6 || spec.Mandatory {
		t.Errorf("sort_code spec = %+v", spec)
	}
	spec, _ = cat.Lookup("email_address")
	if spec.Mandatory {
		t.Error("blank mandate cell should read as optional")
	}
}

func TestReadCatalogRejectsMissingHeader(t *testing.T) {
	r := workbook(t, CatalogSheet, [][]any{
		{"Name in File", "Type of data", "Max Number of Characters"},
		{"surname", "Alpha", 50},
	})
	if _, err := ReadCatalog(r); err == nil {
		t.Fatal("expected error for incomplete catalog header")
	}
}

func TestReadCatalogRejectsUnknownType(t *testing.T) {
	r := workbook(t, CatalogSheet, [][]any{
		{"Name in File", "Type of data", "Max Number of Characters", "Mandate or not"},
		{"surname", "Currency", 50, "Yes"},
	})
	if _, err := ReadCatalog(r); err == nil {
		t.Fatal("expected error for unknown data type tag")
	}
}

func TestReadCatalogRejectsMissingSheet(t *testing.T) {
	r := workbook(t, "Sheet1", [][]any{
		{"Name in File", "Type of data", "Max Number of Characters", "Mandate or not"},
	})
	if _, err := ReadCatalog(r); err == nil {
		t.Fatal("expected error when the Data inputs sheet is absent")
	}
}

// ----------------------------------------------------------------------------
// Submission records
// ----------------------------------------------------------------------------

func TestReadRecords(t *testing.T) {
	r := workbook(t, "Sheet1", [][]any{
		{"account_number", "sort_code", "surname"},
		{"ACC1001", "012345", "Winterbourne"},
		{"ACC1002", "", "Okafor"},
		{"", "", ""}, // blank row skipped
	})

	records, err := ReadRecords(r)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	if got := records[0].Value("sort_code").Display(); got != "012345" {
		t.Errorf("sort_code = %q, leading zero must survive", got)
	}
	if !records[1].Value("sort_code").IsAbsent() {
		t.Error("empty cell should read as absent")
	}
	if got := records[1].Value("surname").Display(); got != "Okafor" {
		t.Errorf("surname = %q", got)
	}
}

func TestTagValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"blank is absent", "   ", ""},
		{"digits stay text", "012345", "012345"},
		{"dotted decimal stays text", "100.00", "100.00"},
		{"scientific collapses", "1.23456E+5", "123456"},
		{"word with e stays text", "Jane", "Jane"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tagValue(tt.raw).Display(); got != tt.want {
				t.Errorf("tagValue(%q).Display() = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Result workbook
// ----------------------------------------------------------------------------

func TestWriteAnnotatedRoundtrip(t *testing.T) {
	table := &scv.AnnotatedTable{
		Columns: []string{"account_number", "surname", scv.IndividualStatusColumn},
		Rows: [][]string{
			{"ACC1001", "Winterbourne", "Individual"},
			{"Pass", "Fail - Surname Too Short", ""},
		},
	}

	var buf bytes.Buffer
	if err := WriteAnnotated(&buf, table); err != nil {
		t.Fatalf("WriteAnnotated: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen result workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want header + 2", len(rows))
	}
	if rows[0][2] != scv.IndividualStatusColumn {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "ACC1001" || rows[2][1] != "Fail - Surname Too Short" {
		t.Errorf("body rows = %v", rows[1:])
	}
}
