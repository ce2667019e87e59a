package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/scvtools/scvcheck/internal/scv"
)

func testCatalog(t *testing.T) *scv.Catalog {
	t.Helper()
	cat, err := scv.NewCatalog([]scv.RuleSpec{
		{Field: "account_number", Type: scv.TypeAlphaNumeric, MaxLength: 20, Mandatory: true},
		{Field: "surname", Type: scv.TypeAlpha, MaxLength: 50, Mandatory: true},
		{Field: "exclusion_type", Type: scv.TypeAlphaNumeric, MaxLength: 10},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

func writeSubmission(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, val); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs(%s): %v", path, err)
	}
}

func TestRunnerValidatesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSubmission(t, filepath.Join(dir, "bank-a.xlsx"), [][]any{
		{"account_number", "surname"},
		{"ACC1001", "Winterbourne"},
		{"ACC1001", "Okafor"}, // duplicate account number
	})
	writeSubmission(t, filepath.Join(dir, "bank-b.xlsx"), [][]any{
		{"account_number", "surname"},
		{"ACC2001", "Hale"},
	})

	r := &Runner{Catalog: testCatalog(t)}
	results, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	first := results[0]
	if first.Err != nil {
		t.Fatalf("bank-a: %v", first.Err)
	}
	if first.Records != 2 {
		t.Errorf("bank-a records = %d, want 2", first.Records)
	}
	if first.FailedFields == 0 {
		t.Error("bank-a should report the duplicate account number")
	}
	if _, err := os.Stat(filepath.Join(dir, "bank-a-result.xlsx")); err != nil {
		t.Errorf("result workbook missing: %v", err)
	}

	// Duplicate tracking must not leak from bank-a into bank-b.
	if results[1].FailedFields != 0 {
		t.Errorf("bank-b failed fields = %d, want 0", results[1].FailedFields)
	}
}

func TestRunnerContinuesPastBadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a-corrupt.xlsx"), []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeSubmission(t, filepath.Join(dir, "b-good.xlsx"), [][]any{
		{"account_number", "surname"},
		{"ACC1001", "Winterbourne"},
	})

	r := &Runner{Catalog: testCatalog(t)}
	results, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Err == nil {
		t.Error("corrupt workbook should carry an error")
	}
	if results[1].Err != nil {
		t.Errorf("good workbook after corrupt one: %v", results[1].Err)
	}
}

func TestRunnerExclusionMode(t *testing.T) {
	dir := t.TempDir()
	// Exclusion files require exclusion_type; standard files forbid it.
	writeSubmission(t, filepath.Join(dir, "bank-EX-2026.xlsx"), [][]any{
		{"account_number", "surname", "exclusion_type"},
		{"ACC1001", "Winterbourne", ""},
	})

	r := &Runner{Catalog: testCatalog(t)}
	results, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !results[0].Exclusion {
		t.Error("EX-token file should run in exclusion mode")
	}
	if results[0].FailedFields == 0 {
		t.Error("missing exclusion_type should fail in exclusion mode")
	}
}

func TestDiscoverSkipsResultsAndLockFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.xlsx", "two.XLS", "one-result.xlsx", "~$one.xlsx", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Discover = %v, want the two submissions", files)
	}
	for _, f := range files {
		base := filepath.Base(f)
		if base != "one.xlsx" && base != "two.XLS" {
			t.Errorf("unexpected file %q", base)
		}
	}
}

func TestIsExclusionFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"bank-EX-2026.xlsx", true},
		{"bank_ex_jan.xlsx", true},
		{"EX.xlsx", true},
		{"bank-export.xlsx", false}, // EX must be its own token
		{"bank-2026.xlsx", false},
		{"annex.xlsx", false},
	}
	for _, tt := range tests {
		if got := IsExclusionFile(tt.name); got != tt.want {
			t.Errorf("IsExclusionFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResultPath(t *testing.T) {
	if got := ResultPath("", filepath.Join("in", "bank.xlsx")); got != filepath.Join("in", "bank-result.xlsx") {
		t.Errorf("ResultPath same-dir = %q", got)
	}
	if got := ResultPath("out", filepath.Join("in", "bank.xls")); got != filepath.Join("out", "bank-result.xlsx") {
		t.Errorf("ResultPath result-dir = %q", got)
	}
}
