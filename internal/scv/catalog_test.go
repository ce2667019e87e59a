package scv

import "testing"

func TestParseDataType(t *testing.T) {
	tests := []struct {
		tag     string
		want    DataType
		wantErr bool
	}{
		{"AlphaNumeric", TypeAlphaNumeric, false},
		{"alpha", TypeAlpha, false},
		{"NUMERIC", TypeNumeric, false},
		{"Decimal", TypeDecimal, false},
		{"Email", TypeEmail, false},
		{"Phone", TypePhone, false},
		{"IBAN", TypeIBAN, false},
		{"BIC", TypeBIC, false},
		{"ASCII", TypeASCII, false},
		{"Date", TypeDate, false},
		{" Numeric ", TypeNumeric, false},
		{"Currency", TypeUnknown, true},
		{"", TypeUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseDataType(tt.tag)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDataType(%q) error = %v, wantErr %v", tt.tag, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDataType(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog([]RuleSpec{
		{Field: "account_number", Type: TypeAlphaNumeric},
		{Field: "account_number", Type: TypeNumeric},
	})
	if err == nil {
		t.Fatal("expected error for duplicate field name")
	}
}

func TestNewCatalogRejectsEmptyFieldName(t *testing.T) {
	_, err := NewCatalog([]RuleSpec{{Field: "", Type: TypeAlpha}})
	if err == nil {
		t.Fatal("expected error for empty field name")
	}
}

func TestCatalogLookupAndOrder(t *testing.T) {
	cat, err := NewCatalog([]RuleSpec{
		{Field: "surname", Type: TypeAlpha, MaxLength: 50, Mandatory: true},
		{Field: "sort_code", Type: TypeNumeric, MaxLength: 6},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	spec, ok := cat.Lookup("sort_code")
	if !ok {
		t.Fatal("sort_code should be cataloged")
	}
	if spec.MaxLength != 6 || spec.Type != TypeNumeric {
		t.Errorf("unexpected spec: %+v", spec)
	}

	if _, ok := cat.Lookup("unknown_column"); ok {
		t.Error("unknown_column should not be cataloged")
	}

	fields := cat.Fields()
	if len(fields) != 2 || fields[0] != "surname" || fields[1] != "sort_code" {
		t.Errorf("Fields() = %v, want declaration order", fields)
	}
}
