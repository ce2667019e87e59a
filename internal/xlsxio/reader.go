// Package xlsxio reads rule catalogs and submission workbooks and writes
// annotated result workbooks. All spreadsheet handling lives here; the
// validation engine never touches a file.
package xlsxio

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/scvtools/scvcheck/internal/scv"
)

// CatalogSheet is the sheet of the rules workbook that holds the field
// catalog.
const CatalogSheet = "Data inputs"

// Header labels of the catalog sheet.
const (
	catalogColField     = "name in file"
	catalogColType      = "type of data"
	catalogColMaxLength = "max number of characters"
	catalogColMandatory = "mandate or not"
)

// ReadCatalog loads the field catalog from a rules workbook. The catalog
// lives on the "Data inputs" sheet: one header row naming the four catalog
// columns, then one row per field.
func ReadCatalog(r io.Reader) (*scv.Catalog, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open rules workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(CatalogSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", CatalogSheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q needs a header row and at least one field row", CatalogSheet)
	}

	idx, err := catalogHeaderIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var specs []scv.RuleSpec
	for n, row := range rows[1:] {
		field := strings.TrimSpace(cellAt(row, idx.field))
		if field == "" {
			continue // trailing blank rows are common in hand-maintained workbooks
		}
		typ, err := scv.ParseDataType(cellAt(row, idx.typ))
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", n+2, field, err)
		}
		maxLen, err := parseMaxLength(cellAt(row, idx.maxLen))
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", n+2, field, err)
		}
		specs = append(specs, scv.RuleSpec{
			Field:     field,
			Type:      typ,
			MaxLength: maxLen,
			Mandatory: parseMandate(cellAt(row, idx.mandate)),
		})
	}

	cat, err := scv.NewCatalog(specs)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", CatalogSheet, err)
	}
	return cat, nil
}

type catalogIndex struct {
	field, typ, maxLen, mandate int
}

func catalogHeaderIndex(header []string) (catalogIndex, error) {
	idx := catalogIndex{field: -1, typ: -1, maxLen: -1, mandate: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case catalogColField:
			idx.field = i
		case catalogColType:
			idx.typ = i
		case catalogColMaxLength:
			idx.maxLen = i
		case catalogColMandatory:
			idx.mandate = i
		}
	}
	if idx.field < 0 || idx.typ < 0 || idx.maxLen < 0 || idx.mandate < 0 {
		return idx, fmt.Errorf("sheet %q is missing one of the catalog header columns", CatalogSheet)
	}
	return idx, nil
}

// parseMaxLength accepts an empty cell (no limit) and tolerates the float
// rendering spreadsheets give integers ("20.0").
func parseMaxLength(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v != float64(int(v)) {
		return 0, fmt.Errorf("invalid max length %q", s)
	}
	return int(v), nil
}

func parseMandate(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "mandatory":
		return true
	}
	return false
}

// ReadRecords loads the submission records from the first sheet of a
// workbook: one header row of field names, then one row per record. Cell
// values are resolved into the engine's tagged representation exactly once,
// here.
func ReadRecords(r io.Reader) ([]*scv.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open submission workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("submission workbook has no sheets")
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("submission workbook has no header row")
	}

	columns := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		columns[i] = strings.TrimSpace(h)
	}

	records := make([]*scv.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		values := make([]scv.Value, len(columns))
		for i := range columns {
			values[i] = tagValue(cellAt(row, i))
		}
		records = append(records, scv.NewRecord(columns, values))
	}
	return records, nil
}

// tagValue resolves one raw cell into the tagged Value form. Digit and
// dotted-decimal strings stay text so leading zeros and explicit decimal
// places survive into the rendered row; only scientific renderings of large
// numeric cells are tagged as numbers so they canonicalize downstream.
func tagValue(raw string) scv.Value {
	if strings.TrimSpace(raw) == "" {
		return scv.AbsentValue()
	}
	if strings.ContainsAny(raw, "eE") {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return scv.NumberValue(f)
		}
	}
	return scv.TextValue(raw)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
