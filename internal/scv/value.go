package scv

// value.go models the loosely-typed cells found in SCV submission workbooks.
//
// A cell can be empty, a text string, or a number (which spreadsheets love to
// render in scientific notation). The tagged Value type resolves that
// ambiguity once at ingestion so every validator operates on an unambiguous
// representation instead of re-sniffing the type at each check.

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindText
	KindNumber
)

// Value is a single cell value from a submission file.
// The zero value is the absent (null) cell.
type Value struct {
	kind ValueKind
	text string
	num  float64
}

// AbsentValue returns the null cell value.
func AbsentValue() Value {
	return Value{}
}

// TextValue wraps a raw string cell.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// NumberValue wraps a numeric cell.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether the cell is empty.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Display returns the value as it is written back to the output table.
// Numbers render without an exponent and without a trailing ".0".
func (v Value) Display() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// floatLikeRegex matches plain floats and scientific notation, the two shapes
// numeric-looking text arrives in after a round trip through a spreadsheet.
var floatLikeRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ErrNotNumeric is returned by CanonicalNumeric for values that cannot be
// normalized to a digit string.
var ErrNotNumeric = errors.New("value is not numeric")

// CanonicalNumeric normalizes a value to an integer digit string: numbers are
// rendered without exponent or fraction, text has internal spaces stripped and
// float/scientific representations collapsed. Values that cannot be
// canonicalized return ErrNotNumeric; callers report that as an
// "Invalid Numeric Format" reason rather than propagating it.
func (v Value) CanonicalNumeric() (string, error) {
	switch v.kind {
	case KindAbsent:
		return "", nil
	case KindNumber:
		return fmt.Sprintf("%.0f", v.num), nil
	}

	s := strings.ReplaceAll(strings.TrimSpace(v.text), " ", "")
	if s == "" {
		return "", ErrNotNumeric
	}
	if isDigits(s) {
		return s, nil
	}
	if floatLikeRegex.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", ErrNotNumeric
		}
		return fmt.Sprintf("%.0f", f), nil
	}
	return "", ErrNotNumeric
}

// Float parses the value as a float64. Text values are trimmed first.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil {
			return 0, ErrNotNumeric
		}
		return f, nil
	default:
		return 0, ErrNotNumeric
	}
}

// Upper returns the uppercased display form, for case-normalized membership
// and keyword checks.
func (v Value) Upper() string {
	return strings.ToUpper(v.Display())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
