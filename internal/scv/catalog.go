package scv

import (
	"fmt"
	"strings"
)

// DataType is the closed set of field data-type tags used by the rule
// catalog. Tags arrive as strings in the rules workbook ("AlphaNumeric",
// "Numeric", ...) and are parsed once at load time.
type DataType int

const (
	TypeUnknown DataType = iota
	TypeAlphaNumeric
	TypeAlpha
	TypeNumeric
	TypeDecimal
	TypeEmail
	TypePhone
	TypeIBAN
	TypeBIC
	TypeASCII
	TypeDate
)

// ParseDataType maps a catalog tag to its DataType. Matching is
// case-insensitive because the rules workbook is hand-maintained.
func ParseDataType(tag string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "alphanumeric":
		return TypeAlphaNumeric, nil
	case "alpha":
		return TypeAlpha, nil
	case "numeric":
		return TypeNumeric, nil
	case "decimal":
		return TypeDecimal, nil
	case "email":
		return TypeEmail, nil
	case "phone":
		return TypePhone, nil
	case "iban":
		return TypeIBAN, nil
	case "bic":
		return TypeBIC, nil
	case "ascii":
		return TypeASCII, nil
	case "date":
		return TypeDate, nil
	}
	return TypeUnknown, fmt.Errorf("unknown data type tag %q", tag)
}

// String returns the tag as it appears in verdict messages
// ("Invalid AlphaNumeric Format" etc).
func (t DataType) String() string {
	switch t {
	case TypeAlphaNumeric:
		return "AlphaNumeric"
	case TypeAlpha:
		return "Alpha"
	case TypeNumeric:
		return "Numeric"
	case TypeDecimal:
		return "Decimal"
	case TypeEmail:
		return "Email"
	case TypePhone:
		return "Phone"
	case TypeIBAN:
		return "IBAN"
	case TypeBIC:
		return "BIC"
	case TypeASCII:
		return "ASCII"
	case TypeDate:
		return "Date"
	default:
		return "Unknown"
	}
}

// RuleSpec defines the catalog entry for a single field.
type RuleSpec struct {
	Field     string   // Column name as it appears in the submission file
	Type      DataType // Expected data type
	MaxLength int      // Maximum character count, 0 = unlimited
	Mandatory bool     // Field must be populated (before cascade overrides)
}

// Catalog is the read-only rule table keyed by field name.
// A field absent from the catalog is never validated.
type Catalog struct {
	specs map[string]RuleSpec
	order []string
}

// NewCatalog builds a catalog from specs, preserving their order.
// Field names must be unique.
func NewCatalog(specs []RuleSpec) (*Catalog, error) {
	c := &Catalog{
		specs: make(map[string]RuleSpec, len(specs)),
		order: make([]string, 0, len(specs)),
	}
	for _, spec := range specs {
		if spec.Field == "" {
			return nil, fmt.Errorf("catalog entry with empty field name")
		}
		if _, dup := c.specs[spec.Field]; dup {
			return nil, fmt.Errorf("duplicate catalog entry for field %q", spec.Field)
		}
		c.specs[spec.Field] = spec
		c.order = append(c.order, spec.Field)
	}
	return c, nil
}

// Lookup returns the spec for a field, and whether the field is cataloged.
func (c *Catalog) Lookup(field string) (RuleSpec, bool) {
	spec, ok := c.specs[field]
	return spec, ok
}

// Fields returns the cataloged field names in their original order.
func (c *Catalog) Fields() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of cataloged fields.
func (c *Catalog) Len() int { return len(c.order) }
