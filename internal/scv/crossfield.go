package scv

// crossfield.go holds the record-scoped business rules: enumerated-value
// membership, name quality, referential currency consistency, and the
// regulatory heuristics. These rules read the whole record but never touch
// the accumulator.

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// validProductTypes is the closed set of SCV product type codes.
var validProductTypes = map[string]bool{
	"IAA": true, "ISA": true, "NA": true, "FD1": true,
	"FD2": true, "FD4": true, "FP4P": true, "Other": true,
}

// validExclusionTypes is the closed set of exclusion codes, matched
// case-normalized.
var validExclusionTypes = map[string]bool{
	"HMTS": true, "LEGDIS": true, "LEGDOR": true, "BEN": true,
}

// validIdentifierTypes is the closed set for other_national_identifier.
var validIdentifierTypes = map[string]bool{
	"NID": true, "DL": true, "O": true,
}

var (
	// compensationCeiling is the scheme's standard protection limit in
	// sterling; balances above it are flagged as potential THB cases.
	compensationCeiling = decimal.NewFromInt(85000)

	// currencyTolerance absorbs rounding differences in the
	// sterling = original x rate cross-check.
	currencyTolerance = decimal.RequireFromString("0.01")
)

var prisonerNumberRegex = regexp.MustCompile(`^[A-Z0-9]+\s`)

// crossFieldRules returns the record-scoped rules in evaluation order.
func crossFieldRules() []Rule {
	return []Rule{
		&fieldRule{
			name:    "product-type-membership",
			applies: onField(fieldProductType),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(fieldProductType)
				if v.IsAbsent() || validProductTypes[v.Display()] {
					return nil
				}
				return []string{"Invalid Product Type"}
			},
		},
		&fieldRule{
			name:    "exclusion-type-membership",
			applies: onField(fieldExclusionType),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(fieldExclusionType)
				if v.IsAbsent() || validExclusionTypes[v.Upper()] {
					return nil
				}
				return []string{"Invalid Exclusion Type"}
			},
		},
		&fieldRule{
			name:    "branch-jurisdiction",
			applies: onField(fieldBranchJurisdiction),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(fieldBranchJurisdiction)
				if v.IsAbsent() || domesticJurisdictions[v.Upper()] {
					return nil
				}
				return []string{"Invalid branch jurisdiction - Must be GBR or GIB"}
			},
		},
		&fieldRule{
			name:    "brrd-flag-value",
			applies: onField(fieldBRRDMarking),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				return yesNoFlag(rec.Value(fieldBRRDMarking), "Invalid BRRD Flag")
			},
		},
		&fieldRule{
			name:    "structured-deposit-flag",
			applies: onField(fieldStructuredDeposit),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				return yesNoFlag(rec.Value(fieldStructuredDeposit), "Invalid Structured Deposit Flag")
			},
		},
		&fieldRule{
			name:    "national-identifier-membership",
			applies: onField(fieldNationalIdentifier),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				if !rec.Individual() || rec.Value(fieldNationalIDNumber).IsAbsent() {
					return nil
				}
				v := rec.Value(fieldNationalIdentifier)
				if v.IsAbsent() || validIdentifierTypes[v.Display()] {
					return nil
				}
				return []string{"Invalid Identifier Type"}
			},
		},
		&fieldRule{
			name:    "country-code",
			applies: onField(fieldCountry),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				if IsValidCountryCode(rec.Value(fieldCountry)) {
					return nil
				}
				return []string{"Invalid Country Code"}
			},
		},
		&fieldRule{
			name:    "date-of-birth-individual",
			applies: onField(fieldDateOfBirth),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				if !rec.Individual() || IsValidDate(rec.Value(fieldDateOfBirth)) {
					return nil
				}
				return []string{"Invalid Date Format (Should be DDMMYYYY)"}
			},
		},
		&fieldRule{
			name:    "first-forename-quality",
			applies: onField(fieldFirstForename),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(fieldFirstForename)
				if v.IsAbsent() {
					return nil
				}
				var reasons []string
				if containsOnlyInitials(v.Display()) {
					reasons = append(reasons, "First Name Contains Only Initials")
				}
				if matchesForename(v, rec.Value(fieldSecondForename)) ||
					matchesForename(v, rec.Value(fieldThirdForename)) {
					reasons = append(reasons, "Repeated Forename")
				}
				return reasons
			},
		},
		&fieldRule{
			name:    "surname-length",
			applies: onField(fieldSurname),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(fieldSurname)
				if v.IsAbsent() || len(strings.TrimSpace(v.Display())) >= 3 {
					return nil
				}
				return []string{"Surname Too Short"}
			},
		},
		&fieldRule{
			name:    "po-box-address",
			applies: onAddressLines,
			evaluate: func(field string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(field)
				if v.IsAbsent() || !strings.Contains(v.Upper(), "PO BOX") {
					return nil
				}
				return []string{"PO Box address found - Verify delivery capability"}
			},
		},
		&fieldRule{
			name:    "prison-address",
			applies: onField(addressLineField(1)),
			evaluate: func(field string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(field)
				if v.IsAbsent() {
					return nil
				}
				upper := v.Upper()
				if !strings.Contains(upper, "HMP") &&
					!strings.Contains(upper, "PRISON") &&
					!strings.Contains(upper, "CORRECTIONAL") {
					return nil
				}
				if prisonerNumberRegex.MatchString(v.Display()) {
					return nil
				}
				return []string{"Missing prisoner number in prison address"}
			},
		},
		&fieldRule{
			name:    "bfpo-format",
			applies: onField(addressLineField(1)),
			evaluate: func(field string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(field)
				if v.IsAbsent() || !strings.Contains(v.Upper(), "BFPO") {
					return nil
				}
				if IsValidBFPO(v) {
					return nil
				}
				return []string{"Invalid BFPO Format"}
			},
		},
		&fieldRule{
			name:    "care-of-address",
			applies: onField(addressLineField(1)),
			evaluate: func(field string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(field)
				if v.IsAbsent() || !strings.Contains(v.Upper(), "C/O") {
					return nil
				}
				return []string{"Care of Address - NFFSTP"}
			},
		},
		&fieldRule{
			name:    "trust-subfund-election",
			applies: onField(fieldAccountTitle),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(fieldAccountTitle)
				if v.IsAbsent() {
					return nil
				}
				upper := v.Upper()
				if !strings.Contains(upper, "TRUST") || !strings.Contains(upper, "SUB") {
					return nil
				}
				if strings.Contains(upper, "HMRC") || strings.Contains(upper, "ELECTION") {
					return nil
				}
				return []string{"Trust Sub-fund without election reference"}
			},
		},
		&fieldRule{
			name:    "junior-isa-exclusion",
			applies: onField(fieldProductType),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				if rec.Value(fieldProductType).Display() != "ISA" {
					return nil
				}
				title := rec.Value(fieldAccountTitle).Upper()
				if strings.Contains(title, "JUNIOR") ||
					strings.Contains(title, "JISA") ||
					strings.Contains(title, "CHILD TRUST") {
					return []string{"Junior ISA/Child Trust Fund should be in Exclusions View"}
				}
				return nil
			},
		},
		&fieldRule{
			name:    "thb-ceiling",
			applies: onField(fieldSterlingBalance),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				v := rec.Value(fieldSterlingBalance)
				if v.IsAbsent() {
					return nil
				}
				balance, err := decimalFromValue(v)
				if err != nil {
					return nil
				}
				if balance.GreaterThan(compensationCeiling) {
					return []string{"Potential THB - Balance exceeds compensation limit"}
				}
				return nil
			},
		},
		&fieldRule{
			name:    "currency-conversion",
			applies: onField(fieldSterlingBalance),
			evaluate: func(_ string, rec *Record, _ *Accumulator) []string {
				sterling := rec.Value(fieldSterlingBalance)
				currency := rec.Value(fieldAccountCurrency)
				if sterling.IsAbsent() || currency.IsAbsent() || currency.Upper() == "GBP" {
					return nil
				}
				original := rec.Value(fieldOriginalBalance)
				rate := rec.Value(fieldExchangeRate)
				if original.IsAbsent() || rate.IsAbsent() {
					return nil
				}

				got, err := decimalFromValue(sterling)
				if err != nil {
					return []string{"Invalid Numeric Format"}
				}
				orig, err := decimalFromValue(original)
				if err != nil {
					return []string{"Invalid Numeric Format"}
				}
				rt, err := decimalFromValue(rate)
				if err != nil {
					return []string{"Invalid Numeric Format"}
				}

				expected := orig.Mul(rt)
				if got.Sub(expected).Abs().GreaterThan(currencyTolerance) {
					return []string{"Currency conversion mismatch"}
				}
				return nil
			},
		},
	}
}

// yesNoFlag validates a case-normalized YES/NO flag.
func yesNoFlag(v Value, reason string) []string {
	if v.IsAbsent() {
		return nil
	}
	switch v.Upper() {
	case "YES", "NO":
		return nil
	}
	return []string{reason}
}

// containsOnlyInitials reports whether every whitespace-separated part of a
// name is a single character once trailing periods are stripped.
func containsOnlyInitials(name string) bool {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return false
	}
	for _, part := range parts {
		if len(strings.Trim(part, ".")) != 1 {
			return false
		}
	}
	return true
}

// matchesForename reports whether the first forename repeats another
// populated forename field verbatim.
func matchesForename(first, other Value) bool {
	return !other.IsAbsent() && first.Display() == other.Display()
}

// decimalFromValue parses a cell into a decimal for balance arithmetic.
func decimalFromValue(v Value) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v.Display()))
	if err != nil {
		return decimal.Decimal{}, ErrNotNumeric
	}
	return d, nil
}
