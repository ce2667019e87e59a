package scv

// mandatory.go holds the conditional-mandatory cascade rules. Each rule may
// emit its own cascade reason and/or switch the field's catalog-declared
// mandatoriness off for this record. The driver applies the surviving
// mandatoriness after every cascade has spoken.

import "fmt"

// mandatoryRule adjusts mandatoriness for one field of one record.
type mandatoryRule struct {
	name    string
	applies func(field string, rec *Record) bool
	// evaluate returns cascade-specific failure reasons plus whether the
	// catalog mandatoriness is overridden to non-mandatory for this record.
	// declaredMandatory is the catalog flag, for rules that only tighten an
	// already-mandatory field.
	evaluate func(rec *Record, opts Options, declaredMandatory bool) (reasons []string, overrideOff bool)
}

// mandatoryRules returns the cascade rules in evaluation order.
func mandatoryRules() []*mandatoryRule {
	rules := []*mandatoryRule{
		{
			name:    "first-forename-individual",
			applies: onField(fieldFirstForename),
			evaluate: func(rec *Record, _ Options, _ bool) ([]string, bool) {
				return individualMandatory(rec, fieldFirstForename)
			},
		},
		{
			name:    "national-id-number-individual",
			applies: onField(fieldNationalIDNumber),
			evaluate: func(rec *Record, _ Options, _ bool) ([]string, bool) {
				return individualMandatory(rec, fieldNationalIDNumber)
			},
		},
		{
			name:    "national-identifier-dependent",
			applies: onField(fieldNationalIdentifier),
			evaluate: func(rec *Record, _ Options, _ bool) ([]string, bool) {
				if !rec.Individual() || !rec.Has(fieldNationalIDNumber) {
					return nil, true
				}
				if rec.Value(fieldNationalIDNumber).IsAbsent() {
					return nil, false
				}
				if rec.Value(fieldNationalIdentifier).IsAbsent() {
					return []string{"Mandatory if other_national_identity_number is provided"}, false
				}
				return nil, false
			},
		},
		{
			name:    "second-forename-cascade",
			applies: onField(fieldSecondForename),
			evaluate: func(rec *Record, _ Options, _ bool) ([]string, bool) {
				if rec.Value(fieldThirdForename).IsAbsent() {
					return nil, false
				}
				if rec.Value(fieldSecondForename).IsAbsent() {
					return []string{"Mandatory when third forename is present"}, false
				}
				return nil, false
			},
		},
		{
			name:    "exclusion-type-run-mode",
			applies: onField(fieldExclusionType),
			evaluate: func(rec *Record, opts Options, _ bool) ([]string, bool) {
				if !opts.ExclusionFile {
					return nil, true
				}
				if rec.Value(fieldExclusionType).IsAbsent() {
					return []string{"Exclusion Type is mandatory for exclusion files"}, false
				}
				return nil, false
			},
		},
		{
			name:    "brrd-marking-run-mode",
			applies: onField(fieldBRRDMarking),
			evaluate: func(rec *Record, opts Options, _ bool) ([]string, bool) {
				if opts.ExclusionFile {
					return nil, true
				}
				if rec.Value(fieldBRRDMarking).IsAbsent() {
					return []string{"Mandatory for non-exclusion files"}, false
				}
				return nil, false
			},
		},
		{
			name:    "compensatable-amount-ben",
			applies: onField(fieldCompensatableAmount),
			evaluate: func(rec *Record, _ Options, declaredMandatory bool) ([]string, bool) {
				if rec.Value(fieldExclusionType).Upper() == "BEN" {
					return nil, true
				}
				if declaredMandatory && rec.Value(fieldCompensatableAmount).IsAbsent() {
					return []string{"Mandatory unless exclusion_type is BEN"}, false
				}
				return nil, false
			},
		},
	}

	// Address line cascade: line N is mandatory iff any of lines N+1..6 is
	// populated, evaluated top-down.
	for n := 3; n <= maxAddressLine-1; n++ {
		line := n
		rules = append(rules, &mandatoryRule{
			name:    fmt.Sprintf("address-line-%d-cascade", line),
			applies: onField(addressLineField(line)),
			evaluate: func(rec *Record, _ Options, _ bool) ([]string, bool) {
				populated := false
				for higher := line + 1; higher <= maxAddressLine; higher++ {
					if !rec.Value(addressLineField(higher)).IsAbsent() {
						populated = true
						break
					}
				}
				if !populated {
					return nil, true
				}
				if rec.Value(addressLineField(line)).IsAbsent() {
					return []string{addressCascadeReason(line)}, false
				}
				return nil, false
			},
		})
	}

	return rules
}

// individualMandatory implements "mandatory only for individual customers":
// absent on an individual record fails; on a non-individual record the
// catalog mandatoriness is overridden off entirely.
func individualMandatory(rec *Record, field string) ([]string, bool) {
	if !rec.Individual() {
		return nil, true
	}
	if rec.Value(field).IsAbsent() {
		return []string{"Mandatory for Individual"}, false
	}
	return nil, false
}

// addressCascadeReason words the cascade failure for address line n.
func addressCascadeReason(n int) string {
	if n == maxAddressLine-1 {
		return fmt.Sprintf("Mandatory if %s is populated", addressLineField(maxAddressLine))
	}
	return fmt.Sprintf("Mandatory if %s or %s is populated",
		addressLineField(n+1), addressLineField(n+2))
}
