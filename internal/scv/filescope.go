package scv

// filescope.go holds the rules that consult the file-scoped accumulator:
// uniqueness of identifying fields and the continuity-of-access product
// hierarchy. These rules are order-sensitive and must be applied in strict
// input row order against a single accumulator.

import "strings"

// productHierarchy ranks product types for continuity of access; instant
// access is the highest priority (lowest rank number). FP4P is a valid
// product type but carries no rank.
var productHierarchy = map[string]int{
	"IAA":   1,
	"ISA":   2,
	"NA":    3,
	"FD1":   4,
	"FD2":   5,
	"FD4":   6,
	"Other": 7,
}

// fileScopedRules returns the accumulator-dependent rules in evaluation
// order.
func fileScopedRules() []Rule {
	return []Rule{
		&fieldRule{
			name:    "account-number-uniqueness",
			applies: onField(fieldAccountNumber),
			evaluate: func(_ string, rec *Record, acc *Accumulator) []string {
				v := rec.Value(fieldAccountNumber)
				if v.IsAbsent() {
					return nil
				}
				if acc.MarkAccountNumber(v.Display()) {
					return []string{"Duplicate Account Number"}
				}
				return nil
			},
		},
		&fieldRule{
			name:    "scv-record-uniqueness",
			applies: onField(fieldSCVRecord),
			evaluate: func(_ string, rec *Record, acc *Accumulator) []string {
				v := rec.Value(fieldSCVRecord)
				if v.IsAbsent() {
					return nil
				}
				var reasons []string
				if acc.MarkSCVRecord(strings.TrimSpace(v.Display())) {
					reasons = append(reasons, "Duplicate SCV Record")
				}
				if !IsAlphaNumeric(v) {
					reasons = append(reasons, "Invalid Format - Must be Numeric or Alphanumeric")
				}
				return reasons
			},
		},
		&fieldRule{
			name:    "address-uniqueness",
			applies: onField(addressLineField(1)),
			evaluate: func(field string, rec *Record, acc *Accumulator) []string {
				v := rec.Value(field)
				if v.IsAbsent() {
					return nil
				}
				key := v.Display() + "_" + rec.Value(fieldPostcode).Display()
				if acc.MarkAddressKey(key) {
					return []string{"Duplicate Address"}
				}
				return nil
			},
		},
		&fieldRule{
			name:    "continuity-of-access",
			applies: onField(fieldProductType),
			evaluate: func(_ string, rec *Record, acc *Accumulator) []string {
				v := rec.Value(fieldProductType)
				if v.IsAbsent() {
					return nil
				}
				product := v.Display()
				rank, ranked := productHierarchy[product]
				if !ranked {
					return nil
				}

				var reasons []string
				if transferablePositive(rec) {
					for _, seen := range acc.ProductTypesSeen() {
						if productHierarchy[seen] < rank {
							reasons = append(reasons, "Product hierarchy violation for continuity of access")
						}
					}
				}
				// Track the product even when no violation fired, so later
				// lower-priority records are checked against it.
				acc.MarkProductType(product)
				return reasons
			},
		},
	}
}

// transferablePositive reports whether the record carries a positive
// transferable eligible deposit. Unparseable amounts are treated as not
// positive; the field's own numeric checks report the malformation.
func transferablePositive(rec *Record) bool {
	v := rec.Value(fieldTransferableDeposit)
	if v.IsAbsent() {
		return false
	}
	f, err := v.Float()
	return err == nil && f > 0
}
