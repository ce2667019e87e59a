package scv

// Accumulator is the file-scoped mutable state for one validation run:
// duplicate trackers and the running product-priority history for the
// continuity-of-access check.
//
// One accumulator is allocated per file, passed explicitly through the
// evaluator, and discarded when the run completes. It is never shared or
// reused across files; cross-file memory is a deliberate non-goal.
type Accumulator struct {
	accountNumbers map[string]bool
	scvRecords     map[string]bool
	addressKeys    map[string]bool

	productSeen  map[string]bool
	productOrder []string
}

// NewAccumulator returns an empty accumulator for a fresh file run.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		accountNumbers: make(map[string]bool),
		scvRecords:     make(map[string]bool),
		addressKeys:    make(map[string]bool),
		productSeen:    make(map[string]bool),
	}
}

// MarkAccountNumber records an account number and reports whether it was
// already seen. Insertion is unconditional: duplicates are tracked even when
// the value fails other checks on the same field.
func (a *Accumulator) MarkAccountNumber(key string) (duplicate bool) {
	duplicate = a.accountNumbers[key]
	a.accountNumbers[key] = true
	return duplicate
}

// MarkSCVRecord records an SCV record identifier, reporting duplicates.
func (a *Accumulator) MarkSCVRecord(key string) (duplicate bool) {
	duplicate = a.scvRecords[key]
	a.scvRecords[key] = true
	return duplicate
}

// MarkAddressKey records an address fingerprint (line 1 + postcode),
// reporting duplicates.
func (a *Accumulator) MarkAddressKey(key string) (duplicate bool) {
	duplicate = a.addressKeys[key]
	a.addressKeys[key] = true
	return duplicate
}

// MarkProductType records a ranked product type in first-seen order.
func (a *Accumulator) MarkProductType(product string) {
	if a.productSeen[product] {
		return
	}
	a.productSeen[product] = true
	a.productOrder = append(a.productOrder, product)
}

// ProductTypesSeen returns the distinct ranked product types seen so far, in
// the order they first appeared in the file.
func (a *Accumulator) ProductTypesSeen() []string {
	return a.productOrder
}
