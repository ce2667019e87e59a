package scv

import "strings"

// Options selects the run mode for one file's validation.
type Options struct {
	// ExclusionFile marks an exclusion-view submission. It flips the
	// mandatoriness of the exclusion-specific fields (exclusion type is
	// mandatory only for exclusion files, BRRD marking only for standard
	// files). The flag is derived by the caller, e.g. from a filename
	// convention; the engine never infers it.
	ExclusionFile bool

	// Workers bounds the parallelism of the stateless validation stages.
	// Zero or one means fully serial evaluation. File-scoped rules always
	// apply serially in input order regardless of this setting.
	Workers int
}

// Rule is a single cross-field or file-scoped check. Rules are registered in
// a fixed order and evaluated in that order, so verdict reasons are stable
// run-to-run for identical input.
type Rule interface {
	// Name identifies the rule in logs and tests.
	Name() string

	// Applies reports whether the rule has anything to say about this
	// field of this record.
	Applies(field string, rec *Record) bool

	// Evaluate returns the failure reasons, empty when the check passes.
	// File-scoped rules consult and update the accumulator; record-scoped
	// rules ignore it.
	Evaluate(field string, rec *Record, acc *Accumulator) []string
}

// fieldRule is the common concrete Rule: an applicability predicate plus an
// evaluation closure. The big field-name dispatch chain of the legacy checker
// becomes a registry of these.
type fieldRule struct {
	name     string
	applies  func(field string, rec *Record) bool
	evaluate func(field string, rec *Record, acc *Accumulator) []string
}

func (r *fieldRule) Name() string { return r.name }

func (r *fieldRule) Applies(field string, rec *Record) bool {
	return r.applies(field, rec)
}

func (r *fieldRule) Evaluate(field string, rec *Record, acc *Accumulator) []string {
	return r.evaluate(field, rec, acc)
}

// onField restricts a rule to one named column.
func onField(name string) func(string, *Record) bool {
	return func(field string, _ *Record) bool { return field == name }
}

// onAddressLines restricts a rule to the address_line_N columns.
func onAddressLines(field string, _ *Record) bool {
	return addressLineNumber(field) > 0
}

// Verdict is the per-field validation outcome: pass, or fail with an
// ordered, deduplication-free list of reasons.
type Verdict struct {
	Reasons []string
}

// Add appends failure reasons, preserving evaluation order.
func (v *Verdict) Add(reasons ...string) {
	v.Reasons = append(v.Reasons, reasons...)
}

// Failed reports whether any rule fired.
func (v *Verdict) Failed() bool { return len(v.Reasons) > 0 }

// String renders the fixed verdict contract: "Pass" or
// "Fail - reason1, reason2".
func (v *Verdict) String() string {
	if !v.Failed() {
		return "Pass"
	}
	return "Fail - " + strings.Join(v.Reasons, ", ")
}
