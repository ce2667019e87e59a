package scv

// driver.go orchestrates one file's validation run: the stateless stages
// (type, length, mandatoriness, cross-field) per record, then the
// file-scoped stages in strict input order against a single accumulator.

import (
	"strings"
	"sync"
)

// Engine validates record sets against a rule catalog. An Engine is
// immutable after construction and safe for concurrent use; the mutable
// per-file state lives in the accumulator allocated inside each Validate
// call.
type Engine struct {
	catalog    *Catalog
	opts       Options
	mandatory  []*mandatoryRule
	crossField []Rule
	fileScoped []Rule
}

// NewEngine builds an engine for one catalog and run mode.
func NewEngine(catalog *Catalog, opts Options) *Engine {
	return &Engine{
		catalog:    catalog,
		opts:       opts,
		mandatory:  mandatoryRules(),
		crossField: crossFieldRules(),
		fileScoped: fileScopedRules(),
	}
}

// Validate runs the full rule set over the records and assembles the
// annotated output table. A fresh accumulator is allocated for the call and
// discarded with it, so uniqueness and continuity checks are file-local.
//
// Every record always yields a data row and a verdict row; failures are
// annotated, never filtered.
func (e *Engine) Validate(records []*Record) *AnnotatedTable {
	verdicts := make([][]*Verdict, len(records))

	workers := e.opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers == 1 || len(records) < 2 {
		for i, rec := range records {
			verdicts[i] = e.statelessRecord(rec)
		}
	} else {
		// The stateless stages are pure per-record work and can fan out;
		// results land in their input slot so ordering is preserved.
		var wg sync.WaitGroup
		idx := make(chan int)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range idx {
					verdicts[i] = e.statelessRecord(records[i])
				}
			}()
		}
		for i := range records {
			idx <- i
		}
		close(idx)
		wg.Wait()
	}

	// Accumulator-dependent rules are order-sensitive and run serially in
	// original row order, merging into the precomputed verdicts.
	acc := NewAccumulator()
	for i, rec := range records {
		for j, field := range rec.Columns() {
			if verdicts[i][j] == nil {
				continue
			}
			e.applyFileScoped(field, rec, acc, verdicts[i][j])
		}
	}

	return Assemble(records, verdicts)
}

// statelessRecord evaluates the type, length, mandatoriness and cross-field
// stages for every column of one record. The result slice aligns with the
// record's columns; a nil entry marks a column the catalog does not describe,
// which renders as an empty verdict cell.
func (e *Engine) statelessRecord(rec *Record) []*Verdict {
	out := make([]*Verdict, len(rec.Columns()))
	for i, field := range rec.Columns() {
		spec, ok := e.catalog.Lookup(field)
		if !ok {
			continue
		}
		v := &Verdict{}
		val := rec.Value(field)

		e.applyTypeAndLength(spec, val, v)
		e.applyMandatory(spec, field, rec, val, v)

		for _, rule := range e.crossField {
			if rule.Applies(field, rec) {
				v.Add(rule.Evaluate(field, rec, nil)...)
			}
		}

		out[i] = v
	}
	return out
}

// applyTypeAndLength runs the data-type validator and the max-length check.
// Numeric fields are length-checked on the canonical digit string, not the
// raw representation; values that cannot be canonicalized report a numeric
// format failure instead of raising.
func (e *Engine) applyTypeAndLength(spec RuleSpec, val Value, v *Verdict) {
	if val.IsAbsent() {
		return
	}

	if spec.Type == TypeNumeric {
		canon, err := val.CanonicalNumeric()
		if err != nil {
			v.Add("Invalid Numeric Format")
		} else {
			if !isDigits(canon) {
				v.Add("Invalid Numeric Format")
			}
			if spec.MaxLength > 0 && len(strings.ReplaceAll(canon, "-", "")) > spec.MaxLength {
				v.Add("Exceeds Max Length")
			}
		}
	} else {
		if !typeValidator(spec.Type)(val) {
			v.Add(typeFailureReason(spec.Type))
		}
		if spec.MaxLength > 0 && len(val.Display()) > spec.MaxLength {
			v.Add("Exceeds Max Length")
		}
	}

	// Character-set hygiene applies to every cataloged field; ASCII-typed
	// fields already report it through their own validator.
	if spec.Type != TypeASCII && !IsASCIIRange(val) {
		v.Add("Invalid Characters Outside ASCII Range")
	}
}

// applyMandatory runs the conditional cascades, then the surviving
// catalog-declared mandatoriness. A cascade that reports absence in its own
// words supersedes the generic missing-value reason for that record.
func (e *Engine) applyMandatory(spec RuleSpec, field string, rec *Record, val Value, v *Verdict) {
	mandatory := spec.Mandatory
	cascadeFired := false
	for _, rule := range e.mandatory {
		if !rule.applies(field, rec) {
			continue
		}
		reasons, overrideOff := rule.evaluate(rec, e.opts, spec.Mandatory)
		if len(reasons) > 0 {
			cascadeFired = true
			v.Add(reasons...)
		}
		if overrideOff {
			mandatory = false
		}
	}
	if mandatory && !cascadeFired && val.IsAbsent() {
		v.Add("Missing Mandatory Value")
	}
}

// applyFileScoped merges the accumulator-dependent reasons for one field.
// Must be called in strict input row order.
func (e *Engine) applyFileScoped(field string, rec *Record, acc *Accumulator, v *Verdict) {
	for _, rule := range e.fileScoped {
		if rule.Applies(field, rec) {
			v.Add(rule.Evaluate(field, rec, acc)...)
		}
	}
}
