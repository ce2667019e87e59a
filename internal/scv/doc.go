// Package scv implements the rule-driven validation engine for Single
// Customer View (SCV) submission files.
//
// The engine takes a rule catalog (per-field data type, maximum length and
// mandatoriness) and an ordered set of records, and produces an annotated
// table in which every record row is followed by a row of per-field verdicts
// ("Pass", "Fail - <reasons>", or an empty cell for columns the catalog does
// not describe).
//
// This package has no I/O dependencies: reading workbooks and persisting
// results is the responsibility of the callers (see internal/xlsxio and
// internal/batch).
package scv
