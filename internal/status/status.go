// Package status classifies due and expiry dates. The same rule drives the
// scheduler and any display recomputation, so it stays a pure function.
package status

import "time"

type Status string

const (
	Current Status = "CURRENT"
	DueSoon Status = "DUE_SOON"
	Overdue Status = "OVERDUE"
)

// Classify buckets a due or expiry date against now plus a day-level
// lookahead window. Overdue means strictly before now; due-soon is inclusive
// at both window ends.
func Classify(due, now time.Time, thresholdDays int) Status {
	if due.Before(now) {
		return Overdue
	}
	if !due.After(now.AddDate(0, 0, thresholdDays)) {
		return DueSoon
	}
	return Current
}
