package domain

import (
	"errors"
	"fmt"
)

var (
	// Entry errors
	ErrEntryNotFound    = errors.New("entry not found")
	ErrDuplicateOrder   = errors.New("entry order already taken in journal")
	ErrInvalidSlotIndex = errors.New("slot index out of range")
	ErrCrossJournalSwap = errors.New("swapped slots must belong to the same account and date")

	// Validation errors
	ErrUnknownSite     = errors.New("site is not registered")
	ErrUnknownIdentity = errors.New("identity is not registered")
	ErrInvalidAmount   = errors.New("amount must not be negative")
	ErrInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")

	// Attendance errors
	ErrManualAttendanceOnly = errors.New("attendance policy is not manual")
	ErrPolicyNotFound       = errors.New("attendance policy not found")
	ErrStatsNotFound        = errors.New("attendance stats not found")

	// Sync errors
	ErrStaleResponse    = errors.New("response revision is older than current entry revision")
	ErrRevisionConflict = errors.New("entry changed since the revision the save was based on")
)

// CascadeAbortError is returned when persisting a recomputed entry fails
// partway through a cascade. Entries after Index keep their previous derived
// values and must be reloaded before further edits.
type CascadeAbortError struct {
	Err     error
	EntryID string
	Index   int
}

func (e *CascadeAbortError) Error() string {
	return fmt.Sprintf("cascade aborted at index %d (entry %s): %v", e.Index, e.EntryID, e.Err)
}

func (e *CascadeAbortError) Unwrap() error {
	return e.Err
}
