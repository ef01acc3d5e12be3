package domain

import "time"

// AttendanceType determines whether attendance is inferred from deposits or
// toggled explicitly.
type AttendanceType string

const (
	AttendanceAutomatic AttendanceType = "automatic"
	AttendanceManual    AttendanceType = "manual"
)

// RolloverPolicy governs whether a streak survives a month boundary.
type RolloverPolicy string

const (
	// RolloverExcluded resets the count at the month boundary (default).
	RolloverExcluded RolloverPolicy = "excluded"
	// RolloverIncluded counts across months and wraps cyclically at 30.
	RolloverIncluded RolloverPolicy = "included"
)

// SharedIdentity marks a policy row that applies to every identity on a site.
const SharedIdentity = ""

// AttendancePolicy is the per (site, identity|shared) attendance
// configuration. It is owned by the site metadata collaborator; the core only
// reads these two fields.
type AttendancePolicy struct {
	AccountID      string
	Site           string
	Identity       string
	AttendanceType AttendanceType
	Rollover       RolloverPolicy
}

// DefaultPolicy is applied when no row exists for a (site, identity) pair.
func DefaultPolicy(accountID, site, identity string) AttendancePolicy {
	return AttendancePolicy{
		AccountID:      accountID,
		Site:           site,
		Identity:       identity,
		AttendanceType: AttendanceAutomatic,
		Rollover:       RolloverExcluded,
	}
}

// AttendanceLog is an append-only attendance fact. Unique per
// (account, site, identity, date); never mutated, only inserted or removed.
type AttendanceLog struct {
	CreatedAt time.Time
	AccountID string
	Site      string
	Identity  string
	Date      time.Time
}

// ToggleAction reports what a manual toggle did.
type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)

// StreakResult is the derived consecutive-day count for a (site, identity).
type StreakResult struct {
	LastLogged      time.Time
	ConsecutiveDays int
	TotalDays       int
}
