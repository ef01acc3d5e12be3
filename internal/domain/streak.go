package domain

import (
	"sort"
	"time"
)

// rolloverRule is the strategy behind a RolloverPolicy. New policies plug in
// here without touching the walk loop in ComputeStreak.
type rolloverRule interface {
	// stop reports whether the walk must stop before counting day.
	stop(latest, day time.Time) bool
	// fold maps the raw consecutive count to the reported count.
	fold(days int) int
}

type monthBoundRule struct{}

func (monthBoundRule) stop(latest, day time.Time) bool { return !SameMonth(latest, day) }
func (monthBoundRule) fold(days int) int               { return days }

type cyclicRule struct{}

func (cyclicRule) stop(time.Time, time.Time) bool { return false }

// fold wraps counts above 30 into the 1..30 bonus cycle.
func (cyclicRule) fold(days int) int {
	if days <= 30 {
		return days
	}
	if r := days % 30; r != 0 {
		return r
	}
	return 30
}

func (p RolloverPolicy) rule() rolloverRule {
	if p == RolloverIncluded {
		return cyclicRule{}
	}
	return monthBoundRule{}
}

// ComputeStreak walks back from the most recent logged date one calendar day
// at a time, counting while a log exists for the day. The rollover policy
// decides month-boundary behavior and any folding of the raw count.
func ComputeStreak(dates []time.Time, rollover RolloverPolicy) StreakResult {
	if len(dates) == 0 {
		return StreakResult{}
	}

	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		seen[FormatDate(d)] = struct{}{}
	}

	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })
	latest := sorted[0]

	rule := rollover.rule()

	days := 0
	for day := latest; ; day = PrevDay(day) {
		if _, ok := seen[FormatDate(day)]; !ok {
			break
		}
		if rule.stop(latest, day) {
			break
		}
		days++
	}

	return StreakResult{
		ConsecutiveDays: rule.fold(days),
		LastLogged:      latest,
		TotalDays:       len(seen),
	}
}
