package domain

import (
	"testing"
	"time"
)

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func days(ts ...time.Time) []time.Time {
	return ts
}

func TestComputeStreakEmpty(t *testing.T) {
	result := ComputeStreak(nil, RolloverExcluded)
	if result.ConsecutiveDays != 0 || result.TotalDays != 0 {
		t.Fatalf("expected zero result, got %+v", result)
	}
}

func TestComputeStreakConsecutive(t *testing.T) {
	dates := days(
		day(2025, 3, 12),
		day(2025, 3, 13),
		day(2025, 3, 14),
	)

	result := ComputeStreak(dates, RolloverExcluded)

	if result.ConsecutiveDays != 3 {
		t.Errorf("expected 3 consecutive days, got %d", result.ConsecutiveDays)
	}
	if result.TotalDays != 3 {
		t.Errorf("expected 3 total days, got %d", result.TotalDays)
	}
	if !SameDay(result.LastLogged, day(2025, 3, 14)) {
		t.Errorf("unexpected last logged %v", result.LastLogged)
	}
}

func TestComputeStreakGapResets(t *testing.T) {
	dates := days(
		day(2025, 3, 10),
		day(2025, 3, 13),
		day(2025, 3, 14),
	)

	result := ComputeStreak(dates, RolloverExcluded)

	if result.ConsecutiveDays != 2 {
		t.Errorf("expected 2 consecutive days, got %d", result.ConsecutiveDays)
	}
	if result.TotalDays != 3 {
		t.Errorf("expected 3 total days, got %d", result.TotalDays)
	}
}

func TestComputeStreakMonthBoundaryExcluded(t *testing.T) {
	dates := days(
		day(2025, 2, 27),
		day(2025, 2, 28),
		day(2025, 3, 1),
		day(2025, 3, 2),
	)

	result := ComputeStreak(dates, RolloverExcluded)

	// The walk stops at the February days even though they are contiguous.
	if result.ConsecutiveDays != 2 {
		t.Errorf("expected 2 consecutive days, got %d", result.ConsecutiveDays)
	}
}

func TestComputeStreakMonthBoundaryIncluded(t *testing.T) {
	dates := days(
		day(2025, 2, 27),
		day(2025, 2, 28),
		day(2025, 3, 1),
		day(2025, 3, 2),
	)

	result := ComputeStreak(dates, RolloverIncluded)

	if result.ConsecutiveDays != 4 {
		t.Errorf("expected 4 consecutive days, got %d", result.ConsecutiveDays)
	}
}

func TestComputeStreakCyclicFold(t *testing.T) {
	tests := []struct {
		name string
		runs int
		want int
	}{
		{"thirty days stays thirty", 30, 30},
		{"thirty one wraps to one", 31, 1},
		{"sixty folds to thirty", 60, 30},
		{"sixty one wraps to one", 61, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dates []time.Time
			cursor := day(2025, 3, 15)
			for i := 0; i < tt.runs; i++ {
				dates = append(dates, cursor)
				cursor = PrevDay(cursor)
			}

			result := ComputeStreak(dates, RolloverIncluded)

			if result.ConsecutiveDays != tt.want {
				t.Errorf("expected %d, got %d", tt.want, result.ConsecutiveDays)
			}
			if result.TotalDays != tt.runs {
				t.Errorf("expected %d total days, got %d", tt.runs, result.TotalDays)
			}
		})
	}
}

func TestComputeStreakDuplicateDatesCountOnce(t *testing.T) {
	dates := days(
		day(2025, 3, 14),
		day(2025, 3, 14),
		day(2025, 3, 13),
	)

	result := ComputeStreak(dates, RolloverExcluded)

	if result.ConsecutiveDays != 2 {
		t.Errorf("expected 2 consecutive days, got %d", result.ConsecutiveDays)
	}
	if result.TotalDays != 2 {
		t.Errorf("expected 2 total days, got %d", result.TotalDays)
	}
}
