package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/usecase"
	"github.com/hansu/dayledger/internal/usecase/fakes"
)

type attendanceFixture struct {
	repo   *fakes.FakeAttendanceRepository
	policy *fakes.FakePolicyRepository
	cache  *fakes.FakeStatsCache
	uc     *usecase.AttendanceUseCase
}

func newAttendanceFixture() *attendanceFixture {
	f := &attendanceFixture{
		repo:   fakes.NewFakeAttendanceRepository(),
		policy: fakes.NewFakePolicyRepository(),
		cache:  fakes.NewFakeStatsCache(),
	}
	f.uc = usecase.NewAttendanceUseCase(f.repo, f.policy, f.cache, &fakes.FakeRetrier{}, nil, time.Minute, nil)
	return f
}

func depositChange(deposit int64, entryID string, journal []*domain.Entry) usecase.DepositChangeInput {
	return usecase.DepositChangeInput{
		AccountID: "acct-1",
		Site:      "윈윈",
		Identity:  "본인",
		Date:      testDate,
		Deposit:   d(deposit),
		EntryID:   entryID,
		SlotIndex: 0,
		Journal:   journal,
	}
}

func journalEntry(id string, order int, deposit int64) *domain.Entry {
	e := &domain.Entry{ID: id, AccountID: "acct-1", Date: testDate, Order: order}
	e.Slots[0] = domain.Slot{Identity: "본인", Site: "윈윈", Deposit: d(deposit)}
	return e
}

func TestApplyDepositChangeRegistersAttendance(t *testing.T) {
	f := newAttendanceFixture()

	entry := journalEntry("e1", 0, 100000)
	err := f.uc.ApplyDepositChange(context.Background(), depositChange(100000, "e1", []*domain.Entry{entry}))
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if got := len(f.repo.Dates("acct-1", "윈윈", "본인")); got != 1 {
		t.Fatalf("expected 1 logged date, got %d", got)
	}

	stats, err := f.repo.GetStats(context.Background(), "acct-1", "윈윈", "본인")
	if err != nil {
		t.Fatalf("stats missing: %v", err)
	}
	if stats.ConsecutiveDays != 1 || stats.TotalDays != 1 {
		t.Errorf("expected 1/1, got %d/%d", stats.ConsecutiveDays, stats.TotalDays)
	}
}

func TestApplyDepositChangeSuppressesRecharge(t *testing.T) {
	f := newAttendanceFixture()

	journal := []*domain.Entry{
		journalEntry("e1", 0, 100000),
		journalEntry("e2", 1, 50000),
	}

	// The second same-pair deposit of the day is a recharge.
	err := f.uc.ApplyDepositChange(context.Background(), depositChange(50000, "e2", journal))
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if got := len(f.repo.Dates("acct-1", "윈윈", "본인")); got != 0 {
		t.Fatalf("expected no logged dates for recharge, got %d", got)
	}
}

func TestApplyDepositChangeZeroRetractsLog(t *testing.T) {
	f := newAttendanceFixture()

	entry := journalEntry("e1", 0, 100000)
	journal := []*domain.Entry{entry}

	ctx := context.Background()
	if err := f.uc.ApplyDepositChange(ctx, depositChange(100000, "e1", journal)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := f.uc.ApplyDepositChange(ctx, depositChange(0, "e1", journal)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if got := len(f.repo.Dates("acct-1", "윈윈", "본인")); got != 0 {
		t.Fatalf("expected log retracted, got %d dates", got)
	}
}

func TestApplyDepositChangeKeepsBaseLogOnRechargeClear(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	base := journalEntry("e1", 0, 100000)
	if err := f.uc.ApplyDepositChange(ctx, depositChange(100000, "e1", []*domain.Entry{base})); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	// Clearing the recharge duplicate's deposit retracts nothing: the log
	// belongs to the first-ordered entry.
	journal := []*domain.Entry{base, journalEntry("e2", 1, 0)}
	if err := f.uc.ApplyDepositChange(ctx, depositChange(0, "e2", journal)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if got := len(f.repo.Dates("acct-1", "윈윈", "본인")); got != 1 {
		t.Fatalf("expected base entry's log to survive, got %d dates", got)
	}
}

func TestApplyDepositChangeSkipsManualPolicy(t *testing.T) {
	f := newAttendanceFixture()

	f.policy.Put(context.Background(), &domain.AttendancePolicy{
		AccountID:      "acct-1",
		Site:           "윈윈",
		Identity:       "본인",
		AttendanceType: domain.AttendanceManual,
		Rollover:       domain.RolloverExcluded,
	})

	entry := journalEntry("e1", 0, 100000)
	err := f.uc.ApplyDepositChange(context.Background(), depositChange(100000, "e1", []*domain.Entry{entry}))
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if got := len(f.repo.Dates("acct-1", "윈윈", "본인")); got != 0 {
		t.Fatalf("expected no automatic log under manual policy, got %d", got)
	}
}

func TestApplyDepositChangeNeverFailsTheEdit(t *testing.T) {
	f := newAttendanceFixture()
	f.repo.InsertLogFunc = func(ctx context.Context, log *domain.AttendanceLog) error {
		return errors.New("db down")
	}

	entry := journalEntry("e1", 0, 100000)
	err := f.uc.ApplyDepositChange(context.Background(), depositChange(100000, "e1", []*domain.Entry{entry}))
	if err != nil {
		t.Fatalf("expected swallowed failure, got %v", err)
	}
}

func TestToggleManualRequiresManualPolicy(t *testing.T) {
	f := newAttendanceFixture()

	_, err := f.uc.ToggleManual(context.Background(), usecase.ToggleInput{
		AccountID: "acct-1",
		Site:      "윈윈",
		Identity:  "본인",
		Date:      testDate,
	})
	if !errors.Is(err, domain.ErrManualAttendanceOnly) {
		t.Fatalf("expected ErrManualAttendanceOnly, got %v", err)
	}
}

func TestToggleManualAddsThenRemoves(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	f.policy.Put(ctx, &domain.AttendancePolicy{
		AccountID:      "acct-1",
		Site:           "윈윈",
		Identity:       "본인",
		AttendanceType: domain.AttendanceManual,
		Rollover:       domain.RolloverExcluded,
	})

	input := usecase.ToggleInput{AccountID: "acct-1", Site: "윈윈", Identity: "본인", Date: testDate}

	result, err := f.uc.ToggleManual(ctx, input)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if result.Action != domain.ToggleAdded {
		t.Errorf("expected added, got %s", result.Action)
	}
	if result.ConsecutiveDays != 1 || result.TotalDays != 1 {
		t.Errorf("expected 1/1, got %d/%d", result.ConsecutiveDays, result.TotalDays)
	}

	result, err = f.uc.ToggleManual(ctx, input)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if result.Action != domain.ToggleRemoved {
		t.Errorf("expected removed, got %s", result.Action)
	}
	if result.TotalDays != 0 {
		t.Errorf("expected 0 total days, got %d", result.TotalDays)
	}
}

func TestToggleManualDesiredIsIdempotent(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	f.policy.Put(ctx, &domain.AttendancePolicy{
		AccountID:      "acct-1",
		Site:           "윈윈",
		Identity:       "본인",
		AttendanceType: domain.AttendanceManual,
		Rollover:       domain.RolloverExcluded,
	})

	want := true
	input := usecase.ToggleInput{AccountID: "acct-1", Site: "윈윈", Identity: "본인", Date: testDate, Desired: &want}

	for i := 0; i < 2; i++ {
		result, err := f.uc.ToggleManual(ctx, input)
		if err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if result.Action != domain.ToggleAdded {
			t.Errorf("expected added, got %s", result.Action)
		}
		if result.TotalDays != 1 {
			t.Errorf("expected 1 total day, got %d", result.TotalDays)
		}
	}
}

func TestBatchStatsServesFromCache(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	f.cache.Set(ctx, "acct-1", "윈윈", "본인", domain.StreakResult{ConsecutiveDays: 7, TotalDays: 20}, time.Minute)
	f.repo.GetStatsFunc = func(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error) {
		t.Error("store must not be hit on a cache hit")
		return nil, domain.ErrStatsNotFound
	}

	results := f.uc.BatchStats(ctx, "acct-1", []usecase.StatsPair{{Site: "윈윈", Identity: "본인"}})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ConsecutiveDays != 7 || results[0].TotalDays != 20 {
		t.Errorf("expected 7/20, got %d/%d", results[0].ConsecutiveDays, results[0].TotalDays)
	}
}

func TestBatchStatsFallsBackOnExhaustedRetries(t *testing.T) {
	f := newAttendanceFixture()

	calls := 0
	f.repo.GetStatsFunc = func(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error) {
		calls++
		return nil, domain.ErrStatsNotFound
	}

	uc := usecase.NewAttendanceUseCase(f.repo, f.policy, f.cache, &fakes.FakeRetrier{Attempts: 3}, nil, time.Minute, nil)

	results := uc.BatchStats(context.Background(), "acct-1", []usecase.StatsPair{{Site: "윈윈", Identity: "본인"}})

	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	// Exhaustion degrades to zero values, not an error.
	if results[0].ConsecutiveDays != 0 || results[0].TotalDays != 0 {
		t.Errorf("expected 0/0, got %d/%d", results[0].ConsecutiveDays, results[0].TotalDays)
	}
}

func TestBatchStatsPopulatesCache(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	f.repo.UpsertStats(ctx, "acct-1", "윈윈", "본인", domain.StreakResult{ConsecutiveDays: 4, TotalDays: 9})

	f.uc.BatchStats(ctx, "acct-1", []usecase.StatsPair{{Site: "윈윈", Identity: "본인"}})

	cached, err := f.cache.Get(ctx, "acct-1", "윈윈", "본인")
	if err != nil || cached == nil {
		t.Fatalf("expected cached stats, got %v (%v)", cached, err)
	}
	if cached.ConsecutiveDays != 4 {
		t.Errorf("expected cached 4, got %d", cached.ConsecutiveDays)
	}
}

func TestPolicyFallsBackToSharedRow(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	f.policy.Put(ctx, &domain.AttendancePolicy{
		AccountID:      "acct-1",
		Site:           "윈윈",
		Identity:       domain.SharedIdentity,
		AttendanceType: domain.AttendanceManual,
		Rollover:       domain.RolloverIncluded,
	})

	policy, err := f.uc.GetPolicy(ctx, "acct-1", "윈윈", "본인")
	if err != nil {
		t.Fatalf("get policy failed: %v", err)
	}
	if policy.AttendanceType != domain.AttendanceManual || policy.Rollover != domain.RolloverIncluded {
		t.Errorf("expected shared row, got %+v", policy)
	}
}

func TestPolicyDefaultsWhenNoRows(t *testing.T) {
	f := newAttendanceFixture()

	policy, err := f.uc.GetPolicy(context.Background(), "acct-1", "윈윈", "본인")
	if err != nil {
		t.Fatalf("get policy failed: %v", err)
	}
	if policy.AttendanceType != domain.AttendanceAutomatic || policy.Rollover != domain.RolloverExcluded {
		t.Errorf("expected defaults, got %+v", policy)
	}
}
