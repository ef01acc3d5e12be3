package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/infrastructure/metrics"
)

// AttendanceUseCase maintains the attendance log per (site, identity) and the
// consecutive-day streak derived from it.
type AttendanceUseCase struct {
	attendanceRepo AttendanceRepository
	policyRepo     PolicyRepository
	cache          StatsCache
	retrier        Retrier
	logger         *slog.Logger
	cacheTTL       time.Duration
	metrics        *metrics.Metrics
}

// NewAttendanceUseCase creates a new AttendanceUseCase.
func NewAttendanceUseCase(
	attendanceRepo AttendanceRepository,
	policyRepo PolicyRepository,
	cache StatsCache,
	retrier Retrier,
	logger *slog.Logger,
	cacheTTL time.Duration,
	metrics *metrics.Metrics,
) *AttendanceUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceUseCase{
		attendanceRepo: attendanceRepo,
		policyRepo:     policyRepo,
		cache:          cache,
		retrier:        retrier,
		logger:         logger,
		cacheTTL:       cacheTTL,
		metrics:        metrics,
	}
}

// DepositChangeInput describes one slot's deposit after an entry edit,
// together with the ordered journal it belongs to.
type DepositChangeInput struct {
	AccountID string
	Site      string
	Identity  string
	Date      time.Time
	Deposit   decimal.Decimal
	EntryID   string
	SlotIndex int
	Journal   []*domain.Entry
}

// ApplyDepositChange registers or retracts automatic attendance for a deposit
// change. Only the first-ordered slot holding the (identity, site) pair for
// the day attributes attendance; a recharge is ignored. Failures here never
// fail the ledger edit that caused them.
func (uc *AttendanceUseCase) ApplyDepositChange(ctx context.Context, input DepositChangeInput) error {
	policy, err := uc.policy(ctx, input.AccountID, input.Site, input.Identity)
	if err != nil {
		uc.logger.Warn("attendance policy lookup failed",
			"site", input.Site, "identity", input.Identity, "error", err)
		return nil
	}

	if policy.AttendanceType != domain.AttendanceAutomatic {
		return nil
	}

	action := domain.ToggleAdded
	if input.Deposit.IsPositive() {
		if domain.IsRecharge(input.Journal, input.EntryID, input.SlotIndex) {
			return nil
		}
		err = uc.attendanceRepo.InsertLog(ctx, &domain.AttendanceLog{
			AccountID: input.AccountID,
			Site:      input.Site,
			Identity:  input.Identity,
			Date:      input.Date,
			CreatedAt: time.Now().UTC(),
		})
	} else {
		// Clearing a recharge duplicate must not retract the log the
		// first-ordered entry attributed.
		if domain.EarlierHolder(input.Journal, input.EntryID, input.Identity, input.Site, input.SlotIndex) {
			return nil
		}
		action = domain.ToggleRemoved
		err = uc.attendanceRepo.RemoveLog(ctx, input.AccountID, input.Site, input.Identity, input.Date)
	}

	if err != nil {
		uc.logger.Warn("attendance log mutation failed",
			"site", input.Site, "identity", input.Identity,
			"date", domain.FormatDate(input.Date), "error", err)
		return nil
	}

	if uc.metrics != nil {
		uc.metrics.AttendanceActions.WithLabelValues(string(action)).Inc()
	}

	if _, err := uc.refreshStats(ctx, input.AccountID, input.Site, input.Identity, policy.Rollover); err != nil {
		uc.logger.Warn("attendance stats refresh failed",
			"site", input.Site, "identity", input.Identity, "error", err)
	}

	return nil
}

// ToggleInput identifies a manual attendance toggle.
type ToggleInput struct {
	AccountID string
	Site      string
	Identity  string
	Date      time.Time
	// Desired forces the log present (true) or absent (false). Nil toggles
	// based on the current state.
	Desired *bool
}

// ToggleResult reports the recomputed streak after a manual toggle.
type ToggleResult struct {
	Action          domain.ToggleAction
	ConsecutiveDays int
	TotalDays       int
}

// ToggleManual inserts or removes the log entry for the exact date. It only
// applies under the manual attendance policy.
func (uc *AttendanceUseCase) ToggleManual(ctx context.Context, input ToggleInput) (*ToggleResult, error) {
	policy, err := uc.policy(ctx, input.AccountID, input.Site, input.Identity)
	if err != nil {
		return nil, err
	}

	if policy.AttendanceType != domain.AttendanceManual {
		return nil, domain.ErrManualAttendanceOnly
	}

	dates, err := uc.attendanceRepo.ListDates(ctx, input.AccountID, input.Site, input.Identity)
	if err != nil {
		return nil, err
	}

	logged := false
	for _, d := range dates {
		if domain.SameDay(d, input.Date) {
			logged = true
			break
		}
	}

	want := !logged
	if input.Desired != nil {
		want = *input.Desired
	}

	action := domain.ToggleAdded
	if want {
		err = uc.attendanceRepo.InsertLog(ctx, &domain.AttendanceLog{
			AccountID: input.AccountID,
			Site:      input.Site,
			Identity:  input.Identity,
			Date:      input.Date,
			CreatedAt: time.Now().UTC(),
		})
	} else {
		action = domain.ToggleRemoved
		err = uc.attendanceRepo.RemoveLog(ctx, input.AccountID, input.Site, input.Identity, input.Date)
	}
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AttendanceActions.WithLabelValues(string(action)).Inc()
	}

	result, err := uc.refreshStats(ctx, input.AccountID, input.Site, input.Identity, policy.Rollover)
	if err != nil {
		return nil, err
	}

	return &ToggleResult{
		Action:          action,
		ConsecutiveDays: result.ConsecutiveDays,
		TotalDays:       result.TotalDays,
	}, nil
}

// StatsPair identifies one (site, identity) for a batch stats read.
type StatsPair struct {
	Site     string
	Identity string
}

// StatsResult is one element of a batch stats response.
type StatsResult struct {
	Site            string
	Identity        string
	ConsecutiveDays int
	TotalDays       int
	Err             error
}

// BatchStats reads attendance stats for a list of pairs. The authoritative
// store may lag behind a just-saved entry, so misses are retried with
// increasing delay; when retries exhaust, the last locally-known value (or
// zero) is returned instead of an error.
func (uc *AttendanceUseCase) BatchStats(ctx context.Context, accountID string, pairs []StatsPair) []StatsResult {
	results := make([]StatsResult, 0, len(pairs))

	for _, pair := range pairs {
		result := StatsResult{Site: pair.Site, Identity: pair.Identity}

		if cached, err := uc.cache.Get(ctx, accountID, pair.Site, pair.Identity); err == nil && cached != nil {
			if uc.metrics != nil {
				uc.metrics.StatsCacheHits.WithLabelValues("hit").Inc()
			}
			result.ConsecutiveDays = cached.ConsecutiveDays
			result.TotalDays = cached.TotalDays
			results = append(results, result)
			continue
		}
		if uc.metrics != nil {
			uc.metrics.StatsCacheHits.WithLabelValues("miss").Inc()
		}

		var stats *domain.StreakResult
		attempts := 0
		err := uc.retrier.Retry(ctx, func() error {
			attempts++
			var err error
			stats, err = uc.attendanceRepo.GetStats(ctx, accountID, pair.Site, pair.Identity)
			return err
		})
		if uc.metrics != nil && attempts > 1 {
			uc.metrics.StatsPollRetries.Add(float64(attempts - 1))
		}
		if err != nil || stats == nil {
			// Exhausted: keep the last known value rather than failing.
			uc.logger.Debug("attendance stats read exhausted retries",
				"site", pair.Site, "identity", pair.Identity, "error", err)
			results = append(results, result)
			continue
		}

		result.ConsecutiveDays = stats.ConsecutiveDays
		result.TotalDays = stats.TotalDays
		results = append(results, result)

		if err := uc.cache.Set(ctx, accountID, pair.Site, pair.Identity, *stats, uc.cacheTTL); err != nil {
			uc.logger.Debug("attendance stats cache set failed", "error", err)
		}
	}

	return results
}

// refreshStats recomputes the streak from the log, snapshots it and
// invalidates the cache.
func (uc *AttendanceUseCase) refreshStats(ctx context.Context, accountID, site, identity string, rollover domain.RolloverPolicy) (domain.StreakResult, error) {
	dates, err := uc.attendanceRepo.ListDates(ctx, accountID, site, identity)
	if err != nil {
		return domain.StreakResult{}, err
	}

	result := domain.ComputeStreak(dates, rollover)

	if err := uc.attendanceRepo.UpsertStats(ctx, accountID, site, identity, result); err != nil {
		return result, err
	}

	if err := uc.cache.Invalidate(ctx, accountID, site, identity); err != nil {
		uc.logger.Debug("attendance stats cache invalidation failed",
			"site", site, "identity", identity, "error", err)
	}

	return result, nil
}

// policy resolves the attendance policy for a pair, falling back to the
// site-shared row and then to the defaults.
func (uc *AttendanceUseCase) policy(ctx context.Context, accountID, site, identity string) (domain.AttendancePolicy, error) {
	p, err := uc.policyRepo.Get(ctx, accountID, site, identity)
	if err != nil && !errors.Is(err, domain.ErrPolicyNotFound) {
		return domain.AttendancePolicy{}, err
	}
	if p != nil {
		return *p, nil
	}

	if identity != domain.SharedIdentity {
		p, err = uc.policyRepo.Get(ctx, accountID, site, domain.SharedIdentity)
		if err != nil && !errors.Is(err, domain.ErrPolicyNotFound) {
			return domain.AttendancePolicy{}, err
		}
		if p != nil {
			return *p, nil
		}
	}

	return domain.DefaultPolicy(accountID, site, identity), nil
}

// GetPolicy exposes the resolved policy for the HTTP layer.
func (uc *AttendanceUseCase) GetPolicy(ctx context.Context, accountID, site, identity string) (domain.AttendancePolicy, error) {
	return uc.policy(ctx, accountID, site, identity)
}

// PutPolicy stores a policy row.
func (uc *AttendanceUseCase) PutPolicy(ctx context.Context, policy domain.AttendancePolicy) error {
	if policy.AttendanceType == "" {
		policy.AttendanceType = domain.AttendanceAutomatic
	}
	if policy.Rollover == "" {
		policy.Rollover = domain.RolloverExcluded
	}
	return uc.policyRepo.Put(ctx, &policy)
}
