package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hansu/dayledger/internal/domain"
)

// PolicyRepository implements usecase.PolicyRepository.
type PolicyRepository struct {
	pool *pgxpool.Pool
}

// NewPolicyRepository creates a new PolicyRepository.
func NewPolicyRepository(pool *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{pool: pool}
}

// Get reads the policy row for an exact (site, identity). The empty identity
// addresses the site-shared row.
func (r *PolicyRepository) Get(ctx context.Context, accountID, site, identity string) (*domain.AttendancePolicy, error) {
	policy := domain.AttendancePolicy{
		AccountID: accountID,
		Site:      site,
		Identity:  identity,
	}

	err := r.pool.QueryRow(ctx, `
		SELECT attendance_type, rollover
		FROM attendance_policy
		WHERE account_id = $1 AND site = $2 AND identity = $3`,
		accountID, site, identity,
	).Scan(&policy.AttendanceType, &policy.Rollover)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, err
	}

	return &policy, nil
}

// Put upserts a policy row.
func (r *PolicyRepository) Put(ctx context.Context, policy *domain.AttendancePolicy) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendance_policy (account_id, site, identity, attendance_type, rollover)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, site, identity) DO UPDATE
		SET attendance_type = EXCLUDED.attendance_type,
			rollover = EXCLUDED.rollover`,
		policy.AccountID, policy.Site, policy.Identity,
		string(policy.AttendanceType), string(policy.Rollover))

	return err
}
