package usecase

import (
	"context"
	"time"

	"github.com/hansu/dayledger/internal/domain"
)

// JournalRepository defines data access for ledger entries.
type JournalRepository interface {
	GetByAccountDate(ctx context.Context, accountID string, date time.Time) ([]*domain.Entry, error)
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	Update(ctx context.Context, entry *domain.Entry) error
	UpdateDerived(ctx context.Context, entry *domain.Entry) error
	UpdateOrders(ctx context.Context, tx Transaction, orders []domain.OrderChange) error
	Delete(ctx context.Context, id string) error
}

// AttendanceRepository defines data access for the attendance log and the
// derived stats snapshot.
type AttendanceRepository interface {
	InsertLog(ctx context.Context, log *domain.AttendanceLog) error
	RemoveLog(ctx context.Context, accountID, site, identity string, date time.Time) error
	ListDates(ctx context.Context, accountID, site, identity string) ([]time.Time, error)
	UpsertStats(ctx context.Context, accountID, site, identity string, result domain.StreakResult) error
	GetStats(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error)
}

// PolicyRepository reads and writes attendance policy rows. A row with the
// shared identity applies to every identity on the site.
type PolicyRepository interface {
	Get(ctx context.Context, accountID, site, identity string) (*domain.AttendancePolicy, error)
	Put(ctx context.Context, policy *domain.AttendancePolicy) error
}

// RegistryRepository reads the site and identity registry owned by the
// surrounding application; the core only needs names.
type RegistryRepository interface {
	ListSites(ctx context.Context, accountID string) ([]string, error)
	ListIdentities(ctx context.Context, accountID string) ([]string, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// StatsCache caches attendance stats per (site, identity) with a TTL and an
// explicit invalidation API.
type StatsCache interface {
	Get(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error)
	Set(ctx context.Context, accountID, site, identity string, result domain.StreakResult, ttl time.Duration) error
	Invalidate(ctx context.Context, accountID, site, identity string) error
}

// Retrier retries an operation with backoff on transient errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
