package fakes

import (
	"context"
	"sync"
	"time"

	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/usecase"
)

// FakeJournalRepository is a JournalRepository backed by an in-memory map.
// Any Func field overrides the default behavior.
type FakeJournalRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	GetByAccountDateFunc func(ctx context.Context, accountID string, date time.Time) ([]*domain.Entry, error)
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Entry, error)
	CreateFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	UpdateFunc           func(ctx context.Context, entry *domain.Entry) error
	UpdateDerivedFunc    func(ctx context.Context, entry *domain.Entry) error
	UpdateOrdersFunc     func(ctx context.Context, tx usecase.Transaction, orders []domain.OrderChange) error
	DeleteFunc           func(ctx context.Context, id string) error
}

func NewFakeJournalRepository() *FakeJournalRepository {
	return &FakeJournalRepository{entries: make(map[string]*domain.Entry)}
}

// Seed stores entries directly, bypassing any Func overrides.
func (m *FakeJournalRepository) Seed(entries ...*domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[e.ID] = e
	}
}

func (m *FakeJournalRepository) GetByAccountDate(ctx context.Context, accountID string, date time.Time) ([]*domain.Entry, error) {
	if m.GetByAccountDateFunc != nil {
		return m.GetByAccountDateFunc(ctx, accountID, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.AccountID == accountID && domain.SameDay(e.Date, date) {
			cp := *e
			out = append(out, &cp)
		}
	}
	domain.SortEntries(out)
	return out, nil
}

func (m *FakeJournalRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *FakeJournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *FakeJournalRepository) Update(ctx context.Context, entry *domain.Entry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *FakeJournalRepository) UpdateDerived(ctx context.Context, entry *domain.Entry) error {
	if m.UpdateDerivedFunc != nil {
		return m.UpdateDerivedFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *FakeJournalRepository) UpdateOrders(ctx context.Context, tx usecase.Transaction, orders []domain.OrderChange) error {
	if m.UpdateOrdersFunc != nil {
		return m.UpdateOrdersFunc(ctx, tx, orders)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, oc := range orders {
		if e, ok := m.entries[oc.EntryID]; ok {
			e.Order = oc.Order
		}
	}
	return nil
}

func (m *FakeJournalRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// FakeAttendanceRepository is an in-memory AttendanceRepository.
type FakeAttendanceRepository struct {
	mu    sync.RWMutex
	logs  map[string][]time.Time
	stats map[string]domain.StreakResult

	InsertLogFunc func(ctx context.Context, log *domain.AttendanceLog) error
	RemoveLogFunc func(ctx context.Context, accountID, site, identity string, date time.Time) error
	GetStatsFunc  func(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error)
}

func NewFakeAttendanceRepository() *FakeAttendanceRepository {
	return &FakeAttendanceRepository{
		logs:  make(map[string][]time.Time),
		stats: make(map[string]domain.StreakResult),
	}
}

func attendanceKey(accountID, site, identity string) string {
	return accountID + "|" + site + "|" + identity
}

// Dates returns the logged dates for a pair.
func (m *FakeAttendanceRepository) Dates(accountID, site, identity string) []time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]time.Time(nil), m.logs[attendanceKey(accountID, site, identity)]...)
}

func (m *FakeAttendanceRepository) InsertLog(ctx context.Context, log *domain.AttendanceLog) error {
	if m.InsertLogFunc != nil {
		return m.InsertLogFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := attendanceKey(log.AccountID, log.Site, log.Identity)
	for _, d := range m.logs[key] {
		if domain.SameDay(d, log.Date) {
			return nil
		}
	}
	m.logs[key] = append(m.logs[key], log.Date)
	return nil
}

func (m *FakeAttendanceRepository) RemoveLog(ctx context.Context, accountID, site, identity string, date time.Time) error {
	if m.RemoveLogFunc != nil {
		return m.RemoveLogFunc(ctx, accountID, site, identity, date)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := attendanceKey(accountID, site, identity)
	kept := m.logs[key][:0]
	for _, d := range m.logs[key] {
		if !domain.SameDay(d, date) {
			kept = append(kept, d)
		}
	}
	m.logs[key] = kept
	return nil
}

func (m *FakeAttendanceRepository) ListDates(ctx context.Context, accountID, site, identity string) ([]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]time.Time(nil), m.logs[attendanceKey(accountID, site, identity)]...), nil
}

func (m *FakeAttendanceRepository) UpsertStats(ctx context.Context, accountID, site, identity string, result domain.StreakResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[attendanceKey(accountID, site, identity)] = result
	return nil
}

func (m *FakeAttendanceRepository) GetStats(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, accountID, site, identity)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.stats[attendanceKey(accountID, site, identity)]; ok {
		return &s, nil
	}
	return nil, domain.ErrStatsNotFound
}

// FakePolicyRepository is an in-memory PolicyRepository.
type FakePolicyRepository struct {
	mu       sync.RWMutex
	policies map[string]*domain.AttendancePolicy

	GetFunc func(ctx context.Context, accountID, site, identity string) (*domain.AttendancePolicy, error)
}

func NewFakePolicyRepository() *FakePolicyRepository {
	return &FakePolicyRepository{policies: make(map[string]*domain.AttendancePolicy)}
}

func (m *FakePolicyRepository) Get(ctx context.Context, accountID, site, identity string) (*domain.AttendancePolicy, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, accountID, site, identity)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.policies[attendanceKey(accountID, site, identity)]; ok {
		return p, nil
	}
	return nil, domain.ErrPolicyNotFound
}

func (m *FakePolicyRepository) Put(ctx context.Context, policy *domain.AttendancePolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[attendanceKey(policy.AccountID, policy.Site, policy.Identity)] = policy
	return nil
}

// FakeRegistryRepository returns fixed site and identity lists.
type FakeRegistryRepository struct {
	Sites      []string
	Identities []string
}

func (m *FakeRegistryRepository) ListSites(ctx context.Context, accountID string) ([]string, error) {
	return m.Sites, nil
}

func (m *FakeRegistryRepository) ListIdentities(ctx context.Context, accountID string) ([]string, error) {
	return m.Identities, nil
}

// FakeTransaction is a no-op transaction.
type FakeTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *FakeTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *FakeTransaction) Rollback(ctx context.Context) error {
	t.RolledBack = true
	return nil
}

// FakeTransactionManager hands out FakeTransactions.
type FakeTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func (m *FakeTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &FakeTransaction{}, nil
}

// FakeIDGenerator yields deterministic sequential ids.
type FakeIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func (m *FakeIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "entry-" + itoa(m.next)
}

// FakeStatsCache is an in-memory StatsCache without TTL expiry.
type FakeStatsCache struct {
	mu    sync.RWMutex
	cache map[string]domain.StreakResult

	GetFunc func(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error)
}

func NewFakeStatsCache() *FakeStatsCache {
	return &FakeStatsCache{cache: make(map[string]domain.StreakResult)}
}

func (m *FakeStatsCache) Get(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, accountID, site, identity)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.cache[attendanceKey(accountID, site, identity)]; ok {
		return &s, nil
	}
	return nil, nil
}

func (m *FakeStatsCache) Set(ctx context.Context, accountID, site, identity string, result domain.StreakResult, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[attendanceKey(accountID, site, identity)] = result
	return nil
}

func (m *FakeStatsCache) Invalidate(ctx context.Context, accountID, site, identity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, attendanceKey(accountID, site, identity))
	return nil
}

// FakeRetrier calls the operation a fixed number of times without delay.
type FakeRetrier struct {
	Attempts int
}

func (m *FakeRetrier) Retry(ctx context.Context, operation func() error) error {
	attempts := m.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = operation(); err == nil {
			return nil
		}
	}
	return err
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
