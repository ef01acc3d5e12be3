//	mockgen -source=internal/usecase/interfaces.go -destination=internal/usecase/mocks/mock_interfaces.go -package=mocks
//

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"
	time "time"

	domain "github.com/hansu/dayledger/internal/domain"
	usecase "github.com/hansu/dayledger/internal/usecase"
	gomock "go.uber.org/mock/gomock"
)

// MockJournalRepository is a mock of JournalRepository interface.
type MockJournalRepository struct {
	ctrl     *gomock.Controller
	recorder *MockJournalRepositoryMockRecorder
	isgomock struct{}
}

// MockJournalRepositoryMockRecorder is the mock recorder for MockJournalRepository.
type MockJournalRepositoryMockRecorder struct {
	mock *MockJournalRepository
}

// NewMockJournalRepository creates a new mock instance.
func NewMockJournalRepository(ctrl *gomock.Controller) *MockJournalRepository {
	mock := &MockJournalRepository{ctrl: ctrl}
	mock.recorder = &MockJournalRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockJournalRepository) EXPECT() *MockJournalRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockJournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, tx, entry)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockJournalRepositoryMockRecorder) Create(ctx, tx, entry any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockJournalRepository)(nil).Create), ctx, tx, entry)
}

// Delete mocks base method.
func (m *MockJournalRepository) Delete(ctx context.Context, id string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockJournalRepositoryMockRecorder) Delete(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockJournalRepository)(nil).Delete), ctx, id)
}

// GetByAccountDate mocks base method.
func (m *MockJournalRepository) GetByAccountDate(ctx context.Context, accountID string, date time.Time) ([]*domain.Entry, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByAccountDate", ctx, accountID, date)
	ret0, _ := ret[0].([]*domain.Entry)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByAccountDate indicates an expected call of GetByAccountDate.
func (mr *MockJournalRepositoryMockRecorder) GetByAccountDate(ctx, accountID, date any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByAccountDate", reflect.TypeOf((*MockJournalRepository)(nil).GetByAccountDate), ctx, accountID, date)
}

// GetByID mocks base method.
func (m *MockJournalRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*domain.Entry)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockJournalRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockJournalRepository)(nil).GetByID), ctx, id)
}

// Update mocks base method.
func (m *MockJournalRepository) Update(ctx context.Context, entry *domain.Entry) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, entry)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockJournalRepositoryMockRecorder) Update(ctx, entry any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockJournalRepository)(nil).Update), ctx, entry)
}

// UpdateDerived mocks base method.
func (m *MockJournalRepository) UpdateDerived(ctx context.Context, entry *domain.Entry) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateDerived", ctx, entry)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateDerived indicates an expected call of UpdateDerived.
func (mr *MockJournalRepositoryMockRecorder) UpdateDerived(ctx, entry any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateDerived", reflect.TypeOf((*MockJournalRepository)(nil).UpdateDerived), ctx, entry)
}

// UpdateOrders mocks base method.
func (m *MockJournalRepository) UpdateOrders(ctx context.Context, tx usecase.Transaction, orders []domain.OrderChange) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateOrders", ctx, tx, orders)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateOrders indicates an expected call of UpdateOrders.
func (mr *MockJournalRepositoryMockRecorder) UpdateOrders(ctx, tx, orders any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateOrders", reflect.TypeOf((*MockJournalRepository)(nil).UpdateOrders), ctx, tx, orders)
}

// MockAttendanceRepository is a mock of AttendanceRepository interface.
type MockAttendanceRepository struct {
	ctrl     *gomock.Controller
	recorder *MockAttendanceRepositoryMockRecorder
	isgomock struct{}
}

// MockAttendanceRepositoryMockRecorder is the mock recorder for MockAttendanceRepository.
type MockAttendanceRepositoryMockRecorder struct {
	mock *MockAttendanceRepository
}

// NewMockAttendanceRepository creates a new mock instance.
func NewMockAttendanceRepository(ctrl *gomock.Controller) *MockAttendanceRepository {
	mock := &MockAttendanceRepository{ctrl: ctrl}
	mock.recorder = &MockAttendanceRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAttendanceRepository) EXPECT() *MockAttendanceRepositoryMockRecorder {
	return m.recorder
}

// GetStats mocks base method.
func (m *MockAttendanceRepository) GetStats(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStats", ctx, accountID, site, identity)
	ret0, _ := ret[0].(*domain.StreakResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetStats indicates an expected call of GetStats.
func (mr *MockAttendanceRepositoryMockRecorder) GetStats(ctx, accountID, site, identity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStats", reflect.TypeOf((*MockAttendanceRepository)(nil).GetStats), ctx, accountID, site, identity)
}

// InsertLog mocks base method.
func (m *MockAttendanceRepository) InsertLog(ctx context.Context, log *domain.AttendanceLog) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertLog", ctx, log)
	ret0, _ := ret[0].(error)
	return ret0
}

// InsertLog indicates an expected call of InsertLog.
func (mr *MockAttendanceRepositoryMockRecorder) InsertLog(ctx, log any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertLog", reflect.TypeOf((*MockAttendanceRepository)(nil).InsertLog), ctx, log)
}

// ListDates mocks base method.
func (m *MockAttendanceRepository) ListDates(ctx context.Context, accountID, site, identity string) ([]time.Time, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListDates", ctx, accountID, site, identity)
	ret0, _ := ret[0].([]time.Time)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListDates indicates an expected call of ListDates.
func (mr *MockAttendanceRepositoryMockRecorder) ListDates(ctx, accountID, site, identity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListDates", reflect.TypeOf((*MockAttendanceRepository)(nil).ListDates), ctx, accountID, site, identity)
}

// RemoveLog mocks base method.
func (m *MockAttendanceRepository) RemoveLog(ctx context.Context, accountID, site, identity string, date time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveLog", ctx, accountID, site, identity, date)
	ret0, _ := ret[0].(error)
	return ret0
}

// RemoveLog indicates an expected call of RemoveLog.
func (mr *MockAttendanceRepositoryMockRecorder) RemoveLog(ctx, accountID, site, identity, date any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveLog", reflect.TypeOf((*MockAttendanceRepository)(nil).RemoveLog), ctx, accountID, site, identity, date)
}

// UpsertStats mocks base method.
func (m *MockAttendanceRepository) UpsertStats(ctx context.Context, accountID, site, identity string, result domain.StreakResult) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpsertStats", ctx, accountID, site, identity, result)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpsertStats indicates an expected call of UpsertStats.
func (mr *MockAttendanceRepositoryMockRecorder) UpsertStats(ctx, accountID, site, identity, result any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpsertStats", reflect.TypeOf((*MockAttendanceRepository)(nil).UpsertStats), ctx, accountID, site, identity, result)
}

// MockPolicyRepository is a mock of PolicyRepository interface.
type MockPolicyRepository struct {
	ctrl     *gomock.Controller
	recorder *MockPolicyRepositoryMockRecorder
	isgomock struct{}
}

// MockPolicyRepositoryMockRecorder is the mock recorder for MockPolicyRepository.
type MockPolicyRepositoryMockRecorder struct {
	mock *MockPolicyRepository
}

// NewMockPolicyRepository creates a new mock instance.
func NewMockPolicyRepository(ctrl *gomock.Controller) *MockPolicyRepository {
	mock := &MockPolicyRepository{ctrl: ctrl}
	mock.recorder = &MockPolicyRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPolicyRepository) EXPECT() *MockPolicyRepositoryMockRecorder {
	return m.recorder
}

// Get mocks base method.
func (m *MockPolicyRepository) Get(ctx context.Context, accountID, site, identity string) (*domain.AttendancePolicy, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, accountID, site, identity)
	ret0, _ := ret[0].(*domain.AttendancePolicy)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockPolicyRepositoryMockRecorder) Get(ctx, accountID, site, identity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockPolicyRepository)(nil).Get), ctx, accountID, site, identity)
}

// Put mocks base method.
func (m *MockPolicyRepository) Put(ctx context.Context, policy *domain.AttendancePolicy) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Put", ctx, policy)
	ret0, _ := ret[0].(error)
	return ret0
}

// Put indicates an expected call of Put.
func (mr *MockPolicyRepositoryMockRecorder) Put(ctx, policy any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Put", reflect.TypeOf((*MockPolicyRepository)(nil).Put), ctx, policy)
}

// MockRegistryRepository is a mock of RegistryRepository interface.
type MockRegistryRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRegistryRepositoryMockRecorder
	isgomock struct{}
}

// MockRegistryRepositoryMockRecorder is the mock recorder for MockRegistryRepository.
type MockRegistryRepositoryMockRecorder struct {
	mock *MockRegistryRepository
}

// NewMockRegistryRepository creates a new mock instance.
func NewMockRegistryRepository(ctrl *gomock.Controller) *MockRegistryRepository {
	mock := &MockRegistryRepository{ctrl: ctrl}
	mock.recorder = &MockRegistryRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRegistryRepository) EXPECT() *MockRegistryRepositoryMockRecorder {
	return m.recorder
}

// ListIdentities mocks base method.
func (m *MockRegistryRepository) ListIdentities(ctx context.Context, accountID string) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListIdentities", ctx, accountID)
	ret0, _ := ret[0].([]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListIdentities indicates an expected call of ListIdentities.
func (mr *MockRegistryRepositoryMockRecorder) ListIdentities(ctx, accountID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListIdentities", reflect.TypeOf((*MockRegistryRepository)(nil).ListIdentities), ctx, accountID)
}

// ListSites mocks base method.
func (m *MockRegistryRepository) ListSites(ctx context.Context, accountID string) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListSites", ctx, accountID)
	ret0, _ := ret[0].([]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListSites indicates an expected call of ListSites.
func (mr *MockRegistryRepositoryMockRecorder) ListSites(ctx, accountID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListSites", reflect.TypeOf((*MockRegistryRepository)(nil).ListSites), ctx, accountID)
}

// MockTransaction is a mock of Transaction interface.
type MockTransaction struct {
	ctrl     *gomock.Controller
	recorder *MockTransactionMockRecorder
	isgomock struct{}
}

// MockTransactionMockRecorder is the mock recorder for MockTransaction.
type MockTransactionMockRecorder struct {
	mock *MockTransaction
}

// NewMockTransaction creates a new mock instance.
func NewMockTransaction(ctrl *gomock.Controller) *MockTransaction {
	mock := &MockTransaction{ctrl: ctrl}
	mock.recorder = &MockTransactionMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTransaction) EXPECT() *MockTransactionMockRecorder {
	return m.recorder
}

// Commit mocks base method.
func (m *MockTransaction) Commit(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Commit", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

// Commit indicates an expected call of Commit.
func (mr *MockTransactionMockRecorder) Commit(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Commit", reflect.TypeOf((*MockTransaction)(nil).Commit), ctx)
}

// Rollback mocks base method.
func (m *MockTransaction) Rollback(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Rollback", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

// Rollback indicates an expected call of Rollback.
func (mr *MockTransactionMockRecorder) Rollback(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Rollback", reflect.TypeOf((*MockTransaction)(nil).Rollback), ctx)
}

// MockTransactionManager is a mock of TransactionManager interface.
type MockTransactionManager struct {
	ctrl     *gomock.Controller
	recorder *MockTransactionManagerMockRecorder
	isgomock struct{}
}

// MockTransactionManagerMockRecorder is the mock recorder for MockTransactionManager.
type MockTransactionManagerMockRecorder struct {
	mock *MockTransactionManager
}

// NewMockTransactionManager creates a new mock instance.
func NewMockTransactionManager(ctrl *gomock.Controller) *MockTransactionManager {
	mock := &MockTransactionManager{ctrl: ctrl}
	mock.recorder = &MockTransactionManagerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTransactionManager) EXPECT() *MockTransactionManagerMockRecorder {
	return m.recorder
}

// Begin mocks base method.
func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Begin", ctx)
	ret0, _ := ret[0].(usecase.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Begin indicates an expected call of Begin.
func (mr *MockTransactionManagerMockRecorder) Begin(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Begin", reflect.TypeOf((*MockTransactionManager)(nil).Begin), ctx)
}

// MockIDGenerator is a mock of IDGenerator interface.
type MockIDGenerator struct {
	ctrl     *gomock.Controller
	recorder *MockIDGeneratorMockRecorder
	isgomock struct{}
}

// MockIDGeneratorMockRecorder is the mock recorder for MockIDGenerator.
type MockIDGeneratorMockRecorder struct {
	mock *MockIDGenerator
}

// NewMockIDGenerator creates a new mock instance.
func NewMockIDGenerator(ctrl *gomock.Controller) *MockIDGenerator {
	mock := &MockIDGenerator{ctrl: ctrl}
	mock.recorder = &MockIDGeneratorMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockIDGenerator) EXPECT() *MockIDGeneratorMockRecorder {
	return m.recorder
}

// Generate mocks base method.
func (m *MockIDGenerator) Generate() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Generate")
	ret0, _ := ret[0].(string)
	return ret0
}

// Generate indicates an expected call of Generate.
func (mr *MockIDGeneratorMockRecorder) Generate() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Generate", reflect.TypeOf((*MockIDGenerator)(nil).Generate))
}

// MockStatsCache is a mock of StatsCache interface.
type MockStatsCache struct {
	ctrl     *gomock.Controller
	recorder *MockStatsCacheMockRecorder
	isgomock struct{}
}

// MockStatsCacheMockRecorder is the mock recorder for MockStatsCache.
type MockStatsCacheMockRecorder struct {
	mock *MockStatsCache
}

// NewMockStatsCache creates a new mock instance.
func NewMockStatsCache(ctrl *gomock.Controller) *MockStatsCache {
	mock := &MockStatsCache{ctrl: ctrl}
	mock.recorder = &MockStatsCacheMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStatsCache) EXPECT() *MockStatsCacheMockRecorder {
	return m.recorder
}

// Get mocks base method.
func (m *MockStatsCache) Get(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, accountID, site, identity)
	ret0, _ := ret[0].(*domain.StreakResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockStatsCacheMockRecorder) Get(ctx, accountID, site, identity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockStatsCache)(nil).Get), ctx, accountID, site, identity)
}

// Invalidate mocks base method.
func (m *MockStatsCache) Invalidate(ctx context.Context, accountID, site, identity string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Invalidate", ctx, accountID, site, identity)
	ret0, _ := ret[0].(error)
	return ret0
}

// Invalidate indicates an expected call of Invalidate.
func (mr *MockStatsCacheMockRecorder) Invalidate(ctx, accountID, site, identity any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Invalidate", reflect.TypeOf((*MockStatsCache)(nil).Invalidate), ctx, accountID, site, identity)
}

// Set mocks base method.
func (m *MockStatsCache) Set(ctx context.Context, accountID, site, identity string, result domain.StreakResult, ttl time.Duration) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Set", ctx, accountID, site, identity, result, ttl)
	ret0, _ := ret[0].(error)
	return ret0
}

// Set indicates an expected call of Set.
func (mr *MockStatsCacheMockRecorder) Set(ctx, accountID, site, identity, result, ttl any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Set", reflect.TypeOf((*MockStatsCache)(nil).Set), ctx, accountID, site, identity, result, ttl)
}

// MockRetrier is a mock of Retrier interface.
type MockRetrier struct {
	ctrl     *gomock.Controller
	recorder *MockRetrierMockRecorder
	isgomock struct{}
}

// MockRetrierMockRecorder is the mock recorder for MockRetrier.
type MockRetrierMockRecorder struct {
	mock *MockRetrier
}

// NewMockRetrier creates a new mock instance.
func NewMockRetrier(ctrl *gomock.Controller) *MockRetrier {
	mock := &MockRetrier{ctrl: ctrl}
	mock.recorder = &MockRetrierMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRetrier) EXPECT() *MockRetrierMockRecorder {
	return m.recorder
}

// Retry mocks base method.
func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Retry", ctx, operation)
	ret0, _ := ret[0].(error)
	return ret0
}

// Retry indicates an expected call of Retry.
func (mr *MockRetrierMockRecorder) Retry(ctx, operation any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Retry", reflect.TypeOf((*MockRetrier)(nil).Retry), ctx, operation)
}
