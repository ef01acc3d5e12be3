package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/usecase"
	"github.com/hansu/dayledger/internal/usecase/mocks"
)

func TestGetJournalPropagatesRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dbErr := errors.New("connection reset")
	journalRepo := mocks.NewMockJournalRepository(ctrl)
	journalRepo.EXPECT().GetByAccountDate(gomock.Any(), "acct-1", testDate).Return(nil, dbErr)

	uc := usecase.NewJournalUseCase(
		mocks.NewMockTransactionManager(ctrl),
		journalRepo,
		mocks.NewMockRegistryRepository(ctrl),
		nil,
		mocks.NewMockIDGenerator(ctrl),
		nil,
	)

	if _, err := uc.GetJournal(context.Background(), "acct-1", testDate); !errors.Is(err, dbErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestCreateEntryRollsBackOnPersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	journalRepo := mocks.NewMockJournalRepository(ctrl)
	registryRepo := mocks.NewMockRegistryRepository(ctrl)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)
	idGen := mocks.NewMockIDGenerator(ctrl)

	dbErr := errors.New("insert failed")

	registryRepo.EXPECT().ListSites(gomock.Any(), "acct-1").Return(testSites, nil)
	registryRepo.EXPECT().ListIdentities(gomock.Any(), "acct-1").Return(testIdentities, nil)
	journalRepo.EXPECT().GetByAccountDate(gomock.Any(), "acct-1", testDate).Return(nil, nil)
	idGen.EXPECT().Generate().Return("entry-1")
	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	journalRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(dbErr)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewJournalUseCase(txManager, journalRepo, registryRepo, nil, idGen, nil)

	_, err := uc.CreateEntry(context.Background(), usecase.EntryInput{AccountID: "acct-1", Date: testDate})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected persist error, got %v", err)
	}
}

func TestReorderRollsBackOnOrderUpdateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	journalRepo := mocks.NewMockJournalRepository(ctrl)
	txManager := mocks.NewMockTransactionManager(ctrl)
	tx := mocks.NewMockTransaction(ctrl)

	dbErr := errors.New("unique violation")
	changes := []domain.OrderChange{{EntryID: "e1", Order: 1}}

	txManager.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	journalRepo.EXPECT().UpdateOrders(gomock.Any(), tx, changes).Return(dbErr)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	uc := usecase.NewJournalUseCase(txManager, journalRepo, mocks.NewMockRegistryRepository(ctrl), nil, mocks.NewMockIDGenerator(ctrl), nil)

	if err := uc.Reorder(context.Background(), "acct-1", testDate, changes); !errors.Is(err, dbErr) {
		t.Fatalf("expected order update error, got %v", err)
	}
}
