package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/infrastructure/metrics"
)

// SyncUseCase bridges optimistic local edits with the authoritative store. It
// enforces at most one in-flight save per entry key and discards responses
// that carry a revision older than the entry's current one.
type SyncUseCase struct {
	journal  *JournalUseCase
	logger   *slog.Logger
	metrics  *metrics.Metrics
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewSyncUseCase creates a new SyncUseCase.
func NewSyncUseCase(journal *JournalUseCase, logger *slog.Logger, metrics *metrics.Metrics) *SyncUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncUseCase{
		journal:  journal,
		logger:   logger,
		metrics:  metrics,
		inflight: make(map[string]struct{}),
	}
}

// SaveResult reports what happened to a save request.
type SaveResult struct {
	Entry *domain.Entry
	// Dropped is true when a save for the same key was already in flight and
	// this request was discarded, not queued. That is not an error: the
	// outstanding request's result will apply.
	Dropped bool
}

// SaveEntry applies an entry update. A second save for a key while one is
// outstanding is dropped silently.
func (uc *SyncUseCase) SaveEntry(ctx context.Context, input UpdateEntryInput) (*SaveResult, error) {
	if !uc.acquire(input.EntryID) {
		uc.logger.Debug("save dropped, request already in flight", "entry_id", input.EntryID)
		if uc.metrics != nil {
			uc.metrics.SavesDropped.Inc()
		}
		return &SaveResult{Dropped: true}, nil
	}
	defer uc.release(input.EntryID)

	entry, err := uc.journal.UpdateEntry(ctx, input)
	if err != nil {
		return nil, err
	}

	return &SaveResult{Entry: entry}, nil
}

// Reconcile merges a remote read into the local view of an entry. A remote
// revision older than the local one is a stale response from an out-of-order
// network exchange and is discarded.
func (uc *SyncUseCase) Reconcile(local, remote *domain.Entry) (*domain.Entry, error) {
	if remote == nil {
		return local, nil
	}
	if local == nil {
		return remote, nil
	}
	if remote.Revision < local.Revision {
		uc.logger.Debug("stale response discarded",
			"entry_id", local.ID,
			"local_revision", local.Revision,
			"remote_revision", remote.Revision,
		)
		if uc.metrics != nil {
			uc.metrics.StaleResponses.Inc()
		}
		return local, domain.ErrStaleResponse
	}
	return remote, nil
}

// InFlight reports whether a save for the key is outstanding.
func (uc *SyncUseCase) InFlight(key string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	_, ok := uc.inflight[key]
	return ok
}

func (uc *SyncUseCase) acquire(key string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.inflight[key]; ok {
		return false
	}
	uc.inflight[key] = struct{}{}
	return true
}

func (uc *SyncUseCase) release(key string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inflight, key)
}
