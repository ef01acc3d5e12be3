package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hansu/dayledger/internal/annotation"
	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/infrastructure/metrics"
)

// AttendanceRecorder receives deposit changes that may add or retract
// attendance logs. Implemented by AttendanceUseCase.
type AttendanceRecorder interface {
	ApplyDepositChange(ctx context.Context, input DepositChangeInput) error
}

// JournalUseCase owns the daily ledger cascade: entry CRUD, reordering, slot
// swaps and the strict left-to-right recomputation that follows every edit.
type JournalUseCase struct {
	txManager    TransactionManager
	journalRepo  JournalRepository
	registryRepo RegistryRepository
	attendance   AttendanceRecorder
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewJournalUseCase creates a new JournalUseCase.
func NewJournalUseCase(
	txManager TransactionManager,
	journalRepo JournalRepository,
	registryRepo RegistryRepository,
	attendance AttendanceRecorder,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *JournalUseCase {
	return &JournalUseCase{
		txManager:    txManager,
		journalRepo:  journalRepo,
		registryRepo: registryRepo,
		attendance:   attendance,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// JournalView is an ordered journal plus its aggregate margin.
type JournalView struct {
	Entries   []*domain.Entry
	MarginSum decimal.Decimal
}

// GetJournal returns the ordered entries for one (account, date).
func (uc *JournalUseCase) GetJournal(ctx context.Context, accountID string, date time.Time) (*JournalView, error) {
	entries, err := uc.journalRepo.GetByAccountDate(ctx, accountID, date)
	if err != nil {
		return nil, err
	}

	domain.SortEntries(entries)

	return &JournalView{
		Entries:   entries,
		MarginSum: domain.MarginSum(entries),
	}, nil
}

// EntryInput carries the entered fields of a ledger entry.
type EntryInput struct {
	AccountID   string
	Date        time.Time
	Annotation  string
	Slots       [domain.SlotCount]domain.Slot
	BaseAmount  decimal.Decimal
	TotalAmount decimal.Decimal
	RateAmount  decimal.Decimal
	Order       *int
}

// CreateEntry validates, persists and cascades a new entry, then feeds its
// deposits into attendance.
func (uc *JournalUseCase) CreateEntry(ctx context.Context, input EntryInput) (*domain.Entry, error) {
	sites, identities, err := uc.loadRegistry(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateSlots(input.Slots, sites, identities); err != nil {
		return nil, err
	}

	entries, err := uc.journalRepo.GetByAccountDate(ctx, input.AccountID, input.Date)
	if err != nil {
		return nil, err
	}
	domain.SortEntries(entries)

	order := nextOrder(entries)
	if input.Order != nil {
		order = *input.Order
		for _, e := range entries {
			if e.Order == order {
				return nil, domain.ErrDuplicateOrder
			}
		}
	}

	now := time.Now().UTC()
	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		AccountID:   input.AccountID,
		Date:        input.Date,
		Order:       order,
		Slots:       input.Slots,
		Annotation:  input.Annotation,
		BaseAmount:  input.BaseAmount,
		TotalAmount: input.TotalAmount,
		RateAmount:  input.RateAmount,
		Revision:    1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.journalRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	entries = insertSorted(entries, entry)

	if err := uc.cascadeFrom(ctx, sites, entries, domain.IndexOf(entries, entry.ID)); err != nil {
		return entry, err
	}

	uc.recordDeposits(ctx, entries, nil, entry)

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.Inc()
	}

	return entry, nil
}

// UpdateEntryInput identifies an entry and carries its replacement fields.
type UpdateEntryInput struct {
	EntryID string
	// Revision is the revision the edit was based on. A non-zero value that no
	// longer matches the stored entry rejects the save as a lost update.
	Revision int64
	Fields   EntryInput
}

// UpdateEntry applies an edit, bumps the revision, cascades from the edited
// index and feeds deposit changes into attendance.
func (uc *JournalUseCase) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.Entry, error) {
	entry, err := uc.journalRepo.GetByID(ctx, input.EntryID)
	if err != nil {
		return nil, err
	}

	// Revision 0 means the caller tracked none; such saves always apply.
	if input.Revision != 0 && input.Revision != entry.Revision {
		return nil, domain.ErrRevisionConflict
	}

	sites, identities, err := uc.loadRegistry(ctx, entry.AccountID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateSlots(input.Fields.Slots, sites, identities); err != nil {
		return nil, err
	}

	before := *entry

	entry.Slots = input.Fields.Slots
	entry.Annotation = input.Fields.Annotation
	entry.BaseAmount = input.Fields.BaseAmount
	entry.TotalAmount = input.Fields.TotalAmount
	entry.RateAmount = input.Fields.RateAmount
	entry.Revision++
	entry.UpdatedAt = time.Now().UTC()

	if err := uc.journalRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	entries, err := uc.journalRepo.GetByAccountDate(ctx, entry.AccountID, entry.Date)
	if err != nil {
		return nil, err
	}
	domain.SortEntries(entries)

	if err := uc.cascadeFrom(ctx, sites, entries, domain.IndexOf(entries, entry.ID)); err != nil {
		return entry, err
	}

	uc.recordDeposits(ctx, entries, &before, entry)

	return entry, nil
}

// DeleteEntry removes an entry, retracts any attendance log it alone caused
// and cascades the remaining entries.
func (uc *JournalUseCase) DeleteEntry(ctx context.Context, id string) error {
	entry, err := uc.journalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	entries, err := uc.journalRepo.GetByAccountDate(ctx, entry.AccountID, entry.Date)
	if err != nil {
		return err
	}
	domain.SortEntries(entries)

	idx := domain.IndexOf(entries, id)

	// Retraction happens only for slots this entry attributed: a recharge
	// duplicate never owned the log in the first place.
	for i, slot := range entry.Slots {
		if slot.IsEmpty() || !slot.Deposit.IsPositive() {
			continue
		}
		if domain.IsRecharge(entries, entry.ID, i) {
			continue
		}
		uc.notifyDeposit(ctx, entries, entry, i, slot, decimal.Zero)
	}

	if err := uc.journalRepo.Delete(ctx, id); err != nil {
		return err
	}

	if idx >= 0 {
		entries = append(entries[:idx], entries[idx+1:]...)
	}

	if uc.metrics != nil {
		uc.metrics.EntriesDeleted.Inc()
	}

	if idx < len(entries) {
		sites, _, err := uc.loadRegistry(ctx, entry.AccountID)
		if err != nil {
			return err
		}
		return uc.cascadeFrom(ctx, sites, entries, idx)
	}

	return nil
}

// Reorder persists a bulk (id, order) change atomically and re-cascades the
// whole journal: a moved entry invalidates every carried amount after it.
func (uc *JournalUseCase) Reorder(ctx context.Context, accountID string, date time.Time, changes []domain.OrderChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.journalRepo.UpdateOrders(ctx, tx, changes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	entries, err := uc.journalRepo.GetByAccountDate(ctx, accountID, date)
	if err != nil {
		return err
	}
	domain.SortEntries(entries)

	sites, err := uc.registryRepo.ListSites(ctx, accountID)
	if err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.JournalReorders.Inc()
	}

	return uc.cascadeFrom(ctx, sites, entries, 0)
}

// SwapSlotsInput names the two slots to exchange.
type SwapSlotsInput struct {
	EntryA string
	SlotA  int
	EntryB string
	SlotB  int
}

// SwapSlots exchanges two slots as one coordinated pair of edits and cascades
// the affected entries.
func (uc *JournalUseCase) SwapSlots(ctx context.Context, input SwapSlotsInput) error {
	if input.SlotA < 0 || input.SlotA >= domain.SlotCount ||
		input.SlotB < 0 || input.SlotB >= domain.SlotCount {
		return domain.ErrInvalidSlotIndex
	}

	a, err := uc.journalRepo.GetByID(ctx, input.EntryA)
	if err != nil {
		return err
	}

	b := a
	if input.EntryB != input.EntryA {
		b, err = uc.journalRepo.GetByID(ctx, input.EntryB)
		if err != nil {
			return err
		}
		// A swap is scoped to one journal; entries from different days or
		// accounts would leave the other journal's cascade stale.
		if b.AccountID != a.AccountID || !domain.SameDay(b.Date, a.Date) {
			return domain.ErrCrossJournalSwap
		}
	}

	beforeA, beforeB := *a, *b

	a.Slots[input.SlotA], b.Slots[input.SlotB] = b.Slots[input.SlotB], a.Slots[input.SlotA]

	now := time.Now().UTC()
	a.Revision++
	a.UpdatedAt = now
	if err := uc.journalRepo.Update(ctx, a); err != nil {
		return err
	}
	if b != a {
		b.Revision++
		b.UpdatedAt = now
		if err := uc.journalRepo.Update(ctx, b); err != nil {
			return err
		}
	}

	entries, err := uc.journalRepo.GetByAccountDate(ctx, a.AccountID, a.Date)
	if err != nil {
		return err
	}
	domain.SortEntries(entries)

	sites, err := uc.registryRepo.ListSites(ctx, a.AccountID)
	if err != nil {
		return err
	}

	from := domain.IndexOf(entries, a.ID)
	if b != a {
		if bi := domain.IndexOf(entries, b.ID); bi >= 0 && bi < from {
			from = bi
		}
	}

	if err := uc.cascadeFrom(ctx, sites, entries, from); err != nil {
		return err
	}

	uc.recordDeposits(ctx, entries, &beforeA, a)
	if b != a {
		uc.recordDeposits(ctx, entries, &beforeB, b)
	}

	return nil
}

// cascadeFrom recomputes entries strictly left to right starting at index.
// Each step's persisted output feeds the next step; on a persistence failure
// the cascade aborts and downstream entries keep stale derived values.
func (uc *JournalUseCase) cascadeFrom(ctx context.Context, knownSites []string, entries []*domain.Entry, index int) error {
	if index < 0 {
		index = 0
	}

	start := time.Now()

	for i := index; i < len(entries); i++ {
		var prev *domain.Entry
		if i > 0 {
			prev = entries[i-1]
		}

		ann := annotation.Decode(entries[i].Annotation, knownSites)
		entries[i].Derived = domain.Recompute(entries[i], prev, ann)

		if err := uc.journalRepo.UpdateDerived(ctx, entries[i]); err != nil {
			if uc.metrics != nil {
				uc.metrics.CascadeAborts.Inc()
			}
			return &domain.CascadeAbortError{Err: err, EntryID: entries[i].ID, Index: i}
		}
	}

	if uc.metrics != nil {
		uc.metrics.CascadeRuns.Inc()
		uc.metrics.CascadeDuration.Observe(time.Since(start).Seconds())
	}

	return nil
}

// recordDeposits diffs the slots of an edited entry and forwards every
// deposit change to attendance.
func (uc *JournalUseCase) recordDeposits(ctx context.Context, entries []*domain.Entry, before, after *domain.Entry) {
	if uc.attendance == nil {
		return
	}

	for i := 0; i < domain.SlotCount; i++ {
		newSlot := after.Slots[i]

		var oldSlot domain.Slot
		if before != nil {
			oldSlot = before.Slots[i]
		}

		slotChanged := oldSlot.Site != newSlot.Site || oldSlot.Identity != newSlot.Identity
		depositChanged := !oldSlot.Deposit.Equal(newSlot.Deposit)

		if !slotChanged && !depositChanged {
			continue
		}

		// A replaced (identity, site) pair loses its deposit for the day.
		if slotChanged && !oldSlot.IsEmpty() {
			uc.notifyDeposit(ctx, entries, after, i, oldSlot, decimal.Zero)
		}

		if !newSlot.IsEmpty() {
			uc.notifyDeposit(ctx, entries, after, i, newSlot, newSlot.Deposit)
		}
	}
}

func (uc *JournalUseCase) notifyDeposit(ctx context.Context, entries []*domain.Entry, entry *domain.Entry, slotIndex int, slot domain.Slot, deposit decimal.Decimal) {
	_ = uc.attendance.ApplyDepositChange(ctx, DepositChangeInput{
		AccountID: entry.AccountID,
		Site:      slot.Site,
		Identity:  slot.Identity,
		Date:      entry.Date,
		Deposit:   deposit,
		EntryID:   entry.ID,
		SlotIndex: slotIndex,
		Journal:   entries,
	})
}

func (uc *JournalUseCase) loadRegistry(ctx context.Context, accountID string) (sites, identities []string, err error) {
	sites, err = uc.registryRepo.ListSites(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	identities, err = uc.registryRepo.ListIdentities(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	return sites, identities, nil
}

func nextOrder(entries []*domain.Entry) int {
	order := 0
	for _, e := range entries {
		if e.Order >= order {
			order = e.Order + 1
		}
	}
	return order
}

func insertSorted(entries []*domain.Entry, entry *domain.Entry) []*domain.Entry {
	entries = append(entries, entry)
	domain.SortEntries(entries)
	return entries
}
