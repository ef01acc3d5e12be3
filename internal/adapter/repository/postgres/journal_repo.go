package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hansu/dayledger/internal/domain"
	"github.com/hansu/dayledger/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

const entryColumns = `id, account_id, entry_date, annotation, slots,
	base_amount, total_amount, rate_amount,
	carried_amount, private_amount, total_charge, margin,
	entry_order, revision, created_at, updated_at`

// GetByAccountDate retrieves the full journal for one account and day, in
// order.
func (r *JournalRepository) GetByAccountDate(ctx context.Context, accountID string, date time.Time) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE account_id = $1 AND entry_date = $2
		ORDER BY entry_order`,
		accountID, dateToPgDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetByID retrieves a single entry.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE id = $1`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return entry, nil
}

// Create inserts a new entry inside the given transaction.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	slots, err := slotsToJSON(entry.Slots)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		entry.ID,
		entry.AccountID,
		dateToPgDate(entry.Date),
		entry.Annotation,
		slots,
		decimalToNumeric(entry.BaseAmount),
		decimalToNumeric(entry.TotalAmount),
		decimalToNumeric(entry.RateAmount),
		decimalToNumeric(entry.Derived.CarriedAmount),
		decimalToNumeric(entry.Derived.PrivateAmount),
		decimalToNumeric(entry.Derived.TotalCharge),
		decimalToNumeric(entry.Derived.Margin),
		entry.Order,
		entry.Revision,
		timeToPgTimestamptz(entry.CreatedAt),
		timeToPgTimestamptz(entry.UpdatedAt),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrDuplicateOrder
	}

	return err
}

// Update writes the entered fields and bumps updated_at. Derived fields are
// written separately by the cascade.
func (r *JournalRepository) Update(ctx context.Context, entry *domain.Entry) error {
	slots, err := slotsToJSON(entry.Slots)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE entries
		SET annotation = $2, slots = $3,
			base_amount = $4, total_amount = $5, rate_amount = $6,
			revision = $7, updated_at = $8
		WHERE id = $1`,
		entry.ID,
		entry.Annotation,
		slots,
		decimalToNumeric(entry.BaseAmount),
		decimalToNumeric(entry.TotalAmount),
		decimalToNumeric(entry.RateAmount),
		entry.Revision,
		timeToPgTimestamptz(entry.UpdatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// UpdateDerived persists the cascade output for one entry.
func (r *JournalRepository) UpdateDerived(ctx context.Context, entry *domain.Entry) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE entries
		SET carried_amount = $2, private_amount = $3, total_charge = $4, margin = $5
		WHERE id = $1`,
		entry.ID,
		decimalToNumeric(entry.Derived.CarriedAmount),
		decimalToNumeric(entry.Derived.PrivateAmount),
		decimalToNumeric(entry.Derived.TotalCharge),
		decimalToNumeric(entry.Derived.Margin),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// UpdateOrders applies a bulk reorder inside the given transaction.
func (r *JournalRepository) UpdateOrders(ctx context.Context, tx usecase.Transaction, orders []domain.OrderChange) error {
	pgxTx := tx.(*Tx).PgxTx()

	for _, oc := range orders {
		tag, err := pgxTx.Exec(ctx,
			`UPDATE entries SET entry_order = $2 WHERE id = $1`,
			oc.EntryID, oc.Order)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrEntryNotFound
		}
	}

	return nil
}

// Delete removes an entry.
func (r *JournalRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	var (
		entry   domain.Entry
		date    pgtype.Date
		slots   []byte
		base    pgtype.Numeric
		total   pgtype.Numeric
		rate    pgtype.Numeric
		carried pgtype.Numeric
		private pgtype.Numeric
		charge  pgtype.Numeric
		margin  pgtype.Numeric
		created pgtype.Timestamptz
		updated pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID, &entry.AccountID, &date, &entry.Annotation, &slots,
		&base, &total, &rate,
		&carried, &private, &charge, &margin,
		&entry.Order, &entry.Revision, &created, &updated,
	)
	if err != nil {
		return nil, err
	}

	entry.Date = date.Time
	entry.BaseAmount = numericToDecimal(base)
	entry.TotalAmount = numericToDecimal(total)
	entry.RateAmount = numericToDecimal(rate)
	entry.Derived = domain.Derived{
		CarriedAmount: numericToDecimal(carried),
		PrivateAmount: numericToDecimal(private),
		TotalCharge:   numericToDecimal(charge),
		Margin:        numericToDecimal(margin),
	}
	entry.CreatedAt = created.Time
	entry.UpdatedAt = updated.Time

	if entry.Slots, err = slotsFromJSON(slots); err != nil {
		return nil, err
	}

	return &entry, nil
}

type slotRecord struct {
	Identity string          `json:"identity"`
	Site     string          `json:"site"`
	Deposit  decimal.Decimal `json:"deposit"`
	Withdraw decimal.Decimal `json:"withdraw"`
	Attended bool            `json:"attended"`
}

func slotsToJSON(slots [domain.SlotCount]domain.Slot) ([]byte, error) {
	records := make([]slotRecord, domain.SlotCount)
	for i, s := range slots {
		records[i] = slotRecord(s)
	}
	return json.Marshal(records)
}

func slotsFromJSON(data []byte) ([domain.SlotCount]domain.Slot, error) {
	var slots [domain.SlotCount]domain.Slot

	var records []slotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return slots, err
	}

	for i, rec := range records {
		if i >= domain.SlotCount {
			break
		}
		slots[i] = domain.Slot(rec)
	}

	return slots, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func dateToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}
