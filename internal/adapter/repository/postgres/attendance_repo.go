package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hansu/dayledger/internal/domain"
)

// AttendanceRepository implements usecase.AttendanceRepository.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// InsertLog records one attendance day. Inserting a day that is already
// logged is a no-op.
func (r *AttendanceRepository) InsertLog(ctx context.Context, log *domain.AttendanceLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendance_log (account_id, site, identity, log_date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, site, identity, log_date) DO NOTHING`,
		log.AccountID, log.Site, log.Identity,
		dateToPgDate(log.Date), timeToPgTimestamptz(log.CreatedAt))

	return err
}

// RemoveLog removes one attendance day. Removing an unlogged day is a no-op.
func (r *AttendanceRepository) RemoveLog(ctx context.Context, accountID, site, identity string, date time.Time) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM attendance_log
		WHERE account_id = $1 AND site = $2 AND identity = $3 AND log_date = $4`,
		accountID, site, identity, dateToPgDate(date))

	return err
}

// ListDates returns every logged date for a (site, identity), newest first.
func (r *AttendanceRepository) ListDates(ctx context.Context, accountID, site, identity string) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT log_date
		FROM attendance_log
		WHERE account_id = $1 AND site = $2 AND identity = $3
		ORDER BY log_date DESC`,
		accountID, site, identity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d pgtype.Date
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d.Time)
	}

	return dates, rows.Err()
}

// UpsertStats writes the derived streak snapshot for a (site, identity).
func (r *AttendanceRepository) UpsertStats(ctx context.Context, accountID, site, identity string, result domain.StreakResult) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendance_stats (account_id, site, identity, last_logged, consecutive_days, total_days, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (account_id, site, identity) DO UPDATE
		SET last_logged = EXCLUDED.last_logged,
			consecutive_days = EXCLUDED.consecutive_days,
			total_days = EXCLUDED.total_days,
			updated_at = now()`,
		accountID, site, identity,
		dateToPgDate(result.LastLogged), result.ConsecutiveDays, result.TotalDays)

	return err
}

// GetStats reads the streak snapshot for a (site, identity).
func (r *AttendanceRepository) GetStats(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error) {
	var (
		lastLogged pgtype.Date
		result     domain.StreakResult
	)

	err := r.pool.QueryRow(ctx, `
		SELECT last_logged, consecutive_days, total_days
		FROM attendance_stats
		WHERE account_id = $1 AND site = $2 AND identity = $3`,
		accountID, site, identity,
	).Scan(&lastLogged, &result.ConsecutiveDays, &result.TotalDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatsNotFound
		}
		return nil, err
	}

	result.LastLogged = lastLogged.Time

	return &result, nil
}
