package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistryRepository implements usecase.RegistryRepository over the site and
// identity registry tables.
type RegistryRepository struct {
	pool *pgxpool.Pool
}

// NewRegistryRepository creates a new RegistryRepository.
func NewRegistryRepository(pool *pgxpool.Pool) *RegistryRepository {
	return &RegistryRepository{pool: pool}
}

// ListSites returns the registered site names for an account.
func (r *RegistryRepository) ListSites(ctx context.Context, accountID string) ([]string, error) {
	return r.listNames(ctx, `SELECT name FROM sites WHERE account_id = $1 ORDER BY name`, accountID)
}

// ListIdentities returns the registered identity names for an account.
func (r *RegistryRepository) ListIdentities(ctx context.Context, accountID string) ([]string, error) {
	return r.listNames(ctx, `SELECT name FROM identities WHERE account_id = $1 ORDER BY name`, accountID)
}

func (r *RegistryRepository) listNames(ctx context.Context, query, accountID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
