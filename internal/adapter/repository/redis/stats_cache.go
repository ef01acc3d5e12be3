package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hansu/dayledger/internal/domain"
)

// StatsCache implements usecase.StatsCache using Redis. A miss is not an
// error; Get returns a nil result instead.
type StatsCache struct {
	client *redis.Client
	prefix string
}

// NewStatsCache creates a new StatsCache.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{
		client: client,
		prefix: "attendance:stats:",
	}
}

type statsRecord struct {
	LastLogged      string `json:"last_logged"`
	ConsecutiveDays int    `json:"consecutive_days"`
	TotalDays       int    `json:"total_days"`
}

// Get retrieves cached stats for a (site, identity).
func (c *StatsCache) Get(ctx context.Context, accountID, site, identity string) (*domain.StreakResult, error) {
	data, err := c.client.Get(ctx, c.key(accountID, site, identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec statsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}

	result := domain.StreakResult{
		ConsecutiveDays: rec.ConsecutiveDays,
		TotalDays:       rec.TotalDays,
	}
	if rec.LastLogged != "" {
		if result.LastLogged, err = domain.ParseDate(rec.LastLogged); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// Set stores stats with a TTL.
func (c *StatsCache) Set(ctx context.Context, accountID, site, identity string, result domain.StreakResult, ttl time.Duration) error {
	rec := statsRecord{
		ConsecutiveDays: result.ConsecutiveDays,
		TotalDays:       result.TotalDays,
	}
	if !result.LastLogged.IsZero() {
		rec.LastLogged = domain.FormatDate(result.LastLogged)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(accountID, site, identity), data, ttl).Err()
}

// Invalidate removes cached stats for a (site, identity).
func (c *StatsCache) Invalidate(ctx context.Context, accountID, site, identity string) error {
	return c.client.Del(ctx, c.key(accountID, site, identity)).Err()
}

func (c *StatsCache) key(accountID, site, identity string) string {
	return c.prefix + accountID + ":" + site + ":" + identity
}
