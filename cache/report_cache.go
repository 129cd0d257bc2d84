package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"pollster-backend/models"

	"github.com/redis/go-redis/v9"
)

// Expiry jitter keeps a burst of cached reports from expiring together
const jitterFactor = 0.2

// ReportCache stores rendered poll reports with a short TTL. Tallies are
// always computed on read from the database; the cache only absorbs
// repeated reads of the same report within the TTL window.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a report cache with the given base TTL
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

func reportKey(pollID uint) string {
	return fmt.Sprintf("poll:%d:report", pollID)
}

// Get returns the cached report for the poll, or ErrCacheMiss
func (c *ReportCache) Get(ctx context.Context, pollID uint) (*models.PollReport, error) {
	if c.client == nil {
		return nil, ErrRedisNotAvailable
	}

	data, err := c.client.Get(ctx, reportKey(pollID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var report models.PollReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Set stores the report with a jittered TTL
func (c *ReportCache) Set(ctx context.Context, pollID uint, report *models.PollReport) error {
	if c.client == nil {
		return ErrRedisNotAvailable
	}

	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	jitter := time.Duration(rand.Float64() * jitterFactor * float64(c.ttl))
	return c.client.Set(ctx, reportKey(pollID), data, c.ttl+jitter).Err()
}

// Invalidate drops the cached report for the poll
func (c *ReportCache) Invalidate(ctx context.Context, pollID uint) error {
	if c.client == nil {
		return ErrRedisNotAvailable
	}
	return c.client.Del(ctx, reportKey(pollID)).Err()
}
