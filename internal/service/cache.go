package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bookkeeping-web/internal/models"
)

// BalanceCache keeps short-lived trial balance results in Redis. Cache keys
// embed a per-organization version counter that every post/void bumps, so
// stale entries simply stop being addressed instead of needing invalidation
// scans. A nil client disables caching entirely.
type BalanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBalanceCache(rdb *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{rdb: rdb, ttl: ttl}
}

func (c *BalanceCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Bump advances the organization's ledger version. Called after every
// posting and void.
func (c *BalanceCache) Bump(orgID int64) {
	if !c.enabled() {
		return
	}
	ctx := context.Background()
	c.rdb.Incr(ctx, versionKey(orgID))
}

func (c *BalanceCache) version(orgID int64) int64 {
	if !c.enabled() {
		return 0
	}
	ctx := context.Background()
	v, err := c.rdb.Get(ctx, versionKey(orgID)).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *BalanceCache) GetTrialBalance(orgID int64, asOf time.Time) (*models.TrialBalance, bool) {
	if !c.enabled() {
		return nil, false
	}
	ctx := context.Background()
	data, err := c.rdb.Get(ctx, c.trialBalanceKey(orgID, asOf)).Bytes()
	if err != nil {
		return nil, false
	}
	var tb models.TrialBalance
	if err := json.Unmarshal(data, &tb); err != nil {
		return nil, false
	}
	return &tb, true
}

func (c *BalanceCache) SetTrialBalance(orgID int64, asOf time.Time, tb *models.TrialBalance) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(tb)
	if err != nil {
		return
	}
	ctx := context.Background()
	c.rdb.Set(ctx, c.trialBalanceKey(orgID, asOf), data, c.ttl)
}

func (c *BalanceCache) trialBalanceKey(orgID int64, asOf time.Time) string {
	return fmt.Sprintf("trialbalance:%d:%d:%s", orgID, c.version(orgID), asOf.Format("2006-01-02"))
}

func versionKey(orgID int64) string {
	return fmt.Sprintf("ledger:version:%d", orgID)
}
