package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	recentPrefix = "recent:"
	recentTTL    = 30 * 24 * time.Hour
)

// RecentlyViewed keeps one capped list per visitor, most recent first.
type RecentlyViewed struct{ c *redis.Client }

func NewRecentlyViewed(c *redis.Client) *RecentlyViewed { return &RecentlyViewed{c: c} }

// Push moves hotelID to the head of the visitor's list and trims it to limit.
func (r *RecentlyViewed) Push(ctx context.Context, visitorID, hotelID string, limit int) ([]string, error) {
	key := recentPrefix + visitorID
	pipe := r.c.TxPipeline()
	pipe.LRem(ctx, key, 0, hotelID)
	pipe.LPush(ctx, key, hotelID)
	pipe.LTrim(ctx, key, 0, int64(limit-1))
	pipe.Expire(ctx, key, recentTTL)
	list := pipe.LRange(ctx, key, 0, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return list.Val(), nil
}

func (r *RecentlyViewed) List(ctx context.Context, visitorID string) ([]string, error) {
	ids, err := r.c.LRange(ctx, recentPrefix+visitorID, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return ids, nil
}
