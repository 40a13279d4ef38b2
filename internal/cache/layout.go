// Package cache keeps computed seat layouts in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// LayoutCache stores effective layouts per room and show date.  Every
// room has a version counter that is part of each key; Invalidate bumps
// it, which orphans all entries of the room at once.  Orphans expire
// with the TTL.
type LayoutCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewLayoutCache returns a cache backed by client.
func NewLayoutCache(client *redis.Client, cfg config.CacheConfig) *LayoutCache {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "layout"
	}
	return &LayoutCache{client: client, ttl: cfg.TTL, prefix: prefix}
}

// Get returns the cached layout of roomID on date together with the
// room version it was looked up under.  ok is false on a miss; the
// caller passes ver back to Set so that a layout computed before an
// Invalidate lands under the orphaned key.
func (c *LayoutCache) Get(ctx context.Context, roomID uint64, date model.ShowDate) (layout []model.LayoutSeat, ver int64, ok bool, err error) {
	ver, err = c.version(ctx, roomID)
	if err != nil {
		return nil, 0, false, err
	}
	key := c.entryKey(roomID, ver, date)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ver, false, nil
		}
		return nil, ver, false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, &layout); err != nil {
		return nil, ver, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return layout, ver, true, nil
}

// Set stores layout under version ver of the room, as returned by Get.
func (c *LayoutCache) Set(ctx context.Context, roomID uint64, date model.ShowDate, ver int64, layout []model.LayoutSeat) error {
	key := c.entryKey(roomID, ver, date)
	raw, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops every cached layout of roomID.
func (c *LayoutCache) Invalidate(ctx context.Context, roomID uint64) error {
	if err := c.client.Incr(ctx, c.versionKey(roomID)).Err(); err != nil {
		return fmt.Errorf("bump layout version of room %d: %w", roomID, err)
	}
	return nil
}

func (c *LayoutCache) versionKey(roomID uint64) string {
	return c.prefix + ":room:" + strconv.FormatUint(roomID, 10) + ":ver"
}

func (c *LayoutCache) version(ctx context.Context, roomID uint64) (int64, error) {
	ver, err := c.client.Get(ctx, c.versionKey(roomID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("get layout version of room %d: %w", roomID, err)
	}
	return ver, nil
}

func (c *LayoutCache) entryKey(roomID uint64, ver int64, date model.ShowDate) string {
	day := "base"
	if !date.IsZero() {
		day = date.String()
	}
	return fmt.Sprintf("%s:room:%d:v%d:%s", c.prefix, roomID, ver, day)
}
