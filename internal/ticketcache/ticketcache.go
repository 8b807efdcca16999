// Package ticketcache keeps recently created tickets in Redis for a bounded
// window. The workflow backend indexes new tickets with a noticeable lag, so
// for up to two hours after creation the authoritative listing may not show
// a ticket yet; entries cached here get merged into listings until Redis
// expires them.
package ticketcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"support-desk-backend/internal/model"
)

const DefaultTTL = 2 * time.Hour

const keyPrefix = "support:tickets:recent:"

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Put(ctx context.Context, t model.Ticket) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("ticketcache: encode %s: %w", t.ID, err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+t.ID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("ticketcache: store %s: %w", t.ID, err)
	}
	return nil
}

// List returns every unexpired cached ticket. Entries that fail to decode
// are deleted rather than surfaced; a poisoned entry must not wedge listing.
func (c *Cache) List(ctx context.Context) ([]model.Ticket, error) {
	keys, err := c.keys(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Ticket, 0, len(keys))
	for _, key := range keys {
		raw, err := c.rdb.Get(ctx, key).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("ticketcache: read %s: %w", key, err)
		}
		var t model.Ticket
		if err := json.Unmarshal(raw, &t); err != nil {
			c.rdb.Del(ctx, key)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *Cache) Remove(ctx context.Context, id string) error {
	if err := c.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("ticketcache: remove %s: %w", id, err)
	}
	return nil
}

// Clear drops the whole cache. Called when the authoritative listing shows
// the backend has caught up and local copies would only shadow fresher data.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("ticketcache: clear: %w", err)
	}
	return nil
}

func (c *Cache) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("ticketcache: scan: %w", err)
	}
	return keys, nil
}
