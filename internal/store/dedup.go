package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"classreminder/internal/reminder"
)

// dedupTTL keeps markers past the longest window plus scheduler drift.
const dedupTTL = 48 * time.Hour

// RedisDeduper records sent (schedule, window) pairs with SETNX so repeated
// scheduler invocations inside one tolerance band cannot double-send.
type RedisDeduper struct {
	client *redis.Client
	prefix string
}

// NewRedisDeduper builds a deduper keyed under the given prefix.
func NewRedisDeduper(client *redis.Client, prefix string) *RedisDeduper {
	if prefix == "" {
		prefix = "reminder:sent"
	}
	return &RedisDeduper{client: client, prefix: prefix}
}

// MarkIfNew atomically claims the pair; false means it was already sent.
func (d *RedisDeduper) MarkIfNew(ctx context.Context, scheduleID string, w reminder.Window) (bool, error) {
	return d.client.SetNX(ctx, d.key(scheduleID, w), 1, dedupTTL).Result()
}

// Unmark drops the marker so a failed send can be retried by the next
// invocation. A marker must only outlive the send it stands for.
func (d *RedisDeduper) Unmark(ctx context.Context, scheduleID string, w reminder.Window) error {
	return d.client.Del(ctx, d.key(scheduleID, w)).Err()
}

func (d *RedisDeduper) key(scheduleID string, w reminder.Window) string {
	return d.prefix + ":" + scheduleID + ":" + w.Label()
}
