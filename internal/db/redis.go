package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"jobmate/jobcollect/internal/model"
)

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Publisher is the subset of *redis.Client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes report events on a channel named after the event
// type, e.g. EVENT_REPORT_WRITTEN.
type RedisNotifier struct {
	rdb Publisher
}

// NewRedisNotifier returns a notifier backed by rdb.
func NewRedisNotifier(rdb Publisher) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// Notify publishes ev as JSON.
func (n *RedisNotifier) Notify(ctx context.Context, ev model.ReportEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	if err := n.rdb.Publish(ctx, ev.Type, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
