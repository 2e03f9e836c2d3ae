// Package queue provides the Redis-backed event queue and refresh
// tracker. Webhook delivery workers consume the queue out of process.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/regctl/regctl/internal/core/domain"
	"github.com/regctl/regctl/internal/core/ports"
)

const (
	webhookQueueKey  = "regctl:webhooks"
	refreshKeyPrefix = "regctl:refresh:"

	// Refresh stamps only matter within the staleness window; keep them
	// a little longer so a just-expired stamp is still observable.
	refreshStampTTL = 2 * time.Hour
)

type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(addr string, password string, db int) *RedisQueue {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisQueue{client: rdb}
}

// NewRedisQueueWithClient wraps an existing client, used by tests.
func NewRedisQueueWithClient(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

var _ ports.EventQueue = (*RedisQueue)(nil)
var _ ports.RefreshTracker = (*RedisQueue)(nil)

// Enqueue pushes the event onto the webhook delivery list. Consumers
// BRPOP from the other end, so delivery order follows enqueue order.
func (q *RedisQueue) Enqueue(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, webhookQueueKey, payload).Err()
}

// LastRefresh returns the time the domain's provider details were last
// fetched. A missing or unparseable stamp reads as never refreshed.
func (q *RedisQueue) LastRefresh(ctx context.Context, domainID string) (time.Time, bool) {
	val, err := q.client.Get(ctx, refreshKeyPrefix+domainID).Result()
	if err != nil {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (q *RedisQueue) MarkRefreshed(ctx context.Context, domainID string) {
	q.client.Set(ctx, refreshKeyPrefix+domainID, time.Now().UTC().Format(time.RFC3339), refreshStampTTL)
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
