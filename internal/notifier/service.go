// Package notifier feeds the admin/manager dashboards: it consumes the order
// event topics and keeps per-status badge counters plus a recent-activity
// feed in Redis. Best-effort by design; a lost update only dims a badge.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/dermawan/storefront/internal/kafka"
	"github.com/dermawan/storefront/internal/orders"
	"github.com/dermawan/storefront/internal/redisx"
)

const recentFeedLen = 100

type Service struct {
	Redis *redis.Client
}

type activityEntry struct {
	OrderID string        `json:"order_id"`
	Number  string        `json:"number"`
	Status  orders.Status `json:"status"`
	At      time.Time     `json:"at"`
}

// Handle is mounted as the consumer handler for both order topics.
func (s *Service) Handle(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// Dedup by event_id; replays and rebalances must not double-count badges.
	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}

	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.record(ctx, activityEntry{
			OrderID: p.Order.ID,
			Number:  p.Order.Number,
			Status:  p.Order.Status,
			At:      env.OccurredAt,
		}); err != nil {
			return err
		}
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.record(ctx, activityEntry{
			OrderID: p.OrderID,
			Number:  p.Number,
			Status:  p.Status,
			At:      env.OccurredAt,
		}); err != nil {
			return err
		}
	default:
		slog.Debug("ignoring event", "event_type", env.EventType)
		return nil
	}

	return s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
}

func (s *Service) record(ctx context.Context, e activityEntry) error {
	badge := fmt.Sprintf(redisx.KeyDashBadge, e.Status)
	if err := s.Redis.Incr(ctx, badge).Err(); err != nil {
		return err
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := s.Redis.Pipeline()
	pipe.LPush(ctx, redisx.KeyDashRecent, b)
	pipe.LTrim(ctx, redisx.KeyDashRecent, 0, recentFeedLen-1)
	_, err = pipe.Exec(ctx)
	return err
}
