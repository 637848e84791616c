package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/palearn-backend/internal/platform/envutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

// StatusEvent is one generation status change for a user.
type StatusEvent struct {
	UserID string  `json:"user_id"`
	Model  *string `json:"model"`
	Status string  `json:"status"`
}

type StatusBus interface {
	Publish(ctx context.Context, ev StatusEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev StatusEvent)) error
	Close() error
}

type statusBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewStatusBus(log *logger.Logger, rdb *goredis.Client) (StatusBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	ch := strings.TrimSpace(envutil.String("REDIS_CHANNEL", "plan_status"))
	return &statusBus{
		log:     log.With("service", "RedisStatusBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *statusBus) Publish(ctx context.Context, ev StatusEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis status bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *statusBus) StartForwarder(ctx context.Context, onEvent func(ev StatusEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis status bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var ev StatusEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad status payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

// Close leaves the shared client open; the owner closes it.
func (b *statusBus) Close() error {
	return nil
}
