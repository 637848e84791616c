package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/palearn-backend/internal/modules/planning/materials"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

const materialKeyPrefix = "palearn:materials:"

type MaterialCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewMaterialCache(log *logger.Logger, rdb *goredis.Client, ttl time.Duration) *MaterialCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &MaterialCache{log: log.With("service", "MaterialCache"), rdb: rdb, ttl: ttl}
}

// MaterialKey normalizes topic so case and spacing variants share an entry.
func MaterialKey(topic string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(topic), " "))
	sum := sha256.Sum256([]byte(norm))
	return materialKeyPrefix + hex.EncodeToString(sum[:16])
}

func (c *MaterialCache) Get(ctx context.Context, topic string) (materials.Result, bool) {
	if c == nil || c.rdb == nil {
		return materials.Result{}, false
	}
	raw, err := c.rdb.Get(ctx, MaterialKey(topic)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("material cache get failed", "error", err)
		}
		return materials.Result{}, false
	}
	var res materials.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		c.log.Warn("material cache entry unreadable", "error", err)
		return materials.Result{}, false
	}
	return res, true
}

func (c *MaterialCache) Set(ctx context.Context, topic string, res materials.Result) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, MaterialKey(topic), raw, c.ttl).Err(); err != nil {
		c.log.Warn("material cache set failed", "error", err)
	}
}
