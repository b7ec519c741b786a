package data

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/moviediary/backend/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

type pageCache struct {
	data *Data
	log  *log.Helper
}

// NewPageCache creates the cursor page cache
func NewPageCache(data *Data, logger log.Logger) biz.PageCache {
	return &pageCache{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (c *pageCache) Get(ctx context.Context, key string) ([]biz.MovieProjection, bool, error) {
	cached, err := c.data.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		pageCacheRequests.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, cacheErr(err)
	}

	var items []biz.MovieProjection
	if err := json.Unmarshal(cached, &items); err != nil {
		// a corrupt entry is rewritten by the caller
		c.log.Warnf("discarding undecodable page cache entry %s: %v", key, err)
		pageCacheRequests.WithLabelValues("miss").Inc()
		return nil, false, nil
	}

	c.log.Debugf("cache hit for %s", key)
	pageCacheRequests.WithLabelValues("hit").Inc()
	return items, true, nil
}

func (c *pageCache) Set(ctx context.Context, key string, items []biz.MovieProjection, ttl time.Duration) error {
	if items == nil {
		items = []biz.MovieProjection{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := c.data.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		return cacheErr(err)
	}
	return nil
}
