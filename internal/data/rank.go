package data

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/moviediary/backend/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const popularRankKey = "rank:movies:popular"

// rankCache keeps the popularity ranking in a Redis sorted set whose
// members are decimal movie ids.
type rankCache struct {
	data *Data
	key  string
	log  *log.Helper
}

// NewRankCache creates the popularity ranking cache
func NewRankCache(data *Data, logger log.Logger) biz.RankCache {
	return &rankCache{
		data: data,
		key:  popularRankKey,
		log:  log.NewHelper(logger),
	}
}

func (c *rankCache) Increment(ctx context.Context, movieID int64, delta float64) error {
	if err := c.data.rdb.ZIncrBy(ctx, c.key, delta, member(movieID)).Err(); err != nil {
		return cacheErr(err)
	}
	return nil
}

// IncrementExisting uses ZADD XX INCR so ids dropped by a concurrent
// rebuild are not re-added.
func (c *rankCache) IncrementExisting(ctx context.Context, movieIDs []int64, delta float64) error {
	if len(movieIDs) == 0 {
		return nil
	}
	cmds, err := c.data.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range movieIDs {
			pipe.ZAddArgsIncr(ctx, c.key, redis.ZAddArgs{
				XX:      true,
				Members: []redis.Z{{Score: delta, Member: member(id)}},
			})
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return cacheErr(err)
	}
	for _, cmd := range cmds {
		if err := cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
			return cacheErr(err)
		}
	}
	return nil
}

func (c *rankCache) TopN(ctx context.Context, n int) ([]int64, error) {
	if n <= 0 {
		return nil, nil
	}
	members, err := c.data.rdb.ZRevRange(ctx, c.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, cacheErr(err)
	}
	return c.parseMembers(members), nil
}

func (c *rankCache) RangeAll(ctx context.Context) ([]int64, error) {
	members, err := c.data.rdb.ZRange(ctx, c.key, 0, -1).Result()
	if err != nil {
		return nil, cacheErr(err)
	}
	return c.parseMembers(members), nil
}

// ReplaceAll swaps the whole set inside MULTI/EXEC.
func (c *rankCache) ReplaceAll(ctx context.Context, entries []biz.RankEntry) error {
	members := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		members = append(members, redis.Z{Score: e.Score, Member: member(e.MovieID)})
	}
	_, err := c.data.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key)
		if len(members) > 0 {
			pipe.ZAdd(ctx, c.key, members...)
		}
		return nil
	})
	if err != nil {
		return cacheErr(err)
	}
	return nil
}

func (c *rankCache) Clear(ctx context.Context) error {
	if err := c.data.rdb.Del(ctx, c.key).Err(); err != nil {
		return cacheErr(err)
	}
	return nil
}

func (c *rankCache) parseMembers(members []string) []int64 {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			c.log.Warnf("ignoring non-numeric ranking member %q", m)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func member(movieID int64) string {
	return strconv.FormatInt(movieID, 10)
}

func cacheErr(err error) error {
	return fmt.Errorf("%w: %v", biz.ErrCacheUnavailable, err)
}
