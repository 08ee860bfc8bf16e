package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	memberCountTTL       = 10 * time.Minute
	memberCountKeyPrefix = "community:members:count"
)

// Cache is an advisory read-through cache for derived values. Member counts
// are never authoritative; the database COUNT always wins on a miss.
type Cache struct {
	RDB *redis.Client
}

func New(addr, password string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &Cache{RDB: client}
}

func (c *Cache) Close() error {
	if c == nil || c.RDB == nil {
		return nil
	}
	return c.RDB.Close()
}

func memberCountKey(communityID string) string {
	return fmt.Sprintf("%s:%s", memberCountKeyPrefix, communityID)
}

// GetMemberCount returns the cached member count for a community. The second
// return is false on a miss or on any redis error.
func (c *Cache) GetMemberCount(ctx context.Context, communityID string) (int, bool) {
	if c == nil || c.RDB == nil {
		return 0, false
	}
	val, err := c.RDB.Get(ctx, memberCountKey(communityID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Println("redis: error reading member count", err)
		}
		return 0, false
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetMemberCount stores a freshly derived member count with a TTL.
func (c *Cache) SetMemberCount(ctx context.Context, communityID string, count int) {
	if c == nil || c.RDB == nil {
		return
	}
	if err := c.RDB.Set(ctx, memberCountKey(communityID), count, memberCountTTL).Err(); err != nil {
		log.Println("redis: error caching member count", err)
	}
}

// InvalidateMemberCount drops the cached count after a join or leave so the
// next read re-derives it.
func (c *Cache) InvalidateMemberCount(ctx context.Context, communityID string) {
	if c == nil || c.RDB == nil {
		return
	}
	if err := c.RDB.Del(ctx, memberCountKey(communityID)).Err(); err != nil {
		log.Println("redis: error invalidating member count", err)
	}
}
