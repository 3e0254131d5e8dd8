package rdx

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn = redis.NewClient(&redis.Options{
	Addr: redisAddr(),
})

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// --- Session token helpers ---

func RdxHset(hash, field, value string) error {
	return Conn.HSet(context.Background(), hash, field, value).Err()
}

func RdxHget(hash, field string) (string, error) {
	return Conn.HGet(context.Background(), hash, field).Result()
}

func RdxHdel(hash, field string) error {
	return Conn.HDel(context.Background(), hash, field).Err()
}

// --- Generic cache helpers ---

func RdxSet(key, value string, ttl time.Duration) error {
	return Conn.Set(context.Background(), key, value, ttl).Err()
}

func RdxGet(key string) (string, error) {
	return Conn.Get(context.Background(), key).Result()
}

func RdxDel(key string) error {
	return Conn.Del(context.Background(), key).Err()
}
