package httpcache

import (
	"time"

	redisCache "github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack"
)

// RedisCacheAdapter shares cached API responses between nodes through a
// redis ring; responses are msgpack encoded.
type RedisCacheAdapter struct {
	store *redisCache.Codec
}

type RedisRingOptions redis.RingOptions

func NewRedisCacheAdapter(opt *RedisRingOptions) *RedisCacheAdapter {
	ropt := redis.RingOptions(*opt)
	return &RedisCacheAdapter{
		&redisCache.Codec{
			Redis: redis.NewRing(&ropt),
			Marshal: func(v interface{}) ([]byte, error) {
				return msgpack.Marshal(v)
			},
			Unmarshal: func(b []byte, v interface{}) error {
				return msgpack.Unmarshal(b, v)
			},
		},
	}
}

// Get treats every redis error as a miss, so the handler serves the request.
func (a *RedisCacheAdapter) Get(key string) (*Response, bool) {
	var resp Response
	if err := a.store.Get(key, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (a *RedisCacheAdapter) Set(key string, resp *Response, expir time.Time) {
	var e time.Duration
	if !expir.IsZero() {
		e = time.Until(expir)
	}
	if err := a.store.Set(&redisCache.Item{
		Key:        key,
		Object:     resp,
		Expiration: e,
	}); err != nil {
		log.Debug("failed to cache response", "key", key, "error", err)
	}
}

func (a *RedisCacheAdapter) Remove(key string) {
	a.store.Delete(key)
}
