package httpcache

import (
	"net/http"
	"time"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
)

var log logging.Logger = logging.New("module", "httpcache")

func SetLogging(level logging.Lvl, handler logging.Handler) {
	common.SetLogging(log, level, handler)
}

func init() {
	SetLogging(logging.LvlCrit, common.DefaultLogHandler)
}

// Cache wraps handlers whose responses may be served from the cache.
type Cache interface {
	WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc
	Middleware(next http.Handler) http.Handler
	Purge()
}

func NewAdapter(cfg common.Config) (Adapter, error) {
	switch cfg.HTTPCacheAdapter {
	case common.HTTPCacheMemoryAdapterName:
		return NewMemCacheAdapter(cfg.HTTPCachePoolSize), nil
	case common.HTTPCacheRedisAdapterName:
		if len(cfg.HTTPCacheRedisAddrs) < 1 {
			return nil, errors.New("redis cache needs at least one address")
		}
		return NewRedisCacheAdapter(&RedisRingOptions{Addrs: cfg.HTTPCacheRedisAddrs}), nil
	default:
		return nil, errors.New("adapter not found: " + cfg.HTTPCacheAdapter)
	}
}

// NewCache returns the response cache configured by cfg; without an adapter
// nothing is cached.
func NewCache(cfg common.Config, ttl time.Duration) (Cache, error) {
	if len(cfg.HTTPCacheAdapter) < 1 || cfg.HTTPCacheAdapter == common.HTTPCacheNopAdapterName {
		return NewNopClient(), nil
	}

	adapter, err := NewAdapter(cfg)
	if err != nil {
		return nil, err
	}

	return NewClient(WithAdapter(adapter), WithExpire(ttl), WithLogger(log))
}
