package httpcache

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"time"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
)

const (
	HeaderCacheStatus = "X-Cache"
	CacheHit          = "HIT"
	CacheMiss         = "MISS"
)

type purger interface {
	Purge()
}

// Client serves cacheable requests from the `Adapter` and records the
// responses of the others.
type Client struct {
	adapter     Adapter
	ttl         time.Duration
	methods     map[string]bool
	statusCodes map[int]time.Duration
	logger      logging.Logger
}

type ClientOption func(c *Client) error

func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		methods:     map[string]bool{http.MethodGet: true},
		statusCodes: map[int]time.Duration{},
		logger:      common.NopLogger(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.adapter == nil {
		return nil, errors.New("cache client adapter is nil")
	}

	return c, nil
}

func WithAdapter(a Adapter) ClientOption {
	return func(c *Client) error {
		c.adapter = a
		return nil
	}
}

func WithExpire(ttl time.Duration) ClientOption {
	return func(c *Client) error {
		if ttl < 0 {
			return errors.New("negative cache expiration")
		}
		c.ttl = ttl
		return nil
	}
}

func WithMethods(methods ...string) ClientOption {
	return func(c *Client) error {
		for _, m := range methods {
			c.methods[strings.ToUpper(m)] = true
		}
		return nil
	}
}

// WithStatusCode caches responses of `code` for `ttl`. By default only
// responses below 400 are cached.
func WithStatusCode(code int, ttl time.Duration) ClientOption {
	return func(c *Client) error {
		c.statusCodes[code] = ttl
		return nil
	}
}

func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.serve(next, w, r)
	})
}

func (c *Client) WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.serve(handlerFunc, w, r)
	}
}

// Purge drops every cached response when the adapter supports it; the other
// adapters rely on expiration.
func (c *Client) Purge() {
	if p, ok := c.adapter.(purger); ok {
		p.Purge()
	}
}

func (c *Client) serve(next http.Handler, w http.ResponseWriter, r *http.Request) {
	if !c.cacheable(r) {
		next.ServeHTTP(w, r)
		return
	}

	key := cacheKey(r.URL)
	if resp, ok := c.adapter.Get(key); ok {
		if resp.Expiration.IsZero() || resp.Expiration.After(time.Now()) {
			writeResponse(w, resp.Header, resp.StatusCode, resp.Value, CacheHit)
			c.logger.Debug("return cache", "url", key)
			return
		}
		c.adapter.Remove(key)
	}

	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, r)

	result := rec.Result()
	value := rec.Body.Bytes()
	if expiration, ok := c.cachingExpiration(result.StatusCode); ok {
		c.adapter.Set(key, &Response{
			Value:      value,
			StatusCode: result.StatusCode,
			Header:     result.Header,
			Expiration: expiration,
		}, expiration)
		c.logger.Debug("page cached", "url", key, "code", result.StatusCode, "expire", expiration)
	}

	writeResponse(w, result.Header, result.StatusCode, value, CacheMiss)
}

func (c *Client) cacheable(r *http.Request) bool {
	if !c.methods[r.Method] {
		return false
	}
	return !strings.Contains(r.Header.Get("Cache-Control"), "no-cache")
}

func (c *Client) cachingExpiration(code int) (time.Time, bool) {
	if ttl, ok := c.statusCodes[code]; ok {
		return expiration(ttl), true
	} else if code < 400 {
		return expiration(c.ttl), true
	}
	return time.Time{}, false
}

func writeResponse(w http.ResponseWriter, header http.Header, code int, value []byte, status string) {
	for k, v := range header {
		w.Header().Set(k, strings.Join(v, ","))
	}
	w.Header().Set(HeaderCacheStatus, status)
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	w.Write(value)
}

func expiration(ttl time.Duration) time.Time {
	if ttl == 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

// cacheKey sorts the query values so equivalent urls share one entry.
func cacheKey(u *url.URL) string {
	params := u.Query()
	for _, p := range params {
		sort.Strings(p)
	}

	k := *u
	k.RawQuery = params.Encode()
	return k.String()
}
