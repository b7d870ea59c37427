package httpcache

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/tokenpoll/lib/common"
)

func countingHandler(cnt *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*cnt++
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "value:%d", *cnt)
	})
}

func TestClientNeedsAdapter(t *testing.T) {
	_, err := NewClient()
	require.Error(t, err)

	_, err = NewClient(WithAdapter(NewMemCacheAdapter(1)), WithExpire(-time.Second))
	require.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	a := NewMemCacheAdapter(10)
	a.Set("http://foo/polls?bar=1", &Response{
		Value:      []byte("value 1"),
		StatusCode: http.StatusOK,
	}, time.Time{})

	c, err := NewClient(WithAdapter(a))
	require.NoError(t, err)

	var cnt int
	handler := c.Middleware(countingHandler(&cnt))

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		code   int
		cache  string
	}{
		{"cached", "GET", "http://foo/polls?bar=1", "value 1", 200, CacheHit},
		{"not cached yet", "GET", "http://foo/polls?bar=2", "value:1", 200, CacheMiss},
		{"cached after first request", "GET", "http://foo/polls?bar=2", "value:1", 200, CacheHit},
		{"post is not cached", "POST", "http://foo/polls?bar=2", "value:2", 200, ""},
		{"error is not cached", "GET", "http://foo/missing", "value:3", 404, CacheMiss},
		{"error again", "GET", "http://foo/missing", "value:4", 404, CacheMiss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := http.NewRequest(tt.method, tt.url, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			require.Equal(t, tt.code, w.Code)
			require.Equal(t, tt.body, w.Body.String())
			require.Equal(t, tt.cache, w.Header().Get(HeaderCacheStatus))
		})
	}
}

func TestMiddlewareQueryOrder(t *testing.T) {
	c, err := NewClient(WithAdapter(NewMemCacheAdapter(10)))
	require.NoError(t, err)

	var cnt int
	handler := c.WrapHandlerFunc(countingHandler(&cnt).ServeHTTP)

	for _, u := range []string{"http://foo/polls?a=1&b=2", "http://foo/polls?b=2&a=1"} {
		r := httptest.NewRequest("GET", u, nil)
		w := httptest.NewRecorder()
		handler(w, r)
		require.Equal(t, "value:1", w.Body.String())
	}
	require.Equal(t, 1, cnt)
}

func TestMiddlewareNoCacheAndPurge(t *testing.T) {
	c, err := NewClient(WithAdapter(NewMemCacheAdapter(10)), WithExpire(time.Minute))
	require.NoError(t, err)

	var cnt int
	handler := c.Middleware(countingHandler(&cnt))

	get := func(noCache bool) string {
		r := httptest.NewRequest("GET", "http://foo/polls", nil)
		if noCache {
			r.Header.Set("Cache-Control", "no-cache")
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Body.String()
	}

	require.Equal(t, "value:1", get(false))
	require.Equal(t, "value:1", get(false))
	require.Equal(t, "value:2", get(true))

	c.Purge()
	require.Equal(t, "value:3", get(false))
}

func TestMiddlewareExpired(t *testing.T) {
	a := NewMemCacheAdapter(10)
	a.Set("http://foo/polls", &Response{
		Value:      []byte("stale"),
		StatusCode: http.StatusOK,
		Expiration: time.Now().Add(-time.Second),
	}, time.Time{})

	c, err := NewClient(WithAdapter(a))
	require.NoError(t, err)

	var cnt int
	w := httptest.NewRecorder()
	c.Middleware(countingHandler(&cnt)).ServeHTTP(w, httptest.NewRequest("GET", "http://foo/polls", nil))
	require.Equal(t, "value:1", w.Body.String())
}

func TestWithStatusCode(t *testing.T) {
	c, err := NewClient(WithAdapter(NewMemCacheAdapter(10)), WithStatusCode(http.StatusNotFound, time.Minute))
	require.NoError(t, err)

	var cnt int
	handler := c.Middleware(countingHandler(&cnt))
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "http://foo/missing", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, "value:1", w.Body.String())
	}
}

func TestNewCache(t *testing.T) {
	cfg := common.NewTestConfig()

	cache, err := NewCache(cfg, time.Second)
	require.NoError(t, err)
	require.IsType(t, &NopClient{}, cache)

	cfg.HTTPCacheAdapter = common.HTTPCacheMemoryAdapterName
	cache, err = NewCache(cfg, time.Second)
	require.NoError(t, err)
	require.IsType(t, &Client{}, cache)

	cfg.HTTPCacheAdapter = common.HTTPCacheRedisAdapterName
	_, err = NewCache(cfg, time.Second)
	require.Error(t, err)

	cfg.HTTPCacheAdapter = "unknown"
	_, err = NewCache(cfg, time.Second)
	require.Error(t, err)
}
