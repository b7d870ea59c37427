package network

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/ulule/limiter"
	"github.com/ulule/limiter/drivers/store/memory"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/metrics"
	"boscoin.io/tokenpoll/lib/network/httputils"
)

const (
	HeaderRequestID          = "X-Request-Id"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

func RecoverMiddleware(printStack bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rc := recover(); rc != nil {
					err, ok := rc.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", rc)
					}
					httputils.WriteJSONError(w, err)
					log.Error("recover an panic", "err", err, "uri", r.RequestURI)
					if printStack {
						debug.PrintStack()
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware keeps the `X-Request-Id` of the client or assigns a new
// one, and echoes it in the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if len(id) < 1 {
			id = uuid.New().String()
			r.Header.Set(HeaderRequestID, id)
		}
		w.Header().Set(HeaderRequestID, id)

		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(origins ...string) mux.MiddlewareFunc {
	if len(origins) < 1 {
		origins = []string{"*"}
	}

	return ghandlers.CORS(
		ghandlers.AllowedOrigins(origins),
		ghandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		ghandlers.AllowedHeaders([]string{"Content-Type", HeaderRequestID}),
		ghandlers.ExposedHeaders([]string{HeaderRequestID, HeaderRateLimitRemaining}),
	)
}

type rateLimiter struct {
	rule     common.RateLimitRule
	byIP     map[string]*limiter.Limiter
	fallback *limiter.Limiter
}

func newRateLimiter(rule common.RateLimitRule) *rateLimiter {
	rl := &rateLimiter{
		rule:     rule,
		byIP:     map[string]*limiter.Limiter{},
		fallback: limiter.New(memory.NewStore(), rule.Default),
	}
	for ip, rate := range rule.ByIPAddress {
		rl.byIP[ip] = limiter.New(memory.NewStore(), rate)
	}

	return rl
}

func (rl *rateLimiter) limiterFor(ip string) *limiter.Limiter {
	if l, found := rl.byIP[ip]; found {
		return l
	}
	return rl.fallback
}

// RateLimitMiddleware limits the requests of each client ip by `rule`. A
// rate with a zero limit is unlimited.
func RateLimitMiddleware(logger logging.Logger, rule common.RateLimitRule) mux.MiddlewareFunc {
	rl := newRateLimiter(rule)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := remoteIP(r)
			if rl.rule.RateFor(ip).Limit < 1 {
				next.ServeHTTP(w, r)
				return
			}

			context, err := rl.limiterFor(ip).Get(r.Context(), ip)
			if err != nil {
				logger.Error("failed to check rate limit", "ip", ip, "error", err)
				httputils.WriteJSONError(w, errors.HTTPServerError)
				return
			}

			w.Header().Set(HeaderRateLimitLimit, strconv.FormatInt(context.Limit, 10))
			w.Header().Set(HeaderRateLimitRemaining, strconv.FormatInt(context.Remaining, 10))
			w.Header().Set(HeaderRateLimitReset, strconv.FormatInt(context.Reset, 10))

			if context.Reached {
				logger.Debug("too many requests", "ip", ip, "uri", r.RequestURI)
				metrics.API.RateLimited(ip)
				httputils.WriteJSONError(w, errors.TooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("http: response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// MetricsMiddleware counts the requests by route template into `metrics.API`.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		metrics.API.Request(endpoint, r.Method, sw.status, started)
	})
}
