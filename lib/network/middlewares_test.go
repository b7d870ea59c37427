package network

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/network/httputils"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func TestRecoverMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(RecoverMiddleware(false))
	router.HandleFunc("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	router.HandleFunc("/error", func(w http.ResponseWriter, r *http.Request) {
		panic(errors.PollClosed)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/error", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var p httputils.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.Equal(t, errors.PollClosed.Code, p.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(HeaderRequestID)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	require.NotEmpty(t, seen)
	require.Equal(t, seen, w.Header().Get(HeaderRequestID))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set(HeaderRequestID, "given")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	require.Equal(t, "given", seen)
	require.Equal(t, "given", w.Header().Get(HeaderRequestID))
}

func TestRateLimitMiddleware(t *testing.T) {
	rule := common.NewRateLimitRule(common.MustParseRate("2-M"))
	rule.ByIPAddress["10.0.0.1"] = limiter.Rate{}

	router := mux.NewRouter()
	router.Use(RateLimitMiddleware(common.NopLogger(), rule))
	router.HandleFunc("/", okHandler)

	request := func(remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = remote
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		return w
	}

	w := request("192.168.0.1:1000")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2", w.Header().Get(HeaderRateLimitLimit))
	require.Equal(t, "1", w.Header().Get(HeaderRateLimitRemaining))

	require.Equal(t, http.StatusOK, request("192.168.0.1:1001").Code)

	w = request("192.168.0.1:1002")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "0", w.Header().Get(HeaderRateLimitRemaining))

	// another client has its own budget
	require.Equal(t, http.StatusOK, request("192.168.0.2:1000").Code)

	// zero limit means unlimited
	for i := 0; i < 5; i++ {
		w = request("10.0.0.1:1000")
		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, w.Header().Get(HeaderRateLimitLimit))
	}
}

func TestCORSMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(CORSMiddleware())
	router.HandleFunc("/", okHandler)

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLog15Handler(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New()
	common.SetLogging(logger, logging.LvlDebug, logging.StreamHandler(&buf, common.JsonFormatEx(false, true)))

	router := mux.NewRouter()
	router.Use(MetricsMiddleware)
	router.HandleFunc("/polls/{id}", okHandler)

	handler := RequestIDMiddleware(Log15Handler{log: logger, handler: router})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/polls/abc", nil))
	require.Equal(t, "ok", w.Body.String())

	var records []map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &record))
		records = append(records, record)
	}
	require.Equal(t, 2, len(records))
	require.Equal(t, "request", records[0]["msg"])
	require.Equal(t, "response", records[1]["msg"])
	require.Equal(t, float64(http.StatusOK), records[1]["status"])
	require.Equal(t, w.Header().Get(HeaderRequestID), records[1]["id"])
}
