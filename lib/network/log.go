package network

import (
	"bufio"
	"fmt"
	"net"
	"net/http"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/tokenpoll/lib/common"
)

// ErrorLog15Writer sends the messages of the standard http server logger to
// log15.
type ErrorLog15Writer struct {
	l logging.Logger
}

func (w ErrorLog15Writer) Write(b []byte) (int, error) {
	w.l.Error("error", "error", string(b))
	return len(b), nil
}

type ResponseLog15Writer struct {
	w      http.ResponseWriter
	status int
	size   int
}

func (l *ResponseLog15Writer) Header() http.Header {
	return l.w.Header()
}

func (l *ResponseLog15Writer) Write(b []byte) (int, error) {
	if l.status == 0 {
		l.status = http.StatusOK
	}
	size, err := l.w.Write(b)
	l.size += size
	return size, err
}

func (l *ResponseLog15Writer) WriteHeader(s int) {
	l.w.WriteHeader(s)
	l.status = s
}

func (l *ResponseLog15Writer) Status() int {
	return l.status
}

func (l *ResponseLog15Writer) Size() int {
	return l.size
}

func (l *ResponseLog15Writer) Flush() {
	if f, ok := l.w.(http.Flusher); ok {
		f.Flush()
	}
}

func (l *ResponseLog15Writer) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := l.w.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("http: response writer does not support hijacking")
	}
	if l.status == 0 {
		l.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

type Log15Handler struct {
	log     logging.Logger
	handler http.Handler
}

var HeaderKeyFiltered = []string{
	"Content-Length",
	"Content-Type",
	"Accept",
	"Accept-Encoding",
	"User-Agent",
	HeaderRequestID,
}

// ServeHTTP logs when the request is received and when the response is sent.
// Derived from github.com/gorilla/handlers/handlers.go.
func (l Log15Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid := r.Header.Get(HeaderRequestID)

	uri := r.RequestURI
	if r.ProtoMajor == 2 && r.Method == "CONNECT" {
		uri = r.Host
	}
	if uri == "" {
		uri = r.URL.RequestURI()
	}

	header := http.Header{}
	for key, value := range r.Header {
		if _, found := common.InStringArray(HeaderKeyFiltered, key); found {
			continue
		}
		header[key] = value
	}

	l.log.Debug(
		"request",
		"content-length", r.ContentLength,
		"content-type", r.Header.Get("Content-Type"),
		"headers", header,
		"host", r.Host,
		"id", uid,
		"method", r.Method,
		"proto", r.Proto,
		"remote", r.RemoteAddr,
		"uri", uri,
		"user-agent", r.UserAgent(),
	)

	writer := &ResponseLog15Writer{w: w}
	l.handler.ServeHTTP(writer, r)

	l.log.Debug(
		"response",
		"id", uid,
		"status", writer.Status(),
		"size", writer.Size(),
	)
}
