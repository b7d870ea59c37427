package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/GianlucaGuarini/go-observable"

	"boscoin.io/tokenpoll/lib/network/httputils"
)

const ContentTypeEventStream = "text/event-stream"

// EventStream writes one json document per line for every triggered event
// until the client goes away.
type EventStream struct {
	contentType string
	renderFunc  RenderFunc
	request     *http.Request
	writer      http.ResponseWriter
	flusher     http.Flusher
	err         error
	rendered    bool
	stop        chan struct{}
}

// RenderFunc gets the event name, or "pre" for `Render`, followed by the
// triggered values.
type RenderFunc func(args ...interface{}) ([]byte, error)

var RenderJSONFunc = func(args ...interface{}) ([]byte, error) {
	if len(args) <= 1 {
		return nil, fmt.Errorf("render: value is empty")
	}
	if args[1] == nil {
		return nil, nil
	}
	return json.Marshal(args[1])
}

func NewDefaultEventStream(w http.ResponseWriter, r *http.Request) *EventStream {
	return NewEventStream(w, r, RenderJSONFunc, ContentTypeEventStream)
}

func NewEventStream(w http.ResponseWriter, r *http.Request, renderFunc RenderFunc, ct string) *EventStream {
	es := &EventStream{
		request:     r,
		writer:      w,
		renderFunc:  renderFunc,
		contentType: ct,
		stop:        make(chan struct{}),
	}

	if flusher, ok := w.(http.Flusher); !ok {
		es.err = fmt.Errorf("http: can't do chunked response")
	} else {
		es.flusher = flusher
	}

	return es
}

// Render writes args immediately, eg. the current state before the first
// event.
func (s *EventStream) Render(args ...interface{}) {
	if s.err != nil {
		return
	}

	renderArgs := append([]interface{}{"pre"}, args...)
	payload, err := s.renderFunc(renderArgs...)
	if err != nil {
		payload = s.errMessage(err)
	}

	s.write(payload)
}

func (s *EventStream) write(payload []byte) {
	if !s.rendered {
		s.writer.Header().Set("Content-Type", s.contentType)
		s.writer.Header().Set("Cache-Control", "no-cache")
		s.rendered = true
	}

	fmt.Fprintf(s.writer, "%s\n", payload)
	s.flusher.Flush()
}

// Run observes events until the request is done.
func (s *EventStream) Run(ob *observable.Observable, events ...string) {
	s.Start(ob, events...)()
}

// Start subscribes to the events and returns the func which writes them.
// Subscribing before rendering the current state means no event is lost in
// between.
func (s *EventStream) Start(ob *observable.Observable, events ...string) func() {
	if s.err != nil {
		http.Error(s.writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return func() {}
	}

	event := strings.Join(events, " ")
	msg := make(chan []byte)

	onFunc := func(args ...interface{}) {
		var (
			payload []byte
			err     error
		)

		if len(args) > 1 {
			payload, err = s.renderFunc(args...)
		} else {
			payload, err = s.renderFunc(append([]interface{}{event}, args...)...)
		}
		if err != nil {
			payload = s.errMessage(err)
		}

		select {
		case msg <- payload:
		case <-s.stop:
		}
	}
	ob.On(event, onFunc)

	return func() {
		defer ob.Off(event, onFunc)

		for {
			select {
			case payload := <-msg:
				s.write(payload)
			case <-s.request.Context().Done():
				close(s.stop)
				return
			}
		}
	}
}

func (s *EventStream) errMessage(err error) []byte {
	b, err := json.Marshal(httputils.NewErrorProblem(err, httputils.StatusCode(err)))
	if err != nil {
		return []byte{}
	}
	return b
}
