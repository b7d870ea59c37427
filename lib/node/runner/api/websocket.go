package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"boscoin.io/tokenpoll/lib/common/observer"
	"boscoin.io/tokenpoll/lib/network/httputils"
	"boscoin.io/tokenpoll/lib/node/runner/api/resource"
	"boscoin.io/tokenpoll/lib/poll"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsPongTimeout    = 60 * time.Second
	wsPingInterval   = wsPongTimeout * 9 / 10
	wsMaxMessageSize = 512
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// GetPollWebSocketHandler is `GetPollStreamHandler` over a websocket: every
// text message is the poll resource. Messages from the client are ignored.
func (api NetworkHandlerAPI) GetPollWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	p, err := poll.GetPoll(api.storage(), mux.Vars(r)["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	// `Upgrade` replies to the client by itself when it fails.
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	updates := make(chan *poll.Poll)

	event := observer.NewEvent(observer.ResourcePoll, observer.ConditionAddress, p.Address).String()
	onFunc := func(args ...interface{}) {
		if len(args) < 1 {
			return
		}
		updated, ok := args[0].(*poll.Poll)
		if !ok {
			return
		}
		select {
		case updates <- updated:
		case <-done:
		}
	}
	observer.ResourceObserver.On(event, onFunc)
	defer observer.ResourceObserver.Off(event, onFunc)

	// the read loop only serves control frames; it ends when the client
	// closes or stops answering pings.
	conn.SetReadLimit(wsMaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(p *poll.Poll) error {
		b, err := json.Marshal(resource.NewPoll(p, api.now()).Resource())
		if err != nil {
			return err
		}
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return conn.WriteMessage(websocket.TextMessage, b)
	}

	if err := send(p); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case updated := <-updates:
			if err := send(updated); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
