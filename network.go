package main

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// wsConn adapts the websocket transport to the client: inbound frames are
// decoded on the read pump and queued as events, outbound intents are
// written directly (only the update tick sends, so one writer).
type wsConn struct {
	conn   *websocket.Conn
	events chan<- event
	open   atomic.Bool
}

// dialServer connects to the game server. A bare host:port gets the default
// ws scheme and endpoint path.
func dialServer(host string, events chan<- event) (*wsConn, error) {
	url := host
	if !strings.Contains(url, "://") {
		url = "ws://" + url + "/ws"
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	w := &wsConn{conn: conn, events: events}
	w.open.Store(true)
	go w.readPump()
	logDebug("connected to %s", url)
	return w, nil
}

// readPump decodes inbound frames until the connection dies. Protocol
// errors are isolated per message: log, drop, keep reading.
func (w *wsConn) readPump() {
	defer w.conn.Close()
	for {
		_, raw, err := w.conn.ReadMessage()
		if err != nil {
			w.open.Store(false)
			w.events <- disconnected{err: err}
			return
		}
		ev, err := decodeInbound(raw)
		if err != nil {
			var unk errUnknownAction
			if errors.As(err, &unk) {
				logWarn("ignoring message: %v", unk)
			} else {
				logWarn("bad message dropped: %v", err)
			}
			continue
		}
		w.events <- ev
	}
}

// send writes one intent. A dead connection drops the intent silently;
// nothing queues or retries.
func (w *wsConn) send(v any) {
	if !w.open.Load() {
		return
	}
	if err := w.conn.WriteJSON(v); err != nil {
		w.open.Store(false)
		logError("send failed: %v", err)
	}
}

func (w *wsConn) close() {
	w.open.Store(false)
	_ = w.conn.Close()
}
