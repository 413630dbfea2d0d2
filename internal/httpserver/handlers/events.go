package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/linkhaven/linkhaven/internal/domain"
	"github.com/linkhaven/linkhaven/internal/httpserver/deps"
	"github.com/linkhaven/linkhaven/internal/logger"
	"github.com/linkhaven/linkhaven/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	eventQueueSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement happens in the host middleware; the socket
	// itself accepts any origin that got this far.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Events streams the session's sync messages over a websocket, so a
// connected client sees every mutation made elsewhere as it lands.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withSession(d, w, r, func(s *session.Session) {
			conn, err := upgrader.Upgrade(w, r, nil)
			if err != nil {
				d.Logger.Debug("websocket upgrade failed", logger.Error(err))
				return
			}

			events := make(chan domain.SyncMessage, eventQueueSize)
			unsubscribe := s.OnSync(func(msg domain.SyncMessage) {
				select {
				case events <- msg:
				default:
					// Slow consumer; the next refresh repairs the gap.
				}
			})
			defer unsubscribe()

			done := make(chan struct{})
			go readLoop(conn, done)
			writeLoop(d, s.Owner(), conn, events, done)
		})
	}
}

// readLoop drains the client side until it disconnects.
func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeLoop(d deps.Deps, owner string, conn *websocket.Conn, events <-chan domain.SyncMessage, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				d.Logger.Debug("event stream closed",
					logger.String("owner", owner),
					logger.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
