package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/player"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 20 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	// Local control clients only; the listen address is what restricts access.
	CheckOrigin: func(*http.Request) bool { return true },
}

type subscribedData struct {
	ID player.SubscriberID `json:"id"`
}

type subscribedFrame struct {
	Event string         `json:"event"`
	Data  subscribedData `json:"data"`
}

// wsClient is a player.Sink writing events to one WebSocket connection.
// Events are queued on send and written by writePump; a client whose queue
// fills up is disconnected.
type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	gone   chan struct{}
	once   sync.Once
	remote string
	log    *zap.Logger
}

func newWSClient(conn *websocket.Conn, remote string, buffer int, log *zap.Logger) *wsClient {
	return &wsClient{
		conn:   conn,
		send:   make(chan []byte, buffer),
		gone:   make(chan struct{}),
		remote: remote,
		log:    log,
	}
}

// Send implements player.Sink.
func (c *wsClient) Send(ev player.Event) error {
	select {
	case <-c.gone:
		return player.ErrSinkClosed
	default:
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	select {
	case c.send <- msg:
		return nil
	default:
		c.disconnect()
		return player.ErrSinkFull
	}
}

func (c *wsClient) disconnect() {
	c.once.Do(func() { close(c.gone) })
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.gone:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logClose("write", err)
				c.disconnect()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logClose("ping", err)
				c.disconnect()
				return
			}
		}
	}
}

// readPump discards incoming messages and returns once the peer is gone.
func (c *wsClient) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.logClose("read", err)
			c.disconnect()
			return
		}
	}
}

func (c *wsClient) logClose(stage string, err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		c.log.Debug("ws closed", zap.String("remote_addr", c.remote), zap.String("stage", stage), zap.Int("code", ce.Code))
		return
	}
	c.log.Debug("ws error", zap.String("remote_addr", c.remote), zap.String("stage", stage), zap.Error(err))
}

// handleEvents upgrades to a WebSocket and subscribes the connection to
// player events. The first frame carries the subscriber id.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	c := newWSClient(conn, r.RemoteAddr, s.sinkBuffer, s.log)
	id := s.playback.Subscribe(c)

	// writePump is not running yet, so this write has the connection to
	// itself; events arriving meanwhile wait in c.send.
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(subscribedFrame{Event: "subscribed", Data: subscribedData{ID: id}}); err != nil {
		s.playback.Unsubscribe(id)
		_ = conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	s.log.Info("ws client subscribed", zap.String("remote_addr", c.remote), zap.String("id", string(id)), zap.Int("clients", n))

	// The request context ends when this handler returns, so the pumps
	// run on their own.
	go c.writePump()
	go func() {
		c.readPump()
		s.playback.Unsubscribe(id)
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		s.log.Info("ws client gone", zap.String("remote_addr", c.remote), zap.String("id", string(id)))
	}()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.disconnect()
	}
}

var _ player.Sink = (*wsClient)(nil)
