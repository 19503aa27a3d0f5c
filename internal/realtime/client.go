package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Client is one live authenticated session: a websocket connection bound to
// a user id plus the set of rooms it is joined to.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string

	// Rooms this session is joined to, mutated only through the hub
	rooms map[string]bool

	// Transport-level flood guard, independent of the domain rate limiter
	bucket *rate.Limiter

	mu sync.RWMutex

	ctx        context.Context
	cancel     context.CancelFunc
	closed     int32
	sendClosed int32
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string, burstPerSec int) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	if burstPerSec <= 0 {
		burstPerSec = 10
	}
	return &Client{
		id:     uuid.New().String(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		rooms:  make(map[string]bool),
		bucket: rate.NewLimiter(rate.Limit(burstPerSec), burstPerSec),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) ID() string     { return c.id }
func (c *Client) UserID() string { return c.userID }

func (c *Client) addRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[roomID] = true
}

func (c *Client) removeRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, roomID)
}

func (c *Client) roomSet() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot := make(map[string]bool, len(c.rooms))
	for roomID := range c.rooms {
		snapshot[roomID] = true
	}
	return snapshot
}

// InRoom reports whether this session is joined to a room.
func (c *Client) InRoom(roomID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rooms[roomID]
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
	}
}

func (c *Client) closeSend() {
	if atomic.CompareAndSwapInt32(&c.sendClosed, 0, 1) {
		close(c.send)
	}
}

// enqueue hands a marshaled event to the write pump. A full buffer means the
// peer stopped reading; the session is torn down rather than blocking the
// fanout that is delivering to everyone else.
func (c *Client) enqueue(data []byte) {
	if c.isClosed() || atomic.LoadInt32(&c.sendClosed) == 1 {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("Send buffer full, dropping session", "clientID", c.id, "userID", c.userID)
		c.close()
		c.closeSend()
	}
}

func (c *Client) sendEvent(event string, payload any) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		slog.Error("Failed to marshal event", "event", event, "error", err)
		return
	}
	c.enqueue(data)
}

func (c *Client) sendError(code, message string) {
	c.sendEvent(EventMessageError, &ErrorData{Code: code, Message: message})
}

func (c *Client) readPump() {
	defer func() {
		c.close()
		select {
		case c.hub.unregister <- c:
		case <-time.After(5 * time.Second):
			slog.Warn("Timeout sending unregister request", "clientID", c.id, "userID", c.userID)
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "clientID", c.id, "userID", c.userID, "error", err)
			}
			return
		}

		if !c.bucket.Allow() {
			c.sendError("TOO_FAST", "Slow down")
			continue
		}

		action, err := ParseAction(raw)
		if err != nil {
			slog.Debug("Rejected inbound frame", "clientID", c.id, "userID", c.userID, "error", err)
			c.sendError("INVALID_ACTION", err.Error())
			continue
		}

		// Actions are handled inline, one at a time per connection, so
		// persist-then-deliver stays sequential within each inbound event.
		c.hub.router.Dispatch(c.ctx, c, action)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Debug("Write error", "clientID", c.id, "userID", c.userID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// ServeWS upgrades an authenticated request and starts the session pumps.
// Callers must have authenticated userID already; no session exists for a
// connection that failed the handshake.
func ServeWS(hub *Hub, upgrader *websocket.Upgrader, w http.ResponseWriter, r *http.Request, userID string, burstPerSec int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection", "userID", userID, "error", err)
		return
	}

	client := NewClient(hub, conn, userID, burstPerSec)
	slog.Info("WebSocket connection established", "clientID", client.id, "userID", userID)

	select {
	case hub.register <- client:
	case <-time.After(5 * time.Second):
		slog.Error("Timeout registering client", "clientID", client.id, "userID", userID)
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// NewUpgrader builds the websocket upgrader with an origin allowlist.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			return allowed[origin]
		},
	}
}
