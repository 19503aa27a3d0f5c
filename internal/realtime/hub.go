package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub tracks every live session and its room memberships, and exposes the
// room-addressed send primitives the rest of the system delivers through.
//
// Room naming: a user's personal room is their raw user id; group rooms are
// prefixed (see groupmsg.RoomName). A session is joined to its personal room
// for its whole lifetime.
type Hub struct {
	// All registered clients
	clients map[*Client]bool

	// Room membership, personal and group rooms in one namespace
	rooms map[string]map[*Client]bool

	// Register requests from new connections
	register chan *Client

	// Unregister requests from disconnecting clients
	unregister chan *Client

	// Inbound action router, set once before Run
	router *Router

	// Presence tracking, optional
	rdb *redis.Client

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex
}

func NewHub(rdb *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetRouter wires the action router. Must happen before Run.
func (h *Hub) SetRouter(r *Router) {
	h.router = r
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.ctx.Done():
			slog.Info("Hub shutting down")
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.joinRoomLocked(client, client.userID)
	h.mu.Unlock()

	slog.Info("Client registered", "clientID", client.id, "userID", client.userID)
	h.setOnline(client.userID)
}

// unregisterClient drops the session and every room membership it holds.
// Idempotent: a second unregister for the same client is a no-op.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	for roomID := range client.roomSet() {
		h.leaveRoomLocked(client, roomID)
	}
	lastSession := len(h.rooms[client.userID]) == 0
	h.mu.Unlock()

	client.closeSend()
	slog.Info("Client unregistered", "clientID", client.id, "userID", client.userID)

	if lastSession {
		h.setOffline(client.userID)
	}
}

// JoinRoom subscribes one session to a room.
func (h *Hub) JoinRoom(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinRoomLocked(client, roomID)
}

// LeaveRoom removes one session from a room. Leaving the personal room is
// refused; that membership ends only with the session.
func (h *Hub) LeaveRoom(client *Client, roomID string) {
	if roomID == client.userID {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveRoomLocked(client, roomID)
}

func (h *Hub) joinRoomLocked(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.addRoom(roomID)
}

func (h *Hub) leaveRoomLocked(client *Client, roomID string) {
	if members, ok := h.rooms[roomID]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	client.removeRoom(roomID)
}

// SendToRoom fans an event out to every session currently joined to the
// room. Fire and forget: sessions that are not connected receive nothing,
// and per-session delivery failures are handled by the session itself, never
// surfaced to the caller.
func (h *Hub) SendToRoom(roomID, event string, payload any) {
	h.sendToRoom(roomID, "", event, payload)
}

// SendToRoomExcept is SendToRoom minus every session of one user.
func (h *Hub) SendToRoomExcept(roomID, exceptUserID, event string, payload any) {
	h.sendToRoom(roomID, exceptUserID, event, payload)
}

// SendToUser emits to the user's personal room.
func (h *Hub) SendToUser(userID, event string, payload any) {
	h.sendToRoom(userID, "", event, payload)
}

func (h *Hub) sendToRoom(roomID, exceptUserID, event string, payload any) {
	data, err := marshalEvent(event, payload)
	if err != nil {
		slog.Error("Failed to marshal event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.rooms[roomID] {
		if exceptUserID != "" && client.userID == exceptUserID {
			continue
		}
		client.enqueue(data)
		delivered++
	}
	slog.Debug("Event fanned out", "event", event, "roomID", roomID, "sessions", delivered)
}

// RoomSize reports how many sessions a room currently has.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) setOnline(userID string) {
	if h.rdb == nil {
		return
	}
	if err := h.rdb.SAdd(h.ctx, "online_users", userID).Err(); err != nil {
		slog.Warn("Failed to set user online", "userID", userID, "error", err)
	}
}

func (h *Hub) setOffline(userID string) {
	if h.rdb == nil {
		return
	}
	if err := h.rdb.SRem(h.ctx, "online_users", userID).Err(); err != nil {
		slog.Warn("Failed to set user offline", "userID", userID, "error", err)
	}
}
