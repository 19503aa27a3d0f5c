package notification

import (
	"errors"
	"log/slog"
	"sync"
)

var ErrNotInitialized = errors.New("broadcaster not initialized")

// Broadcaster is the room-addressed send surface of the connection layer.
// Everything that pushes live events depends on this interface instead of the
// hub itself, which keeps the domain services and the transport layer from
// importing each other.
type Broadcaster interface {
	// SendToUser emits an event to every live session in the user's
	// personal room. Fire and forget: delivery failures are handled inside
	// the connection layer.
	SendToUser(userID, event string, payload any)
	// SendToRoom emits an event to every live session joined to the room.
	SendToRoom(roomID, event string, payload any)
	// SendToRoomExcept is SendToRoom minus every session belonging to the
	// excluded user.
	SendToRoomExcept(roomID, exceptUserID, event string, payload any)
}

// Registry holds the process-wide broadcaster handle. It is set exactly once
// during startup, after the connection layer is constructed and before any
// service that can emit becomes reachable. Reading it earlier is an ordering
// bug and surfaces as ErrNotInitialized rather than a silent no-op.
type Registry struct {
	mu sync.RWMutex
	b  Broadcaster
}

func NewRegistry() *Registry {
	return &Registry{}
}

// SetBroadcaster installs the handle. The first call wins; later calls are
// refused loudly because the handle is never reassigned over a process
// lifetime.
func (r *Registry) SetBroadcaster(b Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.b != nil {
		slog.Error("Broadcaster already set, ignoring reassignment")
		return
	}
	r.b = b
}

func (r *Registry) Broadcaster() (Broadcaster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.b == nil {
		return nil, ErrNotInitialized
	}
	return r.b, nil
}
