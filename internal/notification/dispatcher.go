package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const EventNewNotification = "new_notification"

// Dispatcher persists notifications and pushes them to the target user's
// personal room. Persistence always happens first: a notification a client
// never saw live is still durable and shows up on next login.
type Dispatcher struct {
	repo     Repository
	registry *Registry
}

func NewDispatcher(repo Repository, registry *Registry) *Dispatcher {
	return &Dispatcher{repo: repo, registry: registry}
}

// Dispatch stores the notification, then emits it live. A push failure is
// logged and swallowed; an uninitialized registry is returned because that is
// a startup-ordering bug, not a runtime condition.
func (d *Dispatcher) Dispatch(ctx context.Context, req *DispatchRequest) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}

	if err := d.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	b, err := d.registry.Broadcaster()
	if err != nil {
		slog.Error("Notification persisted but broadcaster missing", "notificationID", n.ID, "error", err)
		return n, err
	}

	b.SendToUser(n.UserID, EventNewNotification, n)
	return n, nil
}

// List returns the most recent notifications for a user.
func (d *Dispatcher) List(ctx context.Context, userID string, limit int) ([]*Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return d.repo.FindByUserID(ctx, userID, limit)
}

// MarkSeen flips the seen flag on one of the user's notifications.
func (d *Dispatcher) MarkSeen(ctx context.Context, id, userID string) error {
	return d.repo.MarkSeen(ctx, id, userID)
}
