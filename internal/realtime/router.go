package realtime

import (
	"context"
	"errors"
	"log/slog"

	"trip-chat-service/internal/directmsg"
	"trip-chat-service/internal/groupmsg"
	"trip-chat-service/internal/ratelimit"
)

// DirectChannel is the direct-message surface the router drives.
type DirectChannel interface {
	Send(ctx context.Context, senderID, receiverID, content string) (*directmsg.DirectMessage, error)
	MarkRead(ctx context.Context, readerID, otherUserID string) error
}

// GroupChannel is the group-message surface the router drives. Join performs
// the roster re-check; the router only subscribes the session once it passes.
type GroupChannel interface {
	Send(ctx context.Context, groupID, senderID, content string) (*groupmsg.GroupMessage, error)
	Join(ctx context.Context, groupID, userID string) error
}

// Limiter gates chat-affecting actions.
type Limiter interface {
	Check(ctx context.Context, userID string) ratelimit.Decision
	Record(ctx context.Context, userID string)
}

// Router turns decoded client actions into channel calls. Every failure is
// reported to the originating session only, as a message_error event; nothing
// here ever reaches a room fanout or kills the connection.
type Router struct {
	hub     *Hub
	direct  DirectChannel
	group   GroupChannel
	limiter Limiter
}

func NewRouter(hub *Hub, direct DirectChannel, group GroupChannel, limiter Limiter) *Router {
	return &Router{hub: hub, direct: direct, group: group, limiter: limiter}
}

func (r *Router) Dispatch(ctx context.Context, c *Client, action Action) {
	switch a := action.(type) {
	case SendMessage:
		if !r.allow(ctx, c) {
			return
		}
		if _, err := r.direct.Send(ctx, c.userID, a.ReceiverID, a.Content); err != nil {
			r.reportError(c, ActionSendMessage, err)
		}

	case MarkAsRead:
		if err := r.direct.MarkRead(ctx, c.userID, a.OtherUserID); err != nil {
			r.reportError(c, ActionMarkAsRead, err)
		}

	case JoinGroup:
		if err := r.group.Join(ctx, a.GroupID, c.userID); err != nil {
			r.reportError(c, ActionJoinGroup, err)
			return
		}
		r.hub.JoinRoom(c, groupmsg.RoomName(a.GroupID))

	case LeaveGroup:
		// Transport-level unsubscribe only; no roster check to stop
		// listening.
		r.hub.LeaveRoom(c, groupmsg.RoomName(a.GroupID))

	case SendGroupMessage:
		if !r.allow(ctx, c) {
			return
		}
		if _, err := r.group.Send(ctx, a.GroupID, c.userID, a.Content); err != nil {
			r.reportError(c, ActionSendGroupMessage, err)
		}

	default:
		c.sendError("INVALID_ACTION", "unsupported action")
	}
}

// allow consults the rate limiter and, when the action may proceed, counts
// it. Blocked users get the structured countdown payload.
func (r *Router) allow(ctx context.Context, c *Client) bool {
	decision := r.limiter.Check(ctx, c.userID)
	if !decision.Allowed {
		blockedUntil := decision.BlockedUntil
		c.sendEvent(EventMessageError, &ErrorData{
			Code:             "RATE_LIMITED",
			Message:          decision.Message,
			Reason:           decision.Reason,
			BlockedUntil:     &blockedUntil,
			RemainingSeconds: decision.RemainingSeconds,
		})
		return false
	}
	r.limiter.Record(ctx, c.userID)
	return true
}

func (r *Router) reportError(c *Client, action string, err error) {
	slog.Debug("Action failed", "action", action, "clientID", c.id, "userID", c.userID, "error", err)
	c.sendError(errorCode(err), err.Error())
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, directmsg.ErrEmptyReceiver),
		errors.Is(err, directmsg.ErrEmptyContent),
		errors.Is(err, directmsg.ErrSelfMessage),
		errors.Is(err, groupmsg.ErrEmptyGroup),
		errors.Is(err, groupmsg.ErrEmptyContent):
		return "VALIDATION_FAILED"
	case errors.Is(err, groupmsg.ErrGroupNotFound):
		return "GROUP_NOT_FOUND"
	case errors.Is(err, groupmsg.ErrNotMember):
		return "FORBIDDEN"
	default:
		return "INTERNAL_ERROR"
	}
}
