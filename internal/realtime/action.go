package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound action names, one per client-emitted frame kind.
const (
	ActionSendMessage      = "send_message"
	ActionMarkAsRead       = "mark_as_read"
	ActionJoinGroup        = "join_group"
	ActionLeaveGroup       = "leave_group"
	ActionSendGroupMessage = "send_group_message"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is the closed set of things a client can ask for. Frames decode
// into one of these variants at the transport boundary and the router
// dispatches with a type switch, so adding an action means touching both
// places.
type Action interface {
	isAction()
}

type SendMessage struct {
	ReceiverID string
	Content    string
}

type MarkAsRead struct {
	OtherUserID string
}

type JoinGroup struct {
	GroupID string
}

type LeaveGroup struct {
	GroupID string
}

type SendGroupMessage struct {
	GroupID string
	Content string
}

func (SendMessage) isAction()      {}
func (MarkAsRead) isAction()       {}
func (JoinGroup) isAction()        {}
func (LeaveGroup) isAction()       {}
func (SendGroupMessage) isAction() {}

type actionEnvelope struct {
	Action      string `json:"action"`
	ReceiverID  string `json:"receiverId"`
	Content     string `json:"content"`
	GroupID     string `json:"groupId"`
	OtherUserID string `json:"otherUserId"`
}

// ParseAction decodes a raw inbound frame into its action variant.
func ParseAction(raw []byte) (Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed action frame: %w", err)
	}

	switch env.Action {
	case ActionSendMessage:
		return SendMessage{ReceiverID: env.ReceiverID, Content: env.Content}, nil
	case ActionMarkAsRead:
		return MarkAsRead{OtherUserID: env.OtherUserID}, nil
	case ActionJoinGroup:
		return JoinGroup{GroupID: env.GroupID}, nil
	case ActionLeaveGroup:
		return LeaveGroup{GroupID: env.GroupID}, nil
	case ActionSendGroupMessage:
		return SendGroupMessage{GroupID: env.GroupID, Content: env.Content}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Action)
	}
}
