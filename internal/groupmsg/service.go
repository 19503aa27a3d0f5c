package groupmsg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"trip-chat-service/internal/archive"
	"trip-chat-service/internal/notification"
)

var (
	ErrEmptyGroup    = errors.New("groupId is required")
	ErrEmptyContent  = errors.New("content is required")
	ErrGroupNotFound = errors.New("group not found")
	ErrNotMember     = errors.New("not a member of this group")
)

const EventNewGroupMessage = "new_group_message"

type Service interface {
	Send(ctx context.Context, groupID, senderID, content string) (*GroupMessage, error)
	Join(ctx context.Context, groupID, userID string) error
	History(ctx context.Context, groupID, userID string, limit int) ([]*GroupMessage, error)
}

type service struct {
	roster      RosterRepository
	messages    MessageRepository
	broadcaster notification.Broadcaster
	sink        archive.Sink
}

func NewService(roster RosterRepository, messages MessageRepository, broadcaster notification.Broadcaster, sink archive.Sink) Service {
	return &service{roster: roster, messages: messages, broadcaster: broadcaster, sink: sink}
}

// authorize re-checks the domain roster. Never cached: a removed member must
// fail the next check no matter what they were allowed to do earlier.
func (s *service) authorize(ctx context.Context, groupID, userID string) error {
	if groupID == "" {
		return ErrEmptyGroup
	}

	exists, err := s.roster.GroupExists(ctx, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrGroupNotFound
	}

	member, err := s.roster.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotMember
	}

	return nil
}

// Send authorizes the sender against the roster, persists, then broadcasts to
// the group room. An unauthorized attempt alters nothing. The sender's
// acknowledgement is the returned message, not a socket event, so the
// broadcast excludes them.
func (s *service) Send(ctx context.Context, groupID, senderID, content string) (*GroupMessage, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if err := s.authorize(ctx, groupID, senderID); err != nil {
		return nil, err
	}

	msg := &GroupMessage{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcaster.SendToRoomExcept(RoomName(groupID), senderID, EventNewGroupMessage, msg)

	if s.sink != nil {
		s.sink.Publish(archive.Event{
			Kind:      "group",
			MessageID: msg.ID,
			GroupID:   msg.GroupID,
			SenderID:  msg.SenderID,
			CreatedAt: msg.CreatedAt,
		})
	}

	return msg, nil
}

// Join gates the transport-room subscription on current domain membership.
// The caller subscribes the session only after this returns nil.
func (s *service) Join(ctx context.Context, groupID, userID string) error {
	return s.authorize(ctx, groupID, userID)
}

// History pages a group's messages for the REST surface. Members only.
func (s *service) History(ctx context.Context, groupID, userID string, limit int) ([]*GroupMessage, error) {
	if err := s.authorize(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.messages.FindByGroupID(ctx, groupID, limit)
}
