package directmsg

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"trip-chat-service/internal/archive"
	"trip-chat-service/internal/conversation"
	"trip-chat-service/internal/notification"
)

var (
	ErrEmptyReceiver = errors.New("receiverId is required")
	ErrEmptyContent  = errors.New("content is required")
	ErrSelfMessage   = errors.New("cannot send a message to yourself")
)

const (
	EventNewMessage   = "new_message"
	EventMessageSent  = "message_sent"
	EventMessagesRead = "messages_read"
)

type Service interface {
	Send(ctx context.Context, senderID, receiverID, content string) (*DirectMessage, error)
	MarkRead(ctx context.Context, readerID, otherUserID string) error
	History(ctx context.Context, userID, otherUserID string, limit int) ([]*DirectMessage, error)
	DeleteConversation(ctx context.Context, userID, otherUserID string) error
}

type service struct {
	repo        Repository
	broadcaster notification.Broadcaster
	sink        archive.Sink
}

func NewService(repo Repository, broadcaster notification.Broadcaster, sink archive.Sink) Service {
	return &service{repo: repo, broadcaster: broadcaster, sink: sink}
}

// Send persists the message and only then delivers it: new_message to the
// receiver's personal room, message_sent back to the sender's. A client must
// never observe a message before it is durable.
func (s *service) Send(ctx context.Context, senderID, receiverID, content string) (*DirectMessage, error) {
	if receiverID == "" {
		return nil, ErrEmptyReceiver
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	if receiverID == senderID {
		return nil, ErrSelfMessage
	}

	msg := &DirectMessage{
		ID:             uuid.New().String(),
		SenderID:       senderID,
		ReceiverID:     receiverID,
		ConversationID: conversation.PairID(senderID, receiverID),
		Content:        content,
		CreatedAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcaster.SendToUser(receiverID, EventNewMessage, msg)
	s.broadcaster.SendToUser(senderID, EventMessageSent, msg)

	if s.sink != nil {
		s.sink.Publish(archive.Event{
			Kind:           "direct",
			MessageID:      msg.ID,
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			CreatedAt:      msg.CreatedAt,
		})
	}

	return msg, nil
}

// MarkRead acknowledges everything addressed to the reader in one
// conversation, then tells the other participant so their unread counts
// reconcile. The read-state update stands on its own; the live notification
// is best-effort.
func (s *service) MarkRead(ctx context.Context, readerID, otherUserID string) error {
	if otherUserID == "" {
		return ErrEmptyReceiver
	}

	conversationID := conversation.PairID(readerID, otherUserID)
	if err := s.repo.MarkRead(ctx, conversationID, readerID); err != nil {
		return err
	}

	s.broadcaster.SendToUser(otherUserID, EventMessagesRead, &ReadReceipt{UserID: readerID})
	return nil
}

func (s *service) History(ctx context.Context, userID, otherUserID string, limit int) ([]*DirectMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.FindByConversationID(ctx, conversation.PairID(userID, otherUserID), limit)
}

// DeleteConversation bulk-deletes a pair's history on behalf of the domain
// layer.
func (s *service) DeleteConversation(ctx context.Context, userID, otherUserID string) error {
	conversationID := conversation.PairID(userID, otherUserID)
	slog.Info("Deleting conversation history", "conversationID", conversationID, "requestedBy", userID)
	return s.repo.DeleteByConversationID(ctx, conversationID)
}
