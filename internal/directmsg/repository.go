package directmsg

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, msg *DirectMessage) error
	FindByConversationID(ctx context.Context, conversationID string, limit int) ([]*DirectMessage, error)
	MarkRead(ctx context.Context, conversationID, readerID string) error
	DeleteByConversationID(ctx context.Context, conversationID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, msg *DirectMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *repository) FindByConversationID(ctx context.Context, conversationID string, limit int) ([]*DirectMessage, error) {
	var msgs []*DirectMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// MarkRead flips every unread message addressed to the reader within one
// conversation. Other conversations are never touched.
func (r *repository) MarkRead(ctx context.Context, conversationID, readerID string) error {
	return r.db.WithContext(ctx).
		Model(&DirectMessage{}).
		Where("conversation_id = ? AND receiver_id = ? AND `read` = ?", conversationID, readerID, false).
		Update("read", true).Error
}

func (r *repository) DeleteByConversationID(ctx context.Context, conversationID string) error {
	return r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&DirectMessage{}).Error
}
