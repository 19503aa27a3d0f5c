package groupmsg

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// RosterRepository is the read-only view of group membership.
type RosterRepository interface {
	GroupExists(ctx context.Context, groupID string) (bool, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *GroupMessage) error
	FindByGroupID(ctx context.Context, groupID string, limit int) ([]*GroupMessage, error)
}

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) GroupExists(ctx context.Context, groupID string) (bool, error) {
	err := r.db.WithContext(ctx).First(&Group{}, "id = ?", groupID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *rosterRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *GroupMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepository) FindByGroupID(ctx context.Context, groupID string, limit int) ([]*GroupMessage, error) {
	var msgs []*GroupMessage
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}
