package ratelimit

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store persists one Record per user. Get returns a zero-valued record for
// users it has never seen; the row is only written once Save is called.
type Store interface {
	Get(ctx context.Context, userID string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, userID string) (*Record, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Record{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *gormStore) Save(ctx context.Context, rec *Record) error {
	return s.db.WithContext(ctx).Save(rec).Error
}
