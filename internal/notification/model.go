package notification

import "time"

// Notification is a durable event addressed to one user, retrievable on next
// login even when the live push never reached them.
type Notification struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"index;not null" json:"userId"`
	Type      string    `gorm:"not null" json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Seen      bool      `gorm:"default:false" json:"seen"`
	CreatedAt time.Time `json:"createdAt"`
}

// DispatchRequest is the contract domain services use to push a notification.
type DispatchRequest struct {
	UserID string `json:"userId" binding:"required"`
	Type   string `json:"type" binding:"required"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}
