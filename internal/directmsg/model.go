package directmsg

import "time"

/** --------------------ENTITIES-------------------- */
// DirectMessage is one message between two users, grouped by the derived
// conversation id.
type DirectMessage struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SenderID       string    `gorm:"not null" json:"senderId"`
	ReceiverID     string    `gorm:"not null" json:"receiverId"`
	ConversationID string    `gorm:"index;not null" json:"conversationId"`
	Content        string    `gorm:"not null" json:"content"`
	Read           bool      `gorm:"default:false" json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}

/** -------------------- DTOs -------------------- */
// ReadReceipt is the payload of the messages_read event sent to the other
// participant after a reader acknowledged a conversation.
type ReadReceipt struct {
	UserID string `json:"userId"`
}
