package groupmsg

import "time"

/** --------------------ENTITIES-------------------- */
// Group and GroupMember form the roster. The roster is owned by the travel
// domain service; this service only ever reads it to authorize senders and
// room joins.
type Group struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	OwnerID   string    `gorm:"not null" json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

type GroupMember struct {
	GroupID  string    `gorm:"primaryKey;type:varchar(36)" json:"groupId"`
	UserID   string    `gorm:"primaryKey;type:varchar(36)" json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// GroupMessage is one message broadcast into a group. Immutable once
// persisted.
type GroupMessage struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	GroupID   string    `gorm:"index;not null" json:"groupId"`
	SenderID  string    `gorm:"not null" json:"senderId"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomName returns the transport room for a group. The prefix keeps group
// rooms out of the personal room namespace, which uses raw user ids.
func RoomName(groupID string) string {
	return "group:" + groupID
}
