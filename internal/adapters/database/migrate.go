package database

import (
	"fmt"

	"gorm.io/gorm"

	"trip-chat-service/internal/directmsg"
	"trip-chat-service/internal/groupmsg"
	"trip-chat-service/internal/notification"
	"trip-chat-service/internal/ratelimit"
)

// Migrate runs the schema migration for every table this service owns.
// The group and group_members tables are created too so a fresh database is
// usable, but this service only ever reads them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&directmsg.DirectMessage{},
		&groupmsg.Group{},
		&groupmsg.GroupMember{},
		&groupmsg.GroupMessage{},
		&notification.Notification{},
		&ratelimit.Record{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
