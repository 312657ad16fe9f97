package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	MessageKeyPrefix  = "message:%d"
	TimelineKeyPrefix = "timeline:%d"
)

const (
	UserTTL     = 5 * time.Minute
	MessageTTL  = 10 * time.Minute
	TimelineTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func MessageKey(messageID uint) string {
	return fmt.Sprintf(MessageKeyPrefix, messageID)
}

func TimelineKey(userID uint) string {
	return fmt.Sprintf(TimelineKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, TimelineKey(userID))
}

func InvalidateMessage(ctx context.Context, messageID uint) {
	Invalidate(ctx, MessageKey(messageID))
}

func InvalidateTimeline(ctx context.Context, userID uint) {
	Invalidate(ctx, TimelineKey(userID))
}
