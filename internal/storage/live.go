package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	notificationChannelPrefix = "notifications:"
	linkCodePrefix            = "tglink:"
)

// NotificationChannel is the Redis channel carrying live notifications for userID.
func NotificationChannel(userID string) string {
	return notificationChannelPrefix + userID
}

// UserFromChannel extracts the user id from a notification channel name.
func UserFromChannel(channel string) (string, bool) {
	id, ok := strings.CutPrefix(channel, notificationChannelPrefix)
	return id, ok && id != ""
}

// PublishNotification fans payload out to every instance holding a socket for userID.
func (s *Service) PublishNotification(ctx context.Context, userID string, payload []byte) error {
	return s.Redis.Publish(ctx, NotificationChannel(userID), payload).Err()
}

// SubscribeNotifications subscribes to the notification channels of all users.
func (s *Service) SubscribeNotifications(ctx context.Context) *redis.PubSub {
	return s.Redis.PSubscribe(ctx, notificationChannelPrefix+"*")
}

// AcquireCooldown reports true if key was free and is now held for ttl.
func (s *Service) AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.Redis.SetNX(ctx, "cooldown:"+key, 1, ttl).Result()
}

func (s *Service) SaveLinkCode(ctx context.Context, code, userID string, ttl time.Duration) error {
	return s.Redis.Set(ctx, linkCodePrefix+code, userID, ttl).Err()
}

// ConsumeLinkCode returns the user the code was issued to and deletes it.
// An unknown or expired code yields ErrNotFound.
func (s *Service) ConsumeLinkCode(ctx context.Context, code string) (string, error) {
	userID, err := s.Redis.GetDel(ctx, linkCodePrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
