package settings

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	fieldAPIKey        = "api_key"
	fieldSenderID      = "sender_id"
	fieldTemplate      = "message_template"
	fieldAdminPhone    = "admin_phone"
	fieldAdminNotifies = "enable_admin_notifications"
)

// RedisStore keeps the settings record in a single Redis hash.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Settings(ctx context.Context) (Settings, error) {
	vals, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", s.key, err)
	}

	return Settings{
		APIKey:                    vals[fieldAPIKey],
		SenderID:                  vals[fieldSenderID],
		MessageTemplate:           vals[fieldTemplate],
		AdminPhone:                vals[fieldAdminPhone],
		AdminNotificationsEnabled: vals[fieldAdminNotifies] == "1",
	}, nil
}

func (s *RedisStore) Save(ctx context.Context, in Settings) error {
	enabled := "0"
	if in.AdminNotificationsEnabled {
		enabled = "1"
	}

	err := s.rdb.HSet(ctx, s.key, map[string]any{
		fieldAPIKey:        in.APIKey,
		fieldSenderID:      in.SenderID,
		fieldTemplate:      in.MessageTemplate,
		fieldAdminPhone:    in.AdminPhone,
		fieldAdminNotifies: enabled,
	}).Err()
	if err != nil {
		return fmt.Errorf("save settings %s: %w", s.key, err)
	}
	return nil
}
