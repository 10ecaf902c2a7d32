// Package draftstore preserves in-progress split selections across the login
// detour. Drafts are short-lived session data, so they live in Redis with a
// TTL rather than in a durable store.
package draftstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"check-please/internal/checkout/app/core"
	"check-please/internal/checkout/domain/models"
	"check-please/internal/xpkg/config"
	"check-please/internal/xpkg/logger"
)

const draftKeyPrefix = "split_draft:"

var _ core.DraftStore = (*RedisDraftStore)(nil)

type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
	mylog  logger.Logger
}

func NewRedis(cfg config.Redis, mylog logger.Logger) *RedisDraftStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisDraftStore{
		client: client,
		ttl:    cfg.DraftTTL(),
		mylog:  mylog,
	}
}

// Ping verifies the connection at startup.
func (s *RedisDraftStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisDraftStore) Close() error {
	return s.client.Close()
}

func (s *RedisDraftStore) Save(ctx context.Context, sessionID string, sel models.SplitSelection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	if err := s.client.Set(ctx, draftKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	s.mylog.Action("draft_stored").Debug("Split draft stored", "session_id", sessionID, "ttl", s.ttl.String())
	return nil
}

func (s *RedisDraftStore) Load(ctx context.Context, sessionID string) (*models.SplitSelection, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var sel models.SplitSelection
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &sel, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, draftKeyPrefix+sessionID).Err()
}
