package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-interview-service/internal/domain"
)

const (
	sessionKey    = "interview:session"
	candidatesKey = "interview:candidates"
)

// RedisStore keeps the two snapshot records as JSON strings in Redis. A TTL
// of zero means the records never expire.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) SaveSession(ctx context.Context, snap domain.SessionSnapshot) error {
	return s.set(ctx, sessionKey, snap)
}

func (s *RedisStore) LoadSession(ctx context.Context) (domain.SessionSnapshot, error) {
	var snap domain.SessionSnapshot
	if err := s.get(ctx, sessionKey, &snap); err != nil {
		return domain.SessionSnapshot{}, err
	}
	return snap, nil
}

func (s *RedisStore) SaveCandidates(ctx context.Context, records []domain.CandidateRecord) error {
	return s.set(ctx, candidatesKey, records)
}

func (s *RedisStore) LoadCandidates(ctx context.Context) ([]domain.CandidateRecord, error) {
	var records []domain.CandidateRecord
	if err := s.get(ctx, candidatesKey, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *RedisStore) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, key string, v any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return domain.ErrSnapshotNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
