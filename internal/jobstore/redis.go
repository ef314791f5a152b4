package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"lecture-insights-go/internal/types"
)

const redisKeyPrefix = "job:"

// RedisStore keeps one JSON document per job in redis. Records do not
// expire; storage growth management is out of scope.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load reads the record for id, or ErrNotFound when absent.
func (s *RedisStore) Load(ctx context.Context, id string) (*types.Job, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read job %s: %w", id, err)
	}

	var job types.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

// Save overwrites the record for id.
func (s *RedisStore) Save(ctx context.Context, id string, job *types.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", id, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, data, 0).Err(); err != nil {
		return fmt.Errorf("write job %s: %w", id, err)
	}
	return nil
}
