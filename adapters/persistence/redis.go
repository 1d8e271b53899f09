package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/internal/config"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/domain/insight"
	"github.com/khoahotran/pawpal/internal/domain/training"
	"github.com/khoahotran/pawpal/pkg/logger"
)

func NewRedisClient(cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.", zap.String("addr", cfg.Redis.Addr))
	return rdb, nil
}

const requirementsKey = "pawpal:skill_requirements"

type redisRequirementCache struct {
	rdb *redis.Client
}

func NewRedisRequirementCache(rdb *redis.Client) training.RequirementCache {
	return &redisRequirementCache{rdb: rdb}
}

func (c *redisRequirementCache) GetRequirements(ctx context.Context) ([]training.Requirement, bool, error) {
	raw, err := c.rdb.Get(ctx, requirementsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var reqs []training.Requirement
	if err := json.Unmarshal(raw, &reqs); err != nil {
		return nil, false, err
	}
	return reqs, true, nil
}

func (c *redisRequirementCache) SetRequirements(ctx context.Context, reqs []training.Requirement, ttl time.Duration) error {
	raw, err := json.Marshal(reqs)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, requirementsKey, raw, ttl).Err()
}

type redisInsightCache struct {
	rdb *redis.Client
}

func NewRedisInsightCache(rdb *redis.Client) insight.Cache {
	return &redisInsightCache{rdb: rdb}
}

func insightKey(subjectID uuid.UUID, kind insight.Kind) string {
	return fmt.Sprintf("pawpal:insight:%s:%s", subjectID, kind)
}

func (c *redisInsightCache) Get(ctx context.Context, subjectID uuid.UUID, kind insight.Kind) (*insight.Insight, bool, error) {
	raw, err := c.rdb.Get(ctx, insightKey(subjectID, kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	in := &insight.Insight{}
	if err := json.Unmarshal(raw, in); err != nil {
		return nil, false, err
	}
	return in, true, nil
}

func (c *redisInsightCache) Set(ctx context.Context, in *insight.Insight, ttl time.Duration) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, insightKey(in.SubjectID, in.Kind), raw, ttl).Err()
}

// Evict drops every cached kind for the subject.
func (c *redisInsightCache) Evict(ctx context.Context, subjectID uuid.UUID) error {
	kinds := append(insight.DogKinds(), insight.KindLifestyle)
	keys := make([]string, len(kinds))
	for i, k := range kinds {
		keys[i] = insightKey(subjectID, k)
	}
	return c.rdb.Del(ctx, keys...).Err()
}

type redisPreferenceStore struct {
	rdb *redis.Client
}

func NewRedisPreferenceStore(rdb *redis.Client) dog.PreferenceStore {
	return &redisPreferenceStore{rdb: rdb}
}

func selectedDogKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("pawpal:user:%s:selected_dog", ownerID)
}

func (s *redisPreferenceStore) GetSelectedDog(ctx context.Context, ownerID uuid.UUID) (uuid.UUID, bool, error) {
	val, err := s.rdb.Get(ctx, selectedDogKey(ownerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

func (s *redisPreferenceStore) SetSelectedDog(ctx context.Context, ownerID, dogID uuid.UUID) error {
	return s.rdb.Set(ctx, selectedDogKey(ownerID), dogID.String(), 0).Err()
}

func (s *redisPreferenceStore) ClearSelectedDog(ctx context.Context, ownerID uuid.UUID) error {
	return s.rdb.Del(ctx, selectedDogKey(ownerID)).Err()
}
