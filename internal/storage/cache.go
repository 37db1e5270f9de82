package storage

import (
	"complaintdesk/backend/internal/models"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ComplaintEventsChannel is the Redis Pub/Sub channel carrying models.ComplaintEvent JSON.
const ComplaintEventsChannel = "complaints:events"

const cacheKeyPrefix = "cache:"

// GetCached returns the cached bytes for key. A miss is (nil, false, nil).
func (s *Service) GetCached(ctx context.Context, key string) ([]byte, bool, error) {
	if s.Redis == nil {
		return nil, false, nil
	}
	val, err := s.Redis.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// SetCached stores value under key until ttl elapses.
func (s *Service) SetCached(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Set(ctx, cacheKeyPrefix+key, value, ttl).Err()
}

// PublishComplaintEvent fans the event out to every API instance.
func (s *Service) PublishComplaintEvent(ctx context.Context, event models.ComplaintEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, ComplaintEventsChannel, payload).Err()
}

// SubscribeComplaintEvents opens a subscription to the complaint event channel.
// It returns nil when Redis is not configured.
func (s *Service) SubscribeComplaintEvents(ctx context.Context) *redis.PubSub {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Subscribe(ctx, ComplaintEventsChannel)
}
