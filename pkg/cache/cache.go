// Package cache holds the two hot read paths behind Redis: per-user unread
// notification counts and the active training catalog. Both are
// read-through caches; a miss falls back to MongoDB and repopulates.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"onboard-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	unreadCountKeyPrefix = "onboard:unread_count:"
	activeTrainingsKey   = "onboard:trainings:active"

	DefaultUnreadCountTTL = 5 * time.Minute
	DefaultCatalogTTL     = 10 * time.Minute
)

type Cache struct {
	client *redis.Client
}

func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// GetUnreadCount returns (count, true) on a hit and (0, false) on a miss.
func (c *Cache) GetUnreadCount(userID string) (int64, bool, error) {
	ctx, cancel := c.opCtx()
	defer cancel()

	val, err := c.client.Get(ctx, unreadCountKeyPrefix+userID).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

func (c *Cache) SetUnreadCount(userID string, count int64, ttl time.Duration) error {
	ctx, cancel := c.opCtx()
	defer cancel()

	return c.client.Set(ctx, unreadCountKeyPrefix+userID, count, ttl).Err()
}

func (c *Cache) InvalidateUnreadCount(userID string) error {
	ctx, cancel := c.opCtx()
	defer cancel()

	return c.client.Del(ctx, unreadCountKeyPrefix+userID).Err()
}

// GetActiveTrainings returns nil on a miss.
func (c *Cache) GetActiveTrainings() ([]*models.Training, error) {
	ctx, cancel := c.opCtx()
	defer cancel()

	data, err := c.client.Get(ctx, activeTrainingsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var trainings []*models.Training
	if err := json.Unmarshal(data, &trainings); err != nil {
		return nil, err
	}
	return trainings, nil
}

func (c *Cache) SetActiveTrainings(trainings []*models.Training, ttl time.Duration) error {
	data, err := json.Marshal(trainings)
	if err != nil {
		return err
	}

	ctx, cancel := c.opCtx()
	defer cancel()

	return c.client.Set(ctx, activeTrainingsKey, data, ttl).Err()
}

func (c *Cache) InvalidateActiveTrainings() error {
	ctx, cancel := c.opCtx()
	defer cancel()

	return c.client.Del(ctx, activeTrainingsKey).Err()
}

func (c *Cache) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}
