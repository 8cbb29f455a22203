package cache

import (
	"testing"
	"time"

	"onboard-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client), mr
}

func TestUnreadCountRoundTrip(t *testing.T) {
	c, mr := setupCache(t)
	userID := primitive.NewObjectID().Hex()

	// Miss before anything is stored
	count, hit, err := c.GetUnreadCount(userID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, count)

	require.NoError(t, c.SetUnreadCount(userID, 7, DefaultUnreadCountTTL))

	count, hit, err = c.GetUnreadCount(userID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(7), count)

	// Invalidate takes the entry back to a miss
	require.NoError(t, c.InvalidateUnreadCount(userID))
	_, hit, err = c.GetUnreadCount(userID)
	require.NoError(t, err)
	assert.False(t, hit)

	// TTL expiry behaves the same as invalidation
	require.NoError(t, c.SetUnreadCount(userID, 3, time.Minute))
	mr.FastForward(2 * time.Minute)
	_, hit, err = c.GetUnreadCount(userID)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestActiveTrainingsRoundTrip(t *testing.T) {
	c, _ := setupCache(t)

	// Miss is nil, not an error
	trainings, err := c.GetActiveTrainings()
	require.NoError(t, err)
	assert.Nil(t, trainings)

	stored := []*models.Training{
		{
			ID:           primitive.NewObjectID(),
			Title:        "Workplace Safety",
			TrainingType: models.TrainingTypeOrientation,
			Status:       models.TrainingStatusActive,
		},
		{
			ID:           primitive.NewObjectID(),
			Title:        "Security Awareness",
			TrainingType: models.TrainingTypeCompliance,
			Status:       models.TrainingStatusActive,
			IsCompliance: true,
		},
	}
	require.NoError(t, c.SetActiveTrainings(stored, DefaultCatalogTTL))

	trainings, err = c.GetActiveTrainings()
	require.NoError(t, err)
	require.Len(t, trainings, 2)
	assert.Equal(t, stored[0].ID, trainings[0].ID)
	assert.Equal(t, stored[1].Title, trainings[1].Title)

	require.NoError(t, c.InvalidateActiveTrainings())
	trainings, err = c.GetActiveTrainings()
	require.NoError(t, err)
	assert.Nil(t, trainings)
}
