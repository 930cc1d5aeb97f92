package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/placement-cell/forum-api/internal/models"
)

func TestEngagementRepositoryToggleRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)

	topic := seedTopic(t, db, "Likeable", "Acme", time.Now())

	liked, err := repo.ToggleLike(context.Background(), topic.ID, "u1")
	require.NoError(t, err)
	require.True(t, liked)

	isLiked, err := repo.IsLiked(context.Background(), topic.ID, "u1")
	require.NoError(t, err)
	require.True(t, isLiked)

	liked, err = repo.ToggleLike(context.Background(), topic.ID, "u1")
	require.NoError(t, err)
	require.False(t, liked)

	isLiked, err = repo.IsLiked(context.Background(), topic.ID, "u1")
	require.NoError(t, err)
	require.False(t, isLiked)

	var stored models.Topic
	require.NoError(t, db.First(&stored, topic.ID).Error)
	require.Zero(t, stored.LikesCount)
}

func TestEngagementRepositoryCounterMatchesRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)

	topic := seedTopic(t, db, "Popular", "Acme", time.Now())

	users := []string{"u1", "u2", "u3"}
	for _, user := range users {
		liked, err := repo.ToggleLike(context.Background(), topic.ID, user)
		require.NoError(t, err)
		require.True(t, liked)
	}

	_, err := repo.ToggleLike(context.Background(), topic.ID, "u2")
	require.NoError(t, err)

	var stored models.Topic
	require.NoError(t, db.First(&stored, topic.ID).Error)

	var rows int64
	require.NoError(t, db.Model(&models.TopicLike{}).Where("topic_id = ?", topic.ID).Count(&rows).Error)

	require.Equal(t, rows, stored.LikesCount, "likes_count must equal the number of like rows")
	require.Equal(t, int64(2), stored.LikesCount)
}

func TestEngagementRepositoryToggleMissingTopic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)

	_, err := repo.ToggleLike(context.Background(), 9999, "u1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEngagementRepositoryToggleInactiveTopic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)

	topic := seedTopic(t, db, "Retired", "Acme", time.Now())
	require.NoError(t, db.Model(&models.Topic{}).Where("id = ?", topic.ID).Update("is_active", false).Error)

	_, err := repo.ToggleLike(context.Background(), topic.ID, "u1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEngagementRepositoryIsLikedEmptyUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEngagementRepository(db)

	liked, err := repo.IsLiked(context.Background(), 1, "")
	require.NoError(t, err)
	require.False(t, liked)
}
