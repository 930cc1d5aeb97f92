package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/placement-cell/forum-api/internal/models"
)

func TestCommentRepositoryCreateIncrementsCounter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	topic := seedTopic(t, db, "Discussed", "Acme", time.Now())

	comment := models.Comment{
		TopicID: topic.ID,
		Content: "great writeup",
		Author:  models.AuthorSnapshot{UserID: "u2", Name: "User Two"},
	}
	require.NoError(t, repo.Create(context.Background(), &comment))
	require.NotZero(t, comment.ID)
	require.True(t, comment.IsActive)

	var stored models.Topic
	require.NoError(t, db.First(&stored, topic.ID).Error)
	require.Equal(t, int64(1), stored.CommentsCount)
}

func TestCommentRepositoryCreateRejectsInactiveTopic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	topic := seedTopic(t, db, "Closed", "Acme", time.Now())
	require.NoError(t, db.Model(&models.Topic{}).Where("id = ?", topic.ID).Update("is_active", false).Error)

	comment := models.Comment{
		TopicID: topic.ID,
		Content: "too late",
		Author:  models.AuthorSnapshot{UserID: "u2", Name: "User Two"},
	}
	require.ErrorIs(t, repo.Create(context.Background(), &comment), gorm.ErrRecordNotFound)

	// The aborted transaction must leave no orphan comment behind.
	var rows int64
	require.NoError(t, db.Model(&models.Comment{}).Where("topic_id = ?", topic.ID).Count(&rows).Error)
	require.Zero(t, rows)
}

func TestCommentRepositoryListKeysetPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	topic := seedTopic(t, db, "Busy thread", "Acme", time.Now().Add(-time.Hour))

	base := time.Now().Add(-30 * time.Minute)
	for i := 0; i < 3; i++ {
		comment := models.Comment{
			TopicID:   topic.ID,
			Content:   fmt.Sprintf("comment %d", i),
			Author:    models.AuthorSnapshot{UserID: "u2", Name: "User Two"},
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&comment).Error)
	}

	// Threaded replies stay out of the top-level listing.
	parentID := uint(1)
	reply := models.Comment{
		TopicID:   topic.ID,
		Content:   "nested reply",
		Author:    models.AuthorSnapshot{UserID: "u3", Name: "User Three"},
		ParentID:  &parentID,
		IsActive:  true,
		CreatedAt: base.Add(5 * time.Minute),
	}
	require.NoError(t, db.Create(&reply).Error)

	first, err := repo.List(context.Background(), topic.ID, Cursor{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, "comment 2", first[0].Content)
	require.Equal(t, "comment 1", first[1].Content)

	cursor := first[len(first)-1].CreatedAt
	second, err := repo.List(context.Background(), topic.ID, Cursor{Limit: 2, Before: &cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, "comment 0", second[0].Content)
}
