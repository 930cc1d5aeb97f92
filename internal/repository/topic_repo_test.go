package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/placement-cell/forum-api/internal/models"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Topic{}, &models.TopicLike{}, &models.Comment{}, &models.Notification{}))
	return db
}

func seedTopic(t *testing.T, db *gorm.DB, title, company string, createdAt time.Time) models.Topic {
	t.Helper()
	topic := models.Topic{
		Title:     title,
		Company:   company,
		Content:   "content for " + title,
		Author:    models.AuthorSnapshot{UserID: "author-1", Name: "Author One"},
		IsActive:  true,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&topic).Error)
	return topic
}

func TestTopicRepositoryCreateResetsCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepository(db)

	topic := models.Topic{
		Title:      "Interview Experience",
		Company:    "Acme",
		Content:    "rounds and questions",
		Author:     models.AuthorSnapshot{UserID: "u1", Name: "User One"},
		LikesCount: 42,
		IsActive:   false,
	}
	require.NoError(t, repo.Create(context.Background(), &topic))
	require.NotZero(t, topic.ID)

	stored, err := repo.Get(context.Background(), topic.ID)
	require.NoError(t, err)
	require.True(t, stored.IsActive, "created topics must start active")
	require.Zero(t, stored.LikesCount)
	require.Zero(t, stored.CommentsCount)
	require.Zero(t, stored.ViewsCount)
}

func TestTopicRepositoryGetActiveSkipsInactive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepository(db)

	topic := seedTopic(t, db, "Hidden", "Acme", time.Now())
	require.NoError(t, db.Model(&models.Topic{}).Where("id = ?", topic.ID).Update("is_active", false).Error)

	_, err := repo.GetActive(context.Background(), topic.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	stored, err := repo.Get(context.Background(), topic.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)
}

func TestTopicRepositoryIncrementViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepository(db)

	topic := seedTopic(t, db, "Views", "Acme", time.Now())
	require.NoError(t, repo.IncrementViews(context.Background(), topic.ID))
	require.NoError(t, repo.IncrementViews(context.Background(), topic.ID))

	stored, err := repo.Get(context.Background(), topic.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), stored.ViewsCount)
}

func TestTopicRepositoryUpdate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepository(db)

	topic := seedTopic(t, db, "Before", "Acme", time.Now())

	updated, err := repo.Update(context.Background(), topic.ID, map[string]interface{}{
		"title":     "After",
		"is_pinned": true,
	})
	require.NoError(t, err)
	require.Equal(t, "After", updated.Title)
	require.True(t, updated.IsPinned)

	_, err = repo.Update(context.Background(), 9999, map[string]interface{}{"title": "Ghost"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTopicRepositorySoftDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepository(db)

	topic := seedTopic(t, db, "Doomed", "Acme", time.Now())

	require.NoError(t, repo.SoftDelete(context.Background(), topic.ID))

	stored, err := repo.Get(context.Background(), topic.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)

	// Soft delete is idempotent: the row still matches, so a second call
	// succeeds without changing anything.
	require.NoError(t, repo.SoftDelete(context.Background(), topic.ID))

	require.ErrorIs(t, repo.SoftDelete(context.Background(), 9999), gorm.ErrRecordNotFound)
}

func TestTopicRepositoryListKeysetPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepository(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedTopic(t, db, fmt.Sprintf("Topic %d", i), "Acme", base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.List(context.Background(), TopicFilter{}, Cursor{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, "Topic 4", first[0].Title)
	require.Equal(t, "Topic 3", first[1].Title)

	// A topic created mid-pagination is newer than the cursor and must not
	// shift the remaining pages.
	seedTopic(t, db, "Topic 5", "Acme", base.Add(10*time.Minute))

	cursor := first[len(first)-1].CreatedAt
	second, err := repo.List(context.Background(), TopicFilter{}, Cursor{Limit: 2, Before: &cursor})
	require.NoError(t, err)
	require.Len(t, second, 2)
	require.Equal(t, "Topic 2", second[0].Title)
	require.Equal(t, "Topic 1", second[1].Title)

	cursor = second[len(second)-1].CreatedAt
	third, err := repo.List(context.Background(), TopicFilter{}, Cursor{Limit: 2, Before: &cursor})
	require.NoError(t, err)
	require.Len(t, third, 1)
	require.Equal(t, "Topic 0", third[0].Title)
}

func TestTopicRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepository(db)

	now := time.Now()
	seedTopic(t, db, "Acme OA round", "Acme", now.Add(-3*time.Minute))
	seedTopic(t, db, "Globex system design", "Globex", now.Add(-2*time.Minute))
	inactive := seedTopic(t, db, "Acme ghosted me", "Acme", now.Add(-time.Minute))
	require.NoError(t, db.Model(&models.Topic{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	byCompany, err := repo.List(context.Background(), TopicFilter{Company: "Acme"}, Cursor{Limit: 10})
	require.NoError(t, err)
	require.Len(t, byCompany, 1, "inactive topics stay out of listings")
	require.Equal(t, "Acme OA round", byCompany[0].Title)

	bySearch, err := repo.List(context.Background(), TopicFilter{Search: "SYSTEM"}, Cursor{Limit: 10})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	require.Equal(t, "Globex system design", bySearch[0].Title)
}

func TestTopicRepositoryCountByCompany(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTopicRepository(db)

	now := time.Now()
	seedTopic(t, db, "A1", "Acme", now.Add(-5*time.Minute))
	seedTopic(t, db, "A2", "Acme", now.Add(-4*time.Minute))
	seedTopic(t, db, "B1", "Globex", now.Add(-3*time.Minute))
	seedTopic(t, db, "C1", "Initech", now.Add(-2*time.Minute))
	hidden := seedTopic(t, db, "C2", "Initech", now.Add(-time.Minute))
	require.NoError(t, db.Model(&models.Topic{}).Where("id = ?", hidden.ID).Update("is_active", false).Error)

	stats, err := repo.CountByCompany(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	require.Equal(t, models.CompanyStat{Name: "Acme", Count: 2}, stats[0])
	// Equal counts tie-break alphabetically.
	require.Equal(t, models.CompanyStat{Name: "Globex", Count: 1}, stats[1])
	require.Equal(t, models.CompanyStat{Name: "Initech", Count: 1}, stats[2])
}
