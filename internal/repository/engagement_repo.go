package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/placement-cell/forum-api/internal/models"
)

// EngagementRepository owns the like sub-state of topics. It is the only
// component allowed to touch topic_likes and likes_count; the generic topic
// update path never reaches either.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, topicID uint, userID string) (bool, error)
	IsLiked(ctx context.Context, topicID uint, userID string) (bool, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository constructs a GORM-backed repository.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// ToggleLike flips the caller's like on a topic. Membership row and counter
// move in one transaction, so likes_count always equals the number of
// topic_likes rows. A concurrent duplicate insert trips the unique index
// and surfaces as gorm.ErrDuplicatedKey; callers retry the whole toggle.
func (r *engagementRepository) ToggleLike(ctx context.Context, topicID uint, userID string) (bool, error) {
	var liked bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		if err := tx.Select("id").
			Where("id = ? AND is_active = ?", topicID, true).
			First(&topic).Error; err != nil {
			return err
		}

		removed := tx.Where("topic_id = ? AND user_id = ?", topicID, userID).
			Delete(&models.TopicLike{})
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected > 0 {
			liked = false
			return tx.Model(&models.Topic{}).
				Where("id = ?", topicID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - ?", removed.RowsAffected)).
				Error
		}

		if err := tx.Create(&models.TopicLike{TopicID: topicID, UserID: userID}).Error; err != nil {
			return err
		}

		liked = true
		return tx.Model(&models.Topic{}).
			Where("id = ?", topicID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).
			Error
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}

func (r *engagementRepository) IsLiked(ctx context.Context, topicID uint, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TopicLike{}).
		Where("topic_id = ? AND user_id = ?", topicID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
