package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/placement-cell/forum-api/internal/models"
)

// CommentRepository persists comments scoped to a topic.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	List(ctx context.Context, topicID uint, cursor Cursor) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository constructs a GORM-backed repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and increments the parent topic's comment
// counter in the same transaction. Either both land or neither does; a
// missing or inactive parent aborts with gorm.ErrRecordNotFound before any
// row is written.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		if err := tx.Select("id").
			Where("id = ? AND is_active = ?", comment.TopicID, true).
			First(&topic).Error; err != nil {
			return err
		}

		comment.IsActive = true
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Topic{}).
			Where("id = ?", comment.TopicID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).
			Error
	})
}

func (r *commentRepository) List(ctx context.Context, topicID uint, cursor Cursor) ([]models.Comment, error) {
	limit := cursor.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	query := r.db.WithContext(ctx).
		Where("topic_id = ? AND is_active = ? AND parent_id IS NULL", topicID, true)
	if cursor.Before != nil {
		query = query.Where("created_at < ?", *cursor.Before)
	}

	var comments []models.Comment
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, err
	}

	return comments, nil
}
