package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/placement-cell/forum-api/internal/models"
)

// Cursor is the keyset cursor shared by topic and comment listings. Paging
// is anchored on created_at so concurrent inserts never skip or duplicate
// rows, which offset paging cannot guarantee.
type Cursor struct {
	Limit  int
	Before *time.Time
}

// TopicFilter narrows topic listings.
type TopicFilter struct {
	Search  string
	Company string
}

// TopicRepository persists forum topics.
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	Get(ctx context.Context, id uint) (models.Topic, error)
	GetActive(ctx context.Context, id uint) (models.Topic, error)
	IncrementViews(ctx context.Context, id uint) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) (models.Topic, error)
	SoftDelete(ctx context.Context, id uint) error
	List(ctx context.Context, filter TopicFilter, cursor Cursor) ([]models.Topic, error)
	CountByCompany(ctx context.Context) ([]models.CompanyStat, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository constructs a GORM-backed repository.
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	topic.IsActive = true
	topic.LikesCount = 0
	topic.CommentsCount = 0
	topic.ViewsCount = 0
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepository) Get(ctx context.Context, id uint) (models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return models.Topic{}, err
	}
	return topic, nil
}

func (r *topicRepository) GetActive(ctx context.Context, id uint) (models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&topic).Error; err != nil {
		return models.Topic{}, err
	}
	return topic, nil
}

// IncrementViews bumps the view counter without reading it first. It is
// deliberately outside any transaction; a lost increment under concurrent
// reads is acceptable.
func (r *topicRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Topic{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).
		Error
}

func (r *topicRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (models.Topic, error) {
	result := r.db.WithContext(ctx).Model(&models.Topic{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return models.Topic{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Topic{}, gorm.ErrRecordNotFound
	}
	return r.Get(ctx, id)
}

func (r *topicRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.Topic{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *topicRepository) List(ctx context.Context, filter TopicFilter, cursor Cursor) ([]models.Topic, error) {
	limit := cursor.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	query := r.db.WithContext(ctx).Where("is_active = ?", true)

	if company := strings.TrimSpace(filter.Company); company != "" {
		query = query.Where("company = ?", company)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", term, term)
	}
	if cursor.Before != nil {
		query = query.Where("created_at < ?", *cursor.Before)
	}

	var topics []models.Topic
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&topics).Error; err != nil {
		return nil, err
	}

	return topics, nil
}

func (r *topicRepository) CountByCompany(ctx context.Context) ([]models.CompanyStat, error) {
	var stats []models.CompanyStat
	if err := r.db.WithContext(ctx).Model(&models.Topic{}).
		Select("company AS name, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("company").
		Order("count DESC, company ASC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
