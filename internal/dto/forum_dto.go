package dto

import (
	"time"

	"github.com/placement-cell/forum-api/internal/models"
)

// TopicCreateRequest is the payload for opening a new discussion topic.
type TopicCreateRequest struct {
	Title   string   `json:"title" validate:"required,min=3,max=255"`
	Company string   `json:"company" validate:"required,min=1,max=128"`
	Content string   `json:"content" validate:"required,min=1,max=20000"`
	Tags    []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=32"`
	Images  []string `json:"images" validate:"omitempty,max=5,dive,min=1,max=512"`
}

// TopicUpdateRequest carries the whitelisted partial update set. Engagement
// counters and the author snapshot are not part of this surface.
type TopicUpdateRequest struct {
	Title    *string   `json:"title" validate:"omitempty,min=3,max=255"`
	Content  *string   `json:"content" validate:"omitempty,min=1,max=20000"`
	Tags     *[]string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=32"`
	IsActive *bool     `json:"is_active"`
	IsPinned *bool     `json:"is_pinned"`
}

// Empty reports whether no updatable field was provided.
func (r TopicUpdateRequest) Empty() bool {
	return r.Title == nil && r.Content == nil && r.Tags == nil && r.IsActive == nil && r.IsPinned == nil
}

// TopicListQuery represents query filters for topic listings.
type TopicListQuery struct {
	Limit   int        `query:"limit" validate:"omitempty,min=1,max=100"`
	Before  *time.Time `query:"before"`
	Search  string     `query:"search" validate:"omitempty,max=128"`
	Company string     `query:"company" validate:"omitempty,max=128"`
}

// AuthorResponse is the serialized author snapshot.
type AuthorResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

// TopicResponse is the serialized representation of a topic. IsLiked is only
// populated when the caller is known.
type TopicResponse struct {
	ID            uint           `json:"id"`
	Title         string         `json:"title"`
	Company       string         `json:"company"`
	Content       string         `json:"content"`
	Tags          []string       `json:"tags"`
	Images        []string       `json:"images"`
	Author        AuthorResponse `json:"author"`
	LikesCount    int64          `json:"likes_count"`
	CommentsCount int64          `json:"comments_count"`
	ViewsCount    int64          `json:"views_count"`
	IsPinned      bool           `json:"is_pinned"`
	IsLiked       *bool          `json:"is_liked,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TopicListResponse wraps one keyset page of topics.
type TopicListResponse struct {
	Topics     []TopicResponse `json:"topics"`
	HasMore    bool            `json:"has_more"`
	NextCursor *time.Time      `json:"next_cursor,omitempty"`
}

// ToggleLikeResponse reports the outcome of a like toggle.
type ToggleLikeResponse struct {
	Liked bool          `json:"liked"`
	Topic TopicResponse `json:"topic"`
}

// CommentCreateRequest is the payload for replying to a topic.
type CommentCreateRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=4000"`
	ParentID *uint  `json:"parent_id" validate:"omitempty,min=1"`
}

// CommentListQuery represents query filters for comment listings.
type CommentListQuery struct {
	Limit  int        `query:"limit" validate:"omitempty,min=1,max=100"`
	Before *time.Time `query:"before"`
}

// CommentResponse is the serialized representation of a comment.
type CommentResponse struct {
	ID        uint           `json:"id"`
	TopicID   uint           `json:"topic_id"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	ParentID  *uint          `json:"parent_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CommentListResponse wraps one keyset page of comments.
type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	HasMore    bool              `json:"has_more"`
	NextCursor *time.Time        `json:"next_cursor,omitempty"`
}

// CompanyResponse is one row of the per-company rollup.
type CompanyResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// CompanyListResponse wraps the rollup.
type CompanyListResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

// NewAuthorResponse converts an author snapshot into a DTO.
func NewAuthorResponse(author models.AuthorSnapshot) AuthorResponse {
	return AuthorResponse{
		UserID: author.UserID,
		Name:   author.Name,
		Email:  author.Email,
	}
}

// NewTopicResponse converts a model into a DTO.
func NewTopicResponse(topic models.Topic) TopicResponse {
	return TopicResponse{
		ID:            topic.ID,
		Title:         topic.Title,
		Company:       topic.Company,
		Content:       topic.Content,
		Tags:          append([]string{}, topic.Tags...),
		Images:        append([]string{}, topic.Images...),
		Author:        NewAuthorResponse(topic.Author),
		LikesCount:    topic.LikesCount,
		CommentsCount: topic.CommentsCount,
		ViewsCount:    topic.ViewsCount,
		IsPinned:      topic.IsPinned,
		CreatedAt:     topic.CreatedAt,
		UpdatedAt:     topic.UpdatedAt,
	}
}

// NewTopicResponseSlice converts a slice of models into DTOs.
func NewTopicResponseSlice(topics []models.Topic) []TopicResponse {
	out := make([]TopicResponse, 0, len(topics))
	for _, topic := range topics {
		out = append(out, NewTopicResponse(topic))
	}
	return out
}

// NewCommentResponse converts a model into a DTO.
func NewCommentResponse(comment models.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TopicID:   comment.TopicID,
		Content:   comment.Content,
		Author:    NewAuthorResponse(comment.Author),
		ParentID:  comment.ParentID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// NewCommentResponseSlice converts a slice of models into DTOs.
func NewCommentResponseSlice(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, NewCommentResponse(comment))
	}
	return out
}

// NewCompanyResponseSlice converts rollup rows into DTOs.
func NewCompanyResponseSlice(stats []models.CompanyStat) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(stats))
	for _, stat := range stats {
		out = append(out, CompanyResponse{Name: stat.Name, Count: stat.Count})
	}
	return out
}
