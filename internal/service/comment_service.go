package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/placement-cell/forum-api/internal/dto"
	"github.com/placement-cell/forum-api/internal/models"
	"github.com/placement-cell/forum-api/internal/observability"
	"github.com/placement-cell/forum-api/internal/repository"
)

// NotificationPublisher exposes the subset of the notification service
// needed by forum write paths.
type NotificationPublisher interface {
	Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
}

// CommentService exposes comment use-cases scoped to a topic.
type CommentService interface {
	Create(ctx context.Context, topicID uint, author models.AuthorSnapshot, payload dto.CommentCreateRequest) (dto.CommentResponse, error)
	List(ctx context.Context, topicID uint, query dto.CommentListQuery) (dto.CommentListResponse, error)
}

type commentService struct {
	comments       repository.CommentRepository
	topics         repository.TopicRepository
	notifications  NotificationPublisher
	validator      *validator.Validate
	logger         zerolog.Logger
	tracer         trace.Tracer
	sanitizer      *bluemonday.Policy
	mentionPattern *regexp.Regexp
}

// NewCommentService constructs a comment service.
func NewCommentService(comments repository.CommentRepository, topics repository.TopicRepository, notifications NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) CommentService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &commentService{
		comments:       comments,
		topics:         topics,
		notifications:  notifications,
		validator:      validate,
		logger:         logger.With().Str("component", "comment_service").Logger(),
		tracer:         otel.Tracer("github.com/placement-cell/forum-api/internal/service/comment"),
		sanitizer:      policy,
		mentionPattern: regexp.MustCompile(`@([a-zA-Z0-9_\-:]+)`),
	}
}

func (s *commentService) Create(ctx context.Context, topicID uint, author models.AuthorSnapshot, payload dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.CommentResponse{}, fmt.Errorf("%w: comment content empty after sanitization", ErrInvalidInput)
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("comment.topic_id", int64(topicID)),
		attribute.String("comment.author_id", author.UserID),
	}

	spanCtx, span := s.tracer.Start(ctx, "comment.create", trace.WithAttributes(attrs...))
	defer span.End()

	topic, err := s.topics.GetActive(spanCtx, topicID)
	if err != nil {
		return dto.CommentResponse{}, err
	}

	comment := models.Comment{
		TopicID:  topicID,
		Content:  content,
		Author:   author,
		ParentID: payload.ParentID,
	}

	if err := s.comments.Create(spanCtx, &comment); err != nil {
		span.RecordError(err)
		return dto.CommentResponse{}, err
	}

	observability.CommentsCreated().Inc()
	s.logger.Info().Uint("comment_id", comment.ID).Uint("topic_id", topicID).Str("author_id", author.UserID).Msg("comment created")

	s.dispatchNotifications(spanCtx, topic, comment)

	return dto.NewCommentResponse(comment), nil
}

func (s *commentService) List(ctx context.Context, topicID uint, query dto.CommentListQuery) (dto.CommentListResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.CommentListResponse{}, err
	}

	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	comments, err := s.comments.List(ctx, topicID, repository.Cursor{Limit: limit, Before: query.Before})
	if err != nil {
		return dto.CommentListResponse{}, err
	}

	response := dto.CommentListResponse{
		Comments: dto.NewCommentResponseSlice(comments),
		HasMore:  len(comments) == limit,
	}
	if len(comments) > 0 {
		cursor := comments[len(comments)-1].CreatedAt
		response.NextCursor = &cursor
	}

	return response, nil
}

// dispatchNotifications notifies the topic author and any @mentioned users.
// Failures only log; a comment is never rolled back over a notification.
func (s *commentService) dispatchNotifications(ctx context.Context, topic models.Topic, comment models.Comment) {
	if s.notifications == nil {
		return
	}

	targets := make(map[string]struct{})
	if topic.Author.UserID != "" && topic.Author.UserID != comment.Author.UserID {
		targets[topic.Author.UserID] = struct{}{}
	}
	for _, mention := range s.extractMentions(comment.Content) {
		if mention == comment.Author.UserID {
			continue
		}
		targets[mention] = struct{}{}
	}

	for userID := range targets {
		payload := dto.NotificationCreateRequest{
			UserID:  userID,
			Type:    "topic_comment",
			Message: fmt.Sprintf("New comment on topic '%s'", topic.Title),
		}
		if _, err := s.notifications.Publish(ctx, payload); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to publish comment notification")
		}
	}
}

func (s *commentService) extractMentions(content string) []string {
	matches := s.mentionPattern.FindAllStringSubmatch(content, -1)
	mentions := make([]string, 0, len(matches))
	for _, match := range matches {
		if len(match) < 2 {
			continue
		}
		mention := strings.TrimSpace(match[1])
		if mention != "" {
			mentions = append(mentions, mention)
		}
	}
	return mentions
}
