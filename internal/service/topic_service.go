package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/placement-cell/forum-api/internal/dto"
	"github.com/placement-cell/forum-api/internal/models"
	"github.com/placement-cell/forum-api/internal/observability"
	"github.com/placement-cell/forum-api/internal/repository"
)

// TopicService exposes topic use-cases.
type TopicService interface {
	Create(ctx context.Context, author models.AuthorSnapshot, payload dto.TopicCreateRequest) (dto.TopicResponse, error)
	Get(ctx context.Context, id uint, callerID string) (dto.TopicResponse, error)
	Update(ctx context.Context, id uint, actorID, role string, payload dto.TopicUpdateRequest) (dto.TopicResponse, error)
	Delete(ctx context.Context, id uint, actorID, role string) error
	List(ctx context.Context, query dto.TopicListQuery) (dto.TopicListResponse, error)
}

type topicService struct {
	topics     repository.TopicRepository
	engagement repository.EngagementRepository
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	sanitizer  *bluemonday.Policy
}

// NewTopicService constructs a topic service.
func NewTopicService(topics repository.TopicRepository, engagement repository.EngagementRepository, validate *validator.Validate, logger zerolog.Logger) TopicService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &topicService{
		topics:     topics,
		engagement: engagement,
		validator:  validate,
		logger:     logger.With().Str("component", "topic_service").Logger(),
		tracer:     otel.Tracer("github.com/placement-cell/forum-api/internal/service/topic"),
		sanitizer:  policy,
	}
}

func (s *topicService) Create(ctx context.Context, author models.AuthorSnapshot, payload dto.TopicCreateRequest) (dto.TopicResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TopicResponse{}, err
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if title == "" {
		return dto.TopicResponse{}, fmt.Errorf("%w: topic title empty after sanitization", ErrInvalidInput)
	}
	if content == "" {
		return dto.TopicResponse{}, fmt.Errorf("%w: topic content empty after sanitization", ErrInvalidInput)
	}

	attrs := []attribute.KeyValue{
		attribute.String("topic.author_id", author.UserID),
		attribute.String("topic.company", payload.Company),
	}

	spanCtx, span := s.tracer.Start(ctx, "topic.create", trace.WithAttributes(attrs...))
	defer span.End()

	topic := models.Topic{
		Title:   title,
		Company: strings.TrimSpace(payload.Company),
		Content: content,
		Tags:    datatypes.JSONSlice[string](cleanTags(payload.Tags)),
		Images:  datatypes.JSONSlice[string](payload.Images),
		Author:  author,
	}

	if err := s.topics.Create(spanCtx, &topic); err != nil {
		span.RecordError(err)
		return dto.TopicResponse{}, err
	}

	observability.TopicsCreated().Inc()
	s.logger.Info().Uint("topic_id", topic.ID).Str("author_id", author.UserID).Str("company", topic.Company).Msg("topic created")

	return dto.NewTopicResponse(topic), nil
}

// Get returns an active topic and bumps its view counter. The increment is
// fire-and-forget relative to the read; a failure only logs.
func (s *topicService) Get(ctx context.Context, id uint, callerID string) (dto.TopicResponse, error) {
	topic, err := s.topics.GetActive(ctx, id)
	if err != nil {
		return dto.TopicResponse{}, err
	}

	if err := s.topics.IncrementViews(ctx, id); err != nil {
		s.logger.Warn().Err(err).Uint("topic_id", id).Msg("failed to increment view count")
	} else {
		topic.ViewsCount++
	}

	response := dto.NewTopicResponse(topic)
	if callerID != "" {
		liked, err := s.engagement.IsLiked(ctx, id, callerID)
		if err != nil {
			s.logger.Warn().Err(err).Uint("topic_id", id).Msg("failed to resolve like status")
		} else {
			response.IsLiked = &liked
		}
	}

	return response, nil
}

func (s *topicService) Update(ctx context.Context, id uint, actorID, role string, payload dto.TopicUpdateRequest) (dto.TopicResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TopicResponse{}, err
	}
	if payload.Empty() {
		return dto.TopicResponse{}, ErrEmptyUpdate
	}

	topic, err := s.topics.Get(ctx, id)
	if err != nil {
		return dto.TopicResponse{}, err
	}

	if err := s.authorizeMutation(topic.Author.UserID, actorID, role); err != nil {
		return dto.TopicResponse{}, err
	}

	fields := map[string]interface{}{}

	if payload.Title != nil {
		title := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Title))
		if title == "" {
			return dto.TopicResponse{}, fmt.Errorf("%w: topic title empty after sanitization", ErrInvalidInput)
		}
		fields["title"] = title
	}
	if payload.Content != nil {
		content := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Content))
		if content == "" {
			return dto.TopicResponse{}, fmt.Errorf("%w: topic content empty after sanitization", ErrInvalidInput)
		}
		fields["content"] = content
	}
	if payload.Tags != nil {
		fields["tags"] = datatypes.JSONSlice[string](cleanTags(*payload.Tags))
	}
	if payload.IsActive != nil {
		fields["is_active"] = *payload.IsActive
	}
	if payload.IsPinned != nil {
		if !isModerator(role) {
			return dto.TopicResponse{}, ErrForumForbidden
		}
		fields["is_pinned"] = *payload.IsPinned
	}

	updated, err := s.topics.Update(ctx, id, fields)
	if err != nil {
		return dto.TopicResponse{}, err
	}

	s.logger.Info().Uint("topic_id", id).Str("actor_id", actorID).Msg("topic updated")

	return dto.NewTopicResponse(updated), nil
}

// Delete soft-deletes a topic. Re-deleting an already-inactive topic is a
// no-op success.
func (s *topicService) Delete(ctx context.Context, id uint, actorID, role string) error {
	topic, err := s.topics.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizeMutation(topic.Author.UserID, actorID, role); err != nil {
		return err
	}

	if err := s.topics.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("topic_id", id).Str("actor_id", actorID).Msg("topic soft-deleted")
	return nil
}

func (s *topicService) List(ctx context.Context, query dto.TopicListQuery) (dto.TopicListResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.TopicListResponse{}, err
	}

	limit := query.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	topics, err := s.topics.List(ctx,
		repository.TopicFilter{Search: query.Search, Company: query.Company},
		repository.Cursor{Limit: limit, Before: query.Before},
	)
	if err != nil {
		return dto.TopicListResponse{}, err
	}

	response := dto.TopicListResponse{
		Topics:  dto.NewTopicResponseSlice(topics),
		HasMore: len(topics) == limit,
	}
	if len(topics) > 0 {
		cursor := topics[len(topics)-1].CreatedAt
		response.NextCursor = &cursor
	}

	return response, nil
}

func (s *topicService) authorizeMutation(ownerID, actorID, role string) error {
	if actorID != "" && actorID == ownerID {
		return nil
	}
	if isModerator(role) {
		return nil
	}
	return ErrForumForbidden
}

func isModerator(role string) bool {
	return strings.ToLower(strings.TrimSpace(role)) == "admin"
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
