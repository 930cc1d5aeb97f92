package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/placement-cell/forum-api/internal/dto"
	"github.com/placement-cell/forum-api/internal/observability"
	"github.com/placement-cell/forum-api/internal/repository"
)

// toggleRetryLimit bounds storage-level retries of the toggle transaction.
// Client-level resubmission is NOT safe (it would flip the state again), but
// re-running the whole transaction before anything committed is.
const toggleRetryLimit = 3

// EngagementService owns like toggling. It is the only path that mutates a
// topic's like membership and counter.
type EngagementService interface {
	ToggleLike(ctx context.Context, topicID uint, userID string) (dto.ToggleLikeResponse, string, error)
}

type engagementService struct {
	engagement    repository.EngagementRepository
	topics        repository.TopicRepository
	notifications NotificationPublisher
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewEngagementService constructs an engagement service.
func NewEngagementService(engagement repository.EngagementRepository, topics repository.TopicRepository, notifications NotificationPublisher, logger zerolog.Logger) EngagementService {
	return &engagementService{
		engagement:    engagement,
		topics:        topics,
		notifications: notifications,
		logger:        logger.With().Str("component", "engagement_service").Logger(),
		tracer:        otel.Tracer("github.com/placement-cell/forum-api/internal/service/engagement"),
	}
}

// ToggleLike flips the caller's like on a topic and returns the refreshed
// topic plus a human-readable outcome message. Calling it twice in a row
// restores the original state.
func (s *engagementService) ToggleLike(ctx context.Context, topicID uint, userID string) (dto.ToggleLikeResponse, string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return dto.ToggleLikeResponse{}, "", fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("topic.id", int64(topicID)),
		attribute.String("topic.user_id", userID),
	}

	spanCtx, span := s.tracer.Start(ctx, "engagement.toggle_like", trace.WithAttributes(attrs...))
	defer span.End()

	var (
		liked bool
		err   error
	)
	for attempt := 0; attempt < toggleRetryLimit; attempt++ {
		liked, err = s.engagement.ToggleLike(spanCtx, topicID, userID)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.logger.Debug().Uint("topic_id", topicID).Int("attempt", attempt+1).Msg("like toggle collided, retrying")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		span.RecordError(err)
		return dto.ToggleLikeResponse{}, "", ErrToggleConflict
	}
	if err != nil {
		span.RecordError(err)
		return dto.ToggleLikeResponse{}, "", err
	}

	topic, err := s.topics.GetActive(spanCtx, topicID)
	if err != nil {
		return dto.ToggleLikeResponse{}, "", err
	}

	message := "Like removed"
	result := "unliked"
	if liked {
		message = "Liked successfully"
		result = "liked"
	}
	observability.LikesToggled().WithLabelValues(result).Inc()

	if liked && s.notifications != nil && topic.Author.UserID != "" && topic.Author.UserID != userID {
		payload := dto.NotificationCreateRequest{
			UserID:  topic.Author.UserID,
			Type:    "topic_liked",
			Message: fmt.Sprintf("Someone liked your topic '%s'", topic.Title),
		}
		if _, err := s.notifications.Publish(spanCtx, payload); err != nil {
			s.logger.Warn().Err(err).Str("user_id", topic.Author.UserID).Msg("failed to publish like notification")
		}
	}

	response := dto.ToggleLikeResponse{
		Liked: liked,
		Topic: dto.NewTopicResponse(topic),
	}
	response.Topic.IsLiked = &liked

	return response, message, nil
}
