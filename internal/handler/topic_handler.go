package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/placement-cell/forum-api/internal/dto"
	"github.com/placement-cell/forum-api/internal/middleware"
	"github.com/placement-cell/forum-api/internal/service"
	"github.com/placement-cell/forum-api/internal/utils"
)

// TopicHandler provides HTTP endpoints for forum topics and like toggling.
type TopicHandler struct {
	topics      service.TopicService
	engagement  service.EngagementService
	logger      zerolog.Logger
	likeLimiter fiber.Handler
}

// NewTopicHandler constructs a handler instance. likeLimiter is optional and
// guards the toggle endpoint when set.
func NewTopicHandler(topics service.TopicService, engagement service.EngagementService, logger zerolog.Logger, likeLimiter fiber.Handler) *TopicHandler {
	return &TopicHandler{
		topics:      topics,
		engagement:  engagement,
		logger:      logger.With().Str("component", "topic_handler").Logger(),
		likeLimiter: likeLimiter,
	}
}

// Register binds the topic routes. Reads are public; writes go through the
// supplied auth middleware.
func (h *TopicHandler) Register(router fiber.Router, auth fiber.Handler) {
	requireUser := middleware.AuthOptions{RequireUser: true}

	router.Get("/topics", h.list)
	router.Get("/topics/:id", h.get)
	router.Post("/topics", auth, middleware.WithAuth(h.create, requireUser))
	router.Patch("/topics/:id", auth, middleware.WithAuth(h.update, requireUser))
	router.Delete("/topics/:id", auth, middleware.WithAuth(h.delete, requireUser))

	toggle := middleware.WithAuth(h.toggleLike, requireUser)
	if h.likeLimiter != nil {
		router.Post("/topics/:id/like", auth, h.likeLimiter, toggle)
	} else {
		router.Post("/topics/:id/like", auth, toggle)
	}
}

func (h *TopicHandler) list(c *fiber.Ctx) error {
	var query dto.TopicListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	response, err := h.topics.List(withRequestContext(c), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "topics", response)
}

func (h *TopicHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	// The caller is optional here: authenticated requests carry the user in
	// locals, anonymous ones may still ask for like status explicitly.
	callerID := userIDFromContext(c)
	if callerID == "" {
		callerID = c.Query("user_id")
	}

	topic, err := h.topics.Get(withRequestContext(c), id, callerID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "topic", topic)
}

func (h *TopicHandler) create(c *fiber.Ctx) error {
	author := authorFromContext(c)
	if author.UserID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.TopicCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	topic, err := h.topics.Create(withRequestContext(c), author, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "topic created", topic)
}

func (h *TopicHandler) update(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TopicUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	topic, err := h.topics.Update(withRequestContext(c), id, userID, userRoleFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "topic updated", topic)
}

func (h *TopicHandler) delete(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.topics.Delete(withRequestContext(c), id, userID, userRoleFromContext(c)); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "topic deleted", nil)
}

func (h *TopicHandler) toggleLike(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, message, err := h.engagement.ToggleLike(withRequestContext(c), id, userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, message, response)
}
