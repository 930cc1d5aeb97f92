package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/placement-cell/forum-api/internal/dto"
	"github.com/placement-cell/forum-api/internal/middleware"
	"github.com/placement-cell/forum-api/internal/service"
	"github.com/placement-cell/forum-api/internal/utils"
)

// CommentHandler serves comment endpoints nested under a topic.
type CommentHandler struct {
	comments service.CommentService
	logger   zerolog.Logger
}

// NewCommentHandler constructs a handler instance.
func NewCommentHandler(comments service.CommentService, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		logger:   logger.With().Str("component", "comment_handler").Logger(),
	}
}

// Register binds the comment routes. Listing is public; creating requires
// the supplied auth middleware.
func (h *CommentHandler) Register(router fiber.Router, auth fiber.Handler) {
	router.Get("/topics/:id/comments", h.list)
	router.Post("/topics/:id/comments", auth, middleware.WithAuth(h.create, middleware.AuthOptions{RequireUser: true}))
}

func (h *CommentHandler) create(c *fiber.Ctx) error {
	author := authorFromContext(c)
	if author.UserID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	topicID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	comment, err := h.comments.Create(withRequestContext(c), topicID, author, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment created", comment)
}

func (h *CommentHandler) list(c *fiber.Ctx) error {
	topicID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var query dto.CommentListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	response, err := h.comments.List(withRequestContext(c), topicID, query)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "comments", response)
}
