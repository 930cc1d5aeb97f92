package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/placement-cell/forum-api/internal/service"
	"github.com/placement-cell/forum-api/internal/utils"
)

// CompanyHandler serves the per-company topic rollup.
type CompanyHandler struct {
	companies service.CompanyService
	logger    zerolog.Logger
}

// NewCompanyHandler constructs a handler instance.
func NewCompanyHandler(companies service.CompanyService, logger zerolog.Logger) *CompanyHandler {
	return &CompanyHandler{
		companies: companies,
		logger:    logger.With().Str("component", "company_handler").Logger(),
	}
}

// Register binds the company routes.
func (h *CompanyHandler) Register(router fiber.Router) {
	router.Get("/companies", h.list)
}

func (h *CompanyHandler) list(c *fiber.Ctx) error {
	response, err := h.companies.ListCompanies(withRequestContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "companies", response)
}
