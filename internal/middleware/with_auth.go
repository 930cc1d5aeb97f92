package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/placement-cell/forum-api/internal/utils"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	RequireUser bool
}

// WithAuth wraps a handler with an authenticated-principal guard. Role
// decisions stay in the services, which know resource ownership; this layer
// only answers "is someone logged in".
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if opts.RequireUser && c.Locals("user_id") == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return handler(c)
	}
}
