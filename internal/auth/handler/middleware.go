package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/umar-essayed/Courses-backend/internal/auth/rbac"
	autherror "github.com/umar-essayed/Courses-backend/internal/errors"
)

const identityLocal = "identity"

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}

// RequireRole resolves the access token and gates the request on role
// membership. Blocked and soft-deleted accounts are rejected during
// resolution and never reach the role check.
func (h *AuthHandler) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		summary, err := h.userService.ResolveAccessToken(c.Context(), bearerToken(c))
		if err != nil {
			return respondError(c, err)
		}

		if !rbac.Check(summary.Role, roles...) {
			return respondError(c, autherror.ErrInsufficientPermission)
		}

		c.Locals(identityLocal, summary)

		return c.Next()
	}
}
