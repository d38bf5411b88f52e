package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/umar-essayed/Courses-backend/internal/auth/dto"
	autherror "github.com/umar-essayed/Courses-backend/internal/errors"
)

// UpdateRole is the only path that assigns elevated roles; self-registration
// always starts at the default role.
func (h *AuthHandler) UpdateRole(c *fiber.Ctx) error {
	var input dto.UpdateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.userService.SetRole(c.Context(), c.Params("id"), input.Role); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "role updated"})
}

func (h *AuthHandler) BlockUser(c *fiber.Ctx) error {
	if err := h.userService.SetBlocked(c.Context(), c.Params("id"), true); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "user blocked"})
}

func (h *AuthHandler) UnblockUser(c *fiber.Ctx) error {
	if err := h.userService.SetBlocked(c.Context(), c.Params("id"), false); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "user unblocked"})
}

func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.userService.SoftDelete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "user deleted"})
}

func (h *AuthHandler) RestoreUser(c *fiber.Ctx) error {
	if err := h.userService.Restore(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "user restored"})
}

func (h *AuthHandler) ForceLogout(c *fiber.Ctx) error {
	if err := h.userService.ForceLogout(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "sessions revoked"})
}

func (h *AuthHandler) GetUserSessions(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return respondError(c, autherror.ErrInvalidInput)
	}

	sessions, err := h.userService.GetUserSessions(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(sessions)
}
