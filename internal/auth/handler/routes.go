package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/umar-essayed/Courses-backend/pkg/constant"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Post("/api/v1/refresh", h.Refresh)
	app.Delete("/api/v1/session", h.Logout)
	app.Get("/api/v1/me", h.Me)

	// Admin-only endpoints
	admin := app.Group("/api/v1/admin", h.RequireRole(constant.RoleAdmin))
	admin.Patch("/user/:id/role", h.UpdateRole)
	admin.Patch("/user/:id/block", h.BlockUser)
	admin.Patch("/user/:id/unblock", h.UnblockUser)
	admin.Delete("/user/:id", h.DeleteUser)
	admin.Patch("/user/:id/restore", h.RestoreUser)
	admin.Delete("/user/:id/sessions", h.ForceLogout)
	admin.Get("/user/:id/sessions", h.GetUserSessions)
}
