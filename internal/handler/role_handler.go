package handler

import (
	"mkc-office-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

type RoleInfo struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// RoleHandler exposes the static role catalogue so clients can hide actions
// the caller is not allowed to take.
type RoleHandler struct{}

func NewRoleHandler() *RoleHandler {
	return &RoleHandler{}
}

func (h *RoleHandler) GetAll(c *fiber.Ctx) error {
	roles := []string{model.RolePartner, model.RoleStaff, model.RoleArticle}
	out := make([]RoleInfo, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleInfo{Role: r, Permissions: model.PermissionsFor(r)})
	}
	return Success(c, "roles", out)
}

// Mine returns the permissions of the current session.
func (h *RoleHandler) Mine(c *fiber.Ctx) error {
	s := CurrentSession(c)
	return Success(c, "permissions", RoleInfo{Role: s.Role, Permissions: model.PermissionsFor(s.Role)})
}
