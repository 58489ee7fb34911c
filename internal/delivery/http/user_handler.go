package http

import (
	"mkc-office-backend/internal/handler"
	"mkc-office-backend/internal/middleware"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	usecase *usecase.UserUsecase
}

func NewUserHandler(u *usecase.UserUsecase) *UserHandler {
	return &UserHandler{usecase: u}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login returns the token in the body and also sets it as the session cookie.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := handler.Bind(c, &input); err != nil {
		return handler.Fail(c, err)
	}

	result, err := h.usecase.Login(c.UserContext(), input.Username, input.Password)
	if err != nil {
		return handler.Fail(c, err)
	}

	middleware.SetSessionCookie(c, result.Token, result.ExpiresAt)
	return handler.Success(c, "login successful", result)
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c)
	return handler.Success(c, "logged out", nil)
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.usecase.Me(c.UserContext(), handler.CurrentSession(c))
	if err != nil {
		return handler.Fail(c, err)
	}
	return handler.Success(c, "current user", user)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var input ChangePasswordRequest
	if err := handler.Bind(c, &input); err != nil {
		return handler.Fail(c, err)
	}

	if err := h.usecase.ChangePassword(c.UserContext(), handler.CurrentSession(c), input.CurrentPassword, input.NewPassword); err != nil {
		return handler.Fail(c, err)
	}
	return handler.Success(c, "password changed", nil)
}
