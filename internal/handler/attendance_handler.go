package handler

import (
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AttendanceHandler struct {
	usecase *usecase.AttendanceUsecase
}

func NewAttendanceHandler(u *usecase.AttendanceUsecase) *AttendanceHandler {
	return &AttendanceHandler{usecase: u}
}

func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	session, err := h.usecase.CheckIn(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return SuccessWithCode(c, fiber.StatusCreated, "checked in", session)
}

// CheckOut answers 409 with needs_report=true when the day's report is missing.
func (h *AttendanceHandler) CheckOut(c *fiber.Ctx) error {
	session, err := h.usecase.CheckOut(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "checked out", session)
}

func (h *AttendanceHandler) OverrideCheckout(c *fiber.Ctx) error {
	session, err := h.usecase.OverrideCheckout(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "checked out, report still pending", session)
}

func (h *AttendanceHandler) CanCheckout(c *fiber.Ctx) error {
	decision, err := h.usecase.CanCheckout(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "checkout status", decision)
}

func (h *AttendanceHandler) State(c *fiber.Ctx) error {
	state, err := h.usecase.State(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "attendance state", state)
}

type ActivityRequest struct {
	Activity string `json:"activity" validate:"required,max=500"`
}

func (h *AttendanceHandler) UpdateActivity(c *fiber.Ctx) error {
	var req ActivityRequest
	if err := Bind(c, &req); err != nil {
		return Fail(c, err)
	}
	if err := h.usecase.UpdateActivity(c.UserContext(), CurrentSession(c), req.Activity); err != nil {
		return Fail(c, err)
	}
	return Success(c, "activity updated", nil)
}

func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	list, err := h.usecase.History(c.UserContext(), CurrentSession(c), days)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "attendance history", list)
}
