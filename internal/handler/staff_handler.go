package handler

import (
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type StaffHandler struct {
	usecase *usecase.OverviewUsecase
}

func NewStaffHandler(u *usecase.OverviewUsecase) *StaffHandler {
	return &StaffHandler{usecase: u}
}

func (h *StaffHandler) List(c *fiber.Ctx) error {
	list, err := h.usecase.StaffList(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "staff", list)
}

func (h *StaffHandler) Detail(c *fiber.Ctx) error {
	id, err := staffID(c)
	if err != nil {
		return Fail(c, err)
	}
	detail, err := h.usecase.StaffDetail(c.UserContext(), CurrentSession(c), id)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "staff detail", detail)
}

func (h *StaffHandler) Attendance(c *fiber.Ctx) error {
	id, err := staffID(c)
	if err != nil {
		return Fail(c, err)
	}
	list, err := h.usecase.StaffAttendance(c.UserContext(), CurrentSession(c), id, c.QueryInt("days", 30))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "staff attendance", list)
}

// Activity takes ?date=YYYY-MM-DD, defaulting to today.
func (h *StaffHandler) Activity(c *fiber.Ctx) error {
	id, err := staffID(c)
	if err != nil {
		return Fail(c, err)
	}
	list, err := h.usecase.StaffActivity(c.UserContext(), CurrentSession(c), id, c.Query("date"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "staff activity", list)
}

func staffID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, usecase.NewValidationError("id", "invalid staff id")
	}
	return uint(id), nil
}
