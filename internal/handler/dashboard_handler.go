package handler

import (
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	usecase *usecase.OverviewUsecase
}

func NewDashboardHandler(u *usecase.OverviewUsecase) *DashboardHandler {
	return &DashboardHandler{usecase: u}
}

func (h *DashboardHandler) LiveOverview(c *fiber.Ctx) error {
	overview, err := h.usecase.LiveOverview(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "live overview", overview)
}

func (h *DashboardHandler) TodayStats(c *fiber.Ctx) error {
	stats, err := h.usecase.TodayStats(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "today stats", stats)
}

type AnnounceRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (h *DashboardHandler) Announce(c *fiber.Ctx) error {
	var req AnnounceRequest
	if err := Bind(c, &req); err != nil {
		return Fail(c, err)
	}
	count, err := h.usecase.Announce(c.UserContext(), CurrentSession(c), req.Title, req.Message)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "announcement sent", fiber.Map{"recipients": count})
}
