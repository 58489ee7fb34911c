package handler

import (
	"strconv"
	"strings"

	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	usecase *usecase.ReportUsecase
}

func NewReportHandler(u *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{usecase: u}
}

type SubmitReportRequest struct {
	WorkDate       string `json:"work_date" validate:"omitempty,datetime=2006-01-02"`
	Summary        string `json:"summary" validate:"required,max=5000"`
	TasksCompleted int    `json:"tasks_completed" validate:"min=0"`
}

func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	var req SubmitReportRequest
	if err := Bind(c, &req); err != nil {
		return Fail(c, err)
	}

	report, err := h.usecase.Submit(c.UserContext(), CurrentSession(c), req.WorkDate, req.Summary, req.TasksCompleted)
	if err != nil {
		return Fail(c, err)
	}
	return SuccessWithCode(c, fiber.StatusCreated, "report submitted", report)
}

func (h *ReportHandler) Pending(c *fiber.Ctx) error {
	dates, err := h.usecase.ListPending(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "pending report dates", dates)
}

func (h *ReportHandler) GetForDate(c *fiber.Ctx) error {
	report, err := h.usecase.GetForDate(c.UserContext(), CurrentSession(c), c.Params("date"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "report", report)
}

func (h *ReportHandler) Mine(c *fiber.Ctx) error {
	list, err := h.usecase.ListMine(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "my reports", list)
}

// ListAll accepts ?from=&to=&user_id=1,2&overridden_only=true&order=asc.
func (h *ReportHandler) ListAll(c *fiber.Ctx) error {
	filter, err := reportFilter(c)
	if err != nil {
		return Fail(c, err)
	}
	list, err := h.usecase.ListAll(c.UserContext(), CurrentSession(c), filter)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "daily reports", list)
}

func (h *ReportHandler) Export(c *fiber.Ctx) error {
	filter, err := reportFilter(c)
	if err != nil {
		return Fail(c, err)
	}
	data, err := h.usecase.Export(c.UserContext(), CurrentSession(c), filter)
	if err != nil {
		return Fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Attachment("daily-reports.xlsx")
	return c.Send(data)
}

func (h *ReportHandler) RequestMissing(c *fiber.Ctx) error {
	count, err := h.usecase.RequestMissing(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "report requests sent", fiber.Map{"count": count})
}

func reportFilter(c *fiber.Ctx) (model.ReportFilter, error) {
	filter := model.ReportFilter{
		From:           c.Query("from"),
		To:             c.Query("to"),
		OverriddenOnly: c.QueryBool("overridden_only", false),
		OldestFirst:    strings.EqualFold(c.Query("order"), "asc"),
	}

	if raw := c.Query("user_id"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil || id == 0 {
				return filter, usecase.NewValidationError("user_id", "must be a comma separated list of ids")
			}
			filter.UserIDs = append(filter.UserIDs, uint(id))
		}
	}
	return filter, nil
}
