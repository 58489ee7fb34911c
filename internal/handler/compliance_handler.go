package handler

import (
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type ComplianceHandler struct {
	usecase *usecase.ComplianceUsecase
}

func NewComplianceHandler(u *usecase.ComplianceUsecase) *ComplianceHandler {
	return &ComplianceHandler{usecase: u}
}

func (h *ComplianceHandler) List(c *fiber.Ctx) error {
	list, err := h.usecase.List(c.UserContext(), CurrentSession(c), c.Query("category"))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "compliance items", list)
}

func (h *ComplianceHandler) Upcoming(c *fiber.Ctx) error {
	list, err := h.usecase.Upcoming(c.UserContext(), CurrentSession(c), c.QueryInt("days", 30))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "upcoming compliance", list)
}

func (h *ComplianceHandler) StaffUpcoming(c *fiber.Ctx) error {
	list, err := h.usecase.StaffUpcoming(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "upcoming compliance", list)
}

type ComplianceRequest struct {
	Category    string           `json:"category" validate:"required,oneof=DIRECT_TAX INDIRECT_TAX"`
	Particular  string           `json:"particular" validate:"required,max=255"`
	Description string           `json:"description"`
	Frequency   string           `json:"frequency" validate:"required,oneof=MONTHLY QUARTERLY ANNUAL CUSTOM"`
	FilingDates model.FilingRule `json:"filing_dates"`
}

func (h *ComplianceHandler) Create(c *fiber.Ctx) error {
	var req ComplianceRequest
	if err := Bind(c, &req); err != nil {
		return Fail(c, err)
	}
	item, err := h.usecase.Create(c.UserContext(), CurrentSession(c), usecase.ComplianceInput{
		Category:    req.Category,
		Particular:  req.Particular,
		Description: req.Description,
		Frequency:   req.Frequency,
		Rule:        req.FilingDates,
	})
	if err != nil {
		return Fail(c, err)
	}
	return SuccessWithCode(c, fiber.StatusCreated, "compliance item added", item)
}

type ComplianceUpdateRequest struct {
	Category    *string           `json:"category" validate:"omitempty,oneof=DIRECT_TAX INDIRECT_TAX"`
	Particular  *string           `json:"particular" validate:"omitempty,max=255"`
	Description *string           `json:"description"`
	Frequency   *string           `json:"frequency" validate:"omitempty,oneof=MONTHLY QUARTERLY ANNUAL CUSTOM"`
	FilingDates *model.FilingRule `json:"filing_dates"`
}

func (h *ComplianceHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return Fail(c, usecase.NewValidationError("id", "invalid compliance id"))
	}

	var req ComplianceUpdateRequest
	if err := Bind(c, &req); err != nil {
		return Fail(c, err)
	}

	item, err := h.usecase.Update(c.UserContext(), CurrentSession(c), uint(id), usecase.ComplianceUpdate{
		Category:    req.Category,
		Particular:  req.Particular,
		Description: req.Description,
		Frequency:   req.Frequency,
		Rule:        req.FilingDates,
	})
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "compliance item updated", item)
}

func (h *ComplianceHandler) Toggle(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return Fail(c, usecase.NewValidationError("id", "invalid compliance id"))
	}
	item, err := h.usecase.ToggleActive(c.UserContext(), CurrentSession(c), uint(id))
	if err != nil {
		return Fail(c, err)
	}
	msg := "compliance item archived"
	if item.IsActive {
		msg = "compliance item activated"
	}
	return Success(c, msg, item)
}
