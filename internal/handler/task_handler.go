package handler

import (
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	usecase *usecase.TaskUsecase
}

func NewTaskHandler(u *usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{usecase: u}
}

// CreateTaskRequest is sent as JSON or as multipart form with an optional "file" part.
type CreateTaskRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=255"`
	Description string `json:"description" form:"description"`
	AssignedTo  uint   `json:"assigned_to" form:"assigned_to" validate:"required"`
	DueDate     string `json:"due_date" form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Priority    string `json:"priority" form:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	// 1. Fields
	var req CreateTaskRequest
	if err := Bind(c, &req); err != nil {
		return Fail(c, err)
	}

	// 2. Optional attachment
	var attachment *usecase.Attachment
	if fh, err := c.FormFile("file"); err == nil && fh.Size > 0 {
		f, err := fh.Open()
		if err != nil {
			return Fail(c, usecase.NewValidationError("file", "cannot read uploaded file"))
		}
		defer f.Close()
		attachment = &usecase.Attachment{Filename: fh.Filename, Content: f}
	}

	// 3. Create
	task, err := h.usecase.Create(c.UserContext(), CurrentSession(c), usecase.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	}, attachment)
	if err != nil {
		return Fail(c, err)
	}
	return SuccessWithCode(c, fiber.StatusCreated, "task created", task)
}

func (h *TaskHandler) Assigned(c *fiber.Ctx) error {
	list, err := h.usecase.ListAssigned(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "assigned tasks", list)
}

func (h *TaskHandler) Created(c *fiber.Ctx) error {
	list, err := h.usecase.ListCreated(c.UserContext(), CurrentSession(c))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "created tasks", list)
}

func (h *TaskHandler) ForStaff(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return Fail(c, usecase.NewValidationError("id", "invalid staff id"))
	}
	list, err := h.usecase.ListForStaff(c.UserContext(), CurrentSession(c), uint(id))
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "staff tasks", list)
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *TaskHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return Fail(c, usecase.NewValidationError("id", "invalid task id"))
	}

	var req UpdateTaskStatusRequest
	if err := Bind(c, &req); err != nil {
		return Fail(c, err)
	}

	task, err := h.usecase.UpdateStatus(c.UserContext(), CurrentSession(c), uint(id), req.Status)
	if err != nil {
		return Fail(c, err)
	}
	return Success(c, "task updated", task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return Fail(c, usecase.NewValidationError("id", "invalid task id"))
	}
	if err := h.usecase.Delete(c.UserContext(), CurrentSession(c), uint(id)); err != nil {
		return Fail(c, err)
	}
	return Success(c, "task cancelled", nil)
}

// Statuses lists the values accepted by UpdateStatus.
func (h *TaskHandler) Statuses(c *fiber.Ctx) error {
	return Success(c, "task statuses", fiber.Map{"statuses": model.TaskStatuses, "priorities": model.TaskPriorities})
}
