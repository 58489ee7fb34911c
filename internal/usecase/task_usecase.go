package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/model"
	"mkc-office-backend/internal/repository"
	"mkc-office-backend/internal/storage"

	"gorm.io/gorm"
)

type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  uint
	DueDate     string // YYYY-MM-DD, optional
	Priority    string
}

// Attachment is an optional file forwarded to external storage.
type Attachment struct {
	Filename string
	Content  io.Reader
}

type TaskUsecase struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	uploader FileUploader
	cal      Calendar
}

func NewTaskUsecase(tasks repository.TaskRepository, users repository.UserRepository, uploader FileUploader, cal Calendar) *TaskUsecase {
	return &TaskUsecase{tasks: tasks, users: users, uploader: uploader, cal: cal}
}

func (u *TaskUsecase) Create(ctx context.Context, s model.Session, in CreateTaskInput, file *Attachment) (*model.Task, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	missing := map[string]string{}
	if in.Title == "" {
		missing["title"] = "title is required"
	}
	if in.AssignedTo == 0 {
		missing["assigned_to"] = "assignee is required"
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	if !contains(model.TaskPriorities, priority) {
		return nil, NewValidationError("priority", "must be low, medium, high or urgent")
	}

	var dueDate *time.Time
	if in.DueDate != "" {
		d, err := time.ParseInLocation(DateLayout, in.DueDate, u.cal.location())
		if err != nil {
			return nil, NewValidationError("due_date", "must be YYYY-MM-DD")
		}
		dueDate = &d
	}

	assignee, err := u.users.GetByID(ctx, in.AssignedTo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("assignee")
	}
	if err != nil {
		return nil, err
	}
	if assignee.Role == model.RolePartner {
		return nil, NewValidationError("assigned_to", "tasks can only be assigned to staff or articles")
	}

	var fileURL *string
	if file != nil {
		if u.uploader == nil {
			return nil, NewValidationError("file", "file uploads are not configured")
		}
		url, err := u.uploader.Upload(ctx, file.Filename, file.Content)
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, NewValidationError("file", err.Error())
		}
		if err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
		fileURL = &url
	}

	task := model.Task{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Status:      model.TaskPending,
		Priority:    priority,
		AssignedTo:  assignee.ID,
		CreatedBy:   s.UserID,
		DueDate:     dueDate,
		FileURL:     fileURL,
	}
	if err := u.tasks.Create(ctx, &task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	task.Assignee = assignee

	logger.Info("task.created", "task_id", task.ID, "created_by", s.UserID, "assigned_to", assignee.ID)
	return &task, nil
}

func (u *TaskUsecase) ListAssigned(ctx context.Context, s model.Session) ([]model.Task, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}
	return u.tasks.ListByAssignee(ctx, s.UserID)
}

func (u *TaskUsecase) ListCreated(ctx context.Context, s model.Session) ([]model.Task, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}
	return u.tasks.ListByCreator(ctx, s.UserID)
}

func (u *TaskUsecase) ListForStaff(ctx context.Context, s model.Session, staffID uint) ([]model.Task, error) {
	if !s.IsPartner() {
		return nil, ErrForbidden
	}
	return u.tasks.ListByAssignee(ctx, staffID)
}

// UpdateStatus is reserved to the assignee. Any valid status may follow any other.
func (u *TaskUsecase) UpdateStatus(ctx context.Context, s model.Session, id uint, status string) (*model.Task, error) {
	if s.UserID == 0 {
		return nil, ErrUnauthorized
	}
	if !model.IsValidTaskStatus(status) {
		return nil, NewValidationError("status", "must be one of "+strings.Join(model.TaskStatuses, ", "))
	}

	task, err := u.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.AssignedTo != s.UserID {
		return nil, fmt.Errorf("%w: only the assignee can update this task", ErrForbidden)
	}

	if err := u.tasks.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	task.Status = status
	return task, nil
}

// Delete cancels a task; only its creator may do so.
func (u *TaskUsecase) Delete(ctx context.Context, s model.Session, id uint) error {
	if !s.IsPartner() {
		return ErrForbidden
	}

	task, err := u.find(ctx, id)
	if err != nil {
		return err
	}
	if task.CreatedBy != s.UserID {
		return fmt.Errorf("%w: you can only cancel your own tasks", ErrForbidden)
	}

	if err := u.tasks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	logger.Info("task.deleted", "task_id", id, "partner_id", s.UserID)
	return nil
}

func (u *TaskUsecase) find(ctx context.Context, id uint) (*model.Task, error) {
	task, err := u.tasks.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("task")
	}
	return task, err
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
