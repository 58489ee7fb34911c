package repository

import (
	"context"
	"time"

	"mkc-office-backend/internal/model"

	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	ListByAssignee(ctx context.Context, userID uint) ([]model.Task, error)
	ListByCreator(ctx context.Context, userID uint) ([]model.Task, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	CountCompletedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByAssignee(ctx context.Context, userID uint) ([]model.Task, error) {
	var list []model.Task
	err := r.db.WithContext(ctx).Where("assigned_to = ?", userID).Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *taskRepository) ListByCreator(ctx context.Context, userID uint) ([]model.Task, error) {
	var list []model.Task
	err := r.db.WithContext(ctx).Preload("Assignee").
		Where("created_by = ?", userID).
		Order("created_at desc").
		Find(&list).Error
	return list, err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Update("status", status).Error
}

func (r *taskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, id).Error
}

func (r *taskRepository) CountCompletedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("status = ? AND updated_at >= ? AND updated_at < ?", model.TaskCompleted, from, to).
		Count(&n).Error
	return n, err
}
