package model

import "time"

const (
	TaskPending    = "pending"
	TaskInProgress = "in-progress"
	TaskReview     = "review"
	TaskCompleted  = "completed"
)

var TaskStatuses = []string{TaskPending, TaskInProgress, TaskReview, TaskCompleted}

var TaskPriorities = []string{"low", "medium", "high", "urgent"}

type Task struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	Status      string     `json:"status" gorm:"size:20;not null;default:pending"`
	Priority    string     `json:"priority" gorm:"size:20;default:medium"`
	AssignedTo  uint       `json:"assigned_to" gorm:"index"`
	CreatedBy   uint       `json:"created_by" gorm:"index"`
	DueDate     *time.Time `json:"due_date"`
	FileURL     *string    `json:"file_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Assignee *User `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo"`
}

func IsValidTaskStatus(s string) bool {
	for _, v := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}
