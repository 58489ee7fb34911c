package model

import "time"

const (
	RolePartner = "partner"
	RoleStaff   = "staff"
	RoleArticle = "article"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"size:191;unique;not null"`
	Username  string    `json:"username" gorm:"size:191;unique;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"size:20;not null"` // partner, staff, article
	CreatedAt time.Time `json:"created_at"`
}

func IsValidRole(role string) bool {
	return role == RolePartner || role == RoleStaff || role == RoleArticle
}

// Session is the authenticated caller, resolved by the Auth middleware and
// handed explicitly to every usecase operation.
type Session struct {
	UserID uint   `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

func (s Session) IsPartner() bool { return s.Role == RolePartner }
