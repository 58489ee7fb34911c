package model

import "time"

const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceAbsent  = "absent"
)

// AttendanceSession is one check-in/check-out span. WorkDate is stored, not
// derived from CheckIn, because a session may run past midnight.
type AttendanceSession struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	UserID   uint       `json:"user_id" gorm:"not null;index"`
	CheckIn  time.Time  `json:"check_in" gorm:"not null"`
	CheckOut *time.Time `json:"check_out"`
	WorkDate string     `json:"work_date" gorm:"size:10;not null;index"` // YYYY-MM-DD
	Status   string     `json:"status" gorm:"size:20;default:present"`

	// Equal to UserID while the session is open, NULL afterwards. The unique
	// index keeps a user at one open session.
	ActiveUserID *uint `json:"-" gorm:"uniqueIndex:uk_attendance_active_user"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (s AttendanceSession) IsActive() bool { return s.CheckOut == nil }

type ActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Activity  string    `json:"activity" gorm:"size:500;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}
