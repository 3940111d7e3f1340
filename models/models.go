package models

import "time"

// User roles.
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
)

// User statuses. Students are always active; tutors start as pending and
// become approved or rejected when the screening test completes.
const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// User is one chat user, keyed by their Telegram id.
type User struct {
	TelegramID int64 `gorm:"primaryKey;column:telegram_id"`
	Role       string
	Status     string
	CreatedAt  time.Time
}

// StudentProfile holds the fields collected during student registration.
// It exists only once registration has completed.
type StudentProfile struct {
	TelegramID    int64 `gorm:"primaryKey;column:telegram_id"`
	FullName      string
	Phone         string
	City          string
	Grade         string
	SubjectNeeded string
	Mode          string // "online" or "in-person"
	Notes         string
}

// TutorProfile holds the fields collected during tutor registration plus the
// screening result. Subjects and Grades are stored as the comma-separated
// text the tutor typed; search matches on substrings of that text.
type TutorProfile struct {
	TelegramID      int64 `gorm:"primaryKey;column:telegram_id"`
	FullName        string
	Phone           string
	City            string
	Subjects        string
	Grades          string
	ExperienceYears int
	Mode            string // "online", "in-person" or "both"
	HourlyRate      string
	Bio             string
	TestScore       int
}

// ContactRequest is a message from a student to a tutor. Append-only.
type ContactRequest struct {
	ID        uint `gorm:"primaryKey"`
	StudentID int64
	TutorID   int64 `gorm:"index"`
	Message   string
	CreatedAt time.Time
}
