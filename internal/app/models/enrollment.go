package models

import "time"

// Enrollment is the relationship between one user and one course. At most
// one row exists per (user, course) pair.
type Enrollment struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"userId" db:"user_id"`
	CourseID       int64     `json:"courseId" db:"course_id"`
	EnrolledAt     time.Time `json:"enrolledAt" db:"enrolled_at"`
	Progress       float64   `json:"progress" db:"progress"` // 0-100, stored verbatim
	LastAccessedAt time.Time `json:"lastAccessedAt" db:"last_accessed_at"`

	CompletedLessons []int64 `json:"completedLessons"` // lesson ids, set semantics
	Course           *Course `json:"course,omitempty"`
}
