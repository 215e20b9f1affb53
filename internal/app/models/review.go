package models

import "time"

// Review is one account's rating of a course. The (course, user) pair is
// unique; submitting again replaces the earlier review.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Reviewer name fields, joined in for listings
	ReviewerName   string  `json:"reviewerName,omitempty"`
	ReviewerAvatar *string `json:"reviewerAvatar,omitempty"`
}
