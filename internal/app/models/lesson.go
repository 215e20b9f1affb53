package models

import "time"

// Lesson is a single unit of course content. Position is a caller-supplied
// sort key; gaps and duplicates are tolerated and ties break by insertion
// order (id).
type Lesson struct {
	ID          int64   `json:"id" db:"id"`
	CourseID    int64   `json:"courseId" db:"course_id"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description,omitempty" db:"description"`
	Content     string  `json:"content" db:"content"`
	VideoURL    *string `json:"videoUrl,omitempty" db:"video_url"`
	Duration    int     `json:"duration" db:"duration"` // minutes
	Position    int     `json:"position" db:"position"`
	IsFree      bool    `json:"isFree" db:"is_free"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Attachments []LessonAttachment `json:"attachments,omitempty"`
}

// LessonAttachment is a supplementary file linked to a lesson.
type LessonAttachment struct {
	ID       int64  `json:"id" db:"id"`
	LessonID int64  `json:"lessonId" db:"lesson_id"`
	Name     string `json:"name" db:"name"`
	URL      string `json:"url" db:"url"`
	FileType string `json:"fileType" db:"file_type"`
	FileSize int64  `json:"fileSize" db:"file_size"`
}
