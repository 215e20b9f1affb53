package dto

import (
	"time"

	"github.com/okaraca/coursehub/internal/app/models"
)

// UpdateProfileRequest carries a partial profile update.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=2,max=50"`
	LastName  *string `json:"lastName" binding:"omitempty,min=2,max=50"`
	Phone     *string `json:"phone" binding:"omitempty,e164"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url"`
}

// UpdatePreferencesRequest carries a partial preference update.
type UpdatePreferencesRequest struct {
	Theme       *string `json:"theme" binding:"omitempty,oneof=light dark auto"`
	Language    *string `json:"language" binding:"omitempty,min=2,max=5"`
	NotifyEmail *bool   `json:"notifyEmail"`
	NotifyPush  *bool   `json:"notifyPush"`
	NotifySMS   *bool   `json:"notifySms"`
}

// UpdateProgressRequest carries a course progress update.
type UpdateProgressRequest struct {
	Progress *float64 `json:"progress" binding:"required,gte=0,lte=100"`
	LessonID *int64   `json:"lessonId" binding:"omitempty,gt=0"`
}

// UpdateStatsRequest carries a study statistics update.
type UpdateStatsRequest struct {
	StudyHours *float64 `json:"studyHours" binding:"omitempty,gte=0"`
	Score      *float64 `json:"score" binding:"omitempty,gte=0,lte=100"`
}

// ListUsersFilter collects admin user-listing query parameters.
type ListUsersFilter struct {
	Page   int    `form:"page" binding:"omitempty,gte=1"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
	Role   string `form:"role" binding:"omitempty,oneof=student instructor admin"`
	Search string `form:"search"`
}

// ProfileResponse is the projection of an account without sensitive data.
type ProfileResponse struct {
	ID                   int64              `json:"id"`
	FirstName            string             `json:"firstName"`
	LastName             string             `json:"lastName"`
	FullName             string             `json:"fullName"`
	Email                string             `json:"email"`
	Phone                *string            `json:"phone,omitempty"`
	AvatarURL            *string            `json:"avatarUrl,omitempty"`
	Role                 string             `json:"role"`
	IsEmailVerified      bool               `json:"isEmailVerified"`
	Preferences          models.Preferences `json:"preferences"`
	Stats                models.UserStats   `json:"stats"`
	TotalEnrolledCourses int                `json:"totalEnrolledCourses"`
	CreatedAt            time.Time          `json:"createdAt"`
}

// NewProfileResponse builds the safe profile projection for a user.
func NewProfileResponse(user *models.User, enrolledCount int) ProfileResponse {
	return ProfileResponse{
		ID:                   user.ID,
		FirstName:            user.FirstName,
		LastName:             user.LastName,
		FullName:             user.FullName(),
		Email:                user.Email,
		Phone:                user.Phone,
		AvatarURL:            user.AvatarURL,
		Role:                 string(user.RoleType),
		IsEmailVerified:      user.IsEmailVerified,
		Preferences:          user.Preferences,
		Stats:                user.Stats,
		TotalEnrolledCourses: enrolledCount,
		CreatedAt:            user.CreatedAt,
	}
}
