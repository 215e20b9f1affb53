package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID              int64      `json:"id" db:"id"`
	Email           string     `json:"email" db:"email"`
	Password        string     `json:"-" db:"password"` // bcrypt digest, excluded from JSON
	FirstName       string     `json:"firstName" db:"first_name"`
	LastName        string     `json:"lastName" db:"last_name"`
	Phone           *string    `json:"phone,omitempty" db:"phone"`
	AvatarURL       *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	RoleType        RoleType   `json:"roleType" db:"role_type"`
	IsEmailVerified bool       `json:"isEmailVerified" db:"is_email_verified"`
	IsPhoneVerified bool       `json:"isPhoneVerified" db:"is_phone_verified"`
	IsActive        bool       `json:"isActive" db:"is_active"`
	Preferences     Preferences `json:"preferences"`
	Stats           UserStats   `json:"stats"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Preferences holds per-user notification and UI settings.
type Preferences struct {
	NotifyEmail bool   `json:"notifyEmail" db:"notify_email"`
	NotifyPush  bool   `json:"notifyPush" db:"notify_push"`
	NotifySMS   bool   `json:"notifySms" db:"notify_sms"`
	Theme       Theme  `json:"theme" db:"theme"`
	Language    string `json:"language" db:"language"`
}

// DefaultPreferences returns the preference set assigned at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		NotifyEmail: true,
		NotifyPush:  true,
		NotifySMS:   false,
		Theme:       ThemeLight,
		Language:    "en",
	}
}

// UserStats holds aggregate study statistics for a user.
type UserStats struct {
	TotalStudyHours  float64 `json:"totalStudyHours" db:"total_study_hours"`
	CompletedCourses int     `json:"completedCourses" db:"completed_courses"`
	AverageScore     float64 `json:"averageScore" db:"average_score"`
	CurrentStreak    int     `json:"currentStreak" db:"current_streak"`
	LongestStreak    int     `json:"longestStreak" db:"longest_streak"`
}

// AddStudy accumulates study hours and, when a score is supplied, folds it
// into the running average and bumps the completed-course counter. Historical
// scores are not kept individually; the average is cumulative.
func (s *UserStats) AddStudy(hours float64, score *float64) {
	s.TotalStudyHours += hours

	if score != nil {
		currentTotal := s.AverageScore * float64(s.CompletedCourses)
		s.CompletedCourses++
		s.AverageScore = (currentTotal + *score) / float64(s.CompletedCourses)
	}
}
