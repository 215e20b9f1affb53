package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "student"
	RoleInstructor RoleType = "instructor"
	RoleAdmin      RoleType = "admin"
)

// Valid reports whether the role is one of the three known roles.
func (r RoleType) Valid() bool {
	return r == RoleStudent || r == RoleInstructor || r == RoleAdmin
}

// CourseCategory is the closed set of catalog categories.
type CourseCategory string

const (
	CategoryEngineering   CourseCategory = "engineering"
	CategoryMedical       CourseCategory = "medical"
	CategoryManagement    CourseCategory = "management"
	CategoryCivilServices CourseCategory = "civil-services"
	CategoryBanking       CourseCategory = "banking"
	CategoryDefense       CourseCategory = "defense"
	CategoryOther         CourseCategory = "other"
)

// CourseLevel is the closed set of difficulty levels.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// CourseStatus is the publication state of a course.
type CourseStatus string

const (
	StatusDraft     CourseStatus = "draft"
	StatusPublished CourseStatus = "published"
	StatusArchived  CourseStatus = "archived"
)

// Theme is a UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// EnrollmentCounter selects which course enrollment counter to increment.
type EnrollmentCounter string

const (
	EnrollmentTotal     EnrollmentCounter = "total"
	EnrollmentActive    EnrollmentCounter = "active"
	EnrollmentCompleted EnrollmentCounter = "completed"
)
