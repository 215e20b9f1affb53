package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	CourseRepository     *CourseRepository
	LessonRepository     *LessonRepository
	EnrollmentRepository *EnrollmentRepository
	ReviewRepository     *ReviewRepository
	TokenRepository      *TokenRepository
	FileRepository       *FileRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		CourseRepository:     NewCourseRepository(db),
		LessonRepository:     NewLessonRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		ReviewRepository:     NewReviewRepository(db),
		TokenRepository:      NewTokenRepository(db),
		FileRepository:       NewFileRepository(db),
	}
}
