package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/pkg/apperrors"
	"github.com/okaraca/coursehub/internal/pkg/logger"
)

// EnrollmentRepository handles database operations for enrollments and
// saved courses
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Enroll inserts an enrollment row. Re-enrolling is a no-op; the returned
// flag reports whether a row was actually created, so callers only bump
// course counters on a first enrollment.
func (r *EnrollmentRepository) Enroll(ctx context.Context, userID, courseID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		INSERT INTO enrollments (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`, userID, courseID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("courseID", courseID).Msg("Error executing enroll query")
		return false, fmt.Errorf("error enrolling: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// IsEnrolled reports whether a user has an enrollment row for a course
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)",
		userID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// GetByUserAndCourse retrieves one enrollment with its completed lesson set
func (r *EnrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	var e models.Enrollment
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, course_id, enrolled_at, progress, last_accessed_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`, userID, courseID).Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt, &e.Progress, &e.LastAccessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotEnrolled
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	completed, err := r.completedLessons(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.CompletedLessons = completed

	return &e, nil
}

// ListByUser retrieves every enrollment of a user joined with its course
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Enrollment, error) {
	cols := []string{"e.id", "e.user_id", "e.course_id", "e.enrolled_at", "e.progress", "e.last_accessed_at"}
	for _, c := range courseColumns {
		cols = append(cols, "c."+c)
	}

	sql, args, err := r.sb.Select(cols...).
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where(squirrel.Eq{"e.user_id": userID}).
		OrderBy("e.enrolled_at DESC", "e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		var c models.Course
		err := rows.Scan(
			&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt, &e.Progress, &e.LastAccessedAt,
			&c.ID, &c.Title, &c.Slug, &c.Description, &c.ShortDescription, &c.InstructorID,
			&c.Category, &c.Level, &c.Price, &c.OriginalPrice, &c.Discount, &c.Currency,
			&c.ThumbnailURL, &c.BannerURL, &c.Language, &c.Requirements, &c.LearningOutcomes, &c.Tags,
			&c.TotalLessons, &c.TotalDuration,
			&c.Enrollment.Total, &c.Enrollment.Active, &c.Enrollment.Completed,
			&c.Ratings.Average, &c.Ratings.Count,
			&c.Ratings.Distribution[0], &c.Ratings.Distribution[1], &c.Ratings.Distribution[2],
			&c.Ratings.Distribution[3], &c.Ratings.Distribution[4],
			&c.Status, &c.IsFeatured, &c.IsPopular, &c.Views, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		e.Course = &c
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// CountByUser counts a user's enrollments
func (r *EnrollmentRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM enrollments WHERE user_id = $1", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return count, nil
}

// UpdateProgress stores the reported progress verbatim, stamps the access
// time and records an optional newly completed lesson. The completed lesson
// set keeps set semantics through ON CONFLICT DO NOTHING.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, userID, courseID int64, progress float64, lessonID *int64) (*models.Enrollment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var e models.Enrollment
	err = tx.QueryRow(ctx, `
		UPDATE enrollments
		SET progress = $1, last_accessed_at = NOW()
		WHERE user_id = $2 AND course_id = $3
		RETURNING id, user_id, course_id, enrolled_at, progress, last_accessed_at
	`, progress, userID, courseID).Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt, &e.Progress, &e.LastAccessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotEnrolled
		}
		return nil, fmt.Errorf("error updating progress: %w", err)
	}

	if lessonID != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO enrollment_lessons (enrollment_id, lesson_id)
			VALUES ($1, $2)
			ON CONFLICT (enrollment_id, lesson_id) DO NOTHING
		`, e.ID, *lessonID)
		if err != nil {
			return nil, fmt.Errorf("error recording completed lesson: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing progress update: %w", err)
	}

	completed, err := r.completedLessons(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.CompletedLessons = completed

	return &e, nil
}

func (r *EnrollmentRepository) completedLessons(ctx context.Context, enrollmentID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		"SELECT lesson_id FROM enrollment_lessons WHERE enrollment_id = $1 ORDER BY lesson_id", enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("error listing completed lessons: %w", err)
	}
	defer rows.Close()

	lessons := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning completed lesson row: %w", err)
		}
		lessons = append(lessons, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completed lesson rows: %w", err)
	}

	return lessons, nil
}

// SaveCourse bookmarks a course for later. Saving twice is a no-op.
func (r *EnrollmentRepository) SaveCourse(ctx context.Context, userID, courseID int64) (bool, error) {
	cmdTag, err := r.db.Exec(ctx, `
		INSERT INTO saved_courses (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("error saving course: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// UnsaveCourse removes a bookmark. Removing a missing bookmark is a no-op.
func (r *EnrollmentRepository) UnsaveCourse(ctx context.Context, userID, courseID int64) error {
	_, err := r.db.Exec(ctx,
		"DELETE FROM saved_courses WHERE user_id = $1 AND course_id = $2", userID, courseID)
	if err != nil {
		return fmt.Errorf("error removing saved course: %w", err)
	}
	return nil
}

// ListSavedCourses retrieves a user's bookmarked courses
func (r *EnrollmentRepository) ListSavedCourses(ctx context.Context, userID int64) ([]models.Course, error) {
	cols := make([]string, 0, len(courseColumns))
	for _, c := range courseColumns {
		cols = append(cols, "c."+c)
	}

	sql, args, err := r.sb.Select(cols...).
		From("saved_courses s").
		Join("courses c ON c.id = s.course_id").
		Where(squirrel.Eq{"s.user_id": userID}).
		OrderBy("s.created_at DESC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list saved courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing saved courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning saved course row: %w", err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved course rows: %w", err)
	}

	return courses, nil
}
