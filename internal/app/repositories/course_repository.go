package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/app/models/dto"
	"github.com/okaraca/coursehub/internal/pkg/apperrors"
	"github.com/okaraca/coursehub/internal/pkg/dberrors"
	"github.com/okaraca/coursehub/internal/pkg/logger"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(
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
		return nil, err
	}
	return &c, nil
}

// Create inserts a new course draft and sets its generated ID
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("title", "slug", "description", "short_description", "instructor_id",
			"category", "level", "price", "original_price", "discount", "currency",
			"thumbnail_url", "banner_url", "language", "requirements", "learning_outcomes", "tags",
			"status").
		Values(course.Title, course.Slug, course.Description, course.ShortDescription, course.InstructorID,
			course.Category, course.Level, course.Price, course.OriginalPrice, course.Discount, course.Currency,
			course.ThumbnailURL, course.BannerURL, course.Language, course.Requirements, course.LearningOutcomes, course.Tags,
			course.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_slug_key") {
			return apperrors.NewConflictError("a course with this title already exists")
		}
		logger.Error().Err(err).Str("slug", course.Slug).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// GetBySlug retrieves a course by its slug
func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course by slug query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course by slug: %w", err)
	}
	return course, nil
}

// SlugExists checks whether a slug is already taken
func (r *CourseRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM courses WHERE slug = $1)", slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking slug existence: %w", err)
	}
	return exists, nil
}

// Update overwrites the mutable fields of a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("title", course.Title).
		Set("slug", course.Slug).
		Set("description", course.Description).
		Set("short_description", course.ShortDescription).
		Set("category", course.Category).
		Set("level", course.Level).
		Set("price", course.Price).
		Set("original_price", course.OriginalPrice).
		Set("discount", course.Discount).
		Set("currency", course.Currency).
		Set("thumbnail_url", course.ThumbnailURL).
		Set("banner_url", course.BannerURL).
		Set("language", course.Language).
		Set("requirements", course.Requirements).
		Set("learning_outcomes", course.LearningOutcomes).
		Set("tags", course.Tags).
		Set("status", course.Status).
		Set("is_featured", course.IsFeatured).
		Set("is_popular", course.IsPopular).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_slug_key") {
			return apperrors.NewConflictError("a course with this title already exists")
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course. Lessons, enrollments and reviews cascade.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM courses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// List retrieves the filtered catalog page together with the total match count
func (r *CourseRepository) List(ctx context.Context, filter dto.CourseFilter, offset uint64, limit int) ([]models.Course, int64, error) {
	countQuery, pageQuery := buildCourseListQuery(filter, r.sb)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	sql, args, err := pageQuery.Limit(uint64(limit)).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	courses, err := r.queryCourses(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// ListByInstructor retrieves every course owned by an instructor, any status
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"instructor_id": instructorID}).
		OrderBy("created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list by instructor query: %w", err)
	}
	return r.queryCourses(ctx, sql, args...)
}

// ListPopular retrieves published courses ranked by enrollment demand
func (r *CourseRepository) ListPopular(ctx context.Context, limit uint64) ([]models.Course, error) {
	sql, args, err := buildPopularCoursesQuery(limit, r.sb).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build popular courses query: %w", err)
	}
	return r.queryCourses(ctx, sql, args...)
}

// ListFeatured retrieves flagged featured published courses
func (r *CourseRepository) ListFeatured(ctx context.Context, limit uint64) ([]models.Course, error) {
	sql, args, err := buildFeaturedCoursesQuery(limit, r.sb).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build featured courses query: %w", err)
	}
	return r.queryCourses(ctx, sql, args...)
}

func (r *CourseRepository) queryCourses(ctx context.Context, sql string, args ...interface{}) ([]models.Course, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// IncrementViews bumps the view counter without read-modify-write
func (r *CourseRepository) IncrementViews(ctx context.Context, courseID int64) error {
	_, err := r.db.Exec(ctx, "UPDATE courses SET views = views + 1 WHERE id = $1", courseID)
	if err != nil {
		return fmt.Errorf("error incrementing views: %w", err)
	}
	return nil
}

// AdjustEnrollmentCounter applies a delta to one enrollment counter in a
// single statement so concurrent enrollments never lose increments.
func (r *CourseRepository) AdjustEnrollmentCounter(ctx context.Context, courseID int64, counter models.EnrollmentCounter, delta int) error {
	var column string
	switch counter {
	case models.EnrollmentTotal:
		column = "enrollment_total"
	case models.EnrollmentActive:
		column = "enrollment_active"
	case models.EnrollmentCompleted:
		column = "enrollment_completed"
	default:
		// Unknown kinds are ignored rather than failing the caller's flow
		logger.Warn().Str("counter", string(counter)).Msg("Ignoring unknown enrollment counter")
		return nil
	}

	query := fmt.Sprintf("UPDATE courses SET %s = GREATEST(%s + $1, 0) WHERE id = $2", column, column)
	cmdTag, err := r.db.Exec(ctx, query, delta, courseID)
	if err != nil {
		return fmt.Errorf("error adjusting enrollment counter: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// UpdateLessonTotals rederives the denormalized lesson count and duration
func (r *CourseRepository) UpdateLessonTotals(ctx context.Context, courseID int64) error {
	query := `
		UPDATE courses SET
			total_lessons = (SELECT COUNT(*) FROM lessons WHERE course_id = $1),
			total_duration = COALESCE((SELECT SUM(duration) FROM lessons WHERE course_id = $1), 0),
			updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, courseID)
	if err != nil {
		return fmt.Errorf("error updating lesson totals: %w", err)
	}
	return nil
}
