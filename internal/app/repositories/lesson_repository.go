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
	"github.com/okaraca/coursehub/internal/pkg/apperrors"
)

var lessonColumns = []string{
	"id", "course_id", "title", "description", "content", "video_url",
	"duration", "position", "is_free", "created_at", "updated_at",
}

// LessonRepository handles database operations for lessons
type LessonRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLessonRepository creates a new LessonRepository
func NewLessonRepository(db *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	var l models.Lesson
	err := row.Scan(
		&l.ID, &l.CourseID, &l.Title, &l.Description, &l.Content, &l.VideoURL,
		&l.Duration, &l.Position, &l.IsFree, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a new lesson and sets its generated ID
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	sql, args, err := r.sb.Insert("lessons").
		Columns("course_id", "title", "description", "content", "video_url", "duration", "position", "is_free").
		Values(lesson.CourseID, lesson.Title, lesson.Description, lesson.Content, lesson.VideoURL,
			lesson.Duration, lesson.Position, lesson.IsFree).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create lesson query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating lesson: %w", err)
	}
	return nil
}

// GetByID retrieves a lesson by ID
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	sql, args, err := r.sb.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lesson query: %w", err)
	}

	lesson, err := scanLesson(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		return nil, fmt.Errorf("error retrieving lesson: %w", err)
	}
	return lesson, nil
}

// ListByCourse retrieves the ordered lesson set of a course. Position is a
// tolerant sort key; ties break by insertion order.
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error) {
	sql, args, err := r.sb.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list lessons query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning lesson row: %w", err)
		}
		lessons = append(lessons, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lesson rows: %w", err)
	}

	return lessons, nil
}

// Update overwrites the mutable fields of a lesson
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	sql, args, err := r.sb.Update("lessons").
		Set("title", lesson.Title).
		Set("description", lesson.Description).
		Set("content", lesson.Content).
		Set("video_url", lesson.VideoURL).
		Set("duration", lesson.Duration).
		Set("position", lesson.Position).
		Set("is_free", lesson.IsFree).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": lesson.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update lesson query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating lesson: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}

// Delete removes a lesson
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM lessons WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting lesson: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}
	return nil
}

// AddAttachment links a supplementary file to a lesson
func (r *LessonRepository) AddAttachment(ctx context.Context, att *models.LessonAttachment) error {
	sql, args, err := r.sb.Insert("lesson_attachments").
		Columns("lesson_id", "name", "url", "file_type", "file_size").
		Values(att.LessonID, att.Name, att.URL, att.FileType, att.FileSize).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add attachment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&att.ID); err != nil {
		return fmt.Errorf("error adding attachment: %w", err)
	}
	return nil
}

// ListAttachments retrieves the attachments of a lesson
func (r *LessonRepository) ListAttachments(ctx context.Context, lessonID int64) ([]models.LessonAttachment, error) {
	sql, args, err := r.sb.Select("id", "lesson_id", "name", "url", "file_type", "file_size").
		From("lesson_attachments").
		Where(squirrel.Eq{"lesson_id": lessonID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attachments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %w", err)
	}
	defer rows.Close()

	attachments := []models.LessonAttachment{}
	for rows.Next() {
		var a models.LessonAttachment
		if err := rows.Scan(&a.ID, &a.LessonID, &a.Name, &a.URL, &a.FileType, &a.FileSize); err != nil {
			return nil, fmt.Errorf("error scanning attachment row: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment rows: %w", err)
	}

	return attachments, nil
}
