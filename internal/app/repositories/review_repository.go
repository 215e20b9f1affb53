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

// ReviewRepository handles database operations for reviews and the
// denormalized rating histogram on courses
type ReviewRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// recomputeRatingSQL rederives the rating count and weighted average from
// the five bucket columns.
const recomputeRatingSQL = `
	UPDATE courses SET
		rating_count = rating_1 + rating_2 + rating_3 + rating_4 + rating_5,
		rating_average = CASE
			WHEN rating_1 + rating_2 + rating_3 + rating_4 + rating_5 = 0 THEN 0
			ELSE (rating_1 + rating_2 * 2 + rating_3 * 3 + rating_4 * 4 + rating_5 * 5)::float8
				/ (rating_1 + rating_2 + rating_3 + rating_4 + rating_5)
		END
	WHERE id = $1
`

// Replace stores a review, displacing any earlier review by the same user
// for the same course. The old rating leaves the histogram and the new one
// enters it in the same transaction, so the buckets always sum to the
// review count.
func (r *ReviewRepository) Replace(ctx context.Context, review *models.Review) (replaced bool, err error) {
	if review.Rating < 1 || review.Rating > 5 {
		return false, apperrors.NewBadRequestError("rating must be between 1 and 5")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldRating int
	err = tx.QueryRow(ctx,
		"DELETE FROM reviews WHERE course_id = $1 AND user_id = $2 RETURNING rating",
		review.CourseID, review.UserID).Scan(&oldRating)
	switch {
	case err == nil:
		replaced = true
	case errors.Is(err, pgx.ErrNoRows):
		replaced = false
	default:
		return false, fmt.Errorf("error removing previous review: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (course_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, review.CourseID, review.UserID, review.Rating, review.Comment).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("error inserting review: %w", err)
	}

	if replaced {
		_, err = tx.Exec(ctx, fmt.Sprintf(
			"UPDATE courses SET rating_%d = GREATEST(rating_%d - 1, 0) WHERE id = $1", oldRating, oldRating),
			review.CourseID)
		if err != nil {
			return false, fmt.Errorf("error removing old rating from histogram: %w", err)
		}
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(
		"UPDATE courses SET rating_%d = rating_%d + 1 WHERE id = $1", review.Rating, review.Rating),
		review.CourseID)
	if err != nil {
		return false, fmt.Errorf("error adding rating to histogram: %w", err)
	}

	if _, err = tx.Exec(ctx, recomputeRatingSQL, review.CourseID); err != nil {
		return false, fmt.Errorf("error recomputing rating summary: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("error committing review: %w", err)
	}

	if replaced {
		logger.Info().Int64("courseID", review.CourseID).Int64("userID", review.UserID).Msg("Replaced existing review")
	}

	return replaced, nil
}

// Delete removes a review and withdraws its rating from the histogram
func (r *ReviewRepository) Delete(ctx context.Context, courseID, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var rating int
	err = tx.QueryRow(ctx,
		"DELETE FROM reviews WHERE course_id = $1 AND user_id = $2 RETURNING rating",
		courseID, userID).Scan(&rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewResourceNotFoundError("review not found")
		}
		return fmt.Errorf("error deleting review: %w", err)
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(
		"UPDATE courses SET rating_%d = GREATEST(rating_%d - 1, 0) WHERE id = $1", rating, rating),
		courseID)
	if err != nil {
		return fmt.Errorf("error removing rating from histogram: %w", err)
	}

	if _, err = tx.Exec(ctx, recomputeRatingSQL, courseID); err != nil {
		return fmt.Errorf("error recomputing rating summary: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing review deletion: %w", err)
	}

	return nil
}

// GetByCourseAndUser retrieves one user's review of a course
func (r *ReviewRepository) GetByCourseAndUser(ctx context.Context, courseID, userID int64) (*models.Review, error) {
	var rev models.Review
	err := r.db.QueryRow(ctx, `
		SELECT id, course_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE course_id = $1 AND user_id = $2
	`, courseID, userID).Scan(&rev.ID, &rev.CourseID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("review not found")
		}
		return nil, fmt.Errorf("error retrieving review: %w", err)
	}
	return &rev, nil
}

// ListByCourse retrieves one page of a course's reviews, newest first, with
// the reviewer's display name joined in
func (r *ReviewRepository) ListByCourse(ctx context.Context, courseID int64, offset uint64, limit int) ([]models.Review, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM reviews WHERE course_id = $1", courseID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting reviews: %w", err)
	}

	sql, args, err := r.sb.Select(
		"r.id", "r.course_id", "r.user_id", "r.rating", "r.comment", "r.created_at",
		"u.first_name || ' ' || u.last_name AS reviewer_name", "u.avatar_url").
		From("reviews r").
		Join("users u ON u.id = r.user_id").
		Where(squirrel.Eq{"r.course_id": courseID}).
		OrderBy("r.created_at DESC", "r.id DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list reviews query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rev models.Review
		err := rows.Scan(&rev.ID, &rev.CourseID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt,
			&rev.ReviewerName, &rev.ReviewerAvatar)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning review row: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating review rows: %w", err)
	}

	return reviews, total, nil
}
