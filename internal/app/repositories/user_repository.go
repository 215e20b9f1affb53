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
	"github.com/okaraca/coursehub/internal/pkg/dberrors"
	"github.com/okaraca/coursehub/internal/pkg/logger"
)

// userColumns is the canonical column list scanned into models.User.
var userColumns = []string{
	"id", "email", "password", "first_name", "last_name", "phone", "avatar_url",
	"role_type", "is_email_verified", "is_phone_verified", "is_active",
	"notify_email", "notify_push", "notify_sms", "theme", "language",
	"total_study_hours", "completed_courses", "average_score", "current_streak", "longest_streak",
	"last_login_at", "created_at", "updated_at",
}

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePreferences(ctx context.Context, userID int64, prefs models.Preferences) error
	ApplyStudySession(ctx context.Context, userID int64, hours float64, score *float64) (*models.UserStats, error)
	UpdateAvatar(ctx context.Context, userID int64, avatarURL *string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	SetActive(ctx context.Context, userID int64, active bool) error
	List(ctx context.Context, role *models.RoleType, search *string, page, size int) ([]models.User, int64, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone, &u.AvatarURL,
		&u.RoleType, &u.IsEmailVerified, &u.IsPhoneVerified, &u.IsActive,
		&u.Preferences.NotifyEmail, &u.Preferences.NotifyPush, &u.Preferences.NotifySMS,
		&u.Preferences.Theme, &u.Preferences.Language,
		&u.Stats.TotalStudyHours, &u.Stats.CompletedCourses, &u.Stats.AverageScore,
		&u.Stats.CurrentStreak, &u.Stats.LongestStreak,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and sets its generated ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("email", "password", "first_name", "last_name", "phone", "role_type",
			"notify_email", "notify_push", "notify_sms", "theme", "language").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.Phone, user.RoleType,
			user.Preferences.NotifyEmail, user.Preferences.NotifyPush, user.Preferences.NotifySMS,
			user.Preferences.Theme, user.Preferences.Language).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by email query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}
	return user, nil
}

// EmailExists checks whether an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// UpdateProfile updates the mutable profile fields of a user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("phone", user.Phone).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePreferences overwrites a user's preference set
func (r *UserRepository) UpdatePreferences(ctx context.Context, userID int64, prefs models.Preferences) error {
	sql, args, err := r.sb.Update("users").
		Set("notify_email", prefs.NotifyEmail).
		Set("notify_push", prefs.NotifyPush).
		Set("notify_sms", prefs.NotifySMS).
		Set("theme", prefs.Theme).
		Set("language", prefs.Language).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update preferences query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating preferences: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ApplyStudySession folds a study session into the stored statistics in a
// single statement so concurrent sessions never lose updates. When score is
// non-nil the completed-course counter advances and the running average is
// reweighted; otherwise only study hours accumulate.
func (r *UserRepository) ApplyStudySession(ctx context.Context, userID int64, hours float64, score *float64) (*models.UserStats, error) {
	query := `
		UPDATE users SET
			total_study_hours = total_study_hours + $1,
			average_score = CASE
				WHEN $2::float8 IS NULL THEN average_score
				ELSE (average_score * completed_courses + $2) / (completed_courses + 1)
			END,
			completed_courses = completed_courses + CASE WHEN $2::float8 IS NULL THEN 0 ELSE 1 END,
			updated_at = NOW()
		WHERE id = $3
		RETURNING total_study_hours, completed_courses, average_score, current_streak, longest_streak
	`

	var stats models.UserStats
	err := r.db.QueryRow(ctx, query, hours, score, userID).Scan(
		&stats.TotalStudyHours, &stats.CompletedCourses, &stats.AverageScore,
		&stats.CurrentStreak, &stats.LongestStreak,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error applying study session")
		return nil, fmt.Errorf("error applying study session: %w", err)
	}
	return &stats, nil
}

// UpdateAvatar updates a user's avatar URL
func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL *string) error {
	cmdTag, err := r.db.Exec(ctx,
		"UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2", avatarURL, userID)
	if err != nil {
		return fmt.Errorf("error updating avatar: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET last_login_at = NOW() WHERE id = $1", userID)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// SetActive enables or disables an account
func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	cmdTag, err := r.db.Exec(ctx,
		"UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2", active, userID)
	if err != nil {
		return fmt.Errorf("error updating active flag: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// List retrieves users with optional role and name/email search filters
func (r *UserRepository) List(ctx context.Context, role *models.RoleType, search *string, page, size int) ([]models.User, int64, error) {
	base := r.sb.Select().From("users")
	if role != nil {
		base = base.Where(squirrel.Eq{"role_type": *role})
	}
	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	offset := uint64((page - 1) * size)
	sql, args, err := base.Columns(userColumns...).
		OrderBy("id").
		Limit(uint64(size)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, total, nil
}

// Delete removes a user. Enrollments, reviews and tokens cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
