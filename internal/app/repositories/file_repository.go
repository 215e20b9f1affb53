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
)

var fileColumns = []string{
	"id", "public_id", "file_name", "file_path", "file_url", "file_size",
	"mime_type", "kind", "uploaded_by", "created_at",
}

// FileRepository handles database records for stored uploads
type FileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanFile(row pgx.Row) (*models.File, error) {
	var f models.File
	err := row.Scan(
		&f.ID, &f.PublicID, &f.FileName, &f.FilePath, &f.FileURL, &f.FileSize,
		&f.MimeType, &f.Kind, &f.UploadedBy, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a file record and sets its generated ID
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	sql, args, err := r.sb.Insert("files").
		Columns("public_id", "file_name", "file_path", "file_url", "file_size", "mime_type", "kind", "uploaded_by").
		Values(file.PublicID, file.FileName, file.FilePath, file.FileURL, file.FileSize, file.MimeType, file.Kind, file.UploadedBy).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create file query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&file.ID, &file.CreatedAt); err != nil {
		return fmt.Errorf("error creating file record: %w", err)
	}
	return nil
}

// GetByPublicID retrieves a file record by its public identifier
func (r *FileRepository) GetByPublicID(ctx context.Context, publicID string) (*models.File, error) {
	sql, args, err := r.sb.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"public_id": publicID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get file query: %w", err)
	}

	file, err := scanFile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("error retrieving file record: %w", err)
	}
	return file, nil
}

// ListByUser retrieves every upload owned by a user, newest first
func (r *FileRepository) ListByUser(ctx context.Context, userID int64) ([]models.File, error) {
	sql, args, err := r.sb.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"uploaded_by": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list files query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning file row: %w", err)
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	return files, nil
}

// DeleteByPublicID removes a file record
func (r *FileRepository) DeleteByPublicID(ctx context.Context, publicID string) error {
	cmdTag, err := r.db.Exec(ctx, "DELETE FROM files WHERE public_id = $1", publicID)
	if err != nil {
		return fmt.Errorf("error deleting file record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFileNotFound
	}
	return nil
}
