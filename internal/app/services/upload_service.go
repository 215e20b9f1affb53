package services

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/app/models/dto"
	"github.com/okaraca/coursehub/internal/pkg/apperrors"
	"github.com/okaraca/coursehub/internal/pkg/filestorage"
)

// Per-kind upload size limits in bytes
const (
	MaxImageSize  = 5 << 20
	MaxPDFSize    = 10 << 20
	MaxVideoSize  = 100 << 20
	MaxAvatarSize = 2 << 20
	MaxBulkSize   = 5 << 20 // per file in a bulk upload
)

// MaxBulkFiles caps how many files one bulk request may carry
const MaxBulkFiles = 10

var uploadKindLimits = map[models.UploadKind]int64{
	models.UploadImage:  MaxImageSize,
	models.UploadPDF:    MaxPDFSize,
	models.UploadVideo:  MaxVideoSize,
	models.UploadAvatar: MaxAvatarSize,
}

var uploadKindMimeTypes = map[models.UploadKind]map[string]bool{
	models.UploadImage: {
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	},
	models.UploadAvatar: {
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
	},
	models.UploadPDF: {
		"application/pdf": true,
	},
	// mp4, mov, avi, wmv and flv; both the registered names and the loose
	// extension-style names browsers sometimes send
	models.UploadVideo: {
		"video/mp4":       true,
		"video/quicktime": true,
		"video/mov":       true,
		"video/x-msvideo": true,
		"video/avi":       true,
		"video/x-ms-wmv":  true,
		"video/wmv":       true,
		"video/x-flv":     true,
		"video/flv":       true,
	},
}

var uploadKindFolders = map[models.UploadKind]string{
	models.UploadImage:  "images",
	models.UploadPDF:    "documents",
	models.UploadVideo:  "videos",
	models.UploadAvatar: "avatars",
}

// IFileRepository is the file record surface consumed by UploadService
type IFileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByPublicID(ctx context.Context, publicID string) (*models.File, error)
	DeleteByPublicID(ctx context.Context, publicID string) error
}

// UploadService validates uploads and hands them to blob storage. Validation
// always runs before any byte reaches the store.
type UploadService struct {
	store    filestorage.BlobStore
	fileRepo IFileRepository
	logger   zerolog.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(store filestorage.BlobStore, fileRepo IFileRepository, logger zerolog.Logger) *UploadService {
	return &UploadService{
		store:    store,
		fileRepo: fileRepo,
		logger:   logger,
	}
}

// headerMimeType resolves the declared content type, falling back to the
// file extension when the header is missing.
func headerMimeType(fileHeader *multipart.FileHeader) string {
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
	}
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	case ".wmv":
		return "video/x-ms-wmv"
	case ".flv":
		return "video/x-flv"
	}
	return ""
}

// Validate checks a file against the limits for its kind without touching
// storage. An optional size limit overrides the kind default.
func (s *UploadService) Validate(fileHeader *multipart.FileHeader, kind models.UploadKind, sizeLimit int64) error {
	if fileHeader == nil {
		return apperrors.NewBadRequestError("no file provided")
	}

	limit, ok := uploadKindLimits[kind]
	if !ok {
		return apperrors.NewBadRequestError("unknown upload kind")
	}
	if sizeLimit > 0 {
		limit = sizeLimit
	}

	if fileHeader.Size > limit {
		return apperrors.NewCustomError(apperrors.ErrFileTooLarge, "file exceeds the size limit for this upload type")
	}

	mimeType := headerMimeType(fileHeader)
	if !uploadKindMimeTypes[kind][mimeType] {
		return apperrors.NewCustomError(apperrors.ErrUnsupportedFileType, "unsupported file type: "+mimeType)
	}

	return nil
}

// Upload validates and stores one file, recording it against the uploader
func (s *UploadService) Upload(ctx context.Context, fileHeader *multipart.FileHeader, kind models.UploadKind, uploadedBy int64) (*dto.UploadResponse, error) {
	if err := s.Validate(fileHeader, kind, 0); err != nil {
		return nil, err
	}

	obj, err := s.store.Save(fileHeader, uploadKindFolders[kind])
	if err != nil {
		return nil, err
	}

	record := &models.File{
		PublicID:   obj.PublicID,
		FileName:   fileHeader.Filename,
		FilePath:   s.store.FullPath(obj.PublicID),
		FileURL:    obj.URL,
		FileSize:   obj.Size,
		MimeType:   headerMimeType(fileHeader),
		Kind:       kind,
		UploadedBy: uploadedBy,
	}
	if err := s.fileRepo.Create(ctx, record); err != nil {
		// Roll back the stored blob so storage and records stay aligned
		if delErr := s.store.Delete(obj.PublicID); delErr != nil {
			s.logger.Error().Err(delErr).Str("publicID", obj.PublicID).Msg("Failed to remove orphaned blob")
		}
		return nil, err
	}

	s.logger.Info().Str("publicID", obj.PublicID).Str("kind", string(kind)).Int64("size", obj.Size).Msg("Stored upload")

	resp := &dto.UploadResponse{
		URL:      obj.URL,
		PublicID: obj.PublicID,
		Format:   obj.Format,
		Size:     obj.Size,
	}
	// Local storage does no media probing; report the contract's
	// placeholder dimensions until a processing pipeline exists
	switch kind {
	case models.UploadImage:
		resp.Width, resp.Height = 800, 600
	case models.UploadAvatar:
		resp.Width, resp.Height = 200, 200
	case models.UploadVideo:
		resp.Width, resp.Height = 1280, 720
		resp.Duration = 120
	}

	return resp, nil
}

// UploadBulk validates and stores up to MaxBulkFiles images or PDFs,
// reporting per-file failures without aborting the batch.
func (s *UploadService) UploadBulk(ctx context.Context, fileHeaders []*multipart.FileHeader, uploadedBy int64) (*dto.BulkUploadResponse, error) {
	if len(fileHeaders) == 0 {
		return nil, apperrors.NewBadRequestError("no files provided")
	}
	if len(fileHeaders) > MaxBulkFiles {
		return nil, apperrors.NewBadRequestError("too many files in one request")
	}

	resp := &dto.BulkUploadResponse{}
	for _, fh := range fileHeaders {
		kind := models.UploadImage
		if headerMimeType(fh) == "application/pdf" {
			kind = models.UploadPDF
		}

		if err := s.Validate(fh, kind, MaxBulkSize); err != nil {
			resp.Failed = append(resp.Failed, dto.FieldError{Field: fh.Filename, Message: err.Error()})
			continue
		}

		uploaded, err := s.Upload(ctx, fh, kind, uploadedBy)
		if err != nil {
			resp.Failed = append(resp.Failed, dto.FieldError{Field: fh.Filename, Message: err.Error()})
			continue
		}
		resp.Uploaded = append(resp.Uploaded, *uploaded)
	}

	return resp, nil
}

// Delete removes an upload. Only the uploader or an admin may delete it.
func (s *UploadService) Delete(ctx context.Context, publicID string, actor *models.User) error {
	record, err := s.fileRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	if actor == nil || (actor.RoleType != models.RoleAdmin && actor.ID != record.UploadedBy) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.store.Delete(publicID); err != nil {
		return err
	}

	return s.fileRepo.DeleteByPublicID(ctx, publicID)
}
