package services

import (
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/pkg/apperrors"
	"github.com/okaraca/coursehub/internal/pkg/filestorage"
)

type fakeBlobStore struct {
	saveCalls   []string
	deleteCalls []string
	saveErr     error
}

func (f *fakeBlobStore) Save(fileHeader *multipart.FileHeader, folder string) (*filestorage.StoredObject, error) {
	f.saveCalls = append(f.saveCalls, fileHeader.Filename)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &filestorage.StoredObject{
		PublicID: folder + "/" + fileHeader.Filename,
		URL:      "http://localhost/uploads/" + folder + "/" + fileHeader.Filename,
		Size:     fileHeader.Size,
	}, nil
}

func (f *fakeBlobStore) Delete(publicID string) error {
	f.deleteCalls = append(f.deleteCalls, publicID)
	return nil
}

func (f *fakeBlobStore) FullPath(publicID string) string {
	return "/tmp/uploads/" + publicID
}

type fakeFileRepo struct {
	records   map[string]*models.File
	createErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{records: map[string]*models.File{}}
}

func (f *fakeFileRepo) Create(_ context.Context, file *models.File) error {
	if f.createErr != nil {
		return f.createErr
	}
	file.ID = int64(len(f.records) + 1)
	f.records[file.PublicID] = file
	return nil
}

func (f *fakeFileRepo) GetByPublicID(_ context.Context, publicID string) (*models.File, error) {
	rec, ok := f.records[publicID]
	if !ok {
		return nil, apperrors.ErrFileNotFound
	}
	return rec, nil
}

func (f *fakeFileRepo) DeleteByPublicID(_ context.Context, publicID string) error {
	delete(f.records, publicID)
	return nil
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{
		Filename: name,
		Header:   header,
		Size:     size,
	}
}

func newUploadFixture() (*UploadService, *fakeBlobStore, *fakeFileRepo) {
	store := &fakeBlobStore{}
	repo := newFakeFileRepo()
	return NewUploadService(store, repo, zerolog.Nop()), store, repo
}

func TestUploadRejectsOversizeBeforeStoring(t *testing.T) {
	svc, store, _ := newUploadFixture()

	_, err := svc.Upload(context.Background(), fileHeader("big.png", "image/png", MaxImageSize+1), models.UploadImage, 1)
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
	assert.Empty(t, store.saveCalls)
}

func TestUploadRejectsWrongMimeBeforeStoring(t *testing.T) {
	svc, store, _ := newUploadFixture()

	_, err := svc.Upload(context.Background(), fileHeader("evil.exe", "application/octet-stream", 100), models.UploadImage, 1)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)
	assert.Empty(t, store.saveCalls)
}

func TestUploadStoresAndRecords(t *testing.T) {
	svc, store, repo := newUploadFixture()

	resp, err := svc.Upload(context.Background(), fileHeader("photo.png", "image/png", 1024), models.UploadImage, 7)
	require.NoError(t, err)
	assert.Equal(t, "images/photo.png", resp.PublicID)
	assert.Equal(t, int64(1024), resp.Size)
	assert.Equal(t, 800, resp.Width)
	assert.Equal(t, 600, resp.Height)
	assert.Equal(t, []string{"photo.png"}, store.saveCalls)

	rec := repo.records["images/photo.png"]
	require.NotNil(t, rec)
	assert.Equal(t, int64(7), rec.UploadedBy)
	assert.Equal(t, models.UploadImage, rec.Kind)
	assert.Equal(t, "image/png", rec.MimeType)
}

func TestUploadRemovesBlobWhenRecordFails(t *testing.T) {
	svc, store, repo := newUploadFixture()
	repo.createErr = errors.New("db down")

	_, err := svc.Upload(context.Background(), fileHeader("photo.png", "image/png", 1024), models.UploadImage, 7)
	require.Error(t, err)
	assert.Equal(t, []string{"images/photo.png"}, store.deleteCalls)
}

func TestAvatarHasTighterLimit(t *testing.T) {
	svc, store, _ := newUploadFixture()

	_, err := svc.Upload(context.Background(), fileHeader("avatar.png", "image/png", MaxAvatarSize+1), models.UploadAvatar, 1)
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)
	assert.Empty(t, store.saveCalls)

	resp, err := svc.Upload(context.Background(), fileHeader("avatar.gif", "image/gif", 100), models.UploadAvatar, 1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Width)
	assert.Equal(t, 200, resp.Height)

	_, err = svc.Upload(context.Background(), fileHeader("avatar.webp", "image/webp", 100), models.UploadAvatar, 1)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)
}

func TestVideoMimeTypes(t *testing.T) {
	svc, _, _ := newUploadFixture()

	for _, mime := range []string{"video/mp4", "video/quicktime", "video/mov", "video/x-msvideo", "video/x-ms-wmv", "video/x-flv"} {
		assert.NoError(t, svc.Validate(fileHeader("clip", mime, 1024), models.UploadVideo, 0), mime)
	}
	assert.Error(t, svc.Validate(fileHeader("clip.webm", "video/webm", 1024), models.UploadVideo, 0))

	resp, err := svc.Upload(context.Background(), fileHeader("clip.mp4", "video/mp4", 1024), models.UploadVideo, 1)
	require.NoError(t, err)
	assert.Equal(t, 1280, resp.Width)
	assert.Equal(t, 720, resp.Height)
	assert.Equal(t, 120, resp.Duration)
}

func TestValidateFallsBackToExtension(t *testing.T) {
	svc, _, _ := newUploadFixture()

	assert.NoError(t, svc.Validate(fileHeader("doc.pdf", "", 100), models.UploadPDF, 0))
	assert.Error(t, svc.Validate(fileHeader("doc.unknown", "", 100), models.UploadPDF, 0))
}

func TestUploadBulkReportsPerFileFailures(t *testing.T) {
	svc, _, repo := newUploadFixture()

	resp, err := svc.UploadBulk(context.Background(), []*multipart.FileHeader{
		fileHeader("ok.png", "image/png", 1024),
		fileHeader("huge.png", "image/png", MaxBulkSize+1),
		fileHeader("notes.txt", "text/plain", 10),
	}, 7)
	require.NoError(t, err)

	assert.Len(t, resp.Uploaded, 1)
	require.Len(t, resp.Failed, 2)
	assert.Equal(t, "huge.png", resp.Failed[0].Field)
	assert.Equal(t, "notes.txt", resp.Failed[1].Field)
	assert.Len(t, repo.records, 1)
}

func TestUploadBulkAcceptsImagesAndPDFs(t *testing.T) {
	svc, _, repo := newUploadFixture()

	resp, err := svc.UploadBulk(context.Background(), []*multipart.FileHeader{
		fileHeader("photo.png", "image/png", 1024),
		fileHeader("notes.pdf", "application/pdf", 1<<20),
		fileHeader("fat.pdf", "application/pdf", MaxBulkSize+1),
	}, 7)
	require.NoError(t, err)

	require.Len(t, resp.Uploaded, 2)
	assert.Equal(t, "images/photo.png", resp.Uploaded[0].PublicID)
	assert.Equal(t, "documents/notes.pdf", resp.Uploaded[1].PublicID)

	// The bulk per-file limit applies even though a lone pdf may be larger
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "fat.pdf", resp.Failed[0].Field)

	assert.Equal(t, models.UploadPDF, repo.records["documents/notes.pdf"].Kind)
}

func TestUploadBulkCapsFileCount(t *testing.T) {
	svc, _, _ := newUploadFixture()

	var headers []*multipart.FileHeader
	for i := 0; i <= MaxBulkFiles; i++ {
		headers = append(headers, fileHeader("f.png", "image/png", 10))
	}

	_, err := svc.UploadBulk(context.Background(), headers, 1)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.UploadBulk(context.Background(), nil, 1)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestDeleteUploadAuthorization(t *testing.T) {
	svc, store, repo := newUploadFixture()
	ctx := context.Background()

	_, err := svc.Upload(ctx, fileHeader("photo.png", "image/png", 1024), models.UploadImage, 7)
	require.NoError(t, err)

	stranger := &models.User{ID: 9, RoleType: models.RoleStudent}
	err = svc.Delete(ctx, "images/photo.png", stranger)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	owner := &models.User{ID: 7, RoleType: models.RoleInstructor}
	require.NoError(t, svc.Delete(ctx, "images/photo.png", owner))
	assert.Contains(t, store.deleteCalls, "images/photo.png")
	assert.Empty(t, repo.records)

	err = svc.Delete(ctx, "images/photo.png", owner)
	assert.ErrorIs(t, err, apperrors.ErrFileNotFound)
}
