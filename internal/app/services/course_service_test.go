package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/app/models/dto"
	"github.com/okaraca/coursehub/internal/pkg/apperrors"
)

type fakeCourseRepo struct {
	courses       map[int64]*models.Course
	slugs         map[string]bool
	counterCalls  []string
	viewedCourses []int64
	nextID        int64
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses: map[int64]*models.Course{},
		slugs:   map[string]bool{},
		nextID:  1,
	}
}

func (f *fakeCourseRepo) add(c *models.Course) *models.Course {
	if c.ID == 0 {
		c.ID = f.nextID
		f.nextID++
	}
	f.courses[c.ID] = c
	f.slugs[c.Slug] = true
	return c
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	f.add(course)
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCourseRepo) GetBySlug(_ context.Context, slug string) (*models.Course, error) {
	for _, c := range f.courses {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeCourseRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	return f.slugs[slug], nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	if _, ok := f.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	copied := *course
	f.courses[course.ID] = &copied
	f.slugs[course.Slug] = true
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) List(_ context.Context, _ dto.CourseFilter, _ uint64, _ int) ([]models.Course, int64, error) {
	return nil, 0, nil
}

func (f *fakeCourseRepo) ListByInstructor(_ context.Context, _ int64) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) ListPopular(_ context.Context, _ uint64) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) ListFeatured(_ context.Context, _ uint64) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) IncrementViews(_ context.Context, courseID int64) error {
	f.viewedCourses = append(f.viewedCourses, courseID)
	f.courses[courseID].Views++
	return nil
}

func (f *fakeCourseRepo) AdjustEnrollmentCounter(_ context.Context, _ int64, counter models.EnrollmentCounter, delta int) error {
	sign := "+"
	if delta < 0 {
		sign = "-"
	}
	f.counterCalls = append(f.counterCalls, string(counter)+sign)
	return nil
}

func (f *fakeCourseRepo) UpdateLessonTotals(_ context.Context, _ int64) error {
	return nil
}

type fakeLessonRepo struct {
	lessons     map[int64]*models.Lesson
	attachments map[int64][]models.LessonAttachment
	nextID      int64
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{
		lessons:     map[int64]*models.Lesson{},
		attachments: map[int64][]models.LessonAttachment{},
		nextID:      1,
	}
}

func (f *fakeLessonRepo) Create(_ context.Context, lesson *models.Lesson) error {
	lesson.ID = f.nextID
	f.nextID++
	copied := *lesson
	f.lessons[lesson.ID] = &copied
	return nil
}

func (f *fakeLessonRepo) GetByID(_ context.Context, id int64) (*models.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, apperrors.ErrLessonNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLessonRepo) ListByCourse(_ context.Context, courseID int64) ([]models.Lesson, error) {
	var out []models.Lesson
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) Update(_ context.Context, lesson *models.Lesson) error {
	copied := *lesson
	f.lessons[lesson.ID] = &copied
	return nil
}

func (f *fakeLessonRepo) Delete(_ context.Context, id int64) error {
	delete(f.lessons, id)
	return nil
}

func (f *fakeLessonRepo) AddAttachment(_ context.Context, att *models.LessonAttachment) error {
	att.ID = f.nextID
	f.nextID++
	f.attachments[att.LessonID] = append(f.attachments[att.LessonID], *att)
	return nil
}

func (f *fakeLessonRepo) ListAttachments(_ context.Context, lessonID int64) ([]models.LessonAttachment, error) {
	return f.attachments[lessonID], nil
}

type enrollmentKey struct{ userID, courseID int64 }

type fakeEnrollmentRepo struct {
	enrollments map[enrollmentKey]*models.Enrollment
	saved       map[enrollmentKey]bool
	nextID      int64
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		enrollments: map[enrollmentKey]*models.Enrollment{},
		saved:       map[enrollmentKey]bool{},
		nextID:      1,
	}
}

func (f *fakeEnrollmentRepo) Enroll(_ context.Context, userID, courseID int64) (bool, error) {
	key := enrollmentKey{userID, courseID}
	if _, ok := f.enrollments[key]; ok {
		return false, nil
	}
	f.enrollments[key] = &models.Enrollment{ID: f.nextID, UserID: userID, CourseID: courseID}
	f.nextID++
	return true, nil
}

func (f *fakeEnrollmentRepo) IsEnrolled(_ context.Context, userID, courseID int64) (bool, error) {
	_, ok := f.enrollments[enrollmentKey{userID, courseID}]
	return ok, nil
}

func (f *fakeEnrollmentRepo) GetByUserAndCourse(_ context.Context, userID, courseID int64) (*models.Enrollment, error) {
	e, ok := f.enrollments[enrollmentKey{userID, courseID}]
	if !ok {
		return nil, apperrors.ErrNotEnrolled
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEnrollmentRepo) ListByUser(_ context.Context, userID int64) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for key, e := range f.enrollments {
		if key.userID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) UpdateProgress(_ context.Context, userID, courseID int64, progress float64, _ *int64) (*models.Enrollment, error) {
	e, ok := f.enrollments[enrollmentKey{userID, courseID}]
	if !ok {
		return nil, apperrors.ErrNotEnrolled
	}
	e.Progress = progress
	copied := *e
	return &copied, nil
}

func (f *fakeEnrollmentRepo) SaveCourse(_ context.Context, userID, courseID int64) (bool, error) {
	key := enrollmentKey{userID, courseID}
	if f.saved[key] {
		return false, nil
	}
	f.saved[key] = true
	return true, nil
}

func (f *fakeEnrollmentRepo) UnsaveCourse(_ context.Context, userID, courseID int64) error {
	delete(f.saved, enrollmentKey{userID, courseID})
	return nil
}

func (f *fakeEnrollmentRepo) ListSavedCourses(_ context.Context, _ int64) ([]models.Course, error) {
	return nil, nil
}

type fakeReviewRepo struct {
	reviews map[enrollmentKey]*models.Review
	nextID  int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[enrollmentKey]*models.Review{}, nextID: 1}
}

func (f *fakeReviewRepo) Replace(_ context.Context, review *models.Review) (bool, error) {
	key := enrollmentKey{review.UserID, review.CourseID}
	_, replaced := f.reviews[key]
	review.ID = f.nextID
	f.nextID++
	copied := *review
	f.reviews[key] = &copied
	return replaced, nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, courseID, userID int64) error {
	key := enrollmentKey{userID, courseID}
	if _, ok := f.reviews[key]; !ok {
		return apperrors.NewResourceNotFoundError("review not found")
	}
	delete(f.reviews, key)
	return nil
}

func (f *fakeReviewRepo) ListByCourse(_ context.Context, courseID int64, _ uint64, _ int) ([]models.Review, int64, error) {
	var out []models.Review
	for key, r := range f.reviews {
		if key.courseID == courseID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

type courseServiceFixture struct {
	service     *CourseService
	courses     *fakeCourseRepo
	lessons     *fakeLessonRepo
	enrollments *fakeEnrollmentRepo
	reviews     *fakeReviewRepo
}

func newCourseServiceFixture() *courseServiceFixture {
	courses := newFakeCourseRepo()
	lessons := newFakeLessonRepo()
	enrollments := newFakeEnrollmentRepo()
	reviews := newFakeReviewRepo()
	return &courseServiceFixture{
		service:     NewCourseService(courses, lessons, enrollments, reviews, zerolog.Nop()),
		courses:     courses,
		lessons:     lessons,
		enrollments: enrollments,
		reviews:     reviews,
	}
}

func publishedCourse(f *courseServiceFixture, instructorID int64) *models.Course {
	return f.courses.add(&models.Course{
		Title:        "Published Course",
		Slug:         "published-course",
		InstructorID: instructorID,
		Status:       models.StatusPublished,
	})
}

func instructor(id int64) *models.User {
	return &models.User{ID: id, RoleType: models.RoleInstructor}
}

func admin(id int64) *models.User {
	return &models.User{ID: id, RoleType: models.RoleAdmin}
}

func TestCreateCourseDerivesUniqueSlug(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	price := 49.0

	req := &dto.CreateCourseRequest{
		Title:       "Learn Go: The Basics",
		Description: "An introduction to the Go programming language.",
		Category:    "engineering",
		Level:       "beginner",
		Price:       &price,
		Thumbnail:   "thumb.png",
	}

	first, err := f.service.CreateCourse(ctx, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "learn-go-the-basics", first.Slug)
	assert.Equal(t, models.StatusDraft, first.Status)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, "en", first.Language)

	second, err := f.service.CreateCourse(ctx, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "learn-go-the-basics-2", second.Slug)
}

func TestCreateCourseRejectsUnusableTitle(t *testing.T) {
	f := newCourseServiceFixture()
	price := 10.0

	_, err := f.service.CreateCourse(context.Background(), 1, &dto.CreateCourseRequest{
		Title: "!!!", Description: "desc", Price: &price,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestGetCourseHidesUnpublishedFromOutsiders(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	draft := f.courses.add(&models.Course{Title: "Draft", Slug: "draft", InstructorID: 7, Status: models.StatusDraft})

	_, err := f.service.GetCourse(ctx, "draft", nil)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	_, err = f.service.GetCourse(ctx, "draft", &models.User{ID: 99, RoleType: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	got, err := f.service.GetCourse(ctx, "draft", instructor(7))
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	got, err = f.service.GetCourse(ctx, "draft", admin(1))
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestGetCourseCountsViews(t *testing.T) {
	f := newCourseServiceFixture()
	course := publishedCourse(f, 1)

	got, err := f.service.GetCourse(context.Background(), "published-course", nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{course.ID}, f.courses.viewedCourses)
	assert.Equal(t, int64(1), got.Views)
}

func TestUpdateCourseOwnership(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	course := publishedCourse(f, 7)
	newDesc := "A considerably longer course description."

	_, err := f.service.UpdateCourse(ctx, instructor(99), course.ID, &dto.UpdateCourseRequest{Description: &newDesc})
	assert.ErrorIs(t, err, apperrors.ErrNotCourseOwner)

	updated, err := f.service.UpdateCourse(ctx, instructor(7), course.ID, &dto.UpdateCourseRequest{Description: &newDesc})
	require.NoError(t, err)
	assert.Equal(t, newDesc, updated.Description)
}

func TestUpdateCourseCatalogFlagsAdminOnly(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	course := publishedCourse(f, 7)
	featured := true

	updated, err := f.service.UpdateCourse(ctx, instructor(7), course.ID, &dto.UpdateCourseRequest{IsFeatured: &featured})
	require.NoError(t, err)
	assert.False(t, updated.IsFeatured)

	updated, err = f.service.UpdateCourse(ctx, admin(1), course.ID, &dto.UpdateCourseRequest{IsFeatured: &featured})
	require.NoError(t, err)
	assert.True(t, updated.IsFeatured)
}

func TestEnrollIsIdempotent(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	course := publishedCourse(f, 1)

	first, err := f.service.Enroll(ctx, 5, course.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, []string{"total+", "active+"}, f.courses.counterCalls)

	second, err := f.service.Enroll(ctx, 5, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	// Counters must not move on a repeat enrollment
	assert.Equal(t, []string{"total+", "active+"}, f.courses.counterCalls)
}

func TestEnrollRequiresPublishedCourse(t *testing.T) {
	f := newCourseServiceFixture()
	draft := f.courses.add(&models.Course{Title: "Draft", Slug: "draft", InstructorID: 1, Status: models.StatusDraft})

	_, err := f.service.Enroll(context.Background(), 5, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotPublished)
}

func TestUpdateProgressCompletionMovesCounters(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	course := publishedCourse(f, 1)

	_, err := f.service.Enroll(ctx, 5, course.ID)
	require.NoError(t, err)
	f.courses.counterCalls = nil

	halfway := 50.0
	_, err = f.service.UpdateProgress(ctx, 5, course.ID, &dto.UpdateProgressRequest{Progress: &halfway})
	require.NoError(t, err)
	assert.Empty(t, f.courses.counterCalls)

	done := 100.0
	enrollment, err := f.service.UpdateProgress(ctx, 5, course.ID, &dto.UpdateProgressRequest{Progress: &done})
	require.NoError(t, err)
	assert.Equal(t, 100.0, enrollment.Progress)
	assert.Equal(t, []string{"completed+", "active-"}, f.courses.counterCalls)

	// Reporting 100 again must not double count the completion
	f.courses.counterCalls = nil
	_, err = f.service.UpdateProgress(ctx, 5, course.ID, &dto.UpdateProgressRequest{Progress: &done})
	require.NoError(t, err)
	assert.Empty(t, f.courses.counterCalls)
}

func TestUpdateProgressRequiresEnrollment(t *testing.T) {
	f := newCourseServiceFixture()
	course := publishedCourse(f, 1)
	progress := 10.0

	_, err := f.service.UpdateProgress(context.Background(), 5, course.ID, &dto.UpdateProgressRequest{Progress: &progress})
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
}

func TestAddReviewRequiresEnrollment(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	course := publishedCourse(f, 1)

	_, err := f.service.AddReview(ctx, 5, course.ID, &dto.AddReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)

	_, err = f.service.Enroll(ctx, 5, course.ID)
	require.NoError(t, err)

	review, err := f.service.AddReview(ctx, 5, course.ID, &dto.AddReviewRequest{Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
}

func TestAddReviewReplacesPrevious(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	course := publishedCourse(f, 1)

	_, err := f.service.Enroll(ctx, 5, course.ID)
	require.NoError(t, err)

	_, err = f.service.AddReview(ctx, 5, course.ID, &dto.AddReviewRequest{Rating: 2})
	require.NoError(t, err)
	_, err = f.service.AddReview(ctx, 5, course.ID, &dto.AddReviewRequest{Rating: 5})
	require.NoError(t, err)

	reviews, total, err := f.service.GetReviews(ctx, course.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
}

func TestSaveCourseRequiresPublished(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	draft := f.courses.add(&models.Course{Title: "Draft", Slug: "draft", InstructorID: 1, Status: models.StatusDraft})

	err := f.service.SaveCourse(ctx, 5, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	course := publishedCourse(f, 1)
	require.NoError(t, f.service.SaveCourse(ctx, 5, course.ID))
	assert.True(t, f.enrollments.saved[enrollmentKey{5, course.ID}])
}

func TestAddLessonStoresAttachments(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	course := publishedCourse(f, 7)

	lesson, err := f.service.AddLesson(ctx, instructor(7), course.ID, &dto.CreateLessonRequest{
		Title:    "Intro",
		Content:  "hello",
		Position: 1,
		Attachments: []dto.LessonAttachmentRequest{
			{Name: "Slides", URL: "/uploads/documents/slides.pdf", FileType: "application/pdf", FileSize: 2048},
			{Name: "Cheatsheet", URL: "/uploads/images/cheatsheet.png", FileType: "image/png", FileSize: 512},
		},
	})
	require.NoError(t, err)

	require.Len(t, lesson.Attachments, 2)
	assert.Equal(t, "Slides", lesson.Attachments[0].Name)
	assert.Equal(t, lesson.ID, lesson.Attachments[0].LessonID)
	assert.NotZero(t, lesson.Attachments[0].ID)

	// The course detail view carries the attachments back out
	got, err := f.service.GetCourse(ctx, strconv.FormatInt(course.ID, 10), instructor(7))
	require.NoError(t, err)
	require.Len(t, got.Lessons, 1)
	assert.Len(t, got.Lessons[0].Attachments, 2)
}

func TestDeleteLessonRejectsForeignCourse(t *testing.T) {
	f := newCourseServiceFixture()
	ctx := context.Background()
	courseA := publishedCourse(f, 7)
	courseB := f.courses.add(&models.Course{Title: "Other", Slug: "other", InstructorID: 7, Status: models.StatusPublished})

	lesson, err := f.service.AddLesson(ctx, instructor(7), courseA.ID, &dto.CreateLessonRequest{
		Title: "Intro", Content: "hello", Position: 1,
	})
	require.NoError(t, err)

	err = f.service.DeleteLesson(ctx, instructor(7), courseB.ID, lesson.ID)
	assert.ErrorIs(t, err, apperrors.ErrLessonNotFound)

	require.NoError(t, f.service.DeleteLesson(ctx, instructor(7), courseA.ID, lesson.ID))
}

func TestIsCourseOwner(t *testing.T) {
	f := newCourseServiceFixture()
	course := publishedCourse(f, 7)

	owns, err := f.service.IsCourseOwner(context.Background(), 7, course.ID)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = f.service.IsCourseOwner(context.Background(), 8, course.ID)
	require.NoError(t, err)
	assert.False(t, owns)
}
