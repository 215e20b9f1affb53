package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/app/models/dto"
	"github.com/okaraca/coursehub/internal/pkg/apperrors"
	"github.com/okaraca/coursehub/internal/pkg/slug"
)

// ICourseRepository is the course store surface consumed by CourseService
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter dto.CourseFilter, offset uint64, limit int) ([]models.Course, int64, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]models.Course, error)
	ListPopular(ctx context.Context, limit uint64) ([]models.Course, error)
	ListFeatured(ctx context.Context, limit uint64) ([]models.Course, error)
	IncrementViews(ctx context.Context, courseID int64) error
	AdjustEnrollmentCounter(ctx context.Context, courseID int64, counter models.EnrollmentCounter, delta int) error
	UpdateLessonTotals(ctx context.Context, courseID int64) error
}

// ILessonRepository is the lesson store surface consumed by CourseService
type ILessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id int64) (*models.Lesson, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Lesson, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int64) error
	AddAttachment(ctx context.Context, att *models.LessonAttachment) error
	ListAttachments(ctx context.Context, lessonID int64) ([]models.LessonAttachment, error)
}

// IEnrollmentRepository is the enrollment store surface consumed by CourseService
type IEnrollmentRepository interface {
	Enroll(ctx context.Context, userID, courseID int64) (bool, error)
	IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Enrollment, error)
	UpdateProgress(ctx context.Context, userID, courseID int64, progress float64, lessonID *int64) (*models.Enrollment, error)
	SaveCourse(ctx context.Context, userID, courseID int64) (bool, error)
	UnsaveCourse(ctx context.Context, userID, courseID int64) error
	ListSavedCourses(ctx context.Context, userID int64) ([]models.Course, error)
}

// IReviewRepository is the review store surface consumed by CourseService
type IReviewRepository interface {
	Replace(ctx context.Context, review *models.Review) (bool, error)
	Delete(ctx context.Context, courseID, userID int64) error
	ListByCourse(ctx context.Context, courseID int64, offset uint64, limit int) ([]models.Review, int64, error)
}

// CourseService handles course lifecycle, enrollment and review operations
type CourseService struct {
	courseRepo     ICourseRepository
	lessonRepo     ILessonRepository
	enrollmentRepo IEnrollmentRepository
	reviewRepo     IReviewRepository
	logger         zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo ICourseRepository,
	lessonRepo ILessonRepository,
	enrollmentRepo IEnrollmentRepository,
	reviewRepo IReviewRepository,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		reviewRepo:     reviewRepo,
		logger:         logger,
	}
}

// uniqueSlug derives a slug from the title and suffixes a counter until it
// is free. The unique index on the slug column still backstops races.
func (s *CourseService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", apperrors.NewBadRequestError("title must contain at least one letter or digit")
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := s.courseRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// CreateCourse creates a course draft owned by the given instructor
func (s *CourseService) CreateCourse(ctx context.Context, instructorID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	courseSlug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:            req.Title,
		Slug:             courseSlug,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		InstructorID:     instructorID,
		Category:         models.CourseCategory(req.Category),
		Level:            models.CourseLevel(req.Level),
		Price:            *req.Price,
		OriginalPrice:    req.OriginalPrice,
		Currency:         req.Currency,
		ThumbnailURL:     req.Thumbnail,
		BannerURL:        req.Banner,
		Language:         req.Language,
		Requirements:     req.Requirements,
		LearningOutcomes: req.LearningOutcomes,
		Tags:             req.Tags,
		Status:           models.StatusDraft,
	}
	if req.Discount != nil {
		course.Discount = *req.Discount
	}
	if course.Currency == "" {
		course.Currency = "USD"
	}
	if course.Language == "" {
		course.Language = "en"
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseID", course.ID).Int64("instructorID", instructorID).Str("slug", course.Slug).Msg("Created course")

	return course, nil
}

// GetCourse retrieves a course by numeric ID or slug. Unpublished courses
// are only visible to their owner and admins. Views count once per fetch.
func (s *CourseService) GetCourse(ctx context.Context, idOrSlug string, viewer *models.User) (*models.Course, error) {
	var course *models.Course
	var err error

	if id, convErr := strconv.ParseInt(idOrSlug, 10, 64); convErr == nil {
		course, err = s.courseRepo.GetByID(ctx, id)
	} else {
		course, err = s.courseRepo.GetBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}

	if course.Status != models.StatusPublished && !canManageCourse(viewer, course) {
		// Hide the existence of unpublished courses
		return nil, apperrors.ErrCourseNotFound
	}

	lessons, err := s.lessonRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		attachments, err := s.lessonRepo.ListAttachments(ctx, lessons[i].ID)
		if err != nil {
			return nil, err
		}
		lessons[i].Attachments = attachments
	}
	course.Lessons = lessons

	if err := s.courseRepo.IncrementViews(ctx, course.ID); err != nil {
		s.logger.Warn().Err(err).Int64("courseID", course.ID).Msg("Failed to increment views")
	} else {
		course.Views++
	}

	return course, nil
}

// ListCourses retrieves one filtered catalog page
func (s *CourseService) ListCourses(ctx context.Context, filter dto.CourseFilter, offset uint64, limit int) ([]models.Course, int64, error) {
	return s.courseRepo.List(ctx, filter, offset, limit)
}

// SearchCourses runs a free-text catalog search
func (s *CourseService) SearchCourses(ctx context.Context, req dto.SearchCoursesRequest, offset uint64, limit int) ([]models.Course, int64, error) {
	filter := dto.CourseFilter{
		Search:   req.Query,
		Category: req.Category,
		Level:    req.Level,
	}
	return s.courseRepo.List(ctx, filter, offset, limit)
}

// GetPopularCourses retrieves the most enrolled published courses
func (s *CourseService) GetPopularCourses(ctx context.Context, limit uint64) ([]models.Course, error) {
	return s.courseRepo.ListPopular(ctx, limit)
}

// GetFeaturedCourses retrieves flagged featured courses
func (s *CourseService) GetFeaturedCourses(ctx context.Context, limit uint64) ([]models.Course, error) {
	return s.courseRepo.ListFeatured(ctx, limit)
}

// GetInstructorCourses retrieves every course owned by an instructor
func (s *CourseService) GetInstructorCourses(ctx context.Context, instructorID int64) ([]models.Course, error) {
	return s.courseRepo.ListByInstructor(ctx, instructorID)
}

func canManageCourse(user *models.User, course *models.Course) bool {
	if user == nil {
		return false
	}
	return user.RoleType == models.RoleAdmin || user.ID == course.InstructorID
}

// UpdateCourse applies a partial update. Only the owner or an admin may
// modify a course; a title change re-derives the slug.
func (s *CourseService) UpdateCourse(ctx context.Context, actor *models.User, courseID int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !canManageCourse(actor, course) {
		return nil, apperrors.ErrNotCourseOwner
	}

	if req.Title != nil && *req.Title != course.Title {
		course.Title = *req.Title
		newSlug, err := s.uniqueSlug(ctx, *req.Title)
		if err != nil {
			return nil, err
		}
		course.Slug = newSlug
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.ShortDescription != nil {
		course.ShortDescription = req.ShortDescription
	}
	if req.Category != nil {
		course.Category = models.CourseCategory(*req.Category)
	}
	if req.Level != nil {
		course.Level = models.CourseLevel(*req.Level)
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		course.OriginalPrice = req.OriginalPrice
	}
	if req.Discount != nil {
		course.Discount = *req.Discount
	}
	if req.Thumbnail != nil {
		course.ThumbnailURL = *req.Thumbnail
	}
	if req.Banner != nil {
		course.BannerURL = req.Banner
	}
	if req.Language != nil {
		course.Language = *req.Language
	}
	if req.Requirements != nil {
		course.Requirements = req.Requirements
	}
	if req.LearningOutcomes != nil {
		course.LearningOutcomes = req.LearningOutcomes
	}
	if req.Tags != nil {
		course.Tags = req.Tags
	}
	if req.Status != nil {
		course.Status = models.CourseStatus(*req.Status)
	}

	// Catalog flags are admin-only
	if actor.RoleType == models.RoleAdmin {
		if req.IsFeatured != nil {
			course.IsFeatured = *req.IsFeatured
		}
		if req.IsPopular != nil {
			course.IsPopular = *req.IsPopular
		}
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// DeleteCourse removes a course and everything hanging off it
func (s *CourseService) DeleteCourse(ctx context.Context, actor *models.User, courseID int64) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !canManageCourse(actor, course) {
		return apperrors.ErrNotCourseOwner
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return err
	}

	s.logger.Info().Int64("courseID", courseID).Int64("actorID", actor.ID).Msg("Deleted course")
	return nil
}

// AddLesson appends a lesson to a course and refreshes the course totals
func (s *CourseService) AddLesson(ctx context.Context, actor *models.User, courseID int64, req *dto.CreateLessonRequest) (*models.Lesson, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !canManageCourse(actor, course) {
		return nil, apperrors.ErrNotCourseOwner
	}

	lesson := &models.Lesson{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		VideoURL:    req.VideoURL,
		Duration:    req.Duration,
		Position:    req.Position,
		IsFree:      req.IsFree,
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}

	for _, att := range req.Attachments {
		stored := &models.LessonAttachment{
			LessonID: lesson.ID,
			Name:     att.Name,
			URL:      att.URL,
			FileType: att.FileType,
			FileSize: att.FileSize,
		}
		if err := s.lessonRepo.AddAttachment(ctx, stored); err != nil {
			return nil, err
		}
		lesson.Attachments = append(lesson.Attachments, *stored)
	}

	if err := s.courseRepo.UpdateLessonTotals(ctx, courseID); err != nil {
		s.logger.Warn().Err(err).Int64("courseID", courseID).Msg("Failed to refresh lesson totals")
	}

	return lesson, nil
}

// UpdateLesson applies a partial lesson update
func (s *CourseService) UpdateLesson(ctx context.Context, actor *models.User, courseID, lessonID int64, req *dto.UpdateLessonRequest) (*models.Lesson, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !canManageCourse(actor, course) {
		return nil, apperrors.ErrNotCourseOwner
	}

	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, apperrors.ErrLessonNotFound
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = req.Description
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = req.VideoURL
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}
	if req.Position != nil {
		lesson.Position = *req.Position
	}
	if req.IsFree != nil {
		lesson.IsFree = *req.IsFree
	}

	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, err
	}

	if err := s.courseRepo.UpdateLessonTotals(ctx, courseID); err != nil {
		s.logger.Warn().Err(err).Int64("courseID", courseID).Msg("Failed to refresh lesson totals")
	}

	return lesson, nil
}

// DeleteLesson removes a lesson and refreshes the course totals
func (s *CourseService) DeleteLesson(ctx context.Context, actor *models.User, courseID, lessonID int64) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !canManageCourse(actor, course) {
		return apperrors.ErrNotCourseOwner
	}

	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if lesson.CourseID != courseID {
		return apperrors.ErrLessonNotFound
	}

	if err := s.lessonRepo.Delete(ctx, lessonID); err != nil {
		return err
	}

	if err := s.courseRepo.UpdateLessonTotals(ctx, courseID); err != nil {
		s.logger.Warn().Err(err).Int64("courseID", courseID).Msg("Failed to refresh lesson totals")
	}

	return nil
}

// Enroll enrolls a user in a published course. Enrolling twice is a no-op;
// course counters only move on a first enrollment.
func (s *CourseService) Enroll(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != models.StatusPublished {
		return nil, apperrors.ErrCourseNotPublished
	}

	inserted, err := s.enrollmentRepo.Enroll(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if inserted {
		if err := s.courseRepo.AdjustEnrollmentCounter(ctx, courseID, models.EnrollmentTotal, 1); err != nil {
			s.logger.Error().Err(err).Int64("courseID", courseID).Msg("Failed to bump total enrollment counter")
		}
		if err := s.courseRepo.AdjustEnrollmentCounter(ctx, courseID, models.EnrollmentActive, 1); err != nil {
			s.logger.Error().Err(err).Int64("courseID", courseID).Msg("Failed to bump active enrollment counter")
		}
		s.logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("Enrolled user in course")
	}

	return s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
}

// GetEnrollments retrieves every enrollment of a user with course details
func (s *CourseService) GetEnrollments(ctx context.Context, userID int64) ([]models.Enrollment, error) {
	return s.enrollmentRepo.ListByUser(ctx, userID)
}

// UpdateProgress stores reported progress verbatim. Reaching 100 for the
// first time moves the enrollment from the active to the completed counter.
func (s *CourseService) UpdateProgress(ctx context.Context, userID, courseID int64, req *dto.UpdateProgressRequest) (*models.Enrollment, error) {
	previous, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.UpdateProgress(ctx, userID, courseID, *req.Progress, req.LessonID)
	if err != nil {
		return nil, err
	}

	if previous.Progress < 100 && enrollment.Progress >= 100 {
		if err := s.courseRepo.AdjustEnrollmentCounter(ctx, courseID, models.EnrollmentCompleted, 1); err != nil {
			s.logger.Error().Err(err).Int64("courseID", courseID).Msg("Failed to bump completed enrollment counter")
		}
		if err := s.courseRepo.AdjustEnrollmentCounter(ctx, courseID, models.EnrollmentActive, -1); err != nil {
			s.logger.Error().Err(err).Int64("courseID", courseID).Msg("Failed to drop active enrollment counter")
		}
	}

	return enrollment, nil
}

// AddReview stores a review from an enrolled user. A second submission by
// the same user replaces the first.
func (s *CourseService) AddReview(ctx context.Context, userID, courseID int64, req *dto.AddReviewRequest) (*models.Review, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.ErrNotEnrolled
	}

	review := &models.Review{
		CourseID: courseID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	if _, err := s.reviewRepo.Replace(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// DeleteReview removes the caller's review of a course
func (s *CourseService) DeleteReview(ctx context.Context, userID, courseID int64) error {
	return s.reviewRepo.Delete(ctx, courseID, userID)
}

// GetReviews retrieves one page of a course's reviews
func (s *CourseService) GetReviews(ctx context.Context, courseID int64, offset uint64, limit int) ([]models.Review, int64, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByCourse(ctx, courseID, offset, limit)
}

// SaveCourse bookmarks a course for the user
func (s *CourseService) SaveCourse(ctx context.Context, userID, courseID int64) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.Status != models.StatusPublished {
		return apperrors.ErrCourseNotFound
	}
	_, err = s.enrollmentRepo.SaveCourse(ctx, userID, courseID)
	return err
}

// UnsaveCourse removes a bookmark
func (s *CourseService) UnsaveCourse(ctx context.Context, userID, courseID int64) error {
	return s.enrollmentRepo.UnsaveCourse(ctx, userID, courseID)
}

// GetSavedCourses retrieves the user's bookmarked courses
func (s *CourseService) GetSavedCourses(ctx context.Context, userID int64) ([]models.Course, error) {
	return s.enrollmentRepo.ListSavedCourses(ctx, userID)
}

// IsCourseOwner reports whether a user owns a course
func (s *CourseService) IsCourseOwner(ctx context.Context, userID, courseID int64) (bool, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return false, err
	}
	return course.InstructorID == userID, nil
}
