package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/okaraca/coursehub/internal/app/models/dto"
	"github.com/okaraca/coursehub/internal/app/services"
	"github.com/okaraca/coursehub/internal/middleware"
	"github.com/okaraca/coursehub/internal/pkg/helpers"
)

// CourseController handles course, lesson, enrollment and review endpoints
type CourseController struct {
	courseService *services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

func courseIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course id")))
		return 0, false
	}
	return id, true
}

// ListCourses handles GET /courses
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var filter dto.CourseFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	page, size := filter.Page, filter.Limit
	if page < 1 {
		page = helpers.DefaultPage
	}
	if size <= 0 || size > helpers.MaxPageSize {
		size = helpers.DefaultPageSize
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	courses, total, err := c.courseService.ListCourses(ctx.Request.Context(), filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CourseListResponse{
		Courses:    courses,
		Count:      len(courses),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}))
}

// SearchCourses handles GET /courses/search
func (c *CourseController) SearchCourses(ctx *gin.Context) {
	var req dto.SearchCoursesRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	courses, total, err := c.courseService.SearchCourses(ctx.Request.Context(), req, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CourseListResponse{
		Courses:    courses,
		Count:      len(courses),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}))
}

// GetPopularCourses handles GET /courses/popular
func (c *CourseController) GetPopularCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetPopularCourses(ctx.Request.Context(), 10)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// GetFeaturedCourses handles GET /courses/featured
func (c *CourseController) GetFeaturedCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetFeaturedCourses(ctx.Request.Context(), 10)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// GetCourse handles GET /courses/:id where id is a numeric ID or a slug
func (c *CourseController) GetCourse(ctx *gin.Context) {
	viewer := middleware.CurrentUser(ctx)

	course, err := c.courseService.GetCourse(ctx.Request.Context(), ctx.Param("id"), viewer)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// CreateCourse handles POST /courses
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// UpdateCourse handles PUT /courses/:id
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), user, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// DeleteCourse handles DELETE /courses/:id
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), user, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Course deleted"))
}

// GetInstructorCourses handles GET /courses/mine
func (c *CourseController) GetInstructorCourses(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	courses, err := c.courseService.GetInstructorCourses(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// AddLesson handles POST /courses/:id/lessons
func (c *CourseController) AddLesson(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.CreateLessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lesson, err := c.courseService.AddLesson(ctx.Request.Context(), user, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(lesson))
}

// UpdateLesson handles PUT /courses/:id/lessons/:lessonId
func (c *CourseController) UpdateLesson(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	lessonID, err := strconv.ParseInt(ctx.Param("lessonId"), 10, 64)
	if err != nil || lessonID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lesson id")))
		return
	}

	var req dto.UpdateLessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	lesson, err := c.courseService.UpdateLesson(ctx.Request.Context(), user, courseID, lessonID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lesson))
}

// DeleteLesson handles DELETE /courses/:id/lessons/:lessonId
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	lessonID, err := strconv.ParseInt(ctx.Param("lessonId"), 10, 64)
	if err != nil || lessonID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lesson id")))
		return
	}

	if err := c.courseService.DeleteLesson(ctx.Request.Context(), user, courseID, lessonID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Lesson deleted"))
}

// Enroll handles POST /courses/:id/enroll
func (c *CourseController) Enroll(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	enrollment, err := c.courseService.Enroll(ctx.Request.Context(), user.ID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollment))
}

// GetEnrollments handles GET /courses/enrolled
func (c *CourseController) GetEnrollments(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	enrollments, err := c.courseService.GetEnrollments(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments))
}

// UpdateProgress handles PUT /courses/:id/progress
func (c *CourseController) UpdateProgress(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProgressRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.courseService.UpdateProgress(ctx.Request.Context(), user.ID, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollment))
}

// AddReview handles POST /courses/:id/reviews
func (c *CourseController) AddReview(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.AddReviewRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	review, err := c.courseService.AddReview(ctx.Request.Context(), user.ID, courseID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(review))
}

// DeleteReview handles DELETE /courses/:id/reviews
func (c *CourseController) DeleteReview(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.courseService.DeleteReview(ctx.Request.Context(), user.ID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Review deleted"))
}

// GetReviews handles GET /courses/:id/reviews
func (c *CourseController) GetReviews(ctx *gin.Context) {
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	reviews, total, err := c.courseService.GetReviews(ctx.Request.Context(), courseID, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      reviews,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}))
}

// SaveCourse handles POST /courses/:id/save
func (c *CourseController) SaveCourse(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.courseService.SaveCourse(ctx.Request.Context(), user.ID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Course saved"))
}

// UnsaveCourse handles DELETE /courses/:id/save
func (c *CourseController) UnsaveCourse(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	courseID, ok := courseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.courseService.UnsaveCourse(ctx.Request.Context(), user.ID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Course removed from saved"))
}

// GetSavedCourses handles GET /courses/saved
func (c *CourseController) GetSavedCourses(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	courses, err := c.courseService.GetSavedCourses(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}
