package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/okaraca/coursehub/internal/app/controllers"
	"github.com/okaraca/coursehub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	userController *controllers.UserController,
	uploadController *controllers.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	ownership middleware.OwnershipChecker,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authMiddleware.RequireAuth(), authController.Logout)
	}

	// --- Catalog routes ---
	courses := v1.Group("/courses")
	{
		// Public listings; OptionalAuth lets owners see their drafts on detail
		courses.GET("", courseController.ListCourses)
		courses.GET("/search", courseController.SearchCourses)
		courses.GET("/popular", courseController.GetPopularCourses)
		courses.GET("/featured", courseController.GetFeaturedCourses)

		// Authenticated, fixed-path routes must register before /:id
		enrolled := courses.Group("", authMiddleware.RequireAuth())
		{
			enrolled.GET("/enrolled", courseController.GetEnrollments)
			enrolled.GET("/saved", courseController.GetSavedCourses)
			enrolled.GET("/mine", authMiddleware.RequireInstructor(), courseController.GetInstructorCourses)
		}

		courses.GET("/:id", authMiddleware.OptionalAuth(), courseController.GetCourse)
		courses.GET("/:id/reviews", courseController.GetReviews)

		// Instructor course management
		courses.POST("", authMiddleware.RequireAuth(), authMiddleware.RequireInstructor(), courseController.CreateCourse)

		owned := courses.Group("", authMiddleware.RequireAuth(), authMiddleware.RequireCourseOwner(ownership, "id"))
		{
			owned.PUT("/:id", courseController.UpdateCourse)
			owned.DELETE("/:id", courseController.DeleteCourse)
			owned.POST("/:id/lessons", courseController.AddLesson)
			owned.PUT("/:id/lessons/:lessonId", courseController.UpdateLesson)
			owned.DELETE("/:id/lessons/:lessonId", courseController.DeleteLesson)
		}

		// Student course interaction
		student := courses.Group("", authMiddleware.RequireAuth())
		{
			student.POST("/:id/enroll", courseController.Enroll)
			student.PUT("/:id/progress", courseController.UpdateProgress)
			student.POST("/:id/reviews", courseController.AddReview)
			student.DELETE("/:id/reviews", courseController.DeleteReview)
			student.POST("/:id/save", courseController.SaveCourse)
			student.DELETE("/:id/save", courseController.UnsaveCourse)
		}
	}

	// --- Profile routes ---
	users := v1.Group("/users", authMiddleware.RequireAuth())
	{
		users.GET("/me", userController.GetProfile)
		users.PUT("/me", userController.UpdateProfile)
		users.PUT("/me/preferences", userController.UpdatePreferences)
		users.PUT("/me/stats", userController.UpdateStats)

		// Account administration
		admin := users.Group("", authMiddleware.RequireAdmin())
		{
			admin.GET("", userController.ListUsers)
			admin.PUT("/:id/active", userController.SetUserActive)
			admin.DELETE("/:id", userController.DeleteUser)
		}
	}

	// --- Upload routes ---
	uploads := v1.Group("/uploads", authMiddleware.RequireAuth())
	{
		// Only video and bulk are instructor surfaces; any authenticated
		// account may push images, documents and avatars
		uploads.POST("/image", uploadController.UploadImage)
		uploads.POST("/pdf", uploadController.UploadPDF)
		uploads.POST("/video", authMiddleware.RequireInstructor(), uploadController.UploadVideo)
		uploads.POST("/bulk", authMiddleware.RequireInstructor(), uploadController.UploadBulk)
		uploads.POST("/avatar", uploadController.UploadAvatar)
		uploads.DELETE("/*publicId", uploadController.DeleteUpload)
	}
}
