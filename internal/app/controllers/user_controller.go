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

// UserController handles profile and account administration endpoints
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// GetProfile handles GET /users/me
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	profile, err := c.userService.GetProfile(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdateProfile handles PUT /users/me
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profile, err := c.userService.UpdateProfile(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdatePreferences handles PUT /users/me/preferences
func (c *UserController) UpdatePreferences(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.UpdatePreferencesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	prefs, err := c.userService.UpdatePreferences(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(prefs))
}

// UpdateStats handles PUT /users/me/stats
func (c *UserController) UpdateStats(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.UpdateStatsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	stats, err := c.userService.UpdateStats(ctx.Request.Context(), user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// ListUsers handles GET /users (admin only)
func (c *UserController) ListUsers(ctx *gin.Context) {
	var filter dto.ListUsersFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	page, size := filter.Page, filter.Limit
	if page < 1 {
		page = helpers.DefaultPage
	}
	if size <= 0 {
		size = helpers.DefaultPageSize
	}

	users, total, err := c.userService.ListUsers(ctx.Request.Context(), filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      users,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

func userIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid user id")))
		return 0, false
	}
	return id, true
}

// SetUserActive handles PUT /users/:id/active (admin only)
func (c *UserController) SetUserActive(ctx *gin.Context) {
	userID, ok := userIDParam(ctx)
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.userService.SetUserActive(ctx.Request.Context(), userID, *req.Active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Account updated"))
}

// DeleteUser handles DELETE /users/:id (admin only)
func (c *UserController) DeleteUser(ctx *gin.Context) {
	userID, ok := userIDParam(ctx)
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Account deleted"))
}
