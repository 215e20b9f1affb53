package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/app/models/dto"
	"github.com/okaraca/coursehub/internal/app/services"
	"github.com/okaraca/coursehub/internal/middleware"
)

// UploadController handles file upload endpoints
type UploadController struct {
	uploadService *services.UploadService
	logger        zerolog.Logger
}

// NewUploadController creates a new UploadController
func NewUploadController(uploadService *services.UploadService, logger zerolog.Logger) *UploadController {
	return &UploadController{
		uploadService: uploadService,
		logger:        logger,
	}
}

func (c *UploadController) uploadOne(ctx *gin.Context, kind models.UploadKind) {
	user := middleware.CurrentUser(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A file form field is required")))
		return
	}

	resp, err := c.uploadService.Upload(ctx.Request.Context(), fileHeader, kind, user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// UploadImage handles POST /uploads/image
func (c *UploadController) UploadImage(ctx *gin.Context) {
	c.uploadOne(ctx, models.UploadImage)
}

// UploadPDF handles POST /uploads/pdf
func (c *UploadController) UploadPDF(ctx *gin.Context) {
	c.uploadOne(ctx, models.UploadPDF)
}

// UploadVideo handles POST /uploads/video
func (c *UploadController) UploadVideo(ctx *gin.Context) {
	c.uploadOne(ctx, models.UploadVideo)
}

// UploadAvatar handles POST /uploads/avatar
func (c *UploadController) UploadAvatar(ctx *gin.Context) {
	c.uploadOne(ctx, models.UploadAvatar)
}

// UploadBulk handles POST /uploads/bulk for image and pdf batches
func (c *UploadController) UploadBulk(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Multipart form data is required")))
		return
	}

	files := form.File["files"]
	resp, err := c.uploadService.UploadBulk(ctx.Request.Context(), files, user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// DeleteUpload handles DELETE /uploads/:publicId
func (c *UploadController) DeleteUpload(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	publicID := strings.TrimPrefix(ctx.Param("publicId"), "/")
	if publicID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid public id")))
		return
	}

	if err := c.uploadService.Delete(ctx.Request.Context(), publicID, user); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Upload deleted"))
}
