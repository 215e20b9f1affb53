package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/okaraca/coursehub/internal/pkg/apperrors"
)

func TestHandleAPIErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"course not found", apperrors.ErrCourseNotFound, http.StatusNotFound},
		{"email taken", apperrors.ErrEmailAlreadyExists, http.StatusConflict},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden},
		{"not published", apperrors.ErrCourseNotPublished, http.StatusBadRequest},
		{"not enrolled", apperrors.ErrNotEnrolled, http.StatusBadRequest},
		{"file too large", apperrors.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"bad request", apperrors.NewBadRequestError("nope"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
