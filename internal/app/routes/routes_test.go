package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaraca/coursehub/internal/app/controllers"
	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/middleware"
	"github.com/okaraca/coursehub/internal/pkg/apperrors"
	"github.com/okaraca/coursehub/internal/pkg/auth"
)

type routeUserLoader struct {
	users map[int64]*models.User
}

func (f *routeUserLoader) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type routeOwnership struct{}

func (routeOwnership) IsCourseOwner(context.Context, int64, int64) (bool, error) {
	return false, nil
}

// newRouterFixture wires the real route tree with an in-memory account
// loader. Handlers that would hit a service are only exercised up to their
// request parsing, which is enough to tell a routing rejection from a
// handler response.
func newRouterFixture(t *testing.T) (*gin.Engine, *auth.JWTService, *routeUserLoader) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "coursehub.test",
	})
	loader := &routeUserLoader{users: map[int64]*models.User{}}
	authMiddleware := middleware.NewAuthMiddleware(jwtService, loader)

	router := gin.New()
	SetupRouter(
		router,
		controllers.NewAuthController(nil, zerolog.Nop()),
		controllers.NewCourseController(nil, zerolog.Nop()),
		controllers.NewUserController(nil, zerolog.Nop()),
		controllers.NewUploadController(nil, zerolog.Nop()),
		authMiddleware,
		routeOwnership{},
	)
	return router, jwtService, loader
}

func routeToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()
	accessToken, _, _, _, err := jwtService.GenerateTokenPair(user)
	require.NoError(t, err)
	return accessToken
}

func postAs(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadRoutesRoleGates(t *testing.T) {
	router, jwtService, loader := newRouterFixture(t)

	student := &models.User{ID: 5, Email: "s@example.com", RoleType: models.RoleStudent, IsActive: true}
	loader.users[student.ID] = student
	token := routeToken(t, jwtService, student)

	// Students reach the image and pdf handlers; an empty body stops at
	// request parsing with 400, never 403
	for _, path := range []string{"/api/v1/uploads/image", "/api/v1/uploads/pdf", "/api/v1/uploads/avatar"} {
		w := postAs(router, path, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	// Video and bulk stay instructor-only
	for _, path := range []string{"/api/v1/uploads/video", "/api/v1/uploads/bulk"} {
		w := postAs(router, path, token)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}

	tutor := &models.User{ID: 6, Email: "i@example.com", RoleType: models.RoleInstructor, IsActive: true}
	loader.users[tutor.ID] = tutor
	w := postAs(router, "/api/v1/uploads/video", routeToken(t, jwtService, tutor))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRoutesRequireAuthentication(t *testing.T) {
	router, _, _ := newRouterFixture(t)

	w := postAs(router, "/api/v1/uploads/image", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
