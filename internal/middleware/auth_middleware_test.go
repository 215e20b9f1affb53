package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/pkg/apperrors"
	"github.com/okaraca/coursehub/internal/pkg/auth"
	"github.com/okaraca/coursehub/internal/pkg/logger"
)

type fakeUserLoader struct {
	users map[int64]*models.User
}

func (f *fakeUserLoader) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

type fakeOwnership struct {
	ownerID int64
	err     error
}

func (f *fakeOwnership) IsCourseOwner(_ context.Context, userID, _ int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return userID == f.ownerID, nil
}

func newAuthFixture(t *testing.T, accessExp time.Duration) (*AuthMiddleware, *auth.JWTService, *fakeUserLoader) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "coursehub.test",
	})
	loader := &fakeUserLoader{users: map[int64]*models.User{}}
	return NewAuthMiddleware(jwtService, loader), jwtService, loader
}

func activeUser(id int64, role models.RoleType) *models.User {
	return &models.User{ID: id, Email: "user@example.com", RoleType: role, IsActive: true, Password: "digest"}
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()
	accessToken, _, _, _, err := jwtService.GenerateTokenPair(user)
	require.NoError(t, err)
	return accessToken
}

func runRequest(middlewares []gin.HandlerFunc, mutate func(*http.Request)) (*httptest.ResponseRecorder, *models.User) {
	router := gin.New()
	var seen *models.User
	handlers := append(middlewares, func(c *gin.Context) {
		seen = CurrentUser(c)
		c.Status(http.StatusOK)
	})
	router.GET("/protected/:id", handlers...)

	req := httptest.NewRequest(http.MethodGet, "/protected/1", nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, seen
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	m, _, _ := newAuthFixture(t, time.Hour)

	w, _ := runRequest([]gin.HandlerFunc{m.RequireAuth()}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthAcceptsBearerHeader(t *testing.T) {
	m, jwtService, loader := newAuthFixture(t, time.Hour)
	user := activeUser(1, models.RoleStudent)
	loader.users[1] = user
	token := tokenFor(t, jwtService, user)

	w, seen := runRequest([]gin.HandlerFunc{m.RequireAuth()}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(1), seen.ID)
	// The digest must not leak into the request context
	assert.Empty(t, seen.Password)
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	m, jwtService, loader := newAuthFixture(t, time.Hour)
	user := activeUser(1, models.RoleStudent)
	loader.users[1] = user
	token := tokenFor(t, jwtService, user)

	w, seen := runRequest([]gin.HandlerFunc{m.RequireAuth()}, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(1), seen.ID)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	m, jwtService, loader := newAuthFixture(t, -time.Minute)
	user := activeUser(1, models.RoleStudent)
	loader.users[1] = user
	token := tokenFor(t, jwtService, user)

	w, _ := runRequest([]gin.HandlerFunc{m.RequireAuth()}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRequireAuthRejectsDisabledAccount(t *testing.T) {
	m, jwtService, loader := newAuthFixture(t, time.Hour)
	user := activeUser(1, models.RoleStudent)
	user.IsActive = false
	loader.users[1] = user
	token := tokenFor(t, jwtService, user)

	w, _ := runRequest([]gin.HandlerFunc{m.RequireAuth()}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthRejectsDeletedAccount(t *testing.T) {
	m, jwtService, _ := newAuthFixture(t, time.Hour)
	token := tokenFor(t, jwtService, activeUser(42, models.RoleStudent))

	w, _ := runRequest([]gin.HandlerFunc{m.RequireAuth()}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	m, jwtService, loader := newAuthFixture(t, time.Hour)
	user := activeUser(1, models.RoleStudent)
	loader.users[1] = user

	w, seen := runRequest([]gin.HandlerFunc{m.OptionalAuth()}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)

	w, seen = runRequest([]gin.HandlerFunc{m.OptionalAuth()}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)

	token := tokenFor(t, jwtService, user)
	w, seen = runRequest([]gin.HandlerFunc{m.OptionalAuth()}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(1), seen.ID)
}

func TestOptionalAuthLogsRejectedCredential(t *testing.T) {
	m, _, _ := newAuthFixture(t, time.Hour)

	var buf bytes.Buffer
	logger.Configure(logger.Config{Level: logger.DebugLevel, Output: &buf})
	t.Cleanup(func() { logger.Configure(logger.Config{Level: logger.InfoLevel}) })

	w, seen := runRequest([]gin.HandlerFunc{m.OptionalAuth()}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer garbage")
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, seen)
	assert.Contains(t, buf.String(), "Optional auth credential rejected")
}

func TestRequireInstructorRoleGate(t *testing.T) {
	m, jwtService, loader := newAuthFixture(t, time.Hour)

	student := activeUser(1, models.RoleStudent)
	tutor := activeUser(2, models.RoleInstructor)
	loader.users[1] = student
	loader.users[2] = tutor

	w, _ := runRequest([]gin.HandlerFunc{m.RequireAuth(), m.RequireInstructor()}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, student))
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = runRequest([]gin.HandlerFunc{m.RequireAuth(), m.RequireInstructor()}, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, tutor))
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireCourseOwner(t *testing.T) {
	m, jwtService, loader := newAuthFixture(t, time.Hour)

	owner := activeUser(7, models.RoleInstructor)
	other := activeUser(8, models.RoleInstructor)
	adminUser := activeUser(9, models.RoleAdmin)
	loader.users[7] = owner
	loader.users[8] = other
	loader.users[9] = adminUser

	checker := &fakeOwnership{ownerID: 7}
	chain := []gin.HandlerFunc{m.RequireAuth(), m.RequireCourseOwner(checker, "id")}

	w, _ := runRequest(chain, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, owner))
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = runRequest(chain, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, other))
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins bypass the ownership check entirely
	w, _ = runRequest(chain, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, adminUser))
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireCourseOwnerPropagatesNotFound(t *testing.T) {
	m, jwtService, loader := newAuthFixture(t, time.Hour)
	user := activeUser(7, models.RoleInstructor)
	loader.users[7] = user

	checker := &fakeOwnership{err: apperrors.ErrCourseNotFound}
	chain := []gin.HandlerFunc{m.RequireAuth(), m.RequireCourseOwner(checker, "id")}

	w, _ := runRequest(chain, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, user))
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
