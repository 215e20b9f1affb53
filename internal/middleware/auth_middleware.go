package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/app/models/dto"
	"github.com/okaraca/coursehub/internal/pkg/auth"
	"github.com/okaraca/coursehub/internal/pkg/logger"
)

// Context keys set by the auth middleware
const (
	ContextUserKey   = "currentUser"
	ContextUserIDKey = "userID"
	ContextRoleKey   = "roleType"
)

// TokenCookieName is the fallback cookie checked when no Authorization
// header is present.
const TokenCookieName = "token"

// UserLoader loads the authenticated account for a token's user ID
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// OwnershipChecker reports whether a user owns a course
type OwnershipChecker interface {
	IsCourseOwner(ctx context.Context, userID, courseID int64) (bool, error)
}

// AuthMiddleware verifies credentials and attaches the account to the
// request context
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserLoader
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// tokenFromRequest extracts the credential: Authorization header first,
// token cookie second.
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		token, err := auth.ExtractBearerToken(authHeader)
		if err == nil {
			return token
		}
	}
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	return ""
}

// resolveUser validates the token and loads its account. Returns nil user
// with no error when the request carries no credential at all.
func (m *AuthMiddleware) resolveUser(c *gin.Context) (*models.User, *dto.ErrorDetail) {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		return nil, nil
	}

	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		code := dto.ErrorCodeInvalidToken
		details := "Invalid token"
		if errors.Is(err, auth.ErrExpiredToken) {
			code = dto.ErrorCodeExpiredToken
			details = "Token has expired"
		}
		return nil, dto.NewErrorDetail(code, "Authentication failed").WithDetails(details)
	}

	user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").
			WithDetails("The account belonging to this token no longer exists")
	}

	if !user.IsActive {
		return nil, dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")
	}

	// Never let the digest travel any further
	user.Password = ""

	return user, nil
}

// setContext stores the authenticated account on the gin context
func setContext(c *gin.Context, user *models.User) {
	c.Set(ContextUserKey, user)
	c.Set(ContextUserIDKey, user.ID)
	c.Set(ContextRoleKey, string(user.RoleType))
}

// RequireAuth rejects requests without a valid credential for an active
// account.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenFromRequest(c) == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("No credentials provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		user, errDetail := m.resolveUser(c)
		if errDetail != nil {
			status := http.StatusUnauthorized
			if errDetail.Code == dto.ErrorCodeAccountDisabled {
				status = http.StatusForbidden
			}
			c.AbortWithStatusJSON(status, dto.NewErrorResponse(errDetail))
			return
		}

		setContext(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the account when a valid credential is present and
// proceeds anonymously otherwise. It never rejects; a bad credential is
// only logged.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, errDetail := m.resolveUser(c)
		switch {
		case errDetail != nil:
			logger.Debug().
				Str("path", c.Request.URL.Path).
				Str("reason", errDetail.Message).
				Msg("Optional auth credential rejected")
		case user != nil:
			setContext(c, user)
		}
		c.Next()
	}
}

// RequireRoles rejects authenticated requests whose role is not in the
// allowed set. Must run after RequireAuth.
func (m *AuthMiddleware) RequireRoles(roles ...models.RoleType) gin.HandlerFunc {
	allowed := make(map[models.RoleType]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !allowed[user.RoleType] {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// RequireInstructor allows instructors and admins
func (m *AuthMiddleware) RequireInstructor() gin.HandlerFunc {
	return m.RequireRoles(models.RoleInstructor, models.RoleAdmin)
}

// RequireAdmin allows admins only
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRoles(models.RoleAdmin)
}

// RequireCourseOwner rejects requests whose account neither owns the course
// named by the id route parameter nor holds the admin role. Must run after
// RequireAuth.
func (m *AuthMiddleware) RequireCourseOwner(checker OwnershipChecker, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if user.RoleType == models.RoleAdmin {
			c.Next()
			return
		}

		courseID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course id")
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}

		owns, err := checker.IsCourseOwner(c.Request.Context(), user.ID, courseID)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		if !owns {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You can only modify your own courses")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated account attached to the context, or
// nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
