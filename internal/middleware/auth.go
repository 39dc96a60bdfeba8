package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/campaign-naming-server-go/internal/utils/jwt"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/response"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
)

// ErrUserInactive is returned by loaders for disabled accounts.
var ErrUserInactive = errors.New("user is inactive")

const contextUserKey = "user"

// User represents the authenticated user in middleware context.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;primaryKey"`
	Email     string         `gorm:"column:email"`
	FullName  string         `gorm:"column:full_name"`
	Role      types.UserRole `gorm:"column:role"`
	Active    bool           `gorm:"column:is_active"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == types.UserRoleAdmin
}

// UserLoader resolves the user a verified token belongs to.
type UserLoader func(ctx context.Context, id uuid.UUID) (*User, error)

// DBUserLoader loads users straight from the users table.
func DBUserLoader(db *gorm.DB) UserLoader {
	return func(ctx context.Context, id uuid.UUID) (*User, error) {
		var usr User
		if err := db.WithContext(ctx).First(&usr, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &usr, nil
	}
}

// Global instance to be initialized once at startup.
var global *AuthMiddleware

// AuthMiddleware holds dependencies for authentication middleware.
type AuthMiddleware struct {
	signer jwt.Signer
	load   UserLoader
	logger *slog.Logger
}

// NewAuthMiddleware creates an auth middleware instance.
func NewAuthMiddleware(signer jwt.Signer, load UserLoader, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{signer: signer, load: load, logger: logger}
}

// Initialize sets up the global middleware instance (call once at startup).
func Initialize(db *gorm.DB, signer jwt.Signer, logger *slog.Logger) *AuthMiddleware {
	global = NewAuthMiddleware(signer, DBUserLoader(db), logger)
	return global
}

// AuthenticateToken validates bearer tokens and loads user data into context.
func (m *AuthMiddleware) AuthenticateToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.ensureAuthenticated(c); !ok {
			return
		}
		c.Next()
	}
}

// AuthorizeRoles checks that the user has one of the allowed roles.
func (m *AuthMiddleware) AuthorizeRoles(roles ...types.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		usr, ok := GetUserFromContext(c)
		if !ok {
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "User not authenticated", nil)
			c.Abort()
			return
		}

		for _, role := range roles {
			if usr.Role == role {
				c.Next()
				return
			}
		}

		response.ErrorWithLog(m.logger, c, http.StatusForbidden, "Access denied: Insufficient permissions.", nil)
		c.Abort()
	}
}

// AuthorizeEmailDomain only lets through users whose email ends with domain.
// Admins always pass.
func (m *AuthMiddleware) AuthorizeEmailDomain(domain string) gin.HandlerFunc {
	domain = strings.ToLower(strings.TrimSpace(domain))

	return func(c *gin.Context) {
		usr, ok := GetUserFromContext(c)
		if !ok {
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "User not authenticated", nil)
			c.Abort()
			return
		}

		if usr.IsAdmin() || HasEmailDomain(usr.Email, domain) {
			c.Next()
			return
		}

		response.ErrorWithLog(m.logger, c, http.StatusForbidden, "Access denied: restricted to organization accounts.", nil)
		c.Abort()
	}
}

// RequireAuth authenticates the request without a role check.
func (m *AuthMiddleware) RequireAuth() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.AuthenticateToken()}
}

// RequireRoles authenticates and then enforces roles.
func (m *AuthMiddleware) RequireRoles(roles ...types.UserRole) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.AuthenticateToken(),
		m.AuthorizeRoles(roles...),
	}
}

// RequireEmailDomain authenticates and then enforces the organization domain.
func (m *AuthMiddleware) RequireEmailDomain(domain string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.AuthenticateToken(),
		m.AuthorizeEmailDomain(domain),
	}
}

// RequireAuth is the global version of AuthMiddleware.RequireAuth.
func RequireAuth() []gin.HandlerFunc {
	return mustGlobal().RequireAuth()
}

// RequireRoles is the global version of AuthMiddleware.RequireRoles.
func RequireRoles(roles ...types.UserRole) []gin.HandlerFunc {
	return mustGlobal().RequireRoles(roles...)
}

// RequireEmailDomain is the global version of AuthMiddleware.RequireEmailDomain.
func RequireEmailDomain(domain string) []gin.HandlerFunc {
	return mustGlobal().RequireEmailDomain(domain)
}

func mustGlobal() *AuthMiddleware {
	if global == nil {
		panic("middleware not initialized - call middleware.Initialize() first")
	}
	return global
}

// HasEmailDomain reports whether the host part of email is exactly domain,
// ignoring case. A leading "@" on domain is optional.
func HasEmailDomain(email, domain string) bool {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@"))
	if domain == "" {
		return false
	}

	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return false
	}
	return email[at+1:] == domain
}

// SetUser stores an authenticated user on the context.
func SetUser(c *gin.Context, usr *User) {
	c.Set(contextUserKey, usr)
	c.Set("userId", usr.ID)
}

// GetUserFromContext retrieves the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*User, bool) {
	userVal, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}

	usr, ok := userVal.(*User)
	if !ok || usr == nil {
		return nil, false
	}
	return usr, true
}

// ExtractBearer returns the token from an Authorization header value.
func ExtractBearer(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// Authenticate verifies an access token and loads its user. It is shared by
// the HTTP middleware and the socket handshake.
func (m *AuthMiddleware) Authenticate(ctx context.Context, token string) (*User, error) {
	claims, err := m.signer.VerifyAccess(token)
	if err != nil {
		return nil, err
	}

	usr, err := m.load(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !usr.Active {
		return nil, ErrUserInactive
	}
	return usr, nil
}

func (m *AuthMiddleware) ensureAuthenticated(c *gin.Context) (*User, bool) {
	if usr, ok := GetUserFromContext(c); ok {
		return usr, true
	}

	token := ExtractBearer(c.GetHeader("Authorization"))
	if token == "" {
		response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "No token provided", nil)
		c.Abort()
		return nil, false
	}

	usr, err := m.Authenticate(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Token expired", err)
		case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrWrongPurpose):
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "Invalid token", err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.ErrorWithLog(m.logger, c, http.StatusUnauthorized, "User not found", err)
		case errors.Is(err, ErrUserInactive):
			response.ErrorWithLog(m.logger, c, http.StatusForbidden, "Your account is inactive", err)
		default:
			response.ErrorWithLog(m.logger, c, http.StatusInternalServerError, "Internal Server Error", err)
		}
		c.Abort()
		return nil, false
	}

	SetUser(c, usr)
	return usr, true
}
