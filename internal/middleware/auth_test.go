package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/internal/utils/jwt"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var signer = jwt.Signer{
	AccessSecret:  "a",
	RefreshSecret: "r",
	AccessTTL:     time.Hour,
	RefreshTTL:    time.Hour,
}

func newAuth(users map[uuid.UUID]*middleware.User) *middleware.AuthMiddleware {
	loader := func(_ context.Context, id uuid.UUID) (*middleware.User, error) {
		if usr, ok := users[id]; ok {
			return usr, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	return middleware.NewAuthMiddleware(signer, loader, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serve(t *testing.T, handlers []gin.HandlerFunc, token string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		usr, ok := middleware.GetUserFromContext(c)
		require.True(t, ok)
		c.String(http.StatusOK, usr.Email)
	})
	router.GET("/protected", chain...)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateToken(t *testing.T) {
	member := &middleware.User{ID: uuid.New(), Email: "ana@citizengo.net", Role: types.UserRoleMember, Active: true}
	inactive := &middleware.User{ID: uuid.New(), Email: "old@citizengo.net", Role: types.UserRoleMember}
	auth := newAuth(map[uuid.UUID]*middleware.User{member.ID: member, inactive.ID: inactive})

	t.Run("valid token", func(t *testing.T) {
		pair, err := signer.IssuePair(member.ID, member.Email)
		require.NoError(t, err)

		rec := serve(t, auth.RequireAuth(), pair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, member.Email, rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		rec := serve(t, auth.RequireAuth(), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "No token provided")
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		pair, err := signer.IssuePair(member.ID, member.Email)
		require.NoError(t, err)

		rec := serve(t, auth.RequireAuth(), pair.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		pair, err := signer.IssuePair(uuid.New(), "ghost@citizengo.net")
		require.NoError(t, err)

		rec := serve(t, auth.RequireAuth(), pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		pair, err := signer.IssuePair(inactive.ID, inactive.Email)
		require.NoError(t, err)

		rec := serve(t, auth.RequireAuth(), pair.AccessToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	member := &middleware.User{ID: uuid.New(), Email: "ana@citizengo.net", Role: types.UserRoleMember, Active: true}
	admin := &middleware.User{ID: uuid.New(), Email: "boss@citizengo.net", Role: types.UserRoleAdmin, Active: true}
	auth := newAuth(map[uuid.UUID]*middleware.User{member.ID: member, admin.ID: admin})

	memberPair, err := signer.IssuePair(member.ID, member.Email)
	require.NoError(t, err)
	adminPair, err := signer.IssuePair(admin.ID, admin.Email)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, serve(t, auth.RequireRoles(types.UserRoleAdmin), memberPair.AccessToken).Code)
	assert.Equal(t, http.StatusOK, serve(t, auth.RequireRoles(types.UserRoleAdmin), adminPair.AccessToken).Code)
}

func TestRequireEmailDomain(t *testing.T) {
	insider := &middleware.User{ID: uuid.New(), Email: "Ana@CitizenGO.net", Role: types.UserRoleMember, Active: true}
	outsider := &middleware.User{ID: uuid.New(), Email: "ana@gmail.com", Role: types.UserRoleMember, Active: true}
	admin := &middleware.User{ID: uuid.New(), Email: "root@localhost", Role: types.UserRoleAdmin, Active: true}
	auth := newAuth(map[uuid.UUID]*middleware.User{insider.ID: insider, outsider.ID: outsider, admin.ID: admin})

	for _, tc := range []struct {
		usr  *middleware.User
		want int
	}{
		{usr: insider, want: http.StatusOK},
		{usr: outsider, want: http.StatusForbidden},
		{usr: admin, want: http.StatusOK},
	} {
		pair, err := signer.IssuePair(tc.usr.ID, tc.usr.Email)
		require.NoError(t, err)
		assert.Equal(t, tc.want, serve(t, auth.RequireEmailDomain("@citizengo.net"), pair.AccessToken).Code, tc.usr.Email)
	}
}

func TestHasEmailDomain(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		domain string
		want   bool
	}{
		{name: "exact match", email: " ana@citizengo.net ", domain: "@CITIZENGO.NET", want: true},
		{name: "domain without at sign", email: "ana@citizengo.net", domain: "citizengo.net", want: true},
		{name: "lookalike host", email: "mallory@evilcitizengo.net", domain: "citizengo.net", want: false},
		{name: "lookalike host with at sign", email: "mallory@evilcitizengo.net", domain: "@citizengo.net", want: false},
		{name: "trailing host", email: "ana@citizengo.net.evil.com", domain: "@citizengo.net", want: false},
		{name: "subdomain", email: "ana@mail.citizengo.net", domain: "citizengo.net", want: false},
		{name: "no local part", email: "@citizengo.net", domain: "citizengo.net", want: false},
		{name: "not an email", email: "citizengo.net", domain: "citizengo.net", want: false},
		{name: "empty domain", email: "ana@citizengo.net", domain: "", want: false},
		{name: "bare at domain", email: "ana@citizengo.net", domain: "@", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, middleware.HasEmailDomain(tt.email, tt.domain))
		})
	}
}

func TestExtractBearer(t *testing.T) {
	assert.Equal(t, "abc", middleware.ExtractBearer("Bearer abc "))
	assert.Equal(t, "", middleware.ExtractBearer("Basic abc"))
}
