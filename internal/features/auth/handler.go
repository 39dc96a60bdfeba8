package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/campaign-naming-server-go/internal/features/user"
	"github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/response"
)

// Handler processes authentication HTTP requests.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an auth handler instance.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// GoogleLogin redirects to the Google consent page.
func (h *Handler) GoogleLogin(c *gin.Context) {
	url, err := h.service.GoogleLoginURL(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to start Google sign-in")
		return
	}

	if c.Query("redirect") == "false" {
		response.Success(c, http.StatusOK, gin.H{"url": url}, "", nil)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback completes a Google sign-in and returns the token pair.
func (h *Handler) GoogleCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Google sign-in was cancelled", errors.New(reason))
		return
	}

	authResp, err := h.service.GoogleCallback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		h.respondError(c, err, "Google sign-in failed")
		return
	}

	h.logger.Info("user signed in", slog.String("email", authResp.User.Email), slog.String("provider", "google"))
	response.Success(c, http.StatusOK, authResp, "Login successful", nil)
}

// Login authenticates with email and password.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid login payload", err)
		return
	}

	authResp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, "login failed")
		return
	}

	response.Success(c, http.StatusOK, authResp, "Login successful", nil)
}

// RefreshToken issues a new token pair from a refresh token.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "refresh token is required", err)
		return
	}

	authResp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(c, err, "token refresh failed")
		return
	}

	response.Success(c, http.StatusOK, authResp, "Token refreshed", nil)
}

// Logout revokes the caller's refresh token.
func (h *Handler) Logout(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.service.Logout(c.Request.Context(), usr.ID); err != nil {
		h.respondError(c, err, "logout failed")
		return
	}

	response.Success(c, http.StatusOK, true, "Logout successful", nil)
}

// Me returns the caller's account.
func (h *Handler) Me(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	account, err := h.service.Me(c.Request.Context(), usr.ID)
	if err != nil {
		h.respondError(c, err, "failed to load account")
		return
	}

	response.Success(c, http.StatusOK, account, "", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrMissingFields):
		status = http.StatusBadRequest
		message = "Missing required fields"
	case errors.Is(err, ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid email or password"
	case errors.Is(err, ErrInactiveAccount):
		status = http.StatusForbidden
		message = "Your account is inactive. Please contact an administrator"
	case errors.Is(err, ErrInvalidToken):
		status = http.StatusUnauthorized
		message = "Invalid or expired token"
	case errors.Is(err, ErrInvalidState):
		status = http.StatusBadRequest
		message = "Sign-in session expired. Please try again"
	case errors.Is(err, ErrDomainNotAllowed):
		status = http.StatusForbidden
		message = "Only organization accounts can sign in"
	case errors.Is(err, ErrEmailNotVerified):
		status = http.StatusForbidden
		message = "Google account email is not verified"
	case errors.Is(err, ErrGoogleDisabled):
		status = http.StatusServiceUnavailable
		message = "Google sign-in is not configured"
	case errors.Is(err, user.ErrUserNotFound):
		status = http.StatusNotFound
		message = "User not found"
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
