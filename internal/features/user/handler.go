package user

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/pagination"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/response"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
)

// Handler processes user HTTP requests.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// NewHandler constructs a user handler instance.
func NewHandler(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List returns paginated users.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)
	filters := ListFilters{
		Keyword: c.Query("search"),
		Role:    types.UserRole(c.Query("role")),
	}

	users, total, err := h.store.List(c.Request.Context(), filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list users", err)
		return
	}

	response.Success(c, http.StatusOK, users, "", pagination.MetadataFrom(total, params))
}

type createRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// Create adds a locally managed account.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user payload", err)
		return
	}

	usr, err := NewPasswordUser(PasswordInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     types.UserRole(req.Role),
	})
	if err != nil {
		h.respondError(c, err, "failed to create user")
		return
	}

	if err := h.store.Create(c.Request.Context(), &usr); err != nil {
		h.respondError(c, err, "failed to create user")
		return
	}

	response.Created(c, usr, "")
}

// GetByID fetches a single user. Members may only read themselves.
func (h *Handler) GetByID(c *gin.Context) {
	requester, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	if !requester.IsAdmin() && requester.ID != id {
		response.ErrorWithLog(h.logger, c, http.StatusForbidden, "You are not authorized to get this user", nil)
		return
	}

	usr, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to load user")
		return
	}

	response.Success(c, http.StatusOK, usr, "", nil)
}

type updateRequest struct {
	FullName *string `json:"fullName"`
	Role     *string `json:"role"`
	Active   *bool   `json:"isActive"`
}

// Update changes a user's name, role or active flag.
func (h *Handler) Update(c *gin.Context) {
	requester, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user payload", err)
		return
	}

	input := UpdateInput{FullName: req.FullName, Active: req.Active}
	if req.Role != nil {
		role := types.UserRole(*req.Role)
		if requester.ID == id && role != types.UserRoleAdmin {
			h.respondError(c, ErrSelfDemotion, "failed to update user")
			return
		}
		input.Role = &role
	}

	usr, err := h.store.Update(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err, "failed to update user")
		return
	}

	response.Success(c, http.StatusOK, usr, "User updated", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrUserNotFound):
		status = http.StatusNotFound
		message = "User not found"
	case errors.Is(err, ErrEmailTaken):
		status = http.StatusConflict
		message = "Email already exists"
	case errors.Is(err, ErrInvalidPassword):
		status = http.StatusBadRequest
		message = "Password must be at least 8 characters"
	case errors.Is(err, ErrInvalidRole):
		status = http.StatusBadRequest
		message = "Role must be member or admin"
	case errors.Is(err, ErrEmptyName):
		status = http.StatusBadRequest
		message = "Full name cannot be empty"
	case errors.Is(err, ErrSelfDemotion):
		status = http.StatusBadRequest
		message = "You cannot remove your own admin role"
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
