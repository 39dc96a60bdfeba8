package campaign

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/internal/naming"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/apperrors"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/metrics"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/pagination"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/request"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/response"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/validation"
)

const optionsMaxAge = 3600

// Handler processes campaign HTTP requests.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a campaign handler instance.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// List returns the requester's campaigns.
func (h *Handler) List(c *gin.Context) {
	usr, ok := h.requireUser(c)
	if !ok {
		return
	}

	params := pagination.Extract(c)
	filters := ListFilters{
		Owner:  usr.ID,
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	campaigns, total, err := h.service.Store().List(c.Request.Context(), filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list campaigns", err)
		return
	}

	response.Success(c, http.StatusOK, campaigns, "", pagination.MetadataFrom(total, params))
}

// GetByID returns one of the requester's campaigns.
func (h *Handler) GetByID(c *gin.Context) {
	usr, ok := h.requireUser(c)
	if !ok {
		return
	}

	id, appErr := request.ParseUUIDParam(c, "campaignId")
	if appErr != nil {
		_ = c.Error(appErr)
		return
	}

	campaign, err := h.service.Store().Get(c.Request.Context(), id, usr.ID)
	if err != nil {
		h.respondError(c, err, "failed to load campaign")
		return
	}

	response.Success(c, http.StatusOK, campaign, "", nil)
}

// Create generates a name, stores the campaign and runs the integrations.
func (h *Handler) Create(c *gin.Context) {
	usr, ok := h.requireUser(c)
	if !ok {
		return
	}

	var form validation.CampaignForm
	if appErr := request.BindJSON(c, &form); appErr != nil {
		_ = c.Error(appErr)
		return
	}

	campaign, err := h.service.Create(c.Request.Context(), usr, form)
	if err != nil {
		h.respondError(c, err, "failed to create campaign")
		return
	}

	response.Created(c, gin.H{"campaign": SummaryOf(campaign)}, "Campaign created")
}

// Validate builds the name for a form and reports whether it can be used.
func (h *Handler) Validate(c *gin.Context) {
	usr, ok := h.requireUser(c)
	if !ok {
		return
	}

	var form validation.CampaignForm
	if appErr := request.BindJSON(c, &form); appErr != nil {
		_ = c.Error(appErr)
		return
	}

	result, err := h.service.Check(c.Request.Context(), usr, form)
	if err != nil {
		h.logger.Error("campaign name check failed", slog.String("error", err.Error()))
		result = CheckResult{IsValid: false, Errors: []string{"Error validating campaign name"}}
	}

	response.Success(c, http.StatusOK, result, "", nil)
}

// Preview renders the name for a partially filled form.
func (h *Handler) Preview(c *gin.Context) {
	usr, ok := h.requireUser(c)
	if !ok {
		return
	}

	var form validation.CampaignForm
	if appErr := request.BindJSON(c, &form); appErr != nil {
		_ = c.Error(appErr)
		return
	}

	metrics.RecordPreview("http")
	result := h.service.Namer().Preview(form.NameInput(naming.ExtractInitials(usr.FullName)))
	response.Success(c, http.StatusOK, result, "", nil)
}

// Options returns the catalogs the campaign form offers.
func (h *Handler) Options(c *gin.Context) {
	response.CacheFor(c, optionsMaxAge)
	response.Success(c, http.StatusOK, gin.H{
		"lists":           naming.Lists,
		"scopes":          naming.Scopes,
		"topics":          naming.Topics,
		"globalCampaigns": naming.GlobalCampaigns,
		"campaignTypes":   naming.CampaignTypes,
	}, "", nil)
}

// Analytics returns the requester's dashboard figures.
func (h *Handler) Analytics(c *gin.Context) {
	usr, ok := h.requireUser(c)
	if !ok {
		return
	}

	result, err := h.service.Analytics(c.Request.Context(), usr.ID)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load analytics", err)
		return
	}

	response.Success(c, http.StatusOK, result, "", nil)
}

func (h *Handler) requireUser(c *gin.Context) (*middleware.User, bool) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", apperrors.ErrUnauthorized)
		return nil, false
	}
	return usr, true
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		_ = c.Error(appErr)
	case errors.Is(err, ErrCampaignNotFound):
		response.Error(c, http.StatusNotFound, "Campaign not found", apperrors.ErrNotFound)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}
