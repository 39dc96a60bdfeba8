package integration

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/campaign-naming-server-go/internal/naming"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/asana"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/iterable"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/request"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/response"
)

// TaskClient is the project-tracking client under test.
type TaskClient interface {
	Configured() bool
	ProjectID() string
	ProjectCustomFields(ctx context.Context) ([]asana.CustomField, error)
	CreateCampaignTask(ctx context.Context, input asana.TaskInput) (string, error)
}

// EmailClient is the email platform client under test.
type EmailClient interface {
	Configured() bool
	CreateBlastCampaign(ctx context.Context, name string, templateID int64, listIDs []int64, opts iterable.BlastOptions) (int64, error)
	CreateTriggeredCampaign(ctx context.Context, name string, templateID int64, opts iterable.TriggeredOptions) (int64, error)
}

// Handler serves the integration diagnostics.
type Handler struct {
	tasks   TaskClient
	email   EmailClient
	chatURL string
	logger  *slog.Logger
}

// NewHandler constructs an integration handler instance.
func NewHandler(tasks TaskClient, email EmailClient, chatURL string, logger *slog.Logger) *Handler {
	return &Handler{tasks: tasks, email: email, chatURL: chatURL, logger: logger}
}

type fieldsResponse struct {
	ProjectGID        string              `json:"projectGid"`
	Fields            []asana.CustomField `json:"fields"`
	SuggestedMappings map[string]*string  `json:"suggestedMappings"`
	EnvConfig         string              `json:"envConfig"`
}

// AsanaFields lists the project's custom fields with suggested env mappings.
func (h *Handler) AsanaFields(c *gin.Context) {
	if !h.tasks.Configured() {
		response.ErrorWithLog(h.logger, c, http.StatusServiceUnavailable, "Asana configuration missing", asana.ErrNotConfigured)
		return
	}

	fields, err := h.tasks.ProjectCustomFields(c.Request.Context())
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadGateway, "Failed to fetch Asana fields", err)
		return
	}

	mappings := asana.SuggestFieldMappings(fields)
	response.Success(c, http.StatusOK, fieldsResponse{
		ProjectGID:        h.tasks.ProjectID(),
		Fields:            fields,
		SuggestedMappings: mappings,
		EnvConfig:         asana.EnvConfig("", h.tasks.ProjectID(), h.chatURL, mappings),
	}, "", nil)
}

// AsanaTest creates a sample task.
func (h *Handler) AsanaTest(c *gin.Context) {
	if !h.tasks.Configured() {
		response.ErrorWithLog(h.logger, c, http.StatusServiceUnavailable,
			"Asana integration not configured. Set ASANA_ACCESS_TOKEN and ASANA_PROJECT_ID", asana.ErrNotConfigured)
		return
	}

	input := naming.CampaignNameInput{
		ListAcronym:        "TEST",
		Scope:              naming.ScopeGlobal,
		Topic:              naming.TopicOthers,
		CampaignerInitials: "TEST",
		PetitionID:         "123456",
		CampaignTitle:      "Test Campaign",
		GlobalCampaign:     naming.GlobalCampaignNone,
		CampaignType:       naming.CampaignTypeOther,
	}

	taskID, err := h.tasks.CreateCampaignTask(c.Request.Context(), asana.TaskInput{
		ListAcronym:    input.ListAcronym,
		Scope:          string(input.Scope),
		Topic:          string(input.Topic),
		CampaignType:   string(input.CampaignType),
		PetitionID:     input.PetitionID,
		CampaignTitle:  input.CampaignTitle,
		GeneratedName:  naming.Generate(input),
		GlobalCampaign: input.GlobalCampaign,
	})
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadGateway, "Failed to create Asana test task", err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"taskId":  taskID,
		"taskUrl": "https://app.asana.com/0/0/" + taskID,
	}, "Test task created successfully", nil)
}

// IterableStatus reports whether the email platform is configured.
func (h *Handler) IterableStatus(c *gin.Context) {
	if !h.email.Configured() {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest,
			"Iterable integration not configured. Please set ITERABLE_API_KEY environment variable.", iterable.ErrNotConfigured)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"configured": true}, "Iterable integration is properly configured", nil)
}

type iterableTestRequest struct {
	TemplateID   int64   `json:"templateId"`
	CampaignName string  `json:"campaignName"`
	ListIDs      []int64 `json:"listIds"`
	// Prefix marks the test campaign name, CNT when empty.
	Prefix string `json:"prefix"`
}

// IterableTest creates a sample campaign, a blast one when list ids are given.
func (h *Handler) IterableTest(c *gin.Context) {
	var req iterableTestRequest
	if appErr := request.BindJSON(c, &req); appErr != nil {
		_ = c.Error(appErr)
		return
	}

	if req.TemplateID == 0 || req.CampaignName == "" {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "templateId and campaignName are required", ErrMissingTestFields)
		return
	}

	name := iterable.FormatCampaignName(req.CampaignName, req.Prefix)
	ctx := c.Request.Context()

	var (
		campaignID int64
		err        error
	)
	if len(req.ListIDs) > 0 {
		campaignID, err = h.email.CreateBlastCampaign(ctx, name, req.TemplateID, req.ListIDs, iterable.BlastOptions{})
	} else {
		campaignID, err = h.email.CreateTriggeredCampaign(ctx, name, req.TemplateID, iterable.TriggeredOptions{})
	}
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadGateway, "Failed to create test campaign", err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"campaignId":   campaignID,
		"campaignName": name,
	}, "Campaign created successfully", nil)
}
