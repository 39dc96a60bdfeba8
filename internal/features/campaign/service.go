package campaign

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/internal/naming"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/apperrors"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/asana"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/cache"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/iterable"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/metrics"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/validation"
)

const (
	creationLockTTL = 2 * time.Minute
	analyticsTTL    = 60 * time.Second

	// MissingFieldsMessage is reported by Check before a name can be built.
	MissingFieldsMessage = "Missing required fields"
)

// Namer builds campaign names from form input.
type Namer interface {
	Generate(input naming.CampaignNameInput) string
	Preview(input naming.CampaignNameInput) naming.PreviewResult
}

// TaskCreator opens the project-tracking task for a campaign.
type TaskCreator interface {
	CreateCampaignTask(ctx context.Context, input asana.TaskInput) (string, error)
}

// EmailCampaignCreator creates the email platform campaign.
type EmailCampaignCreator interface {
	TemplateID() int64
	CreateBlastCampaign(ctx context.Context, name string, templateID int64, listIDs []int64, opts iterable.BlastOptions) (int64, error)
	CreateTriggeredCampaign(ctx context.Context, name string, templateID int64, opts iterable.TriggeredOptions) (int64, error)
}

// Notifier pushes campaign updates to the owner's live connections.
type Notifier interface {
	NotifyCampaign(userID string, payload any)
}

// CheckResult is the verdict returned by Check.
type CheckResult struct {
	IsValid       bool     `json:"isValid"`
	GeneratedName string   `json:"generatedName"`
	Errors        []string `json:"errors"`
}

// Summary is the campaign view returned after creation and pushed to sockets.
type Summary struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	DisplayName        string    `json:"displayName"`
	Status             string    `json:"status"`
	AsanaTaskID        *string   `json:"asanaTaskId"`
	IterableCampaignID *string   `json:"iterableCampaignId"`
	ErrorMessage       *string   `json:"errorMessage,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// SummaryOf projects a campaign into its summary view.
func SummaryOf(c Campaign) Summary {
	return Summary{
		ID:                 c.ID,
		Name:               c.Name,
		DisplayName:        c.DisplayName,
		Status:             string(c.Status),
		AsanaTaskID:        c.AsanaTaskID,
		IterableCampaignID: c.IterableCampaignID,
		ErrorMessage:       c.ErrorMessage,
		CreatedAt:          c.CreatedAt,
	}
}

// Dependencies wires a Service.
type Dependencies struct {
	Store    Store
	Namer    Namer
	Tasks    TaskCreator
	Email    EmailCampaignCreator
	Cache    cache.Client
	Notifier Notifier
	Logger   *slog.Logger
}

// Service runs the campaign workflows.
type Service struct {
	store    Store
	namer    Namer
	tasks    TaskCreator
	email    EmailCampaignCreator
	cache    cache.Client
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds a Service. Notifier may be nil.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    deps.Store,
		namer:    deps.Namer,
		tasks:    deps.Tasks,
		email:    deps.Email,
		cache:    deps.Cache,
		notifier: deps.Notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Store returns the persistence the service works on.
func (s *Service) Store() Store {
	return s.store
}

// Namer returns the name builder.
func (s *Service) Namer() Namer {
	return s.namer
}

// Check builds the name for a form and reports whether it is valid and free.
func (s *Service) Check(ctx context.Context, usr *middleware.User, form validation.CampaignForm) (CheckResult, error) {
	if form.ListAcronym == "" || form.Scope == "" || form.Topic == "" || form.CampaignTitle == "" {
		return CheckResult{IsValid: false, GeneratedName: "", Errors: []string{MissingFieldsMessage}}, nil
	}

	name := s.namer.Generate(form.NameInput(naming.ExtractInitials(usr.FullName)))

	verdict := naming.Validate(name)
	if !verdict.IsValid {
		return CheckResult{IsValid: false, GeneratedName: name, Errors: verdict.Errors}, nil
	}

	exists, err := s.store.ExistsByName(ctx, name)
	if err != nil {
		return CheckResult{}, err
	}
	if exists {
		return CheckResult{IsValid: false, GeneratedName: name, Errors: []string{NameTakenMessage}}, nil
	}

	return CheckResult{IsValid: true, GeneratedName: name, Errors: []string{}}, nil
}

// Create validates the form, stores the campaign and runs the integrations.
// Integration failures are recorded on the campaign instead of failing the call.
func (s *Service) Create(ctx context.Context, usr *middleware.User, form validation.CampaignForm) (Campaign, error) {
	if fields := validation.ValidateCampaignForm(form); len(fields) > 0 {
		return Campaign{}, apperrors.Validation("Validation failed", fields)
	}

	name := s.namer.Generate(form.NameInput(naming.ExtractInitials(usr.FullName)))
	if verdict := naming.Validate(name); !verdict.IsValid {
		return Campaign{}, apperrors.Validation("Generated campaign name is invalid", map[string]string{
			"generatedName": strings.Join(verdict.Errors, "; "),
		})
	}

	lock, err := cache.AcquireLock(ctx, s.cache, lockKey(name), creationLockTTL)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			return Campaign{}, apperrors.Conflict(NameTakenMessage, ErrCreationInProgress)
		}
		return Campaign{}, apperrors.New("Failed to create campaign", http.StatusInternalServerError, apperrors.ErrInternal, err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("failed to release campaign lock", slog.String("name", name), slog.String("error", err.Error()))
		}
	}()

	exists, err := s.store.ExistsByName(ctx, name)
	if err != nil {
		return Campaign{}, err
	}
	if exists {
		return Campaign{}, apperrors.Conflict(NameTakenMessage, ErrNameTaken)
	}

	record := newCampaign(name, form, usr.ID)
	if err := s.store.Create(ctx, record); err != nil {
		if errors.Is(err, ErrNameTaken) {
			return Campaign{}, apperrors.Conflict(NameTakenMessage, err)
		}
		return Campaign{}, err
	}

	outcome := s.runIntegrations(ctx, record, form)

	saved, err := s.store.SaveOutcome(context.WithoutCancel(ctx), record.ID, outcome)
	if err != nil {
		return Campaign{}, err
	}

	metrics.RecordCampaignCreated(string(saved.Status))
	s.invalidateAnalytics(ctx, usr.ID)
	if s.notifier != nil {
		s.notifier.NotifyCampaign(usr.ID.String(), SummaryOf(saved))
	}

	s.logger.Info("campaign created",
		slog.String("campaignId", saved.ID.String()),
		slog.String("name", saved.Name),
		slog.String("status", string(saved.Status)),
	)

	return saved, nil
}

func newCampaign(name string, form validation.CampaignForm, owner uuid.UUID) *Campaign {
	c := &Campaign{
		Name:            name,
		DisplayName:     form.CampaignTitle,
		ListAcronym:     form.ListAcronym,
		Scope:           form.Scope,
		Topic:           form.Topic,
		CampaignTitle:   form.CampaignTitle,
		GlobalCampaign:  form.GlobalCampaign,
		CampaignType:    form.CampaignType,
		CreatedBy:       owner,
		IterableListIDs: form.IterableListIDs,
	}
	if form.PetitionID != "" {
		petition := form.PetitionID
		c.PetitionID = &petition
	}
	c.Status = types.CampaignStatusPending
	return c
}

// runIntegrations creates the Asana task and then the Iterable campaign. The
// first failure stops the chain.
func (s *Service) runIntegrations(ctx context.Context, c *Campaign, form validation.CampaignForm) Outcome {
	outcome := Outcome{Status: types.CampaignStatusCompleted}

	taskID, err := s.tasks.CreateCampaignTask(ctx, asana.TaskInput{
		ListAcronym:    form.ListAcronym,
		Scope:          form.Scope,
		Topic:          form.Topic,
		CampaignType:   form.CampaignType,
		PetitionID:     form.PetitionID,
		CampaignTitle:  form.CampaignTitle,
		GeneratedName:  c.Name,
		GlobalCampaign: form.GlobalCampaign,
	})
	if err != nil {
		return s.failed(outcome, c, err)
	}
	outcome.AsanaTaskID = &taskID

	dataFields := map[string]any{
		"listAcronym":    form.ListAcronym,
		"scope":          form.Scope,
		"topic":          form.Topic,
		"campaignType":   form.CampaignType,
		"petitionId":     form.PetitionID,
		"campaignTitle":  form.CampaignTitle,
		"globalCampaign": form.GlobalCampaign,
	}

	var campaignID int64
	if len(form.IterableListIDs) > 0 {
		campaignID, err = s.email.CreateBlastCampaign(ctx, c.Name, s.email.TemplateID(), form.IterableListIDs,
			iterable.BlastOptions{DataFields: dataFields})
	} else {
		campaignID, err = s.email.CreateTriggeredCampaign(ctx, c.Name, s.email.TemplateID(),
			iterable.TriggeredOptions{DataFields: dataFields})
	}
	if err != nil {
		return s.failed(outcome, c, err)
	}
	iterableID := strconv.FormatInt(campaignID, 10)
	outcome.IterableCampaignID = &iterableID

	return outcome
}

func (s *Service) failed(outcome Outcome, c *Campaign, err error) Outcome {
	s.logger.Error("campaign integration failed",
		slog.String("campaignId", c.ID.String()),
		slog.String("name", c.Name),
		slog.String("error", err.Error()),
	)
	msg := err.Error()
	outcome.Status = types.CampaignStatusFailed
	outcome.ErrorMessage = &msg
	return outcome
}

// Analytics returns the owner's dashboard figures, cached briefly per user.
func (s *Service) Analytics(ctx context.Context, owner uuid.UUID) (Analytics, error) {
	key := analyticsKey(owner)

	var cached Analytics
	if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("analytics cache read failed", slog.String("error", err.Error()))
	}

	rows, err := s.store.ListForAnalytics(ctx, owner)
	if err != nil {
		return Analytics{}, err
	}

	result := BuildAnalytics(rows, s.now())
	if err := cache.SetJSON(ctx, s.cache, key, result, analyticsTTL); err != nil {
		s.logger.Warn("analytics cache write failed", slog.String("error", err.Error()))
	}
	return result, nil
}

func (s *Service) invalidateAnalytics(ctx context.Context, owner uuid.UUID) {
	if err := s.cache.Delete(context.WithoutCancel(ctx), analyticsKey(owner)); err != nil {
		s.logger.Warn("analytics cache invalidation failed", slog.String("error", err.Error()))
	}
}

func lockKey(name string) string {
	return "campaign:create:" + name
}

func analyticsKey(owner uuid.UUID) string {
	return "campaign:analytics:" + owner.String()
}
