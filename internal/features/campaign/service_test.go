package campaign

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/internal/naming"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/apperrors"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/asana"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/cache"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/iterable"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/pagination"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/validation"
)

const expectedName = "EN_US-2025-03-07-Global-Life-JD-4521-Stop_the_Bill-Defund_UN"

var fixedNow = time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

type memStore struct {
	mu             sync.Mutex
	campaigns      map[uuid.UUID]*Campaign
	analyticsCalls int
}

func newMemStore() *memStore {
	return &memStore{campaigns: make(map[uuid.UUID]*Campaign)}
}

func (s *memStore) List(_ context.Context, filters ListFilters, params pagination.Params) ([]Campaign, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Campaign
	for _, c := range s.campaigns {
		if c.CreatedBy != filters.Owner {
			continue
		}
		if filters.Status != "" && filters.Status != StatusAll && string(c.Status) != filters.Status {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := int64(len(out))
	if params.Skip >= len(out) {
		return []Campaign{}, total, nil
	}
	end := params.Skip + params.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[params.Skip:end], total, nil
}

func (s *memStore) Get(_ context.Context, id, owner uuid.UUID) (Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok || c.CreatedBy != owner {
		return Campaign{}, ErrCampaignNotFound
	}
	return *c, nil
}

func (s *memStore) ExistsByName(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.campaigns {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Create(_ context.Context, c *Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.campaigns {
		if existing.Name == c.Name {
			return ErrNameTaken
		}
	}
	c.ID = uuid.New()
	c.CreatedAt = fixedNow
	c.UpdatedAt = fixedNow
	stored := *c
	s.campaigns[c.ID] = &stored
	return nil
}

func (s *memStore) SaveOutcome(_ context.Context, id uuid.UUID, outcome Outcome) (Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.campaigns[id]
	if !ok {
		return Campaign{}, ErrCampaignNotFound
	}
	c.Status = outcome.Status
	c.AsanaTaskID = outcome.AsanaTaskID
	c.IterableCampaignID = outcome.IterableCampaignID
	c.ErrorMessage = outcome.ErrorMessage
	return *c, nil
}

func (s *memStore) ListForAnalytics(_ context.Context, owner uuid.UUID) ([]AnalyticsRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analyticsCalls++
	var rows []AnalyticsRow
	for _, c := range s.campaigns {
		if c.CreatedBy != owner {
			continue
		}
		rows = append(rows, AnalyticsRow{
			Status:       string(c.Status),
			ListAcronym:  c.ListAcronym,
			Scope:        c.Scope,
			Topic:        c.Topic,
			CampaignType: c.CampaignType,
			CreatedAt:    c.CreatedAt,
		})
	}
	return rows, nil
}

type fakeTasks struct {
	calls []asana.TaskInput
	err   error
}

func (f *fakeTasks) CreateCampaignTask(_ context.Context, input asana.TaskInput) (string, error) {
	f.calls = append(f.calls, input)
	if f.err != nil {
		return "", f.err
	}
	return "task-1", nil
}

type fakeEmail struct {
	triggered []string
	blasts    [][]int64
	fields    map[string]any
	err       error
}

func (f *fakeEmail) TemplateID() int64 { return 319721 }

func (f *fakeEmail) CreateBlastCampaign(_ context.Context, name string, _ int64, listIDs []int64, opts iterable.BlastOptions) (int64, error) {
	f.blasts = append(f.blasts, listIDs)
	f.fields = opts.DataFields
	if f.err != nil {
		return 0, f.err
	}
	return 555, nil
}

func (f *fakeEmail) CreateTriggeredCampaign(_ context.Context, name string, _ int64, opts iterable.TriggeredOptions) (int64, error) {
	f.triggered = append(f.triggered, name)
	f.fields = opts.DataFields
	if f.err != nil {
		return 0, f.err
	}
	return 9876, nil
}

type fakeNotifier struct {
	users    []string
	payloads []any
}

func (f *fakeNotifier) NotifyCampaign(userID string, payload any) {
	f.users = append(f.users, userID)
	f.payloads = append(f.payloads, payload)
}

type fixture struct {
	service  *Service
	store    *memStore
	tasks    *fakeTasks
	email    *fakeEmail
	cache    cache.Client
	notifier *fakeNotifier
	user     *middleware.User
}

func newFixture() *fixture {
	f := &fixture{
		store:    newMemStore(),
		tasks:    &fakeTasks{},
		email:    &fakeEmail{},
		cache:    cache.NewMemoryCache(),
		notifier: &fakeNotifier{},
		user:     &middleware.User{ID: uuid.New(), FullName: "Jane Doe", Email: "jane@citizengo.net", Role: types.UserRoleMember, Active: true},
	}
	f.service = NewService(Dependencies{
		Store:    f.store,
		Namer:    naming.NewGenerator(naming.WithClock(func() time.Time { return fixedNow }), naming.WithLocation(time.UTC)),
		Tasks:    f.tasks,
		Email:    f.email,
		Cache:    f.cache,
		Notifier: f.notifier,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func validForm() validation.CampaignForm {
	return validation.CampaignForm{
		ListAcronym:    "EN_US",
		Scope:          "Global",
		Topic:          "Life",
		PetitionID:     "4521",
		CampaignTitle:  "Stop the Bill",
		GlobalCampaign: "Defund_UN",
		CampaignType:   "Other",
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture()

	created, err := f.service.Create(context.Background(), f.user, validForm())
	require.NoError(t, err)

	assert.Equal(t, expectedName, created.Name)
	assert.Equal(t, "Stop the Bill", created.DisplayName)
	assert.Equal(t, types.CampaignStatusCompleted, created.Status)
	require.NotNil(t, created.AsanaTaskID)
	assert.Equal(t, "task-1", *created.AsanaTaskID)
	require.NotNil(t, created.IterableCampaignID)
	assert.Equal(t, "9876", *created.IterableCampaignID)
	assert.Nil(t, created.ErrorMessage)

	require.Len(t, f.tasks.calls, 1)
	assert.Equal(t, expectedName, f.tasks.calls[0].GeneratedName)
	assert.Equal(t, []string{expectedName}, f.email.triggered)
	assert.Empty(t, f.email.blasts)
	assert.Equal(t, "EN_US", f.email.fields["listAcronym"])

	assert.Equal(t, []string{f.user.ID.String()}, f.notifier.users)

	_, err = f.cache.Get(context.Background(), lockKey(expectedName))
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestService_Create_BlastWhenListsGiven(t *testing.T) {
	f := newFixture()
	form := validForm()
	form.IterableListIDs = []int64{11, 12}

	created, err := f.service.Create(context.Background(), f.user, form)
	require.NoError(t, err)

	assert.Equal(t, [][]int64{{11, 12}}, f.email.blasts)
	assert.Empty(t, f.email.triggered)
	assert.Equal(t, "555", *created.IterableCampaignID)
	assert.Equal(t, []int64{11, 12}, []int64(created.IterableListIDs))
}

func TestService_Create_AsanaFailureStopsChain(t *testing.T) {
	f := newFixture()
	f.tasks.err = errors.New("failed to create Asana task: boom")

	created, err := f.service.Create(context.Background(), f.user, validForm())
	require.NoError(t, err)

	assert.Equal(t, types.CampaignStatusFailed, created.Status)
	require.NotNil(t, created.ErrorMessage)
	assert.Equal(t, "failed to create Asana task: boom", *created.ErrorMessage)
	assert.Nil(t, created.AsanaTaskID)
	assert.Empty(t, f.email.triggered)
}

func TestService_Create_IterableFailureKeepsTask(t *testing.T) {
	f := newFixture()
	f.email.err = iterable.ErrNotConfigured

	created, err := f.service.Create(context.Background(), f.user, validForm())
	require.NoError(t, err)

	assert.Equal(t, types.CampaignStatusFailed, created.Status)
	assert.Equal(t, "task-1", *created.AsanaTaskID)
	assert.Nil(t, created.IterableCampaignID)
	assert.Contains(t, *created.ErrorMessage, "not configured")
}

func TestService_Create_InvalidForm(t *testing.T) {
	f := newFixture()
	form := validForm()
	form.CampaignTitle = "Trailing "

	_, err := f.service.Create(context.Background(), f.user, form)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
	assert.Equal(t, "Campaign title cannot end with a space", appErr.Fields()["campaignTitle"])
	assert.Empty(t, f.store.campaigns)
}

func TestService_Create_DuplicateName(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), f.user, validForm())
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), f.user, validForm())

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode())
	assert.Equal(t, NameTakenMessage, appErr.Message())
	assert.ErrorIs(t, err, ErrNameTaken)
	assert.Len(t, f.store.campaigns, 1)
}

func TestService_Create_LockHeld(t *testing.T) {
	f := newFixture()
	ok, err := f.cache.SetNX(context.Background(), lockKey(expectedName), "other", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.service.Create(context.Background(), f.user, validForm())

	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.ErrorIs(t, err, ErrCreationInProgress)
	assert.Empty(t, f.store.campaigns)
}

func TestService_Check(t *testing.T) {
	f := newFixture()

	missing := validForm()
	missing.Topic = ""
	result, err := f.service.Check(context.Background(), f.user, missing)
	require.NoError(t, err)
	assert.Equal(t, CheckResult{IsValid: false, GeneratedName: "", Errors: []string{MissingFieldsMessage}}, result)

	result, err = f.service.Check(context.Background(), f.user, validForm())
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, expectedName, result.GeneratedName)
	assert.Empty(t, result.Errors)

	_, err = f.service.Create(context.Background(), f.user, validForm())
	require.NoError(t, err)

	result, err = f.service.Check(context.Background(), f.user, validForm())
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{NameTakenMessage}, result.Errors)
}

func TestService_Analytics_CachedAndInvalidated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.service.Analytics(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.TotalCampaigns)

	_, err = f.service.Analytics(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.analyticsCalls)

	_, err = f.service.Create(ctx, f.user, validForm())
	require.NoError(t, err)

	after, err := f.service.Analytics(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.analyticsCalls)
	assert.Equal(t, 1, after.TotalCampaigns)
	assert.Equal(t, "completed", after.StatusDistribution[0].Name)
}
