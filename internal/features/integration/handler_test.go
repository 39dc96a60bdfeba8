package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/asana"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/iterable"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/request"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTasks struct {
	configured bool
	fields     []asana.CustomField
	err        error
	created    []asana.TaskInput
}

func (f *fakeTasks) Configured() bool  { return f.configured }
func (f *fakeTasks) ProjectID() string { return "proj-1" }

func (f *fakeTasks) ProjectCustomFields(context.Context) ([]asana.CustomField, error) {
	return f.fields, f.err
}

func (f *fakeTasks) CreateCampaignTask(_ context.Context, input asana.TaskInput) (string, error) {
	f.created = append(f.created, input)
	return "task-9", f.err
}

type fakeEmail struct {
	configured bool
	blast      []int64
	names      []string
}

func (f *fakeEmail) Configured() bool { return f.configured }

func (f *fakeEmail) CreateBlastCampaign(_ context.Context, name string, _ int64, listIDs []int64, _ iterable.BlastOptions) (int64, error) {
	f.names = append(f.names, name)
	f.blast = listIDs
	return 10, nil
}

func (f *fakeEmail) CreateTriggeredCampaign(_ context.Context, name string, _ int64, _ iterable.TriggeredOptions) (int64, error) {
	f.names = append(f.names, name)
	return 20, nil
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func newRouter(tasks *fakeTasks, email *fakeEmail, allow bool) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := gin.New()
	router.Use(request.Handler(logger))

	gate := []gin.HandlerFunc{func(c *gin.Context) {
		if !allow {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
			return
		}
		c.Next()
	}}

	RegisterRoutes(router.Group("/api"), NewHandler(tasks, email, "https://chat.example/space", logger), gate)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestAsanaFields(t *testing.T) {
	tasks := &fakeTasks{configured: true, fields: []asana.CustomField{
		{GID: "11", Name: "Scope"},
		{GID: "12", Name: "Campaign Type"},
	}}
	router := newRouter(tasks, &fakeEmail{}, true)

	status, env := do(t, router, http.MethodGet, "/api/integrations/asana/fields", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "proj-1", env.Data["projectGid"])

	mappings := env.Data["suggestedMappings"].(map[string]interface{})
	assert.Equal(t, "11", mappings["ASANA_FIELD_SCOPE"])
	assert.Nil(t, mappings["ASANA_FIELD_TOPIC"])

	envConfig := env.Data["envConfig"].(string)
	assert.Contains(t, envConfig, `ASANA_ACCESS_TOKEN="your-access-token"`)
	assert.Contains(t, envConfig, `ASANA_FIELD_CAMPAIGN_TYPE="12"`)
}

func TestAsanaFields_Errors(t *testing.T) {
	status, _ := do(t, newRouter(&fakeTasks{}, &fakeEmail{}, true), http.MethodGet, "/api/integrations/asana/fields", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	failing := &fakeTasks{configured: true, err: errors.New("asana down")}
	status, env := do(t, newRouter(failing, &fakeEmail{}, true), http.MethodGet, "/api/integrations/asana/fields", "")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Failed to fetch Asana fields", env.Message)
}

func TestAsanaTest(t *testing.T) {
	tasks := &fakeTasks{configured: true}
	router := newRouter(tasks, &fakeEmail{}, true)

	status, env := do(t, router, http.MethodPost, "/api/integrations/asana/test", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "https://app.asana.com/0/0/task-9", env.Data["taskUrl"])

	require.Len(t, tasks.created, 1)
	name := tasks.created[0].GeneratedName
	assert.True(t, strings.HasPrefix(name, "TEST-"))
	assert.True(t, strings.HasSuffix(name, "-Global-OT-TEST-123456-Test_Campaign-Global"))
}

func TestIterable(t *testing.T) {
	email := &fakeEmail{configured: true}
	router := newRouter(&fakeTasks{}, email, true)

	status, env := do(t, router, http.MethodGet, "/api/integrations/iterable/test", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, env.Data["configured"])

	status, env = do(t, router, http.MethodPost, "/api/integrations/iterable/test", `{"templateId": 5, "campaignName": "Smoke"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(20), env.Data["campaignId"])
	assert.Equal(t, "CNT_Smoke", env.Data["campaignName"])

	status, env = do(t, router, http.MethodPost, "/api/integrations/iterable/test", `{"templateId": 5, "campaignName": "Smoke", "listIds": [1, 2]}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(10), env.Data["campaignId"])
	assert.Equal(t, []int64{1, 2}, email.blast)

	status, _ = do(t, router, http.MethodPost, "/api/integrations/iterable/test", `{"campaignName": "Smoke"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestIterable_NotConfigured(t *testing.T) {
	status, env := do(t, newRouter(&fakeTasks{}, &fakeEmail{}, true), http.MethodGet, "/api/integrations/iterable/test", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
}

func TestRoutesAreGated(t *testing.T) {
	status, _ := do(t, newRouter(&fakeTasks{configured: true}, &fakeEmail{configured: true}, false), http.MethodGet, "/api/integrations/iterable/test", "")
	assert.Equal(t, http.StatusForbidden, status)
}
