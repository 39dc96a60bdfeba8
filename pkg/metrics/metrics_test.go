package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/campaigns/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := httpRequests.WithLabelValues(http.MethodGet, "/api/campaigns/:id", "200")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns/42", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordIntegration(t *testing.T) {
	ok := integrationCalls.WithLabelValues("asana", "success")
	failed := integrationCalls.WithLabelValues("asana", "failure")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordIntegration("asana", nil)
	RecordIntegration("asana", errors.New("timeout"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestRecordStaleCampaigns_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(staleCampaigns)
	RecordStaleCampaigns(0)
	RecordStaleCampaigns(3)
	assert.Equal(t, before+3, testutil.ToFloat64(staleCampaigns))
}
