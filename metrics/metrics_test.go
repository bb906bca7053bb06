package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-hr-auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ auth.EventSink = (*Collector)(nil)

func TestRecordAuthEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	ctx := context.Background()

	require.NoError(t, c.Record(ctx, auth.Event{Type: auth.EventLoginSuccess, Username: "admin"}))
	require.NoError(t, c.Record(ctx, auth.Event{Type: auth.EventLoginFailure, Kind: "bad_credential"}))
	require.NoError(t, c.Record(ctx, auth.Event{Type: auth.EventLoginFailure, Kind: "bad_credential"}))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.authEvents.WithLabelValues("auth.login.success", "none")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.authEvents.WithLabelValues("auth.login.failure", "bad_credential")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	app := fiber.New()
	app.Use(c.Middleware())
	app.Get("/employees/:id", func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	for _, id := range []string{"EMP1001", "EMP1002"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/employees/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/employees/:id", "204")))
}

func TestFiberHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRequest("GET", "/health", 200, time.Millisecond)

	app := fiber.New()
	app.Get("/metrics", FiberHandler(reg))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "hr_http_requests_total"))
}
