package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsCountsPerPathMethodStatus(t *testing.T) {
	metrics := NewMetrics()

	metrics.RecordRequest("/tasks", fiber.MethodGet, http.StatusOK, time.Millisecond)
	metrics.RecordRequest("/tasks", fiber.MethodGet, http.StatusOK, time.Millisecond)
	metrics.RecordRequest("/tasks", fiber.MethodPost, http.StatusCreated, time.Millisecond)

	assert.Equal(t, int64(2), metrics.RequestCount("/tasks", fiber.MethodGet, http.StatusOK))
	assert.Equal(t, int64(1), metrics.RequestCount("/tasks", fiber.MethodPost, http.StatusCreated))
	assert.Equal(t, int64(0), metrics.RequestCount("/tasks", fiber.MethodGet, http.StatusNotFound))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *Metrics

	metrics.RecordRequest("/tasks", fiber.MethodGet, http.StatusOK, 0)
	metrics.RecordError("/tasks", fiber.MethodGet, "NOT_FOUND")
	assert.Equal(t, int64(0), metrics.RequestCount("/tasks", fiber.MethodGet, http.StatusOK))
}

func TestRequestLoggerFeedsRequestCounters(t *testing.T) {
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int64(1), metrics.RequestCount("/ping", fiber.MethodGet, http.StatusOK))
}
