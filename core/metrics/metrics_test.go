package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bitbackup/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	m := New()
	end := time.Unix(1700000000, 0)

	m.ObserveRun(reconcile.Summary{Added: 3, Removed: 1, BitRot: 2, Modified: 4, Unchanged: 5, Backfilled: 1}, 1500*time.Millisecond, end)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.FilesChecked.WithLabelValues(OutcomeAdded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesChecked.WithLabelValues(OutcomeRemoved)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.FilesChecked.WithLabelValues(OutcomeModified)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.FilesChecked.WithLabelValues(OutcomeUnchanged)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilesChecked.WithLabelValues(OutcomeBitRot)))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.LastRunTime))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.LastRunDuration))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BitRotFiles))
}

func TestBitRotGaugeReflectsLastRun(t *testing.T) {
	m := New()
	m.ObserveRun(reconcile.Summary{BitRot: 2}, time.Second, time.Now())
	m.ObserveRun(reconcile.Summary{}, time.Second, time.Now())

	assert.Equal(t, 0.0, testutil.ToFloat64(m.BitRotFiles))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilesChecked.WithLabelValues(OutcomeBitRot)))
}

func TestFiberHandlerAndMiddleware(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", m.FiberHandler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `bitbackup_api_requests_total{method="GET",route="/ping",status="200"} 1`)
	assert.Contains(t, string(body), "bitbackup_bitrot_files 0")
}

func TestPush(t *testing.T) {
	var path string
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	m := New()
	m.ObserveRun(reconcile.Summary{Added: 1}, time.Second, time.Now())

	require.NoError(t, m.Push(context.Background(), gateway.URL, "/data/archive"))
	assert.True(t, strings.HasPrefix(path, "/metrics/job/bitbackup/root"), path)
}
