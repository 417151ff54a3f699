package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"veena-assistant-be/pkg/ai/backend"
	"veena-assistant-be/pkg/ai/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector("veena")

	c.TurnCompleted(pipeline.PathRebuttal, "hi", 120*time.Millisecond)
	c.TurnCompleted(pipeline.PathRebuttal, "hi", 80*time.Millisecond)
	c.BackendFailed("translate", backend.KindTimeout)
	c.BreakerChanged("speech", "closed", "open")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Turns.WithLabelValues("rebuttal", "hi")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BackendFailures.WithLabelValues("translate", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BreakerState.WithLabelValues("speech")))

	c.BreakerChanged("speech", "open", "half-open")
	assert.Equal(t, 0.0, testutil.ToFloat64(c.BreakerState.WithLabelValues("speech")))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("veena")
	b := NewCollector("veena")

	a.RequestCompleted("GET", "/api/health", 200, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.HTTPRequests.WithLabelValues("GET", "/api/health", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.HTTPRequests.WithLabelValues("GET", "/api/health", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("veena")
	c.TurnCompleted(pipeline.PathGenerative, "en", time.Second)

	app := fiber.New()
	app.Get("/metrics", c.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `veena_turns_total{lang="en",path="generative"} 1`)
}
