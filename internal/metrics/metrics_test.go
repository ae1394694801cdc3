package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookEvents(t *testing.T) {
	c := WebhookEvents.WithLabelValues("pull_request", ResultReviewed)
	before := testutil.ToFloat64(c)

	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
	assert.Equal(t, float64(0), testutil.ToFloat64(WebhookEvents.WithLabelValues("push", ResultUnauthorized)))
}

func TestCollectorsRegistered(t *testing.T) {
	ReviewOutcomes.WithLabelValues("approved").Inc()
	ReviewDuration.Observe(1.5)
	PersistenceFailures.Inc()

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer,
		"codeinspector_review_outcomes_total",
		"codeinspector_review_duration_seconds",
		"codeinspector_persistence_failures_total",
	)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 3)
}
