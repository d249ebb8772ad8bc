package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSeverityLabel(t *testing.T) {
	for _, sev := range []string{"success", "error", "warning", "info"} {
		assert.Equal(t, sev, SeverityLabel(sev))
	}
	assert.Equal(t, "other", SeverityLabel("critical"))
	assert.Equal(t, "other", SeverityLabel("<script>"))
}

func TestTrackNotification_FoldsUnknownSeverities(t *testing.T) {
	before := testutil.ToFloat64(notifications.WithLabelValues(SeverityOther))

	TrackNotification("sev-1", 1)
	TrackNotification("sev-2", 2)
	TrackNotification("sev-3", 3)

	assert.Equal(t, before+3, testutil.ToFloat64(notifications.WithLabelValues(SeverityOther)))
	assert.Equal(t, float64(3), testutil.ToFloat64(activeNotifications))
	assert.LessOrEqual(t, testutil.CollectAndCount(notifications), 5)
}
