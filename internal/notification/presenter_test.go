package notification_test

import (
	"io"
	"sync"
	"testing"
	"time"

	"campus-portal/internal/clock"
	"campus-portal/internal/logger"
	"campus-portal/internal/models"
	"campus-portal/internal/notification"
	"campus-portal/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []models.NotificationEvent
}

func (r *recordingEmitter) Emit(event models.NotificationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEmitter) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newPresenter(t *testing.T, ttl time.Duration) (*notification.Presenter, *recordingEmitter) {
	sched := scheduler.New()
	t.Cleanup(sched.Stop)
	emitter := &recordingEmitter{}
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	p := notification.NewPresenter(sched, emitter, clock.NewFixed(now), logger.NewWithWriter(io.Discard), ttl)
	return p, emitter
}

func TestShow_MapsSeverity(t *testing.T) {
	p, _ := newPresenter(t, time.Minute)

	n := p.Show("Saved", models.SeveritySuccess)
	assert.Equal(t, "check-circle", n.Icon)
	assert.Equal(t, "#10B981", n.Color)
	assert.Equal(t, "notification notification-success", n.ClassName)
	assert.Equal(t, n.CreatedAt.Add(time.Minute), n.ExpiresAt)

	n = p.Show("Oops", models.SeverityError)
	assert.Equal(t, "exclamation-circle", n.Icon)
	assert.Equal(t, "#EF4444", n.Color)

	n = p.Show("Careful", models.SeverityWarning)
	assert.Equal(t, "exclamation-triangle", n.Icon)
	assert.Equal(t, "#F59E0B", n.Color)
}

func TestShow_UnknownSeverityFallsBackToInfo(t *testing.T) {
	p, _ := newPresenter(t, time.Minute)

	n := p.Show("Hello", "celebration")
	assert.Equal(t, "info-circle", n.Icon)
	assert.Equal(t, "#3B82F6", n.Color)
	assert.Equal(t, "notification notification-celebration", n.ClassName)

	n = p.Show("Hello", "")
	assert.Equal(t, models.SeverityInfo, n.Severity)
}

func TestShow_AutoDismisses(t *testing.T) {
	p, emitter := newPresenter(t, 30*time.Millisecond)

	p.Show("Registered for AI Workshop!", models.SeveritySuccess)
	require.Len(t, p.Active(), 1)

	assert.Eventually(t, func() bool { return len(p.Active()) == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{models.NotificationShown, models.NotificationDismissed}, emitter.types())
}

func TestDismiss_RemovesEarlyAndIsIdempotent(t *testing.T) {
	p, emitter := newPresenter(t, 40*time.Millisecond)

	n := p.Show("Hello", models.SeverityInfo)
	assert.True(t, p.Dismiss(n.ID))
	assert.False(t, p.Dismiss(n.ID))
	assert.Empty(t, p.Active())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{models.NotificationShown, models.NotificationDismissed}, emitter.types())
}

func TestActive_KeepsCreationOrderWithoutDedup(t *testing.T) {
	p, _ := newPresenter(t, time.Minute)

	p.Show("same", models.SeverityInfo)
	p.Show("same", models.SeverityInfo)
	p.Show("other", models.SeverityWarning)

	active := p.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "same", active[0].Message)
	assert.Equal(t, "same", active[1].Message)
	assert.Equal(t, "other", active[2].Message)
	assert.NotEqual(t, active[0].ID, active[1].ID)
}
