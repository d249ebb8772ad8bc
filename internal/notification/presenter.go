// Package notification shows transient toast messages that dismiss themselves.
package notification

import (
	"fmt"
	"sync"
	"time"

	"campus-portal/internal/clock"
	"campus-portal/internal/logger"
	"campus-portal/internal/metrics"
	"campus-portal/internal/models"
	"campus-portal/internal/scheduler"

	"github.com/google/uuid"
)

const DefaultTTL = 5 * time.Second

var icons = map[string]string{
	models.SeveritySuccess: "check-circle",
	models.SeverityError:   "exclamation-circle",
	models.SeverityWarning: "exclamation-triangle",
	models.SeverityInfo:    "info-circle",
}

var colors = map[string]string{
	models.SeveritySuccess: "#10B981",
	models.SeverityError:   "#EF4444",
	models.SeverityWarning: "#F59E0B",
	models.SeverityInfo:    "#3B82F6",
}

// Icon maps a severity to its icon name, falling back to the info icon.
func Icon(severity string) string {
	if icon, ok := icons[severity]; ok {
		return icon
	}
	return icons[models.SeverityInfo]
}

// Color maps a severity to its background color, falling back to the info color.
func Color(severity string) string {
	if c, ok := colors[severity]; ok {
		return c
	}
	return colors[models.SeverityInfo]
}

type Emitter interface {
	Emit(event models.NotificationEvent)
}

type Presenter struct {
	Scheduler *scheduler.Scheduler
	Emitter   Emitter
	Clock     clock.Clock
	Logger    *logger.Logger
	TTL       time.Duration

	mu     sync.Mutex
	active []models.Notification
}

func NewPresenter(sched *scheduler.Scheduler, emitter Emitter, clk clock.Clock, log *logger.Logger, ttl time.Duration) *Presenter {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Presenter{
		Scheduler: sched,
		Emitter:   emitter,
		Clock:     clk,
		Logger:    log,
		TTL:       ttl,
	}
}

// Show displays a notification and schedules its dismissal. Nothing is queued or deduplicated.
func (p *Presenter) Show(message, severity string) models.Notification {
	if severity == "" {
		severity = models.SeverityInfo
	}
	now := p.Clock.Now()
	n := models.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Severity:  severity,
		ClassName: "notification notification-" + severity,
		Icon:      Icon(severity),
		Color:     Color(severity),
		CreatedAt: now,
		ExpiresAt: now.Add(p.TTL),
	}

	p.mu.Lock()
	p.active = append(p.active, n)
	active := len(p.active)
	p.mu.Unlock()

	p.Scheduler.Schedule(taskKey(n.ID), p.TTL, func() {
		if p.remove(n.ID) {
			p.Logger.LogNotification("expire", n.ID, "auto-dismissed")
		}
	})

	metrics.TrackNotification(severity, active)
	p.emit(models.NotificationShown, n)
	p.Logger.LogNotification("show", n.ID, fmt.Sprintf("%s: %s", severity, message))
	return n
}

// Dismiss removes a notification before it expires. Unknown IDs are ignored.
func (p *Presenter) Dismiss(id string) bool {
	p.Scheduler.Cancel(taskKey(id))
	if !p.remove(id) {
		return false
	}
	p.Logger.LogNotification("dismiss", id, "closed")
	return true
}

// Active lists the notifications on screen in creation order.
func (p *Presenter) Active() []models.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Notification, len(p.active))
	copy(out, p.active)
	return out
}

func (p *Presenter) remove(id string) bool {
	p.mu.Lock()
	var removed *models.Notification
	for i, n := range p.active {
		if n.ID == id {
			removed = &n
			p.active = append(p.active[:i], p.active[i+1:]...)
			break
		}
	}
	active := len(p.active)
	p.mu.Unlock()

	if removed == nil {
		return false
	}
	metrics.SetActiveNotifications(active)
	p.emit(models.NotificationDismissed, *removed)
	return true
}

func (p *Presenter) emit(kind string, n models.Notification) {
	if p.Emitter == nil {
		return
	}
	p.Emitter.Emit(models.NotificationEvent{Type: kind, Notification: n})
}

func taskKey(id string) string {
	return "notification:" + id
}
