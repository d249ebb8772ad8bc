// Package registration simulates the register buttons on event cards and the dashboard.
//
// A control moves Idle -> Pending -> Registered. Clicks on a pending or registered
// control are ignored. Completion runs after a fixed delay on a cancelable task.
package registration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"campus-portal/internal/clock"
	"campus-portal/internal/logger"
	"campus-portal/internal/metrics"
	"campus-portal/internal/models"
	"campus-portal/internal/registration/pass"
	"campus-portal/internal/scheduler"

	"github.com/google/uuid"
)

var (
	ErrUnknownSurface           = errors.New("unknown registration surface")
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrRegistrationNotCompleted = errors.New("registration not completed")
)

const (
	DefaultEventDelay     = 1500 * time.Millisecond
	DefaultDashboardDelay = 1000 * time.Millisecond
)

type EventCatalog interface {
	GetEvent(id string) (models.EventRecord, error)
	RecordRegistration(ctx context.Context, id string) (models.EventRecord, error)
}

type Notifier interface {
	Show(message, severity string) models.Notification
}

type RegistrationDBLayer interface {
	CreateRegistration(ctx context.Context, reg models.Registration) error
	GetRegistrationByID(ctx context.Context, id string) (*models.Registration, error)
	CompleteRegistration(ctx context.Context, id string, completedAt time.Time) error
	DeleteRegistration(ctx context.Context, id string) error
}

type Locker interface {
	Acquire(ctx context.Context, controlID, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, controlID, owner string) error
}

type Publisher interface {
	PublishRegistrationCompleted(ctx context.Context, event models.RegistrationEvent) error
}

type Delays struct {
	Events    time.Duration
	Dashboard time.Duration
}

func (d Delays) For(surface models.Surface) time.Duration {
	if surface == models.SurfaceDashboard {
		if d.Dashboard > 0 {
			return d.Dashboard
		}
		return DefaultDashboardDelay
	}
	if d.Events > 0 {
		return d.Events
	}
	return DefaultEventDelay
}

type control struct {
	state     models.ControlState
	startedAt time.Time
}

type Simulator struct {
	Catalog   EventCatalog
	DB        RegistrationDBLayer
	Notifier  Notifier
	Scheduler *scheduler.Scheduler
	Clock     clock.Clock
	Logger    *logger.Logger
	Delays    Delays
	Passes    *pass.Generator

	// Optional collaborators.
	Locker    Locker
	Publisher Publisher

	mu       sync.Mutex
	controls map[string]*control
}

func NewSimulator(catalog EventCatalog, db RegistrationDBLayer, notifier Notifier, sched *scheduler.Scheduler, clk clock.Clock, log *logger.Logger, delays Delays) *Simulator {
	return &Simulator{
		Catalog:   catalog,
		DB:        db,
		Notifier:  notifier,
		Scheduler: sched,
		Clock:     clk,
		Logger:    log,
		Delays:    delays,
		controls:  make(map[string]*control),
	}
}

// TaskKey names the completion task of one registration attempt on a control.
// Attempts never share a task, so a stale attempt cannot replace or cancel a newer one.
func TaskKey(controlID, regID string) string {
	return controlID + ":" + regID
}

func ControlID(surface models.Surface, eventID string) string {
	return string(surface) + ":" + eventID
}

func ParseSurface(raw string) (models.Surface, error) {
	switch s := models.Surface(raw); s {
	case models.SurfaceEvents, models.SurfaceDashboard:
		return s, nil
	case "":
		return models.SurfaceEvents, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSurface, raw)
	}
}

// Register starts a registration from Idle. Any other state, or an unknown event, is a no-op.
func (s *Simulator) Register(ctx context.Context, surface models.Surface, eventID string) (models.ControlState, error) {
	surface, err := ParseSurface(string(surface))
	if err != nil {
		return models.ControlState{}, err
	}

	record, err := s.Catalog.GetEvent(eventID)
	if err != nil {
		return idleState(surface, eventID, models.EventRecord{}), nil
	}

	id := ControlID(surface, eventID)
	regID := uuid.New().String()
	now := s.Clock.Now()

	s.mu.Lock()
	if c, ok := s.controls[id]; ok && c.state.State != models.StateIdle {
		state := c.state
		s.mu.Unlock()
		s.Logger.LogRegistration("ignore", id, fmt.Sprintf("already %s", state.State))
		return state, nil
	}
	c := &control{state: pendingState(surface, eventID, record, regID), startedAt: now}
	s.controls[id] = c
	state := c.state
	s.mu.Unlock()

	delay := s.Delays.For(surface)

	if s.Locker != nil {
		ok, err := s.Locker.Acquire(ctx, id, regID, 2*delay)
		if err != nil {
			s.Logger.Warn("REDIS", fmt.Sprintf("Registration lock unavailable for %s: %v", id, err))
		} else if !ok {
			s.mu.Lock()
			delete(s.controls, id)
			s.mu.Unlock()
			s.Logger.LogRegistration("ignore", id, "locked by another instance")
			return idleState(surface, eventID, record), nil
		}
	}

	if err := s.DB.CreateRegistration(ctx, models.Registration{
		ID:        regID,
		EventID:   eventID,
		Surface:   surface,
		State:     models.StatePending,
		CreatedAt: now,
	}); err != nil {
		s.Logger.Error("DATABASE", fmt.Sprintf("Failed to store registration %s: %v", regID, err))
	}

	s.Scheduler.Schedule(TaskKey(id, regID), delay, func() {
		s.complete(id, regID)
	})

	metrics.TrackRegistration(string(surface), string(models.StatePending))
	s.Logger.LogRegistration("start", id, fmt.Sprintf("pending for %s", delay))
	return state, nil
}

func (s *Simulator) complete(id, regID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.mu.Lock()
	c, ok := s.controls[id]
	if !ok || c.state.State != models.StatePending || c.state.RegistrationID != regID {
		s.mu.Unlock()
		return
	}
	c.state.State = models.StateRegistered
	c.state.Label = models.LabelRegistered
	c.state.ButtonClass = models.ButtonSuccess
	c.state.Disabled = true
	surface, eventID, startedAt := c.state.Surface, c.state.EventID, c.startedAt
	s.mu.Unlock()

	record, err := s.Catalog.GetEvent(eventID)
	if err != nil {
		s.Logger.Warn("REGISTRATION", fmt.Sprintf("Event %s vanished before completion", eventID))
		return
	}

	message := fmt.Sprintf("Registered for %s!", record.Title)
	if surface == models.SurfaceEvents {
		message = fmt.Sprintf("Successfully registered for %s!", record.Title)
		if record, err = s.Catalog.RecordRegistration(ctx, eventID); err != nil {
			s.Logger.Error("REGISTRATION", fmt.Sprintf("Failed to count attendee for %s: %v", eventID, err))
		}
		s.mu.Lock()
		c.state.AttendeeLabel = record.AttendeeLabel()
		s.mu.Unlock()
	}

	s.Notifier.Show(message, models.SeveritySuccess)

	completedAt := s.Clock.Now()
	if err := s.DB.CompleteRegistration(ctx, regID, completedAt); err != nil {
		s.Logger.Error("DATABASE", fmt.Sprintf("Failed to complete registration %s: %v", regID, err))
	}

	if s.Locker != nil {
		if err := s.Locker.Release(ctx, id, regID); err != nil {
			s.Logger.Warn("REDIS", fmt.Sprintf("Failed to release lock for %s: %v", id, err))
		}
	}

	if s.Publisher != nil {
		err := s.Publisher.PublishRegistrationCompleted(ctx, models.RegistrationEvent{
			RegistrationID: regID,
			EventID:        eventID,
			EventTitle:     record.Title,
			Surface:        surface,
			AttendeeCount:  record.AttendeeCount,
			Capacity:       record.Capacity,
			CompletedAt:    completedAt,
		})
		if err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish registration %s: %v", regID, err))
		}
	}

	metrics.TrackRegistration(string(surface), string(models.StateRegistered))
	metrics.TrackRegistrationDuration(string(surface), completedAt.Sub(startedAt))
	s.Logger.LogRegistration("complete", id, message)
}

// Cancel returns a pending control to Idle. It reports whether anything was pending.
func (s *Simulator) Cancel(ctx context.Context, surface models.Surface, eventID string) (models.ControlState, bool) {
	id := ControlID(surface, eventID)
	record, _ := s.Catalog.GetEvent(eventID)

	s.mu.Lock()
	c, ok := s.controls[id]
	if !ok || c.state.State != models.StatePending {
		var state models.ControlState
		if ok {
			state = c.state
		} else {
			state = idleState(surface, eventID, record)
		}
		s.mu.Unlock()
		return state, false
	}
	regID := c.state.RegistrationID
	delete(s.controls, id)
	s.Scheduler.Cancel(TaskKey(id, regID))
	s.mu.Unlock()

	if err := s.DB.DeleteRegistration(ctx, regID); err != nil {
		s.Logger.Error("DATABASE", fmt.Sprintf("Failed to drop registration %s: %v", regID, err))
	}
	if s.Locker != nil {
		if err := s.Locker.Release(ctx, id, regID); err != nil {
			s.Logger.Warn("REDIS", fmt.Sprintf("Failed to release lock for %s: %v", id, err))
		}
	}

	metrics.TrackRegistration(string(surface), string(models.StateIdle))
	s.Logger.LogRegistration("cancel", id, "back to idle")
	return idleState(surface, eventID, record), true
}

// State returns the control as it is rendered now.
func (s *Simulator) State(surface models.Surface, eventID string) models.ControlState {
	id := ControlID(surface, eventID)
	s.mu.Lock()
	c, ok := s.controls[id]
	var state models.ControlState
	if ok {
		state = c.state
	}
	s.mu.Unlock()
	if ok {
		return state
	}
	record, _ := s.Catalog.GetEvent(eventID)
	return idleState(surface, eventID, record)
}

// Registration looks up a stored registration.
func (s *Simulator) Registration(ctx context.Context, id string) (*models.Registration, error) {
	reg, err := s.DB.GetRegistrationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRegistrationNotFound, id)
	}
	return reg, nil
}

// Pass renders the QR pass of a completed registration.
func (s *Simulator) Pass(ctx context.Context, id string) ([]byte, error) {
	reg, err := s.Registration(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.State != models.StateRegistered {
		return nil, ErrRegistrationNotCompleted
	}
	if s.Passes == nil {
		return nil, errors.New("pass generator not configured")
	}
	return s.Passes.GeneratePNG(*reg)
}

func idleState(surface models.Surface, eventID string, record models.EventRecord) models.ControlState {
	state := models.ControlState{
		ControlID:   ControlID(surface, eventID),
		EventID:     eventID,
		Surface:     surface,
		State:       models.StateIdle,
		Label:       models.LabelIdle,
		ButtonClass: models.ButtonPrimary,
	}
	if surface == models.SurfaceEvents {
		state.AttendeeLabel = record.AttendeeLabel()
	}
	return state
}

func pendingState(surface models.Surface, eventID string, record models.EventRecord, regID string) models.ControlState {
	state := idleState(surface, eventID, record)
	state.State = models.StatePending
	state.Label = models.LabelPending
	state.Disabled = true
	state.RegistrationID = regID
	return state
}
