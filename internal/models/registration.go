package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Surface string

const (
	// SurfaceEvents is the register button on an event card.
	SurfaceEvents Surface = "events"
	// SurfaceDashboard is the quick register button in the dashboard list.
	SurfaceDashboard Surface = "dashboard"
)

type RegistrationState string

const (
	StateIdle       RegistrationState = "idle"
	StatePending    RegistrationState = "pending"
	StateRegistered RegistrationState = "registered"
)

const (
	LabelIdle       = "Register"
	LabelPending    = "Registering..."
	LabelRegistered = "Registered ✓"

	ButtonPrimary = "btn-primary"
	ButtonSuccess = "btn-success"
)

// ControlState is what the register button looks like right now.
type ControlState struct {
	ControlID      string            `json:"controlId"`
	EventID        string            `json:"eventId"`
	Surface        Surface           `json:"surface"`
	State          RegistrationState `json:"state"`
	Label          string            `json:"label"`
	Disabled       bool              `json:"disabled"`
	ButtonClass    string            `json:"buttonClass"`
	RegistrationID string            `json:"registrationId,omitempty"`
	AttendeeLabel  string            `json:"attendeeLabel,omitempty"`
}

type Registration struct {
	bun.BaseModel `bun:"table:registrations"`

	ID          string            `bun:"id,pk" json:"id"`
	EventID     string            `bun:"event_id,notnull" json:"eventId"`
	Surface     Surface           `bun:"surface" json:"surface"`
	State       RegistrationState `bun:"state" json:"state"`
	CreatedAt   time.Time         `bun:"created_at" json:"createdAt"`
	CompletedAt time.Time         `bun:"completed_at,nullzero" json:"completedAt,omitempty"`
}

// RegistrationEvent is published once a simulated registration completes.
type RegistrationEvent struct {
	RegistrationID string    `json:"registration_id"`
	EventID        string    `json:"event_id"`
	EventTitle     string    `json:"event_title"`
	Surface        Surface   `json:"surface"`
	AttendeeCount  int       `json:"attendee_count"`
	Capacity       int       `json:"capacity"`
	CompletedAt    time.Time `json:"completed_at"`
}
