package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// EventRecord is one event card of the catalog. Only AttendeeCount changes after load.
type EventRecord struct {
	bun.BaseModel `bun:"table:campus_events"`

	ID                string    `bun:"id,pk" json:"id"`
	Title             string    `bun:"title,notnull" json:"title"`
	Description       string    `bun:"description" json:"description"`
	Campus            string    `bun:"campus" json:"campus"`
	Category          string    `bun:"category" json:"category"`
	Date              string    `bun:"date" json:"date"`
	AttendeeCount     int       `bun:"attendee_count" json:"attendeeCount"`
	SeedAttendeeCount int       `bun:"seed_attendee_count" json:"-"` // restored into AttendeeCount at start-up
	Capacity          int       `bun:"capacity" json:"capacity"`
	HasAttendance     bool      `bun:"has_attendance" json:"hasAttendance"`
	Position          int       `bun:"position" json:"-"`
	CreatedAt         time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// AttendeeLabel renders the "N/M attendees" text shown on the card.
func (e EventRecord) AttendeeLabel() string {
	if !e.HasAttendance {
		return ""
	}
	return fmt.Sprintf("%d/%d attendees", e.AttendeeCount, e.Capacity)
}

type EventResponse struct {
	EventRecord
	AttendeeLabel string `json:"attendeeLabel,omitempty"`
}

func NewEventResponse(e EventRecord) EventResponse {
	return EventResponse{EventRecord: e, AttendeeLabel: e.AttendeeLabel()}
}

type DateBucket string

const (
	DateAny   DateBucket = ""
	DateToday DateBucket = "today"
	DateWeek  DateBucket = "week"
	DateMonth DateBucket = "month"
)

// FilterCriteria holds the current state of the search box and the three selects.
// Empty fields are inactive.
type FilterCriteria struct {
	SearchTerm string     `json:"search"`
	Campus     string     `json:"campus"`
	Category   string     `json:"category"`
	DateBucket DateBucket `json:"date"`
}

const (
	DisplayShown  = "block"
	DisplayHidden = "none"
	FadeIn        = "fadeIn 0.3s ease-out"
)

// Visibility is the filter outcome for one record.
type Visibility struct {
	EventID   string `json:"eventId"`
	Visible   bool   `json:"visible"`
	Display   string `json:"display"`
	Animation string `json:"animation,omitempty"`
}

type Facets struct {
	Campuses   []string `json:"campuses"`
	Categories []string `json:"categories"`
}
