package analytics

import (
	"context"
	"fmt"

	"campus-portal/internal/models"
)

type Totals struct {
	TotalEvents    int `bun:"total_events" json:"total_events"`
	TotalAttendees int `bun:"total_attendees" json:"total_attendees"`
	TotalCapacity  int `bun:"total_capacity" json:"total_capacity"`
}

type CampusSummary struct {
	Campus    string `bun:"campus" json:"campus"`
	Events    int    `bun:"events" json:"events"`
	Attendees int    `bun:"attendees" json:"attendees"`
	Capacity  int    `bun:"capacity" json:"capacity"`
}

// DashboardStats feeds the stat cards at the top of the dashboard.
type DashboardStats struct {
	Totals
	FillRate               float64         `json:"fill_rate"`
	UpcomingThisWeek       int             `json:"upcoming_this_week"`
	CompletedRegistrations int             `json:"completed_registrations"`
	Campuses               []CampusSummary `json:"campuses"`
}

type StatsDBLayer interface {
	Totals(ctx context.Context) (Totals, error)
	CampusSummaries(ctx context.Context) ([]CampusSummary, error)
	CompletedRegistrations(ctx context.Context) (int, error)
}

// UpcomingSource answers which events fall in the next seven days.
type UpcomingSource interface {
	VisibleEvents(criteria models.FilterCriteria) []models.EventRecord
}

// Service handles analytics operations
type Service struct {
	DB       StatsDBLayer
	Upcoming UpcomingSource
}

func NewService(db StatsDBLayer, upcoming UpcomingSource) *Service {
	return &Service{DB: db, Upcoming: upcoming}
}

func (s *Service) Stats(ctx context.Context) (*DashboardStats, error) {
	totals, err := s.DB.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum events: %w", err)
	}

	campuses, err := s.DB.CampusSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group events by campus: %w", err)
	}

	completed, err := s.DB.CompletedRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	stats := &DashboardStats{
		Totals:                 totals,
		CompletedRegistrations: completed,
		Campuses:               campuses,
	}
	if totals.TotalCapacity > 0 {
		stats.FillRate = float64(totals.TotalAttendees) / float64(totals.TotalCapacity)
	}
	if s.Upcoming != nil {
		stats.UpcomingThisWeek = len(s.Upcoming.VisibleEvents(models.FilterCriteria{DateBucket: models.DateWeek}))
	}
	return stats, nil
}
