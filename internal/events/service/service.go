package events

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"campus-portal/internal/clock"
	"campus-portal/internal/events/filter"
	"campus-portal/internal/logger"
	"campus-portal/internal/metrics"
	"campus-portal/internal/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventDBLayer interface {
	ListEvents(ctx context.Context) ([]models.EventRecord, error)
	ResetAttendeeCounts(ctx context.Context) error
	IncrementAttendeeCount(ctx context.Context, id string) error
}

// EventService owns the catalog. It is loaded once and only attendee counts change afterwards.
type EventService struct {
	DB     EventDBLayer
	Clock  clock.Clock
	Logger *logger.Logger

	mu      sync.RWMutex
	records []models.EventRecord
	index   map[string]int
}

func NewEventService(db EventDBLayer, clk clock.Clock, log *logger.Logger) *EventService {
	return &EventService{
		DB:     db,
		Clock:  clk,
		Logger: log,
		index:  make(map[string]int),
	}
}

// Load replaces the in-memory catalog with the seeded catalog. Attendee counts
// recorded by an earlier run are discarded first.
func (s *EventService) Load(ctx context.Context) error {
	if err := s.DB.ResetAttendeeCounts(ctx); err != nil {
		return fmt.Errorf("failed to reset attendee counts: %w", err)
	}
	records, err := s.DB.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	s.SetRecords(records)
	s.Logger.Info("EVENTS", fmt.Sprintf("Catalog loaded with %d events", len(records)))
	return nil
}

// SetRecords takes ownership of a copy of records.
func (s *EventService) SetRecords(records []models.EventRecord) {
	owned := make([]models.EventRecord, len(records))
	copy(owned, records)

	index := make(map[string]int, len(owned))
	for i, r := range owned {
		index[r.ID] = i
	}

	s.mu.Lock()
	s.records = owned
	s.index = index
	s.mu.Unlock()
}

// Records returns a snapshot of the catalog in card order.
func (s *EventService) Records() []models.EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.EventRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *EventService) Today() time.Time {
	return s.Clock.Now()
}

// Filter evaluates criteria against the catalog as of today.
func (s *EventService) Filter(criteria models.FilterCriteria) []models.Visibility {
	records := s.Records()
	result := filter.Apply(records, criteria, s.Today())

	visible := 0
	for _, v := range result {
		if v.Visible {
			visible++
		}
	}
	metrics.TrackFilter(string(criteria.DateBucket), visible)
	s.Logger.LogFilter(fmt.Sprintf("search=%q campus=%q category=%q date=%q",
		criteria.SearchTerm, criteria.Campus, criteria.Category, criteria.DateBucket), visible, len(records))
	return result
}

// VisibleEvents returns the records that pass criteria.
func (s *EventService) VisibleEvents(criteria models.FilterCriteria) []models.EventRecord {
	return filter.Visible(s.Records(), criteria, s.Today())
}

func (s *EventService) GetEvent(id string) (models.EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.EventRecord{}, ErrEventNotFound
	}
	return s.records[i], nil
}

// RecordRegistration adds one attendee to a record that shows an attendee label.
// Records without one are returned unchanged. Capacity is not enforced.
func (s *EventService) RecordRegistration(ctx context.Context, id string) (models.EventRecord, error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return models.EventRecord{}, ErrEventNotFound
	}
	if !s.records[i].HasAttendance {
		record := s.records[i]
		s.mu.Unlock()
		return record, nil
	}
	s.records[i].AttendeeCount++
	record := s.records[i]
	s.mu.Unlock()

	if err := s.DB.IncrementAttendeeCount(ctx, id); err != nil {
		s.Logger.Error("DATABASE", fmt.Sprintf("Failed to mirror attendee count for %s: %v", id, err))
	}
	return record, nil
}

// Facets lists the distinct campuses and categories for the filter selects.
func (s *EventService) Facets() models.Facets {
	campuses := map[string]struct{}{}
	categories := map[string]struct{}{}
	for _, r := range s.Records() {
		if r.Campus != "" {
			campuses[r.Campus] = struct{}{}
		}
		if r.Category != "" {
			categories[r.Category] = struct{}{}
		}
	}
	return models.Facets{Campuses: sortedKeys(campuses), Categories: sortedKeys(categories)}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
