// Package filter decides which event cards are visible for a set of criteria.
//
// Every function here is pure: records are never mutated and "today" is always
// passed in by the caller.
package filter

import (
	"net/url"
	"strings"
	"time"

	"campus-portal/internal/models"
)

// EventDate is the parsed form of a record's date attribute.
type EventDate struct {
	Time  time.Time
	Valid bool
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
}

// ParseEventDate accepts a plain date, an RFC 3339 timestamp or a datetime-local value.
// Plain dates are read in loc. Anything else yields an invalid EventDate.
func ParseEventDate(raw string, loc *time.Location) EventDate {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return EventDate{}
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return EventDate{Time: t.In(loc), Valid: true}
		}
	}
	return EventDate{}
}

// DiffDays is the number of calendar days from today to date, both read in today's location.
func DiffDays(date, today time.Time) int {
	date = date.In(today.Location())
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}

// ParseBucket maps a select value to a bucket. Unknown values impose no constraint.
func ParseBucket(raw string) models.DateBucket {
	switch b := models.DateBucket(strings.TrimSpace(raw)); b {
	case models.DateToday, models.DateWeek, models.DateMonth:
		return b
	default:
		return models.DateAny
	}
}

// ParseCriteria reads search, campus, category and date from a query string.
func ParseCriteria(q url.Values) models.FilterCriteria {
	return models.FilterCriteria{
		SearchTerm: q.Get("search"),
		Campus:     q.Get("campus"),
		Category:   q.Get("category"),
		DateBucket: ParseBucket(q.Get("date")),
	}
}

// InBucket reports whether a date satisfies the bucket relative to today.
func InBucket(date EventDate, bucket models.DateBucket, today time.Time) bool {
	switch bucket {
	case models.DateToday, models.DateWeek, models.DateMonth:
	default:
		return true
	}
	if !date.Valid {
		return false
	}

	diff := DiffDays(date.Time, today)
	switch bucket {
	case models.DateToday:
		return diff == 0
	case models.DateWeek:
		return diff >= 0 && diff <= 7
	default:
		return diff >= 0 && diff <= 30
	}
}

// Matches reports whether a record satisfies every active criterion.
func Matches(record models.EventRecord, criteria models.FilterCriteria, today time.Time) bool {
	if criteria.SearchTerm != "" {
		term := strings.ToLower(criteria.SearchTerm)
		if !strings.Contains(strings.ToLower(record.Title), term) &&
			!strings.Contains(strings.ToLower(record.Description), term) {
			return false
		}
	}

	if criteria.Campus != "" && record.Campus != criteria.Campus {
		return false
	}

	if criteria.Category != "" && record.Category != criteria.Category {
		return false
	}

	return InBucket(ParseEventDate(record.Date, today.Location()), criteria.DateBucket, today)
}

// Apply returns one Visibility per record, in input order.
func Apply(records []models.EventRecord, criteria models.FilterCriteria, today time.Time) []models.Visibility {
	result := make([]models.Visibility, 0, len(records))
	for _, record := range records {
		result = append(result, visibilityFor(record.ID, Matches(record, criteria, today)))
	}
	return result
}

// Visible returns only the matching records.
func Visible(records []models.EventRecord, criteria models.FilterCriteria, today time.Time) []models.EventRecord {
	var out []models.EventRecord
	for _, record := range records {
		if Matches(record, criteria, today) {
			out = append(out, record)
		}
	}
	return out
}

func visibilityFor(id string, visible bool) models.Visibility {
	if visible {
		return models.Visibility{
			EventID:   id,
			Visible:   true,
			Display:   models.DisplayShown,
			Animation: models.FadeIn,
		}
	}
	return models.Visibility{EventID: id, Display: models.DisplayHidden}
}
