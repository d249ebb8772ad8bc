// Package markup reads event records out of the portal's rendered event cards.
package markup

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"campus-portal/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	CardSelector        = ".event-card"
	TitleSelector       = "h3"
	DescriptionSelector = ".event-description"
	AttendeeSelector    = ".event-detail:last-child span"
)

var attendeePattern = regexp.MustCompile(`(\d+)\s*/\s*(\d+)\s*attendees`)

// ParseAttendees extracts count and capacity from an "N/M attendees" label.
func ParseAttendees(text string) (count, capacity int, ok bool) {
	m := attendeePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	capacity, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return count, capacity, true
}

// ParseEvents returns one record per event card, in document order.
// Missing child elements leave the matching field empty.
func ParseEvents(r io.Reader) ([]models.EventRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse event markup: %w", err)
	}

	var records []models.EventRecord
	doc.Find(CardSelector).Each(func(i int, card *goquery.Selection) {
		records = append(records, parseCard(i, card))
	})
	return records, nil
}

func parseCard(i int, card *goquery.Selection) models.EventRecord {
	id, ok := card.Attr("data-id")
	if !ok || strings.TrimSpace(id) == "" {
		id = fmt.Sprintf("event-%d", i+1)
	}

	record := models.EventRecord{
		ID:          strings.TrimSpace(id),
		Title:       strings.TrimSpace(card.Find(TitleSelector).First().Text()),
		Description: strings.TrimSpace(card.Find(DescriptionSelector).First().Text()),
		Campus:      card.AttrOr("data-campus", ""),
		Category:    card.AttrOr("data-category", ""),
		Date:        card.AttrOr("data-date", ""),
		Position:    i,
	}

	if span := card.Find(AttendeeSelector).First(); span.Length() > 0 {
		if count, capacity, ok := ParseAttendees(span.Text()); ok {
			record.AttendeeCount = count
			record.Capacity = capacity
			record.HasAttendance = true
		}
	}
	return record
}
