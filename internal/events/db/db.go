package db

import (
	"context"
	"fmt"

	"campus-portal/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateEvent(ctx context.Context, event models.EventRecord) error {
	event.SeedAttendeeCount = event.AttendeeCount
	_, err := d.Bun.NewInsert().Model(&event).Exec(ctx)
	return err
}

// ReplaceEvents swaps the whole catalog table for the given records.
func (d *DB) ReplaceEvents(ctx context.Context, events []models.EventRecord) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.EventRecord)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear events: %w", err)
		}
		if len(events) == 0 {
			return nil
		}
		seeded := make([]models.EventRecord, len(events))
		for i, e := range events {
			e.SeedAttendeeCount = e.AttendeeCount
			seeded[i] = e
		}
		if _, err := tx.NewInsert().Model(&seeded).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert events: %w", err)
		}
		return nil
	})
}

func (d *DB) GetEventByID(ctx context.Context, id string) (*models.EventRecord, error) {
	var event models.EventRecord
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents returns the catalog in card order.
func (d *DB) ListEvents(ctx context.Context) ([]models.EventRecord, error) {
	var events []models.EventRecord
	err := d.Bun.NewSelect().
		Model(&events).
		Order("position ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ResetAttendeeCounts puts every card back to its seeded attendee count.
func (d *DB) ResetAttendeeCounts(ctx context.Context) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.EventRecord)(nil)).
		Set("attendee_count = seed_attendee_count").
		Where("attendee_count <> seed_attendee_count").
		Exec(ctx)
	return err
}

// IncrementAttendeeCount adds one attendee. There is no capacity check.
func (d *DB) IncrementAttendeeCount(ctx context.Context, id string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.EventRecord)(nil)).
		Set("attendee_count = attendee_count + 1").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("event %s not found", id)
	}
	return nil
}
