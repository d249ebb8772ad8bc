package db

import (
	"context"
	"time"

	"campus-portal/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateRegistration(ctx context.Context, reg models.Registration) error {
	_, err := d.Bun.NewInsert().Model(&reg).Exec(ctx)
	return err
}

func (d *DB) GetRegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	err := d.Bun.NewSelect().
		Model(&reg).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (d *DB) CompleteRegistration(ctx context.Context, id string, completedAt time.Time) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Registration)(nil)).
		Set("state = ?", models.StateRegistered).
		Set("completed_at = ?", completedAt).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// DeleteRegistration drops a registration that was cancelled while pending.
func (d *DB) DeleteRegistration(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Registration)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) CountRegistrationsByEvent(ctx context.Context, eventID string) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Registration)(nil)).
		Where("event_id = ?", eventID).
		Where("state = ?", models.StateRegistered).
		Count(ctx)
}
