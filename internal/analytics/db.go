package analytics

import (
	"context"

	"campus-portal/internal/models"

	"github.com/uptrace/bun"
)

// DB handles analytics database operations
type DB struct {
	bun *bun.DB
}

func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

// Totals sums the whole catalog.
func (db *DB) Totals(ctx context.Context) (Totals, error) {
	var totals Totals
	err := db.bun.NewSelect().
		Model((*models.EventRecord)(nil)).
		ColumnExpr("COUNT(*) AS total_events").
		ColumnExpr("COALESCE(SUM(attendee_count), 0) AS total_attendees").
		ColumnExpr("COALESCE(SUM(capacity), 0) AS total_capacity").
		Scan(ctx, &totals)
	return totals, err
}

// CampusSummaries groups the catalog by campus.
func (db *DB) CampusSummaries(ctx context.Context) ([]CampusSummary, error) {
	var summaries []CampusSummary
	err := db.bun.NewSelect().
		Model((*models.EventRecord)(nil)).
		ColumnExpr("campus").
		ColumnExpr("COUNT(*) AS events").
		ColumnExpr("COALESCE(SUM(attendee_count), 0) AS attendees").
		ColumnExpr("COALESCE(SUM(capacity), 0) AS capacity").
		Group("campus").
		Order("campus ASC").
		Scan(ctx, &summaries)
	return summaries, err
}

// CompletedRegistrations counts registrations that reached the registered state.
func (db *DB) CompletedRegistrations(ctx context.Context) (int, error) {
	return db.bun.NewSelect().
		Model((*models.Registration)(nil)).
		Where("state = ?", models.StateRegistered).
		Count(ctx)
}
