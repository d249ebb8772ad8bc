package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"campus-portal/internal/models"
	"campus-portal/internal/registration/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *db.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	_, err = bunDB.NewCreateTable().Model((*models.Registration)(nil)).Exec(context.Background())
	if err != nil {
		t.Fatalf("Failed to create registrations table: %v", err)
	}
	return &db.DB{Bun: bunDB}
}

func TestRegistrationLifecycle(t *testing.T) {
	regDB := setupTestDB(t)
	ctx := context.Background()
	id := uuid.New().String()
	created := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, regDB.CreateRegistration(ctx, models.Registration{
		ID: id, EventID: "ai", Surface: models.SurfaceEvents, State: models.StatePending, CreatedAt: created,
	}))

	count, err := regDB.CountRegistrationsByEvent(ctx, "ai")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, regDB.CompleteRegistration(ctx, id, created.Add(1500*time.Millisecond)))

	reg, err := regDB.GetRegistrationByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StateRegistered, reg.State)
	assert.True(t, reg.CompletedAt.Equal(created.Add(1500*time.Millisecond)))

	count, err = regDB.CountRegistrationsByEvent(ctx, "ai")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteRegistration(t *testing.T) {
	regDB := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, regDB.CreateRegistration(ctx, models.Registration{ID: "r1", EventID: "ai", State: models.StatePending}))
	require.NoError(t, regDB.DeleteRegistration(ctx, "r1"))

	_, err := regDB.GetRegistrationByID(ctx, "r1")
	assert.Error(t, err)
}
