package telemetry

import (
	"context"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simbachu/monrank/internal/utils"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	t.Cleanup(func() { database.Close() })

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err)

	m, err := migrate.NewWithDatabaseInstance("file://../../migrations", "sqlite3", driver)
	require.NoError(t, err)

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func TestInsertAndListByDevice(t *testing.T) {
	s := NewStore(setupTestDB(t))
	ctx := context.Background()

	r := &Reading{DeviceID: "thermo-1", Metric: "temperature", Value: 21.5, Unit: utils.Ptr("C")}
	require.NoError(t, s.Insert(ctx, r))
	assert.NotZero(t, r.ID)

	require.NoError(t, s.Insert(ctx, &Reading{DeviceID: "thermo-2", Metric: "temperature", Value: 19.0}))

	got, err := s.ListByDevice(ctx, "thermo-1", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "thermo-1", got[0].DeviceID)
	assert.Equal(t, 21.5, got[0].Value)
	require.NotNil(t, got[0].Unit)
	assert.Equal(t, "C", *got[0].Unit)
	assert.False(t, got[0].RecordedAt.IsZero())
}
