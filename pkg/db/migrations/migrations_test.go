package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrations.sqlite")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestMigrateIsIncremental(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	m := NewMigrator(db)

	ran, err := m.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ran)

	ran, err = m.Migrate(ctx)
	require.NoError(t, err)
	assert.Empty(t, ran)

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	for _, st := range statuses {
		assert.True(t, st.Applied, "migration %d", st.Version)
	}
	assert.True(t, db.Migrator().HasTable("junction_table"))
}

func TestRollbackLastMigration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	m := NewMigrator(db)

	_, err := m.Migrate(ctx)
	require.NoError(t, err)

	rolled, err := m.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rolled.Version)

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Applied)
	assert.False(t, statuses[1].Applied)

	ran, err := m.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ran)
}
