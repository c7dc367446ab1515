package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func assertSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, model := range AutoMigrateModels() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.True(t, db.Migrator().HasColumn(&models.TicketModel{}, "closed_at"))
	assert.True(t, db.Migrator().HasColumn(&models.TicketStatusHistoryModel{}, "old_status"))
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	db := openTestDB(t)
	strategy := NewGooseStrategy("sqlite")

	require.NoError(t, NewManagerWithStrategy(strategy).Migrate(db))
	assertSchema(t, db)

	version, err := strategy.GetVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	require.NoError(t, strategy.MigrateDown(db, 1))
	assert.False(t, db.Migrator().HasTable(&models.TicketModel{}))
	assert.True(t, db.Migrator().HasTable(&models.UserModel{}))

	require.NoError(t, strategy.Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.TicketModel{}))
}

func TestGormAutoMigrateStrategy(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, NewManager("development", "sqlite").Migrate(db))
	assertSchema(t, db)
}

func TestNewManager_PicksStrategy(t *testing.T) {
	assert.Equal(t, "gorm_auto_migrate", NewManager("development", "mysql").GetStrategy().GetName())
	assert.Equal(t, "goose", NewManager("production", "mysql").GetStrategy().GetName())
}
