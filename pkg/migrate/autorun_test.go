package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/kitchenops/pkg/config"
	"github.com/angelmondragon/kitchenops/pkg/db"
	"github.com/angelmondragon/kitchenops/pkg/logger"
)

func newClient(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db.NewFromConn(conn)
}

func TestMaybeRunDevAppliesMigrationsWhenEnabled(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvDev},
		DB:           config.DBConfig{Driver: config.DBDriverSQLite},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}

	require.NoError(t, MaybeRunDev(ctx, cfg, logger.Nop(), client))

	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	require.True(t, tableExists(t, sqlDB, "order_line_items"))
}

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvProd},
		DB:           config.DBConfig{Driver: config.DBDriverSQLite},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}

	require.NoError(t, MaybeRunDev(ctx, cfg, logger.Nop(), client))

	sqlDB, err := client.DB().DB()
	require.NoError(t, err)
	require.False(t, tableExists(t, sqlDB, "order_line_items"))
}
