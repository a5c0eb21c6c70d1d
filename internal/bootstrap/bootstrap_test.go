package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/linguahub/linguahub/internal/config"
	"github.com/linguahub/linguahub/internal/migration"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	raterepository "github.com/linguahub/linguahub/internal/rate/repository"
	"github.com/linguahub/linguahub/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func driverConfig(driver string) config.Config {
	return config.Config{Database: config.DatabaseConfig{Driver: driver}}
}

func TestSchemaGateAutoMigratedDriver(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	gate, err := NewSchemaGate(db, driverConfig("sqlite"))
	require.NoError(t, err)
	assert.ErrorIs(t, gate.MustBeReady(ctx), ErrSchemaNotReady)

	require.NoError(t, db.AutoMigrate(&ratedomain.RateRow{}, &quotedomain.PriceQuote{}))
	assert.NoError(t, gate.MustBeReady(ctx))
}

func createSchemaState(t *testing.T, db *gorm.DB, version, checksum string) {
	t.Helper()
	require.NoError(t, db.Exec(`CREATE TABLE schema_state (
		id BOOLEAN PRIMARY KEY,
		schema_version TEXT NOT NULL,
		checksum TEXT,
		applied_at DATETIME NOT NULL
	)`).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO schema_state (id, schema_version, checksum, applied_at) VALUES (TRUE, ?, ?, ?)`,
		version, checksum, time.Now().UTC(),
	).Error)
}

func TestSchemaGateRecordedState(t *testing.T) {
	ctx := context.Background()
	latest, err := migration.LatestMigrationVersion()
	require.NoError(t, err)
	checksum, err := migration.MigrationsChecksum()
	require.NoError(t, err)

	t.Run("missing state", func(t *testing.T) {
		gate, err := NewSchemaGate(openTestDB(t), driverConfig("postgres"))
		require.NoError(t, err)
		assert.ErrorIs(t, gate.MustBeReady(ctx), ErrSchemaNotReady)
	})

	t.Run("current", func(t *testing.T) {
		db := openTestDB(t)
		createSchemaState(t, db, " "+itoa(latest)+" ", checksum)
		gate, err := NewSchemaGate(db, driverConfig("postgres"))
		require.NoError(t, err)
		assert.NoError(t, gate.MustBeReady(ctx))
	})

	t.Run("older version", func(t *testing.T) {
		db := openTestDB(t)
		createSchemaState(t, db, "1", checksum)
		gate, err := NewSchemaGate(db, driverConfig("postgres"))
		require.NoError(t, err)
		assert.ErrorIs(t, gate.MustBeReady(ctx), ErrSchemaVersionMismatch)
	})

	t.Run("edited migrations", func(t *testing.T) {
		db := openTestDB(t)
		createSchemaState(t, db, itoa(latest), "deadbeef")
		gate, err := NewSchemaGate(db, driverConfig("postgres"))
		require.NoError(t, err)
		assert.ErrorIs(t, gate.MustBeReady(ctx), ErrSchemaChecksumMismatch)
	})
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, db.AutoMigrate(&ratedomain.RateRow{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	repo := raterepository.NewRepository(db, node)

	require.NoError(t, seedIfEmpty(ctx, db, repo, zap.NewNop()))
	var count int64
	require.NoError(t, db.Model(&ratedomain.RateRow{}).Count(&count).Error)
	assert.Equal(t, int64(len(seed.DefaultRates())), count)

	// A populated table is left alone.
	require.NoError(t, db.Delete(&ratedomain.RateRow{}, "interpreting_type = ?", ratedomain.InterpretingTypeEscort).Error)
	require.NoError(t, db.Model(&ratedomain.RateRow{}).Count(&count).Error)
	require.NoError(t, seedIfEmpty(ctx, db, repo, zap.NewNop()))

	var after int64
	require.NoError(t, db.Model(&ratedomain.RateRow{}).Count(&after).Error)
	assert.Equal(t, count, after)
}

func itoa(v uint) string {
	return fmt.Sprintf("%d", v)
}
