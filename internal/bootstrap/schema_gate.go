package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linguahub/linguahub/internal/config"
	"github.com/linguahub/linguahub/internal/migration"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"gorm.io/gorm"
)

var (
	ErrSchemaNotReady         = errors.New("schema is not migrated")
	ErrSchemaVersionMismatch  = errors.New("schema version mismatch")
	ErrSchemaChecksumMismatch = errors.New("schema checksum mismatch")
)

type SchemaGate interface {
	MustBeReady(ctx context.Context) error
}

type schemaGate struct {
	db               *gorm.DB
	driver           string
	expectedVersion  string
	expectedChecksum string
}

func NewSchemaGate(db *gorm.DB, cfg config.Config) (SchemaGate, error) {
	if db == nil {
		return nil, errors.New("schema gate requires database handle")
	}

	latestVersion, err := migration.LatestMigrationVersion()
	if err != nil {
		return nil, err
	}
	expectedChecksum, err := migration.MigrationsChecksum()
	if err != nil {
		return nil, err
	}

	return &schemaGate{
		db:               db,
		driver:           cfg.Database.Driver,
		expectedVersion:  fmt.Sprintf("%d", latestVersion),
		expectedChecksum: expectedChecksum,
	}, nil
}

// MustBeReady fails when the database was not migrated by this binary's
// migrations. Auto-migrated drivers only need the tables to exist.
func (g *schemaGate) MustBeReady(ctx context.Context) error {
	if g.driver != "postgres" {
		migrator := g.db.WithContext(ctx).Migrator()
		for _, model := range []any{&ratedomain.RateRow{}, &quotedomain.PriceQuote{}} {
			if !migrator.HasTable(model) {
				return fmt.Errorf("%w: missing table for %T", ErrSchemaNotReady, model)
			}
		}
		return nil
	}

	state, err := loadSchemaState(ctx, g.db)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaNotReady, err)
	}

	if state.SchemaVersion != g.expectedVersion {
		return fmt.Errorf("%w: state=%s expected=%s", ErrSchemaVersionMismatch, state.SchemaVersion, g.expectedVersion)
	}

	if state.Checksum != nil && strings.TrimSpace(*state.Checksum) != "" {
		if *state.Checksum != g.expectedChecksum {
			return fmt.Errorf("%w: state=%s expected=%s", ErrSchemaChecksumMismatch, *state.Checksum, g.expectedChecksum)
		}
	}

	return nil
}
