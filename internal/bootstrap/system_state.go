package bootstrap

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const schemaStateTable = "schema_state"

var ErrSchemaStateNotFound = errors.New("schema state not found")

// SchemaState is the singleton row written by the postgres migrator.
type SchemaState struct {
	SchemaVersion string    `gorm:"column:schema_version"`
	Checksum      *string   `gorm:"column:checksum"`
	AppliedAt     time.Time `gorm:"column:applied_at"`
}

func loadSchemaState(ctx context.Context, db *gorm.DB) (*SchemaState, error) {
	if db == nil {
		return nil, errors.New("schema state requires database handle")
	}

	var state SchemaState
	result := db.WithContext(ctx).Table(schemaStateTable).
		Select("schema_version, checksum, applied_at").
		Where("id = TRUE").
		Limit(1).
		Scan(&state)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrSchemaStateNotFound
	}

	state.SchemaVersion = strings.TrimSpace(state.SchemaVersion)
	if state.Checksum != nil {
		trimmed := strings.TrimSpace(*state.Checksum)
		state.Checksum = &trimmed
	}
	return &state, nil
}
