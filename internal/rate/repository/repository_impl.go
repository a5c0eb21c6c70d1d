package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var keyColumns = []string{
	"id",
	"code",
	"interpreter_type",
	"scheduling_type",
	"communication_type",
	"interpreting_type",
	"qualifier",
	"details_sequence",
	"details_time",
	"created_at",
	"updated_at",
}

type repository struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewRepository(db *gorm.DB, genID *snowflake.Node) ratedomain.Repository {
	return &repository{db: db, genID: genID}
}

func (r *repository) GetRate(ctx context.Context, where ratedomain.Discriminators, sel ratedomain.ColumnSet) (*ratedomain.RateRow, error) {
	query := r.db.WithContext(ctx).
		Model(&ratedomain.RateRow{}).
		Select(selectColumns(sel))
	query = applyDiscriminators(query, where)

	var rows []ratedomain.RateRow
	if err := query.Limit(2).Find(&rows).Error; err != nil {
		return nil, err
	}

	switch len(rows) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ratedomain.ErrRateNotFound, where)
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ratedomain.ErrAmbiguousRate, where)
	}
}

func (r *repository) Upsert(ctx context.Context, row *ratedomain.RateRow) error {
	if err := row.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if row.ID == 0 {
		row.ID = r.genID.Generate()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	updates := []string{"details_time", "updated_at"}
	for _, col := range ratedomain.AllColumns {
		updates = append(updates, col.DBName())
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns(updates),
		}).
		Create(row).Error
	if err != nil {
		return err
	}

	// An update keeps the stored id and created_at.
	var stored ratedomain.RateRow
	if err := r.db.WithContext(ctx).Where("code = ?", row.Code).Take(&stored).Error; err != nil {
		return err
	}
	*row = stored
	return nil
}

func (r *repository) List(ctx context.Context, opts ratedomain.ListOptions) ([]ratedomain.RateRow, error) {
	query := r.db.WithContext(ctx).Model(&ratedomain.RateRow{})

	if opts.InterpreterType != nil {
		query = query.Where("interpreter_type = ?", *opts.InterpreterType)
	}
	if opts.InterpretingType != nil {
		query = query.Where("interpreting_type = ?", *opts.InterpretingType)
	}
	if opts.Qualifier != nil {
		query = query.Where("qualifier = ?", *opts.Qualifier)
	}

	var rows []ratedomain.RateRow
	err := query.
		Order("interpreter_type ASC, scheduling_type ASC, communication_type ASC, interpreting_type ASC, qualifier ASC, details_sequence ASC").
		Find(&rows).Error
	return rows, err
}

func selectColumns(sel ratedomain.ColumnSet) []string {
	cols := append([]string{}, keyColumns...)
	if len(sel) == 0 {
		sel = ratedomain.AllColumns
	}
	for _, col := range sel {
		if name := col.DBName(); name != "" {
			cols = append(cols, name)
		}
	}
	return cols
}

func applyDiscriminators(query *gorm.DB, where ratedomain.Discriminators) *gorm.DB {
	if where.InterpreterType != "" {
		query = query.Where("interpreter_type = ?", where.InterpreterType)
	}
	if where.SchedulingType != "" {
		query = query.Where("scheduling_type = ?", where.SchedulingType)
	}
	if where.CommunicationType != "" {
		query = query.Where("communication_type = ?", where.CommunicationType)
	}
	if where.InterpretingType != "" {
		query = query.Where("interpreting_type = ?", where.InterpretingType)
	}
	if where.Qualifier != "" {
		query = query.Where("qualifier = ?", where.Qualifier)
	}
	if where.DetailSequence != "" {
		query = query.Where("details_sequence = ?", where.DetailSequence)
	}
	return query
}
