package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultListLimit = 100

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) quotedomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, q *quotedomain.PriceQuote) (*quotedomain.PriceQuote, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "checksum"}}, DoNothing: true}).
		Create(q).Error
	if err != nil {
		return nil, err
	}

	var stored quotedomain.PriceQuote
	if err := r.db.WithContext(ctx).Where("checksum = ?", q.Checksum).Take(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*quotedomain.PriceQuote, error) {
	var q quotedomain.PriceQuote
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, quotedomain.ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repository) List(ctx context.Context, filter quotedomain.ListFilter) ([]quotedomain.PriceQuote, error) {
	query := r.db.WithContext(ctx).Model(&quotedomain.PriceQuote{})

	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.InterpreterType != "" {
		query = query.Where("interpreter_type = ?", filter.InterpreterType)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at < ?", filter.To)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var quotes []quotedomain.PriceQuote
	err := query.Order("created_at ASC, id ASC").Limit(limit).Find(&quotes).Error
	return quotes, err
}
