package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

//go:generate mockgen -destination=mocks/repository.go -package=mocks . Repository

type Repository interface {
	// Insert stores q unless a quote with the same checksum exists, in which
	// case the stored quote is returned instead.
	Insert(ctx context.Context, q *PriceQuote) (*PriceQuote, error)
	FindByID(ctx context.Context, id snowflake.ID) (*PriceQuote, error)
	List(ctx context.Context, filter ListFilter) ([]PriceQuote, error)
}
