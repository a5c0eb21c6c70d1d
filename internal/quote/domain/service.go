package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*PriceQuote, error)
	Get(ctx context.Context, id snowflake.ID) (*PriceQuote, error)
	List(ctx context.Context, filter ListFilter) ([]PriceQuote, error)
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
	RenderReceipt(ctx context.Context, id snowflake.ID) ([]byte, error)
}
