package domain

import "context"

type ListOptions struct {
	InterpreterType  *InterpreterType
	InterpretingType *InterpretingType
	Qualifier        *RateQualifier
}

type Repository interface {
	// GetRate returns the single row matching where, loading only the
	// requested monetary columns. Zero matches yield ErrRateNotFound and
	// several matches yield ErrAmbiguousRate.
	GetRate(ctx context.Context, where Discriminators, sel ColumnSet) (*RateRow, error)
	Upsert(ctx context.Context, row *RateRow) error
	List(ctx context.Context, opts ListOptions) ([]RateRow, error)
}
