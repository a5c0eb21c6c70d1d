package domain

import "errors"

var (
	ErrQuoteNotFound       = errors.New("quote_not_found")
	ErrInvalidQuoteKind    = errors.New("invalid_quote_kind")
	ErrInvalidQuoteID      = errors.New("invalid_quote_id")
	ErrUnsupportedFormat   = errors.New("unsupported_export_format")
	ErrInvalidExportPeriod = errors.New("invalid_export_period")
)
