package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRateNotFound    = errors.New("rate_not_found")
	ErrAmbiguousRate   = fmt.Errorf("%w: ambiguous_rate", ErrRateNotFound)
	ErrUnknownTopic    = errors.New("unknown_topic")
	ErrUnknownPriceFor = errors.New("unknown_price_for")
	ErrInvalidRate     = errors.New("invalid_rate")
)
