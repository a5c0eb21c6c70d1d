package domain

import "errors"

var (
	// ErrIncorrectRateConfiguration means a price or duration needed to
	// finish the calculation is absent for the requested combination.
	ErrIncorrectRateConfiguration = errors.New("incorrect_rate_configuration")
	ErrConflictingWindowOverride  = errors.New("conflicting_window_override")
	ErrInvalidDuration            = errors.New("invalid_duration")
	ErrInvalidScheduleInstant     = errors.New("invalid_schedule_instant")
	ErrInvalidPriceRequest        = errors.New("invalid_price_request")
	ErrInvalidTimezone            = errors.New("invalid_timezone")
	ErrInvalidStandardHours       = errors.New("invalid_standard_hours")
)
