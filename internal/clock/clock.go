// Package clock supplies the instant quotes are stamped with and retention
// cutoffs are measured from.
package clock

import (
	"context"
	"time"
)

// Clock reports the current instant.
type Clock interface {
	Now(ctx context.Context) time.Time
}

// DaysBefore returns the instant n calendar days before c's current time.
func DaysBefore(ctx context.Context, c Clock, n int) time.Time {
	return c.Now(ctx).AddDate(0, 0, -n)
}
