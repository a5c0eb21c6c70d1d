package domain

import (
	"fmt"
	"time"

	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
)

// ClockTime is a time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidStandardHours, s)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On returns the instant of c on the calendar day of t, in t's location.
func (c ClockTime) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) minutes() int { return c.Hour*60 + c.Minute }

// StandardHours is the daily standard-hours window. Everything outside it is
// after hours. The window is the same for every day.
type StandardHours struct {
	Start ClockTime
	End   ClockTime
}

func NewStandardHours(start, end string) (StandardHours, error) {
	s, err := ParseClockTime(start)
	if err != nil {
		return StandardHours{}, err
	}
	e, err := ParseClockTime(end)
	if err != nil {
		return StandardHours{}, err
	}
	if s.minutes() >= e.minutes() {
		return StandardHours{}, fmt.Errorf("%w: start %s must precede end %s", ErrInvalidStandardHours, s, e)
	}
	return StandardHours{Start: s, End: e}, nil
}

// QualifierAt returns the window t falls in. The start boundary belongs to
// standard hours and the end boundary to after hours.
func (h StandardHours) QualifierAt(t time.Time) ratedomain.RateQualifier {
	if !t.Before(h.Start.On(t)) && t.Before(h.End.On(t)) {
		return ratedomain.RateQualifierStandardHours
	}
	return ratedomain.RateQualifierAfterHours
}

// NextBoundary returns the first window boundary strictly after t.
func (h StandardHours) NextBoundary(t time.Time) time.Time {
	if start := h.Start.On(t); t.Before(start) {
		return start
	}
	if end := h.End.On(t); t.Before(end) {
		return end
	}
	next := t.AddDate(0, 0, 1)
	return h.Start.On(next)
}
