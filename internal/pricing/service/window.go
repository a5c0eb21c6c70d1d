package service

import (
	"time"

	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
)

// forcedStartOffset places a forced start just inside the requested window.
const forcedStartOffset = 10 * time.Minute

type windowKind int

const (
	windowStandard windowKind = iota
	windowAfterHours
	windowStraddling
)

func (k windowKind) String() string {
	switch k {
	case windowStandard:
		return "standard_hours"
	case windowAfterHours:
		return "after_hours"
	default:
		return "straddling"
	}
}

// window is the classification of one priced interval against standard hours.
type window struct {
	kind  windowKind
	start time.Time
	end   time.Time

	boundaryStart time.Time
	boundaryEnd   time.Time

	// minutesBeforePeak is the length of the part before the crossed
	// boundary. Only set for straddling intervals.
	minutesBeforePeak int
}

// qualifier is the rate window of the interval start.
func (w window) qualifier() ratedomain.RateQualifier {
	switch w.kind {
	case windowStandard:
		return ratedomain.RateQualifierStandardHours
	case windowAfterHours:
		return ratedomain.RateQualifierAfterHours
	default:
		if w.start.Before(w.boundaryStart) || !w.start.Before(w.boundaryEnd) {
			return ratedomain.RateQualifierAfterHours
		}
		return ratedomain.RateQualifierStandardHours
	}
}

// resolveWindow classifies [start, start+duration) against the standard hours
// of start's calendar day. start must already be in the zone whose clock
// defines standard hours.
func resolveWindow(start time.Time, duration int, hours pricingdomain.StandardHours, forceNormal, forceOvertime bool) (window, error) {
	if forceNormal && forceOvertime {
		return window{}, pricingdomain.ErrConflictingWindowOverride
	}

	start = start.Truncate(time.Minute)
	switch {
	case forceNormal:
		start = hours.Start.On(start).Add(forcedStartOffset)
	case forceOvertime:
		start = hours.End.On(start).Add(forcedStartOffset)
	}

	w := window{
		start:         start,
		end:           start.Add(time.Duration(duration) * time.Minute),
		boundaryStart: hours.Start.On(start),
		boundaryEnd:   hours.End.On(start),
	}

	beforeStart := !w.end.After(w.boundaryStart)
	afterEnd := !w.start.Before(w.boundaryEnd)
	insideStandard := !w.start.Before(w.boundaryStart) && !w.end.After(w.boundaryEnd)

	switch {
	case beforeStart || afterEnd:
		w.kind = windowAfterHours
	case insideStandard:
		w.kind = windowStandard
	default:
		w.kind = windowStraddling
		w.minutesBeforePeak = minutesBetween(w.start, hours.NextBoundary(w.start))
	}
	return w, nil
}

func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}
