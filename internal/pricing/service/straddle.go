package service

import (
	"time"

	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
)

// windowRates holds the two tiers of one window.
type windowRates struct {
	first      tier
	additional tier
}

// rateBook maps each window to its tiers.
type rateBook map[ratedomain.RateQualifier]windowRates

// calculateStraddle prices an interval that crosses at least one window
// boundary by walking it from start.
//
// The first tier is charged at full price when it ends before the boundary.
// Otherwise its part before the boundary is charged by the minute at that
// window's first-tier rate, and the unconsumed share of the tier carries over
// into the next window at that window's first-tier rate, never past the
// requested duration. Additional blocks take the length of the additional
// tier of the window they start in. A block crossing a boundary is charged by
// the minute on each side; every other block is charged at full price.
func calculateStraddle(start time.Time, duration int, hours pricingdomain.StandardHours, book rateBook) (*pricingdomain.CalculationResult, error) {
	acc := &blockAccumulator{}
	mark := start.Truncate(time.Minute)

	q := hours.QualifierAt(mark)
	first := book[q].first
	if err := first.require(string(q) + " first minutes"); err != nil {
		return nil, err
	}

	firstDuration := *first.duration
	toBoundary := minutesBetween(mark, hours.NextBoundary(mark))
	if toBoundary >= firstDuration {
		acc.add(first.fullPrice(), firstDuration)
		mark = mark.Add(time.Duration(firstDuration) * time.Minute)
	} else {
		next := book[q.Opposite()].first
		if err := next.require(string(q.Opposite()) + " first minutes"); err != nil {
			return nil, err
		}

		acc.add(first.prorate(toBoundary), toBoundary)

		carried := ceilDiv((firstDuration-toBoundary)*(*next.duration), firstDuration)
		carried = min(carried, duration-toBoundary)
		acc.add(next.prorate(carried), carried)

		mark = mark.Add(time.Duration(toBoundary+max(carried, 0)) * time.Minute)
	}

	for acc.covered < duration {
		q = hours.QualifierAt(mark)
		block := book[q].additional
		if err := block.require(string(q) + " additional block"); err != nil {
			return nil, err
		}

		blockDuration := *block.duration
		toBoundary = minutesBetween(mark, hours.NextBoundary(mark))
		if toBoundary >= blockDuration {
			acc.add(block.fullPrice(), blockDuration)
		} else {
			other := book[q.Opposite()].additional
			if err := other.require(string(q.Opposite()) + " additional block"); err != nil {
				return nil, err
			}
			acc.add(block.prorate(toBoundary), toBoundary)
			acc.add(other.prorate(blockDuration-toBoundary), blockDuration-toBoundary)
		}
		mark = mark.Add(time.Duration(blockDuration) * time.Minute)
	}

	return acc.result(duration), nil
}
