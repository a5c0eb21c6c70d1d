package service

import (
	"fmt"

	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
)

// calculateAdditionalBlock prices exactly one additional block. The block
// must be as long as the additional tier of the window it starts in. A block
// inside one window is returned at that window's additional rate; a block
// crossing the boundary is split by the minutes on each side.
func calculateAdditionalBlock(w window, duration int, book rateBook) (*pricingdomain.CalculationResult, error) {
	q := w.qualifier()
	block := book[q].additional
	if err := block.require(string(q) + " additional block"); err != nil {
		return nil, err
	}
	if duration != *block.duration {
		return nil, fmt.Errorf("%w: %d minute block against a %d minute %s additional tier",
			pricingdomain.ErrIncorrectRateConfiguration, duration, *block.duration, q)
	}

	acc := &blockAccumulator{}
	if w.kind != windowStraddling {
		acc.add(block.fullPrice(), *block.duration)
		return acc.result(duration), nil
	}

	other := book[q.Opposite()].additional
	if err := other.require(string(q.Opposite()) + " additional block"); err != nil {
		return nil, err
	}

	before := w.minutesBeforePeak
	after := duration - before
	acc.add(block.prorate(before), before)
	acc.add(other.prorate(after), after)
	return acc.result(duration), nil
}
