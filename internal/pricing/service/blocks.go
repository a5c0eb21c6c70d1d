package service

import (
	"fmt"

	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/shopspring/decimal"
)

// tier is the price and length of one rate row for the selected column.
// Either field may be absent.
type tier struct {
	price    decimal.NullDecimal
	duration *int
}

func tierFrom(row *ratedomain.RateRow, col ratedomain.Column) tier {
	if row == nil {
		return tier{}
	}
	return tier{price: row.Price(col), duration: row.DetailsTime}
}

func (t tier) complete() bool {
	return t.price.Valid && t.duration != nil && *t.duration > 0
}

func (t tier) require(name string) error {
	if !t.complete() {
		return fmt.Errorf("%w: %s price or duration is missing", pricingdomain.ErrIncorrectRateConfiguration, name)
	}
	return nil
}

// prorate prices minutes of a tier by time.
func (t tier) prorate(minutes int) decimal.Decimal {
	return round2(t.price.Decimal.Mul(decimal.NewFromInt(int64(minutes))).Div(decimal.NewFromInt(int64(*t.duration))))
}

func (t tier) fullPrice() decimal.Decimal {
	return round2(t.price.Decimal)
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// blockAccumulator collects priced blocks and the duration they cover.
type blockAccumulator struct {
	blocks  []pricingdomain.PriceBlock
	covered int
	total   decimal.Decimal
}

func (a *blockAccumulator) add(price decimal.Decimal, minutes int) {
	if minutes <= 0 {
		return
	}
	a.blocks = append(a.blocks, pricingdomain.PriceBlock{Price: price, Duration: minutes})
	a.covered += minutes
	a.total = a.total.Add(price)
}

func (a *blockAccumulator) result(duration int) *pricingdomain.CalculationResult {
	return &pricingdomain.CalculationResult{
		Price:                                round2(a.total),
		PriceByBlocks:                        a.blocks,
		AddedDurationToLastBlockWhenRounding: a.covered - duration,
	}
}

// calculateBaseRate prices an interval that lies wholly inside one window:
// the first tier at full price, then whole additional blocks.
func calculateBaseRate(duration int, base, additional tier) (*pricingdomain.CalculationResult, error) {
	if err := base.require("first minutes"); err != nil {
		return nil, err
	}

	baseDuration := *base.duration
	acc := &blockAccumulator{}
	acc.add(base.fullPrice(), baseDuration)
	if duration <= baseDuration {
		return acc.result(duration), nil
	}

	if err := additional.require("additional block"); err != nil {
		return nil, err
	}

	extraMinutes := duration - baseDuration
	blockDuration := *additional.duration
	extraBlocks := ceilDiv(extraMinutes, blockDuration)
	blockPrice := additional.fullPrice()
	for i := 0; i < extraBlocks; i++ {
		acc.add(blockPrice, blockDuration)
	}
	return acc.result(duration), nil
}
