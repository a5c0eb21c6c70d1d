package service

import (
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
)

// flatRateColumn picks the column read for escort and simultaneous
// interpreting. Special topics follow the regular selector. General topics
// always read the client-paid special column with GST, whatever the role or
// GST flag; this mirrors the current rate sheet and is kept as is until
// product confirms otherwise.
func flatRateColumn(topic ratedomain.Topic, priceFor ratedomain.PriceFor, gstPayer bool) (ratedomain.Column, error) {
	special, err := topic.IsSpecial()
	if err != nil {
		return ratedomain.ColumnUnknown, err
	}
	if special {
		return ratedomain.SelectColumn(topic, priceFor, gstPayer)
	}
	return ratedomain.ColumnPaidByClientSpecialWithGst, nil
}

// flatRateDiscriminators keys the single flat-rate row.
func flatRateDiscriminators(req pricingdomain.PriceRequest) ratedomain.Discriminators {
	return ratedomain.Discriminators{
		InterpreterType:  req.InterpreterType,
		InterpretingType: req.InterpretingType,
	}
}

func calculateFlatRate(row *ratedomain.RateRow, col ratedomain.Column, duration int) (*pricingdomain.CalculationResult, error) {
	price := row.Price(col)
	if !price.Valid {
		return nil, pricingdomain.ErrIncorrectRateConfiguration
	}
	acc := &blockAccumulator{}
	acc.add(round2(price.Decimal), duration)
	return acc.result(duration), nil
}
