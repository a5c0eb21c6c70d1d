package domain

import "context"

type Service interface {
	CalculatePriceByOneDay(ctx context.Context, req PriceRequest, params OneDayParams) (*CalculationResult, error)
	CalculateAdditionalBlockPrice(ctx context.Context, req PriceRequest, params AdditionalBlockParams) (*CalculationResult, error)
}
