package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linguahub/linguahub/internal/authorization"
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"go.uber.org/zap"
)

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

type apiError struct {
	status  int
	code    string
	message string
}

// classify maps domain errors onto HTTP responses. Unknown errors are 500s.
func classify(err error) apiError {
	switch {
	case errors.Is(err, authorization.ErrUnauthorized):
		return apiError{http.StatusUnauthorized, "unauthorized", "a valid api key is required"}
	case errors.Is(err, authorization.ErrForbidden):
		return apiError{http.StatusForbidden, "forbidden", "the api key may not perform this action"}

	case errors.Is(err, pricingdomain.ErrIncorrectRateConfiguration):
		return apiError{http.StatusUnprocessableEntity, "incorrect_rate_configuration", "incorrect parameter combination"}
	case errors.Is(err, ratedomain.ErrRateNotFound):
		// Missing rows are a configuration problem on our side.
		return apiError{http.StatusInternalServerError, "rate_not_found", err.Error()}

	case errors.Is(err, quotedomain.ErrQuoteNotFound):
		return apiError{http.StatusNotFound, "quote_not_found", "quote not found"}

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, pricingdomain.ErrConflictingWindowOverride),
		errors.Is(err, pricingdomain.ErrInvalidDuration),
		errors.Is(err, pricingdomain.ErrInvalidScheduleInstant),
		errors.Is(err, pricingdomain.ErrInvalidPriceRequest),
		errors.Is(err, pricingdomain.ErrInvalidTimezone),
		errors.Is(err, ratedomain.ErrUnknownTopic),
		errors.Is(err, ratedomain.ErrUnknownPriceFor),
		errors.Is(err, ratedomain.ErrInvalidRate),
		errors.Is(err, quotedomain.ErrInvalidQuoteKind),
		errors.Is(err, quotedomain.ErrInvalidQuoteID),
		errors.Is(err, quotedomain.ErrUnsupportedFormat),
		errors.Is(err, quotedomain.ErrInvalidExportPeriod):
		return apiError{http.StatusBadRequest, codeOf(err), err.Error()}
	}
	return apiError{http.StatusInternalServerError, ErrInternal.Error(), "internal error"}
}

// codeOf returns the innermost sentinel of a wrapped error.
func codeOf(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// AbortWithError writes the error body and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	e := classify(err)
	if e.status >= http.StatusInternalServerError {
		requestLogger(c, zap.L()).Error("request failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(e.status, ErrorResponse{Error: ErrorBody{Code: e.code, Message: e.message}})
}

func invalidRequestError(err error) error {
	if err == nil {
		return ErrInvalidRequest
	}
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}
