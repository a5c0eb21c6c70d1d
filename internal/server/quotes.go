package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
)

type oneDayQuoteRequest struct {
	pricingdomain.PriceRequest

	Duration        int                 `json:"duration"`
	ScheduleInstant time.Time           `json:"schedule_instant"`
	GstPayer        bool                `json:"gst_payer"`
	PriceFor        ratedomain.PriceFor `json:"price_for"`
	ForceNormalTime bool                `json:"force_normal_time"`
	ForceOvertime   bool                `json:"force_overtime"`
}

type additionalBlockQuoteRequest struct {
	pricingdomain.PriceRequest

	BlockDuration        int                 `json:"block_duration"`
	BlockScheduleInstant time.Time           `json:"block_schedule_instant"`
	GstPayer             bool                `json:"gst_payer"`
	PriceFor             ratedomain.PriceFor `json:"price_for"`
}

// @Summary      Quote one day
// @Description  Price one day of an appointment and store the quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body oneDayQuoteRequest true "One-day quote request"
// @Success      200  {object}  DataResponse
// @Failure      422  {object}  ErrorResponse
// @Router       /quotes/one-day [post]
func (s *Server) CreateOneDayQuote(c *gin.Context) {
	var req oneDayQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}

	q, err := s.quoteSvc.Quote(c.Request.Context(), quotedomain.QuoteRequest{
		Kind:            quotedomain.QuoteKindOneDay,
		Request:         trimRequest(req.PriceRequest),
		Duration:        req.Duration,
		ScheduleInstant: req.ScheduleInstant,
		GstPayer:        req.GstPayer,
		PriceFor:        req.PriceFor,
		ForceNormalTime: req.ForceNormalTime,
		ForceOvertime:   req.ForceOvertime,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, q)
}

// @Summary      Quote an additional block
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body additionalBlockQuoteRequest true "Additional block quote request"
// @Success      200  {object}  DataResponse
// @Router       /quotes/additional-block [post]
func (s *Server) CreateAdditionalBlockQuote(c *gin.Context) {
	var req additionalBlockQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}

	q, err := s.quoteSvc.Quote(c.Request.Context(), quotedomain.QuoteRequest{
		Kind:            quotedomain.QuoteKindAdditionalBlock,
		Request:         trimRequest(req.PriceRequest),
		Duration:        req.BlockDuration,
		ScheduleInstant: req.BlockScheduleInstant,
		GstPayer:        req.GstPayer,
		PriceFor:        req.PriceFor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, q)
}

func (s *Server) ListQuotes(c *gin.Context) {
	filter, err := parseQuoteFilter(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	quotes, err := s.quoteSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, quotes, len(quotes))
}

func (s *Server) GetQuoteByID(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, quotedomain.ErrInvalidQuoteID)
		return
	}

	q, err := s.quoteSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, q)
}

func (s *Server) GetQuoteReceipt(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, quotedomain.ErrInvalidQuoteID)
		return
	}

	pdf, err := s.quoteSvc.RenderReceipt(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"quote_"+id.String()+".pdf\"")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ExportQuotes handles GET /api/v1/quotes/export.{csv,json}
func (s *Server) ExportQuotes(format quotedomain.ExportFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseQuoteFilter(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		result, err := s.quoteSvc.Export(c.Request.Context(), quotedomain.ExportRequest{
			Filter: filter,
			Format: format,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Header("X-Quote-Export-Checksum", result.Checksum)
		c.Header("X-Quote-Export-Count", strconv.Itoa(result.Count))

		var contentType string
		switch result.Format {
		case quotedomain.ExportFormatJSON:
			contentType = "application/json"
		default:
			contentType = "text/csv"
		}
		c.Header("Content-Disposition", "attachment; filename=\"quotes_export."+string(result.Format)+"\"")
		c.Data(http.StatusOK, contentType, result.Data)
	}
}

// parseQuoteFilter reads kind, interpreter_type, from, to (RFC 3339) and limit.
func parseQuoteFilter(c *gin.Context) (quotedomain.ListFilter, error) {
	filter := quotedomain.ListFilter{
		Kind:            quotedomain.QuoteKind(strings.TrimSpace(c.Query("kind"))),
		InterpreterType: ratedomain.InterpreterType(strings.TrimSpace(c.Query("interpreter_type"))),
	}
	switch filter.Kind {
	case "", quotedomain.QuoteKindOneDay, quotedomain.QuoteKindAdditionalBlock:
	default:
		return filter, quotedomain.ErrInvalidQuoteKind
	}

	var err error
	if v := strings.TrimSpace(c.Query("from")); v != "" {
		if filter.From, err = time.Parse(time.RFC3339, v); err != nil {
			return filter, invalidRequestError(err)
		}
	}
	if v := strings.TrimSpace(c.Query("to")); v != "" {
		if filter.To, err = time.Parse(time.RFC3339, v); err != nil {
			return filter, invalidRequestError(err)
		}
	}
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil || filter.Limit < 0 {
			return filter, invalidRequestError(err)
		}
	}
	return filter, nil
}

func trimRequest(r pricingdomain.PriceRequest) pricingdomain.PriceRequest {
	r.InterpreterTimezone = strings.TrimSpace(r.InterpreterTimezone)
	r.ClientTimezone = strings.TrimSpace(r.ClientTimezone)
	return r
}
