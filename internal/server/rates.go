package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/linguahub/linguahub/internal/seed"
	"go.uber.org/zap"
)

// @Summary      List rate rows
// @Tags         rates
// @Produce      json
// @Security     ApiKeyAuth
// @Param        interpreter_type   query  string  false  "Interpreter type"
// @Param        interpreting_type  query  string  false  "Interpreting type"
// @Param        qualifier          query  string  false  "standard_hours or after_hours"
// @Success      200  {object}  ListResponse
// @Router       /rates [get]
func (s *Server) ListRates(c *gin.Context) {
	var opts ratedomain.ListOptions
	if v := strings.TrimSpace(c.Query("interpreter_type")); v != "" {
		it := ratedomain.InterpreterType(v)
		opts.InterpreterType = &it
	}
	if v := strings.TrimSpace(c.Query("interpreting_type")); v != "" {
		pt := ratedomain.InterpretingType(v)
		opts.InterpretingType = &pt
	}
	if v := strings.TrimSpace(c.Query("qualifier")); v != "" {
		q := ratedomain.RateQualifier(v)
		opts.Qualifier = &q
	}

	rows, err := s.rateRepo.List(c.Request.Context(), opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, rows, len(rows))
}

// @Summary      Create or replace a rate row
// @Description  Rows are matched by code. A missing code is derived from the discriminators.
// @Tags         rates
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  DataResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /rates [put]
func (s *Server) UpsertRate(c *gin.Context) {
	var row ratedomain.RateRow
	if err := c.ShouldBindJSON(&row); err != nil {
		AbortWithError(c, invalidRequestError(err))
		return
	}

	row.ID = 0
	row.Code = strings.TrimSpace(row.Code)
	if row.Code == "" {
		row.Code = seed.CodeFor(row)
	}

	if err := s.rateRepo.Upsert(c.Request.Context(), &row); err != nil {
		AbortWithError(c, err)
		return
	}

	fields := []zap.Field{zap.String("code", row.Code), zap.String("rate_id", row.ID.String())}
	if p, ok := principalFrom(c); ok {
		fields = append(fields, zap.String("api_key", p.Name))
	}
	requestLogger(c, s.log).Info("rate row upserted", fields...)

	respondData(c, row)
}
