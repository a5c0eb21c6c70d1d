// Package server exposes quoting and rate administration over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linguahub/linguahub/internal/authorization"
	"github.com/linguahub/linguahub/internal/config"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	log    *zap.Logger
	db     *gorm.DB

	quoteSvc quotedomain.Service
	rateRepo ratedomain.Repository
	authz    *authorization.Authorizer
	gatherer prometheus.Gatherer
}

type ServerParam struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	QuoteSvc quotedomain.Service
	RateRepo ratedomain.Repository
	Authz    *authorization.Authorizer
	Gatherer prometheus.Gatherer
}

func NewServer(p ServerParam) *Server {
	if p.Cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:   gin.New(),
		log:      p.Log.Named("server"),
		db:       p.DB,
		quoteSvc: p.QuoteSvc,
		rateRepo: p.RateRepo,
		authz:    p.Authz,
		gatherer: p.Gatherer,
	}
	s.engine.Use(s.RequestID(), s.AccessLog(), s.Recovery())
	s.RegisterRoutes()
	return s
}

// Handler returns the root http handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) RegisterRoutes() {
	s.engine.GET("/healthz", s.Health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	api := s.engine.Group("/api/v1")

	quotes := api.Group("/quotes")
	quotes.POST("/one-day", s.APIKeyRequired(authorization.ObjectQuotes, authorization.ActionWrite), s.CreateOneDayQuote)
	quotes.POST("/additional-block", s.APIKeyRequired(authorization.ObjectQuotes, authorization.ActionWrite), s.CreateAdditionalBlockQuote)

	quotes.Use(s.APIKeyRequired(authorization.ObjectQuotes, authorization.ActionRead))
	quotes.GET("", s.ListQuotes)
	quotes.GET("/export.csv", s.ExportQuotes(quotedomain.ExportFormatCSV))
	quotes.GET("/export.json", s.ExportQuotes(quotedomain.ExportFormatJSON))
	quotes.GET("/:id", s.GetQuoteByID)
	quotes.GET("/:id/receipt.pdf", s.GetQuoteReceipt)

	rates := api.Group("/rates")
	rates.GET("", s.APIKeyRequired(authorization.ObjectRates, authorization.ActionRead), s.ListRates)
	rates.PUT("", s.APIKeyRequired(authorization.ObjectRates, authorization.ActionWrite), s.UpsertRate)
}
