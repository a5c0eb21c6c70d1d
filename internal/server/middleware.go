package server

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linguahub/linguahub/internal/authorization"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-Id"
	headerAPIKey    = "X-API-Key"

	contextLoggerKey    = "logger"
	contextRequestIDKey = "request_id"
	contextPrincipalKey = "principal"
)

// RequestID tags every request with a ulid and a request-scoped logger. A
// well-formed incoming id is kept.
func (s *Server) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if _, err := ulid.ParseStrict(id); err != nil {
			id = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		}

		c.Set(contextRequestIDKey, id)
		c.Set(contextLoggerKey, s.log.With(zap.String("request_id", id)))
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// AccessLog writes one line per request once the handler chain is done.
func (s *Server) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := requestLogger(c, s.log)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		log.Info("http request", fields...)
	}
}

// Recovery turns a panic into a 500 response.
func (s *Server) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestLogger(c, s.log).Error("panic while serving request", zap.Any("panic", recovered))
		AbortWithError(c, ErrInternal)
	})
}

// APIKeyRequired authenticates the X-API-Key header and checks the key's role
// may perform act on obj. It passes everything through when authorization is
// disabled.
func (s *Server) APIKeyRequired(obj, act string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.authz.Enabled() {
			c.Next()
			return
		}

		principal, err := s.authz.Authenticate(c.GetHeader(headerAPIKey))
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if err := s.authz.Authorize(principal, obj, act); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextPrincipalKey, principal)
		c.Set(contextLoggerKey, requestLogger(c, s.log).With(zap.String("api_key", principal.Name)))
		c.Next()
	}
}

func requestLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := c.Get(contextLoggerKey); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return fallback
}

func principalFrom(c *gin.Context) (authorization.Principal, bool) {
	v, ok := c.Get(contextPrincipalKey)
	if !ok {
		return authorization.Principal{}, false
	}
	p, ok := v.(authorization.Principal)
	return p, ok
}
