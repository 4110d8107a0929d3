package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/garagebook/internal/observability/context"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-Id"

	maxRequestIDLen = 128
)

type MiddlewareConfig struct {
	Debug bool
	// ErrorClassifier maps a handler error to its public type and code.
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware writes one http_request line per request. Query strings and
// bodies are never logged.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDFor(c)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		fields := append(requestFields(c, route, status, time.Since(start)), errorFields(c, cfg, status)...)

		log := FromContext(c.Request.Context())
		switch {
		case route == "/health" || route == "/metrics":
			log.Debug("http_request", fields...)
		case status >= http.StatusInternalServerError:
			log.Error("http_request", fields...)
		case status == http.StatusTooManyRequests:
			log.Warn("http_request", fields...)
		default:
			log.Info("http_request", fields...)
		}
	}
}

func requestFields(c *gin.Context, route string, status int, elapsed time.Duration) []zap.Field {
	return []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("route", route),
		zap.Int("status", status),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
		zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
		zap.Int("bytes_out", max(c.Writer.Size(), 0)),
	}
}

func errorFields(c *gin.Context, cfg MiddlewareConfig, status int) []zap.Field {
	lastErr := c.Errors.Last()
	if lastErr == nil {
		return nil
	}

	errorType, errorCode := "", ""
	if cfg.ErrorClassifier != nil {
		errorType, errorCode = cfg.ErrorClassifier(lastErr.Err)
	}
	fields := []zap.Field{
		zap.String("error_type", errorType),
		zap.String("error_code", errorCode),
	}
	// Raw errors can carry SQL or driver detail, so only server failures log them.
	if status >= http.StatusInternalServerError {
		fields = append(fields, zap.Error(lastErr.Err))
		if cfg.Debug {
			fields = append(fields, zap.Stack("stack"))
		}
	}
	return fields
}

// requestIDFor keeps a sane caller supplied id or mints a new one.
func requestIDFor(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
	if requestID == "" || len(requestID) > maxRequestIDLen {
		requestID = uuid.NewString()
	}
	c.Header(RequestIDHeader, requestID)
	return requestID
}
