package server

import (
	"context"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/auth"
	"github.com/smallbiznis/garagebook/internal/observability/logger"
	"github.com/smallbiznis/garagebook/internal/ratelimit"
	"go.uber.org/zap"
)

type accountLimiter interface {
	Enabled() bool
	Allow(ctx context.Context, accountID uuid.UUID) (ratelimit.Result, error)
}

// AuthRequired resolves the bearer token into the caller's identity.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.ReadToken(c)
		if !ok {
			AbortWithError(c, auth.ErrMissingToken)
			return
		}

		identity, err := s.verifier.Verify(token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("token rejected", zap.Error(err))
			AbortWithError(c, err)
			return
		}

		c.Request = c.Request.WithContext(accountcontext.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RateLimit throttles per account and must run after AuthRequired.
func (s *Server) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil || !s.limiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		accountID, ok := accountcontext.AccountIDFromContext(ctx)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		res, err := s.limiter.Allow(ctx, accountID)
		if err != nil {
			logger.FromContext(ctx).Warn("rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(res)))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

func retryAfterSeconds(res ratelimit.Result) int {
	return max(int(math.Ceil(res.RetryAfter.Seconds())), 1)
}

func methodNotAllowed(c *gin.Context) {
	AbortWithError(c, ErrMethodNotAllowed)
}

func routeNotFound(c *gin.Context) {
	AbortWithError(c, ErrNotFound)
}
