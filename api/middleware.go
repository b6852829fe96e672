package api

import (
	"net/http"
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// corsMiddleware applies the configured CORS policy.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if _, ok := allowed[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLogger logs every request with latency and status.
func requestLogger(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  uint32 `json:"code,omitempty"`
}

// writeError maps engine sentinel errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsOf(err, types.ErrPoolNotFound, types.ErrSwapNotFound):
		status = http.StatusNotFound
	case errors.IsOf(err, types.ErrDuplicatePool, types.ErrAlreadyCompleted):
		status = http.StatusConflict
	case errors.IsOf(err,
		types.ErrIdenticalAssets, types.ErrInvalidRange, types.ErrInvalidPath,
		types.ErrDeadlineInPast, types.ErrInvalidAmount, types.ErrSameChain,
		types.ErrInvalidIdentifier):
		status = http.StatusBadRequest
	case errors.IsOf(err,
		types.ErrSlippageExceeded, types.ErrExcessivePriceImpact,
		types.ErrInsufficientPositionLiquidity, types.ErrInsufficientBalance,
		types.ErrInactivePool, types.ErrDeadlineExceeded, types.ErrRefundNotAvailable):
		status = http.StatusUnprocessableEntity
	case errors.IsOf(err, types.ErrMEVDetected, types.ErrInvalidProof):
		status = http.StatusForbidden
	case errors.IsOf(err, types.ErrNotOwner):
		status = http.StatusUnauthorized
	}

	resp := ErrorResponse{Error: err.Error()}
	if _, code, _ := errors.ABCIInfo(err, false); code != 0 {
		resp.Code = code
	}
	c.JSON(status, resp)
}
