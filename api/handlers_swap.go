package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// handleSwap executes a single-pool swap.
func (s *Server) handleSwap(c *gin.Context) {
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	amountIn, err := parseInt("amount_in", req.AmountIn)
	if err != nil {
		writeError(c, err)
		return
	}
	minAmountOut, err := parseInt("min_amount_out", req.MinAmountOut)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := s.keeper.Swap(req.Trader, req.PoolID, req.AssetIn, amountIn, minAmountOut)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleMultiHopSwap routes a swap across a pool path.
func (s *Server) handleMultiHopSwap(c *gin.Context) {
	var req multiHopSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	amountIn, err := parseInt("amount_in", req.AmountIn)
	if err != nil {
		writeError(c, err)
		return
	}
	minAmountOut, err := parseInt("min_amount_out", req.MinAmountOut)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := s.keeper.SwapExactInputMultiHop(req.Trader, req.Path, req.FeeTiers, amountIn, minAmountOut)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleQuote prices a route without executing it. Path and fee tiers arrive
// as comma-separated query parameters:
//
//	GET /api/v1/quote?path=upaw,uusdc&fee_tiers=30&amount_in=1000000
func (s *Server) handleQuote(c *gin.Context) {
	path := strings.Split(c.Query("path"), ",")
	amountIn, err := parseInt("amount_in", c.Query("amount_in"))
	if err != nil {
		writeError(c, err)
		return
	}

	var feeTiers []uint32
	for _, raw := range strings.Split(c.Query("fee_tiers"), ",") {
		tier, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		if err != nil {
			writeError(c, types.ErrInvalidPath.Wrapf("fee tier %q: %v", raw, err))
			return
		}
		feeTiers = append(feeTiers, uint32(tier))
	}

	quote, err := s.keeper.Quote(path, feeTiers, amountIn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// handleGetTraderActivity returns the MEV guard state for a trader.
func (s *Server) handleGetTraderActivity(c *gin.Context) {
	activity, err := s.keeper.GetTraderActivity(c.Param("trader"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}
