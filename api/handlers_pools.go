package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleGetPools returns all registered pools.
func (s *Server) handleGetPools(c *gin.Context) {
	pools, err := s.keeper.GetAllPools()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pools": pools,
		"count": len(pools),
	})
}

// handleGetPool returns a specific pool by id.
func (s *Server) handleGetPool(c *gin.Context) {
	pool, err := s.keeper.GetPool(c.Param("pool_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pool)
}

// handleCreatePool registers a new pool.
func (s *Server) handleCreatePool(c *gin.Context) {
	var req createPoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	price, err := parseDec("initial_price", req.InitialPrice)
	if err != nil {
		writeError(c, err)
		return
	}

	poolID, err := s.keeper.CreatePool(req.Asset0, req.Asset1, req.FeeTierBps, price)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pool_id": poolID})
}

// handleGetPoolPositions lists all positions of one pool.
func (s *Server) handleGetPoolPositions(c *gin.Context) {
	poolID := c.Param("pool_id")
	if _, err := s.keeper.GetPool(poolID); err != nil {
		writeError(c, err)
		return
	}
	positions, err := s.keeper.GetPoolPositions(poolID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"positions": positions,
		"count":     len(positions),
	})
}

// handleAddLiquidity deposits into a tick-ranged position.
func (s *Server) handleAddLiquidity(c *gin.Context) {
	var req addLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	amount0, err := parseInt("amount0_desired", req.Amount0Desired)
	if err != nil {
		writeError(c, err)
		return
	}
	amount1, err := parseInt("amount1_desired", req.Amount1Desired)
	if err != nil {
		writeError(c, err)
		return
	}

	liquidity, used0, used1, err := s.keeper.AddLiquidity(
		c.Param("pool_id"), req.Owner, req.TickLower, req.TickUpper, amount0, amount1)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, addLiquidityResponse{
		Liquidity: liquidity.String(),
		Amount0:   used0.String(),
		Amount1:   used1.String(),
	})
}

// handleRemoveLiquidity withdraws from a position.
func (s *Server) handleRemoveLiquidity(c *gin.Context) {
	var req removeLiquidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	liquidity, err := parseInt("liquidity", req.Liquidity)
	if err != nil {
		writeError(c, err)
		return
	}

	amount0, amount1, err := s.keeper.RemoveLiquidity(
		c.Param("pool_id"), req.Owner, req.TickLower, req.TickUpper, liquidity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, removeLiquidityResponse{
		Amount0: amount0.String(),
		Amount1: amount1.String(),
	})
}
