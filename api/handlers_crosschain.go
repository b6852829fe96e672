package api

import (
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paw-chain/dexcore/x/dex/types"
)

// handleInitiateCrossChainSwap locks funds and records a new commitment.
func (s *Server) handleInitiateCrossChainSwap(c *gin.Context) {
	var req initiateCrossChainSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	amountIn, err := parseInt("amount_in", req.AmountIn)
	if err != nil {
		writeError(c, err)
		return
	}
	expectedOut, err := parseInt("expected_amount_out", req.ExpectedAmountOut)
	if err != nil {
		writeError(c, err)
		return
	}

	swapHash, err := s.keeper.InitiateCrossChainSwap(
		req.Initiator, req.AssetIn, req.AssetOut,
		amountIn, expectedOut,
		req.DestinationChainID, req.DestinationAddress, req.Deadline)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"swap_hash": swapHash})
}

// handleGetCrossChainSwaps lists all recorded cross-chain swaps.
func (s *Server) handleGetCrossChainSwaps(c *gin.Context) {
	swaps, err := s.keeper.GetAllCrossChainSwaps()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"swaps": swaps,
		"count": len(swaps),
	})
}

// handleGetCrossChainSwap returns one commitment by hash.
func (s *Server) handleGetCrossChainSwap(c *gin.Context) {
	swap, err := s.keeper.GetCrossChainSwap(c.Param("swap_hash"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, swap)
}

// handleCompleteCrossChainSwap settles a commitment against a hex-encoded
// proof.
func (s *Server) handleCompleteCrossChainSwap(c *gin.Context) {
	var req completeCrossChainSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	proof, err := hex.DecodeString(req.Proof)
	if err != nil {
		writeError(c, types.ErrInvalidProof.Wrapf("proof must be hex encoded: %v", err))
		return
	}

	if err := s.keeper.CompleteCrossChainSwap(c.Param("swap_hash"), proof); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": true})
}

// handleRefundCrossChainSwap returns escrowed funds after the deadline.
func (s *Server) handleRefundCrossChainSwap(c *gin.Context) {
	if err := s.keeper.RefundCrossChainSwap(c.Param("swap_hash")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refunded": true})
}
