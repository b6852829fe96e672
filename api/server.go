package api

import (
	"context"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paw-chain/dexcore/internal/config"
	"github.com/paw-chain/dexcore/x/dex/keeper"
)

// Server exposes the engine over REST.
type Server struct {
	router *gin.Engine
	keeper *keeper.Keeper
	cfg    *config.Config
	logger log.Logger
	http   *http.Server
}

// NewServer creates the API server and registers all routes.
func NewServer(k *keeper.Keeper, cfg *config.Config, logger log.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router: router,
		keeper: k,
		cfg:    cfg,
		logger: logger.With("component", "api"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(corsMiddleware(s.cfg.API.CORSOrigins))
	s.router.Use(requestLogger(s.logger))

	s.router.GET("/health", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		s.router.GET(s.cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/pools", s.handleGetPools)
		v1.GET("/pools/:pool_id", s.handleGetPool)
		v1.POST("/pools", s.handleCreatePool)
		v1.GET("/pools/:pool_id/positions", s.handleGetPoolPositions)
		v1.POST("/pools/:pool_id/liquidity", s.handleAddLiquidity)
		v1.DELETE("/pools/:pool_id/liquidity", s.handleRemoveLiquidity)

		v1.POST("/swap", s.handleSwap)
		v1.POST("/swap/multihop", s.handleMultiHopSwap)
		v1.GET("/quote", s.handleQuote)
		v1.GET("/traders/:trader/activity", s.handleGetTraderActivity)

		v1.POST("/crosschain/swaps", s.handleInitiateCrossChainSwap)
		v1.GET("/crosschain/swaps", s.handleGetCrossChainSwaps)
		v1.GET("/crosschain/swaps/:swap_hash", s.handleGetCrossChainSwap)
		v1.POST("/crosschain/swaps/:swap_hash/complete", s.handleCompleteCrossChainSwap)
		v1.POST("/crosschain/swaps/:swap_hash/refund", s.handleRefundCrossChainSwap)
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         s.cfg.API.ListenAddr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.API.Timeout,
		WriteTimeout: s.cfg.API.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down API server")
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"chain_id": s.keeper.Params().ChainID,
	})
}
