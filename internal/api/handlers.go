package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/arionlabs/arion/internal/market"
	"github.com/arionlabs/arion/internal/orchestrator"
	"github.com/arionlabs/arion/internal/signal"
)

// AnalyzeRequest carries everything one cycle consumes over the wire. The
// engine fetches nothing itself: price history and headlines arrive in the
// payload, and cross-cycle state (previous matrix, previous sentiment) is
// threaded back by the caller.
type AnalyzeRequest struct {
	Portfolio         map[string][]market.Point `json:"portfolio" binding:"required"`
	Headlines         map[string][]string       `json:"headlines"`
	HitRates          map[string]float64        `json:"hit_rates"`
	SymbolWeights     map[string]float64        `json:"symbol_weights"`
	PreviousMatrix    *signal.CorrelationMatrix `json:"previous_matrix"`
	PreviousSentiment map[string]float64        `json:"previous_sentiment"`
}

// ShockRequest is an analyze request with a simulated market shock applied
// to one symbol before the cycle runs.
type ShockRequest struct {
	AnalyzeRequest
	ShockSymbol string  `json:"shock_symbol" binding:"required"`
	PercentMove float64 `json:"percent_move" binding:"required"`
}

// handleHealth reports liveness
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleAnalyze runs one cycle over the posted portfolio
func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := s.buildInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.runCycle(c, input)
}

// handleShock runs one cycle with a synthetic shock point appended to the
// target symbol's series. The fusion logic is untouched; only the input is.
func (s *Server) handleShock(c *gin.Context) {
	var req ShockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := s.buildInput(req.AnalyzeRequest)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	series, ok := input.Portfolio[req.ShockSymbol]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shock_symbol not present in portfolio: " + req.ShockSymbol})
		return
	}
	input.Portfolio[req.ShockSymbol] = series.WithShock(req.PercentMove)

	s.runCycle(c, input)
}

// buildInput validates the request series and assembles the cycle input
func (s *Server) buildInput(req AnalyzeRequest) (orchestrator.Input, error) {
	portfolio := make(map[string]*market.PriceSeries, len(req.Portfolio))
	for symbol, points := range req.Portfolio {
		series, err := market.NewPriceSeries(points)
		if err != nil {
			return orchestrator.Input{}, fmt.Errorf("invalid series for %s: %w", symbol, err)
		}
		portfolio[symbol] = series
	}

	return orchestrator.Input{
		Portfolio:         portfolio,
		Headlines:         req.Headlines,
		Model:             s.model,
		HitRates:          req.HitRates,
		SymbolWeights:     req.SymbolWeights,
		PreviousMatrix:    req.PreviousMatrix,
		PreviousSentiment: req.PreviousSentiment,
	}, nil
}

// runCycle executes the cycle and writes the wire response
func (s *Server) runCycle(c *gin.Context, input orchestrator.Input) {
	result, err := s.orchestrator.RunCycle(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, orchestrator.ErrTotalInputAbsence) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("Cycle failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
