// Package orchestrator runs one analysis cycle: fan out to the four agents,
// fuse their signals, and run the advisory table over the result.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arionlabs/arion/internal/agents"
	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/forecast"
	"github.com/arionlabs/arion/internal/fusion"
	"github.com/arionlabs/arion/internal/market"
	"github.com/arionlabs/arion/internal/metrics"
	"github.com/arionlabs/arion/internal/signal"
)

// ErrTotalInputAbsence is the only condition that aborts a cycle: an empty
// portfolio leaves nothing to analyze. Every other failure degrades to a
// neutral signal inside the cycle.
var ErrTotalInputAbsence = errors.New("empty portfolio: no symbols to analyze")

// State tracks a cycle through its lifecycle
type State string

const (
	StateIdle        State = "IDLE"
	StateCollecting  State = "COLLECTING"
	StateAggregating State = "AGGREGATING"
	StateDone        State = "DONE"
	StateFailed      State = "FAILED"
)

// Input is everything one cycle consumes. A cycle is a pure function of its
// input: cross-cycle state (the previous correlation matrix, prior sentiment
// aggregates) is threaded explicitly by the caller, never held by the
// orchestrator.
type Input struct {
	// Portfolio maps each symbol to its price history. Required.
	Portfolio map[string]*market.PriceSeries

	// Headlines maps symbols to recent news headlines. Optional; absent
	// news degrades sentiment confidence, it is not an error.
	Headlines map[string][]string

	// Model is the predictive model the forecast agent consults. Optional.
	Model forecast.PredictiveModel

	// HitRates maps symbols to externally measured forecast direction
	// accuracy. Optional.
	HitRates map[string]float64

	// SymbolWeights overrides equal weighting when averaging per-symbol
	// signals to portfolio level. Optional.
	SymbolWeights map[string]float64

	// PreviousMatrix is the prior cycle's correlation matrix, used for
	// delta alerts. Optional.
	PreviousMatrix *signal.CorrelationMatrix

	// PreviousSentiment maps symbols to the prior cycle's mean sentiment,
	// used for shift alerts. Optional.
	PreviousSentiment map[string]float64
}

// UnifiedResult is the immutable output of one completed cycle
type UnifiedResult struct {
	ID              uuid.UUID                          `json:"id"`
	GeneratedAt     time.Time                          `json:"generated_at"`
	State           State                              `json:"state"`
	Score           *float64                           `json:"unified_risk_score"` // nil on INSUFFICIENT_DATA
	Level           fusion.Level                       `json:"risk_level"`
	AgentSignals    map[signal.AgentKind]signal.Signal `json:"agent_signals"`
	Alerts          []signal.Alert                     `json:"alerts"` // capped for presentation
	AllAlerts       []signal.Alert                     `json:"-"`      // full ordered set
	Recommendations []fusion.Recommendation            `json:"recommendations"`
	Matrix          *signal.CorrelationMatrix          `json:"correlation_matrix,omitempty"`
	Summary         string                             `json:"summary"`
}

// CycleOrchestrator wires the four agents to the aggregator and advisor
type CycleOrchestrator struct {
	cfg         config.EngineConfig
	risk        *agents.RiskAgent
	forecast    *agents.ForecastAgent
	sentiment   *agents.SentimentAgent
	correlation *agents.CorrelationAgent
	aggregator  *fusion.Aggregator
	advisor     *fusion.AdvisoryEngine
	log         zerolog.Logger
}

// New creates an orchestrator with default agents built from cfg. scorer is
// the headline sentiment scorer to inject into the sentiment agent.
func New(cfg config.EngineConfig, scorer agents.Scorer) *CycleOrchestrator {
	return &CycleOrchestrator{
		cfg:         cfg,
		risk:        agents.NewRiskAgent(cfg.Risk, nil),
		forecast:    agents.NewForecastAgent(cfg.Forecast),
		sentiment:   agents.NewSentimentAgent(cfg.Sentiment, scorer, nil),
		correlation: agents.NewCorrelationAgent(cfg.Correlation, nil),
		aggregator:  fusion.NewAggregator(cfg.Weights, cfg.Levels),
		advisor:     fusion.NewAdvisoryEngine(),
		log:         config.NewLogger("orchestrator"),
	}
}

// RunCycle executes one full analysis cycle. Agents run concurrently, each
// bounded by the configured timeout; any agent failure, panic, or timeout
// collapses to a neutral, zero-confidence signal and the cycle continues.
// Only an empty portfolio aborts. The returned matrix is the caller's handle
// for the next cycle's delta alerts.
func (o *CycleOrchestrator) RunCycle(ctx context.Context, in Input) (*UnifiedResult, error) {
	start := time.Now()
	metrics.CyclesTotal.Inc()

	cycleID := uuid.New()
	log := o.log.With().Str("cycle_id", cycleID.String()).Logger()

	if len(in.Portfolio) == 0 {
		metrics.CyclesFailed.Inc()
		log.Error().Msg("Cycle failed: empty portfolio")
		return nil, ErrTotalInputAbsence
	}

	log.Info().Int("symbols", len(in.Portfolio)).Str("state", string(StateCollecting)).Msg("Cycle started")

	var (
		riskSig, forecastSig, sentimentSig, correlationSig signal.Signal
		matrix                                             *signal.CorrelationMatrix
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		riskSig, _ = o.collect(gctx, signal.KindRisk, func(context.Context) (signal.Signal, *signal.CorrelationMatrix, error) {
			return o.riskPortfolio(in), nil, nil
		})
		return nil
	})
	g.Go(func() error {
		forecastSig, _ = o.collect(gctx, signal.KindForecast, func(actx context.Context) (signal.Signal, *signal.CorrelationMatrix, error) {
			return o.forecastPortfolio(actx, in), nil, nil
		})
		return nil
	})
	g.Go(func() error {
		sentimentSig, _ = o.collect(gctx, signal.KindSentiment, func(context.Context) (signal.Signal, *signal.CorrelationMatrix, error) {
			return o.sentimentPortfolio(in)
		})
		return nil
	})
	g.Go(func() error {
		correlationSig, matrix = o.collect(gctx, signal.KindCorrelation, func(context.Context) (signal.Signal, *signal.CorrelationMatrix, error) {
			return o.correlation.Analyze(in.Portfolio, in.PreviousMatrix)
		})
		return nil
	})
	// Collection goroutines never return errors; Wait is a pure join
	_ = g.Wait()

	// Cooperative cancellation point: aggregation is pure computation, so
	// once started it runs to completion.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cycle %s cancelled before aggregation: %w", cycleID, err)
	}

	log.Debug().Str("state", string(StateAggregating)).Msg("Fusing agent signals")

	score, level := o.aggregator.Combine(riskSig, forecastSig, sentimentSig, correlationSig)
	allAlerts := signal.CollateAlerts(riskSig, forecastSig, sentimentSig, correlationSig)
	recommendations := o.advisor.Advise(score, level, fusion.Labels{
		Risk:        riskSig.Label,
		Forecast:    forecastSig.Label,
		Sentiment:   sentimentSig.Label,
		Correlation: correlationSig.Label,
	})

	result := &UnifiedResult{
		ID:          cycleID,
		GeneratedAt: time.Now().UTC(),
		State:       StateDone,
		Score:       score,
		Level:       level,
		AgentSignals: map[signal.AgentKind]signal.Signal{
			signal.KindRisk:        riskSig,
			signal.KindForecast:    forecastSig,
			signal.KindSentiment:   sentimentSig,
			signal.KindCorrelation: correlationSig,
		},
		Alerts:          signal.CapAlerts(allAlerts, o.cfg.AlertCap),
		AllAlerts:       allAlerts,
		Recommendations: recommendations,
		Matrix:          matrix,
	}
	result.Summary = summarize(result)

	o.observe(result, time.Since(start))

	log.Info().
		Str("state", string(StateDone)).
		Str("level", string(level)).
		Int("alerts", len(allAlerts)).
		Int("recommendations", len(recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("Cycle complete")

	return result, nil
}

// collect runs one agent bounded by the per-agent timeout. Errors, panics,
// and timeouts all collapse to a neutral, zero-confidence signal with an
// informational alert.
func (o *CycleOrchestrator) collect(ctx context.Context, kind signal.AgentKind, fn func(context.Context) (signal.Signal, *signal.CorrelationMatrix, error)) (signal.Signal, *signal.CorrelationMatrix) {
	timer := prometheus.NewTimer(metrics.AgentDuration.WithLabelValues(string(kind)))
	defer timer.ObserveDuration()

	actx, cancel := context.WithTimeout(ctx, o.cfg.AgentTimeout())
	defer cancel()

	type outcome struct {
		sig    signal.Signal
		matrix *signal.CorrelationMatrix
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("agent panicked: %v", r)}
			}
		}()
		sig, m, err := fn(actx)
		done <- outcome{sig: sig, matrix: m, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			o.log.Warn().Err(out.err).Str("agent", string(kind)).Msg("Agent failed, degrading to neutral")
			metrics.AgentDegraded.WithLabelValues(string(kind)).Inc()
			return o.degradedSignal(kind, out.err.Error()), nil
		}
		return out.sig, out.matrix
	case <-actx.Done():
		o.log.Warn().Str("agent", string(kind)).Dur("timeout", o.cfg.AgentTimeout()).Msg("Agent timed out, degrading to neutral")
		metrics.AgentDegraded.WithLabelValues(string(kind)).Inc()
		return o.degradedSignal(kind, fmt.Sprintf("%s timed out after %s", kind, o.cfg.AgentTimeout())), nil
	}
}

// riskPortfolio runs the risk agent per symbol and averages to portfolio level
func (o *CycleOrchestrator) riskPortfolio(in Input) signal.Signal {
	perSymbol := make(map[string]signal.Signal, len(in.Portfolio))
	for symbol, series := range in.Portfolio {
		sig, err := o.risk.Analyze(symbol, series)
		if err != nil {
			sig = o.symbolNeutral(signal.KindRisk, symbol, err.Error(), o.risk.LabelFor(50))
		}
		perSymbol[symbol] = sig
	}
	return agents.AveragePortfolio(signal.KindRisk, perSymbol, in.SymbolWeights, o.risk.LabelFor)
}

// forecastPortfolio runs the forecast agent per symbol and averages to
// portfolio level. The portfolio label is a weighted directional vote, not a
// function of the averaged score.
func (o *CycleOrchestrator) forecastPortfolio(ctx context.Context, in Input) signal.Signal {
	perSymbol := make(map[string]signal.Signal, len(in.Portfolio))
	for symbol, series := range in.Portfolio {
		var hitRate *float64
		if hr, ok := in.HitRates[symbol]; ok {
			hitRate = &hr
		}
		sig, err := o.forecast.Analyze(ctx, symbol, series, in.Model, hitRate)
		if err != nil {
			sig = o.symbolNeutral(signal.KindForecast, symbol, err.Error(), signal.LabelNeutral)
		}
		perSymbol[symbol] = sig
	}
	portfolio := agents.AveragePortfolio(signal.KindForecast, perSymbol, in.SymbolWeights, func(float64) string {
		return signal.LabelNeutral
	})
	portfolio.Label = agents.ForecastPortfolioLabel(perSymbol, in.SymbolWeights)
	return portfolio
}

// sentimentPortfolio runs the sentiment agent per symbol and averages to
// portfolio level
func (o *CycleOrchestrator) sentimentPortfolio(in Input) (signal.Signal, *signal.CorrelationMatrix, error) {
	perSymbol := make(map[string]signal.Signal, len(in.Portfolio))
	for symbol := range in.Portfolio {
		var previous *float64
		if p, ok := in.PreviousSentiment[symbol]; ok {
			previous = &p
		}
		sig, err := o.sentiment.Analyze(symbol, in.Headlines[symbol], previous)
		if err != nil {
			return signal.Signal{}, nil, err
		}
		perSymbol[symbol] = sig
	}
	return agents.AveragePortfolio(signal.KindSentiment, perSymbol, in.SymbolWeights, agents.SentimentLabelForScore), nil, nil
}

// degradedSignal is the portfolio-level neutral fallback for a failed agent
func (o *CycleOrchestrator) degradedSignal(kind signal.AgentKind, message string) signal.Signal {
	return signal.Neutral(kind, o.neutralLabel(kind), signal.Alert{
		Severity:  signal.SeverityLow,
		Source:    kind,
		Message:   message,
		Magnitude: 0,
	})
}

// symbolNeutral is the per-symbol neutral fallback
func (o *CycleOrchestrator) symbolNeutral(kind signal.AgentKind, symbol, message, label string) signal.Signal {
	sig := signal.Neutral(kind, label, signal.Alert{
		Severity:  signal.SeverityLow,
		Source:    kind,
		Symbol:    symbol,
		Message:   message,
		Magnitude: 0,
	})
	sig.Symbol = symbol
	return sig
}

// neutralLabel maps a degraded agent onto its score-50 label
func (o *CycleOrchestrator) neutralLabel(kind signal.AgentKind) string {
	switch kind {
	case signal.KindRisk:
		return o.risk.LabelFor(50)
	case signal.KindCorrelation:
		return o.correlation.LabelFor(50)
	default:
		return signal.LabelNeutral
	}
}

// observe records cycle-level metrics
func (o *CycleOrchestrator) observe(result *UnifiedResult, elapsed time.Duration) {
	metrics.CycleDuration.Observe(elapsed.Seconds())
	if result.Score != nil {
		metrics.UnifiedScore.Set(*result.Score)
	}
	for _, alert := range result.AllAlerts {
		metrics.AlertsBySeverity.WithLabelValues(string(alert.Severity)).Inc()
	}
}

// summarize builds the one-line human-readable cycle summary
func summarize(r *UnifiedResult) string {
	if r.Score == nil {
		return "insufficient data: no agent produced a usable signal"
	}
	return fmt.Sprintf("unified risk %.1f (%s), %d alert(s), %d recommendation(s)",
		*r.Score, r.Level, len(r.AllAlerts), len(r.Recommendations))
}
