// Package fusion combines the four agent signals into one unified risk
// score and runs the advisory decision table over the result.
package fusion

import (
	"github.com/rs/zerolog"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/signal"
)

// Level classifies the unified risk score
type Level string

const (
	LevelLow              Level = "LOW"
	LevelMedium           Level = "MEDIUM"
	LevelHigh             Level = "HIGH"
	LevelCritical         Level = "CRITICAL"
	LevelInsufficientData Level = "INSUFFICIENT_DATA"
)

// Aggregator folds the four agent signals into the unified score using
// confidence-adjusted base weights.
type Aggregator struct {
	weights config.WeightsConfig
	levels  config.LevelConfig
	log     zerolog.Logger
}

// NewAggregator creates an aggregator with the supplied base weights and
// level cut points. Both are validated at config load.
func NewAggregator(weights config.WeightsConfig, levels config.LevelConfig) *Aggregator {
	return &Aggregator{
		weights: weights,
		levels:  levels,
		log:     config.NewLogger("aggregator"),
	}
}

// Combine produces the unified risk score and level from the four agent
// signals. Each agent's effective weight is its base weight scaled by its
// confidence; zero-confidence agents drop out and the remaining weights are
// renormalized proportionally so the score stays on the 0-100 scale. When
// every agent reports zero confidence there is nothing to fuse: the score is
// nil and the level is INSUFFICIENT_DATA.
func (a *Aggregator) Combine(risk, forecast, sentiment, correlation signal.Signal) (*float64, Level) {
	weights := a.EffectiveWeights(risk, forecast, sentiment, correlation)
	if weights == nil {
		a.log.Warn().Msg("All agents reported zero confidence, no unified score")
		return nil, LevelInsufficientData
	}

	score := signal.Clamp(
		weights[signal.KindRisk]*risk.Score +
			weights[signal.KindForecast]*forecast.Score +
			weights[signal.KindSentiment]*sentiment.Score +
			weights[signal.KindCorrelation]*correlation.Score)
	level := a.LevelFor(score)

	a.log.Debug().
		Float64("score", score).
		Str("level", string(level)).
		Float64("risk_weight", weights[signal.KindRisk]).
		Float64("forecast_weight", weights[signal.KindForecast]).
		Float64("sentiment_weight", weights[signal.KindSentiment]).
		Float64("correlation_weight", weights[signal.KindCorrelation]).
		Msg("Signals fused")

	return &score, level
}

// EffectiveWeights returns the confidence-adjusted, renormalized weight per
// agent. The values always sum to 1. Nil means every agent had zero
// confidence.
func (a *Aggregator) EffectiveWeights(risk, forecast, sentiment, correlation signal.Signal) map[signal.AgentKind]float64 {
	effective := map[signal.AgentKind]float64{
		signal.KindRisk:        a.weights.Risk * risk.Confidence,
		signal.KindForecast:    a.weights.Forecast * forecast.Confidence,
		signal.KindSentiment:   a.weights.Sentiment * sentiment.Confidence,
		signal.KindCorrelation: a.weights.Correlation * correlation.Confidence,
	}

	var total float64
	for _, w := range effective {
		total += w
	}
	if total <= 0 {
		return nil
	}
	for kind, w := range effective {
		effective[kind] = w / total
	}
	return effective
}

// LevelFor applies the half-open cut points: a score exactly on a boundary
// takes the higher level.
func (a *Aggregator) LevelFor(score float64) Level {
	switch {
	case score >= a.levels.Critical:
		return LevelCritical
	case score >= a.levels.High:
		return LevelHigh
	case score >= a.levels.Medium:
		return LevelMedium
	default:
		return LevelLow
	}
}
