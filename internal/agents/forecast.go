package agents

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/forecast"
	"github.com/arionlabs/arion/internal/market"
	"github.com/arionlabs/arion/internal/signal"
)

// Risk contribution of non-bearish forecasts
const (
	bullishBaseScore = 25.0
	neutralBaseScore = 40.0
)

// ForecastAgent normalizes a fitted predictive model's output into a
// directional risk signal. It engineers features, invokes the injected
// model, and contains every model failure locally.
type ForecastAgent struct {
	cfg config.ForecastConfig
	log zerolog.Logger
}

// NewForecastAgent creates a forecast agent
func NewForecastAgent(cfg config.ForecastConfig) *ForecastAgent {
	return &ForecastAgent{
		cfg: cfg,
		log: config.NewAgentLogger(string(signal.KindForecast)),
	}
}

// Kind returns the agent identifier
func (a *ForecastAgent) Kind() signal.AgentKind {
	return signal.KindForecast
}

// Analyze produces the directional risk signal for one symbol. hitRate is
// the optional externally-measured direction accuracy over recent
// predictions; when below the configured floor it discounts confidence.
// Model failure never propagates: the agent degrades to NEUTRAL, score 50,
// confidence 0 with an informational alert.
func (a *ForecastAgent) Analyze(ctx context.Context, symbol string, series *market.PriceSeries, model forecast.PredictiveModel, hitRate *float64) (signal.Signal, error) {
	if series == nil || series.Len() == 0 {
		return signal.Signal{}, fmt.Errorf("forecast analysis for %s: %w", symbol, market.ErrEmptySeries)
	}

	if series.Len() < a.cfg.MinPeriods {
		return a.degraded(symbol, signal.SeverityLow,
			fmt.Sprintf("%s: insufficient history for forecast (%d periods, need %d)", symbol, series.Len(), a.cfg.MinPeriods),
			float64(series.Len())), nil
	}
	if model == nil {
		return a.degraded(symbol, signal.SeverityLow,
			fmt.Sprintf("%s: no forecast model supplied", symbol), 0), nil
	}

	features, err := engineerFeatures(series, a.cfg)
	if err != nil {
		return a.degraded(symbol, signal.SeverityLow,
			fmt.Sprintf("%s: feature engineering failed: %v", symbol, err), 0), nil
	}

	prediction, err := a.predict(ctx, model, features)
	if err != nil {
		a.log.Warn().Err(err).Str("symbol", symbol).Msg("Forecast model unavailable, degrading to neutral")
		return a.degraded(symbol, signal.SeverityLow,
			fmt.Sprintf("%s: forecast model unavailable: %v", symbol, err),
			0), nil
	}

	label := a.labelFor(prediction.ExpectedReturn)
	score := a.score(label, prediction.ExpectedReturn)

	conf := prediction.Confidence
	if hitRate != nil && a.cfg.AccuracyFloor > 0 && *hitRate < a.cfg.AccuracyFloor {
		conf *= *hitRate / a.cfg.AccuracyFloor
	}

	a.log.Debug().
		Str("symbol", symbol).
		Float64("expected_return", prediction.ExpectedReturn).
		Str("label", label).
		Str("trend", trendLabel(features.ShortSMA, features.LongSMA)).
		Float64("score", score).
		Float64("confidence", conf).
		Msg("Forecast analysis complete")

	return signal.Signal{
		Source:     signal.KindForecast,
		Symbol:     symbol,
		Score:      score,
		Label:      label,
		Confidence: conf,
	}, nil
}

// predict invokes the model and validates its output
func (a *ForecastAgent) predict(ctx context.Context, model forecast.PredictiveModel, features forecast.Features) (forecast.Prediction, error) {
	prediction, err := model.Predict(ctx, features)
	if err != nil {
		return forecast.Prediction{}, err
	}
	if !prediction.Valid() {
		return forecast.Prediction{}, forecast.ErrInvalidPrediction
	}
	return prediction, nil
}

// labelFor applies the configured deadband to the expected return
func (a *ForecastAgent) labelFor(expectedReturn float64) string {
	switch {
	case expectedReturn > a.cfg.Deadband:
		return signal.LabelBullish
	case expectedReturn < -a.cfg.Deadband:
		return signal.LabelBearish
	default:
		return signal.LabelNeutral
	}
}

// score maps the forecast onto [0, 100]: bullish and neutral forecasts
// contribute low-to-moderate risk, bearish risk grows with the magnitude of
// the predicted decline and saturates at the configured ceiling.
func (a *ForecastAgent) score(label string, expectedReturn float64) float64 {
	switch label {
	case signal.LabelBullish:
		return bullishBaseScore
	case signal.LabelBearish:
		magnitude := -expectedReturn / a.cfg.BearishCeiling
		if magnitude > 1 {
			magnitude = 1
		}
		return signal.Clamp(50 + 50*magnitude)
	default:
		return neutralBaseScore
	}
}

// degraded builds the neutral fallback signal with one informational alert
func (a *ForecastAgent) degraded(symbol string, severity signal.Severity, message string, magnitude float64) signal.Signal {
	sig := signal.Neutral(signal.KindForecast, signal.LabelNeutral, signal.Alert{
		Severity:  severity,
		Source:    signal.KindForecast,
		Symbol:    symbol,
		Message:   message,
		Magnitude: magnitude,
	})
	sig.Symbol = symbol
	return sig
}

// ForecastPortfolioLabel derives the portfolio-level directional label from
// per-symbol forecast signals by weighted vote; ties are NEUTRAL.
func ForecastPortfolioLabel(perSymbol map[string]signal.Signal, weights map[string]float64) string {
	normalized := normalizeWeights(perSymbol, weights)

	var bullish, bearish float64
	for symbol, sig := range perSymbol {
		switch sig.Label {
		case signal.LabelBullish:
			bullish += normalized[symbol]
		case signal.LabelBearish:
			bearish += normalized[symbol]
		}
	}
	switch {
	case bullish > bearish:
		return signal.LabelBullish
	case bearish > bullish:
		return signal.LabelBearish
	default:
		return signal.LabelNeutral
	}
}
