package agents

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/market"
	"github.com/arionlabs/arion/internal/signal"
)

// Risk agent label thresholds on the [0, 100] score
const (
	riskStableBelow  = 25.0
	riskWatchBelow   = 50.0
	riskCautionBelow = 75.0
)

// RiskAgent computes a volatility/drawdown risk signal per symbol
type RiskAgent struct {
	cfg        config.RiskConfig
	confidence ConfidenceFunc
	log        zerolog.Logger
}

// NewRiskAgent creates a risk agent. A nil confidence function selects the
// default saturating policy from the agent's configured history lengths.
func NewRiskAgent(cfg config.RiskConfig, confidence ConfidenceFunc) *RiskAgent {
	if confidence == nil {
		confidence = SaturatingConfidence(cfg.MinPeriods, cfg.FullHistory)
	}
	return &RiskAgent{
		cfg:        cfg,
		confidence: confidence,
		log:        config.NewAgentLogger(string(signal.KindRisk)),
	}
}

// Kind returns the agent identifier
func (a *RiskAgent) Kind() signal.AgentKind {
	return signal.KindRisk
}

// LabelFor maps a risk score to the agent's label
func (a *RiskAgent) LabelFor(score float64) string {
	switch {
	case score < riskStableBelow:
		return signal.LabelStable
	case score < riskWatchBelow:
		return signal.LabelWatch
	case score < riskCautionBelow:
		return signal.LabelCaution
	default:
		return signal.LabelDanger
	}
}

// Analyze produces the volatility/drawdown signal for one symbol. The only
// hard failure is an empty series; short histories degrade confidence and
// raise an insufficiency alert instead.
func (a *RiskAgent) Analyze(symbol string, series *market.PriceSeries) (signal.Signal, error) {
	if series == nil || series.Len() == 0 {
		return signal.Signal{}, fmt.Errorf("risk analysis for %s: %w", symbol, market.ErrEmptySeries)
	}

	returns := series.Returns()
	var alerts []signal.Alert

	if len(returns) < a.cfg.MinPeriods {
		alerts = append(alerts, signal.Alert{
			Severity:  signal.SeverityLow,
			Source:    signal.KindRisk,
			Symbol:    symbol,
			Message:   fmt.Sprintf("%s: insufficient history for risk analysis (%d returns, need %d)", symbol, len(returns), a.cfg.MinPeriods),
			Magnitude: float64(len(returns)),
		})
	}
	if len(returns) == 0 {
		sig := signal.Neutral(signal.KindRisk, a.LabelFor(50), alerts...)
		sig.Symbol = symbol
		return sig, nil
	}

	annualize := math.Sqrt(float64(a.cfg.TradingDays))
	rollingVol := stdDev(tail(returns, a.cfg.RollingWindow)) * annualize

	baselineReturns := returns
	if a.cfg.BaselineWindow > 0 {
		baselineReturns = tail(returns, a.cfg.BaselineWindow)
	}
	baselineVol := stdDev(baselineReturns) * annualize

	// Volatility spike: rolling vs baseline ratio
	if baselineVol > 0 {
		ratio := rollingVol / baselineVol
		if ratio > a.cfg.SpikeRatio {
			severity := signal.SeverityMedium
			if ratio > a.cfg.SpikeHighRatio {
				severity = signal.SeverityHigh
			}
			alerts = append(alerts, signal.Alert{
				Severity:  severity,
				Source:    signal.KindRisk,
				Symbol:    symbol,
				Message:   fmt.Sprintf("%s: high volatility detected (rolling %.1f%% vs baseline %.1f%%)", symbol, rollingVol*100, baselineVol*100),
				Magnitude: ratio,
			})
		}
	}

	maxDrawdown := maxDrawdown(series.Closes())
	if maxDrawdown < a.cfg.DrawdownThreshold {
		severity := signal.SeverityMedium
		if maxDrawdown < a.cfg.DrawdownThreshold*1.5 {
			severity = signal.SeverityHigh
		}
		alerts = append(alerts, signal.Alert{
			Severity:  severity,
			Source:    signal.KindRisk,
			Symbol:    symbol,
			Message:   fmt.Sprintf("%s: significant drawdown (%.1f%%)", symbol, maxDrawdown*100),
			Magnitude: maxDrawdown,
		})
	}

	score := a.score(rollingVol, maxDrawdown)
	conf := a.confidence(len(returns))

	a.log.Debug().
		Str("symbol", symbol).
		Float64("rolling_vol", rollingVol).
		Float64("baseline_vol", baselineVol).
		Float64("max_drawdown", maxDrawdown).
		Float64("score", score).
		Float64("confidence", conf).
		Msg("Risk analysis complete")

	return signal.Signal{
		Source:     signal.KindRisk,
		Symbol:     symbol,
		Score:      score,
		Label:      a.LabelFor(score),
		Confidence: conf,
		Alerts:     alerts,
	}, nil
}

// score maps annualized volatility onto [0, 100] linearly up to the
// saturating ceiling, then blends in the drawdown penalty.
func (a *RiskAgent) score(annualizedVol, maxDD float64) float64 {
	volScore := signal.Clamp(annualizedVol / a.cfg.VolCeiling * 100)

	ddScore := 0.0
	if a.cfg.DrawdownThreshold < 0 {
		ddScore = signal.Clamp(math.Abs(maxDD/a.cfg.DrawdownThreshold) * 50)
	}

	return signal.Clamp(a.cfg.VolWeight*volScore + (1-a.cfg.VolWeight)*ddScore)
}

// maxDrawdown returns the minimum of (close_t - M_t)/M_t over the series,
// where M_t is the running maximum close. Always <= 0.
func maxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}

	peak := closes[0]
	minDD := 0.0
	for _, close := range closes {
		if close > peak {
			peak = close
		}
		if peak > 0 {
			dd := (close - peak) / peak
			if dd < minDD {
				minDD = dd
			}
		}
	}
	return minDD
}
