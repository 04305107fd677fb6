package agents

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/market"
	"github.com/arionlabs/arion/internal/signal"
)

// CorrelationAgent computes the cross-asset correlation matrix and the
// portfolio-level diversification risk signal.
type CorrelationAgent struct {
	cfg        config.CorrelationConfig
	confidence ConfidenceFunc
	log        zerolog.Logger
}

// NewCorrelationAgent creates a correlation agent. A nil confidence function
// selects the default observation-count policy.
func NewCorrelationAgent(cfg config.CorrelationConfig, confidence ConfidenceFunc) *CorrelationAgent {
	if confidence == nil {
		confidence = SaturatingConfidence(cfg.MinOverlap, cfg.FullOverlap)
	}
	return &CorrelationAgent{
		cfg:        cfg,
		confidence: confidence,
		log:        config.NewAgentLogger(string(signal.KindCorrelation)),
	}
}

// Kind returns the agent identifier
func (a *CorrelationAgent) Kind() signal.AgentKind {
	return signal.KindCorrelation
}

// LabelFor maps a correlation risk score to the agent's label
func (a *CorrelationAgent) LabelFor(score float64) string {
	switch {
	case score < a.cfg.ModerateScore:
		return signal.LabelWellDiversified
	case score < a.cfg.HighScore:
		return signal.LabelModerateCorrelation
	default:
		return signal.LabelHighCorrelation
	}
}

// Analyze computes pairwise Pearson correlations of daily returns over the
// symbols' common dates and derives the portfolio diversification signal.
// previous is the prior cycle's matrix, threaded in by the caller for delta
// reporting; nil disables it. Fewer than the minimum symbols (or no pair
// with enough overlap) yields a neutral, zero-confidence signal, never a
// failure. The produced matrix is returned for the caller to thread into
// the next cycle.
func (a *CorrelationAgent) Analyze(portfolio map[string]*market.PriceSeries, previous *signal.CorrelationMatrix) (signal.Signal, *signal.CorrelationMatrix, error) {
	symbols := make([]string, 0, len(portfolio))
	for symbol, series := range portfolio {
		if series != nil && series.Len() > 1 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	if len(symbols) < a.cfg.MinSymbols {
		sig := signal.Neutral(signal.KindCorrelation, signal.LabelModerateCorrelation, signal.Alert{
			Severity:  signal.SeverityLow,
			Source:    signal.KindCorrelation,
			Message:   fmt.Sprintf("correlation analysis needs at least %d symbols, got %d", a.cfg.MinSymbols, len(symbols)),
			Magnitude: float64(len(symbols)),
		})
		return sig, nil, nil
	}

	matrix := signal.NewCorrelationMatrix()
	var alerts []signal.Alert
	var absCorrs []float64
	var overlaps []int

	for i := 0; i < len(symbols); i++ {
		for j := i + 1; j < len(symbols); j++ {
			symA, symB := symbols[i], symbols[j]
			ra, rb := market.AlignedReturns(portfolio[symA], portfolio[symB])

			// Pairs with too little overlap are excluded entirely
			if len(ra) < a.cfg.MinOverlap {
				a.log.Debug().
					Str("pair", symA+"-"+symB).
					Int("overlap", len(ra)).
					Msg("Pair excluded: insufficient common observations")
				continue
			}

			corr := pearson(ra, rb)
			matrix.Set(symA, symB, corr)
			absCorrs = append(absCorrs, math.Abs(corr))
			overlaps = append(overlaps, len(ra))

			if math.Abs(corr) >= a.cfg.ClusterThreshold {
				alerts = append(alerts, a.clusterAlert(symA, symB, corr, previous))
			}
		}
	}

	if len(absCorrs) == 0 {
		sig := signal.Neutral(signal.KindCorrelation, signal.LabelModerateCorrelation, signal.Alert{
			Severity:  signal.SeverityLow,
			Source:    signal.KindCorrelation,
			Message:   fmt.Sprintf("no symbol pair shares %d common observations", a.cfg.MinOverlap),
			Magnitude: 0,
		})
		return sig, nil, nil
	}

	meanAbs := mean(absCorrs)
	diversification := signal.Clamp(100 * (1 - meanAbs))
	score := signal.Clamp(100 - diversification)

	// Confidence reflects the thinnest pair actually used
	minOverlap := overlaps[0]
	for _, n := range overlaps {
		if n < minOverlap {
			minOverlap = n
		}
	}
	conf := a.confidence(minOverlap)

	a.log.Debug().
		Int("symbols", len(symbols)).
		Int("pairs", len(absCorrs)).
		Float64("mean_abs_correlation", meanAbs).
		Float64("diversification", diversification).
		Float64("score", score).
		Float64("confidence", conf).
		Msg("Correlation analysis complete")

	return signal.Signal{
		Source:     signal.KindCorrelation,
		Score:      score,
		Label:      a.LabelFor(score),
		Confidence: conf,
		Alerts:     alerts,
	}, matrix, nil
}

// clusterAlert builds the HIGH-severity alert for a highly correlated pair.
// When the previous matrix shows the pair moved beyond the delta threshold,
// the message reports the move and the magnitude becomes the delta.
func (a *CorrelationAgent) clusterAlert(symA, symB string, corr float64, previous *signal.CorrelationMatrix) signal.Alert {
	pair := symA + "-" + symB

	if prev, ok := previous.Get(symA, symB); ok {
		delta := corr - prev
		if math.Abs(delta) >= a.cfg.DeltaThreshold {
			direction := "increased"
			if delta < 0 {
				direction = "decreased"
			}
			return signal.Alert{
				Severity:  signal.SeverityHigh,
				Source:    signal.KindCorrelation,
				Symbol:    pair,
				Message:   fmt.Sprintf("%s: correlation %s from %.2f to %.2f", pair, direction, prev, corr),
				Magnitude: delta,
			}
		}
	}

	return signal.Alert{
		Severity:  signal.SeverityHigh,
		Source:    signal.KindCorrelation,
		Symbol:    pair,
		Message:   fmt.Sprintf("%s: high correlation cluster (%.2f)", pair, corr),
		Magnitude: corr,
	}
}
