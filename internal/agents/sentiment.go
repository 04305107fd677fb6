package agents

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/signal"
)

// Sentiment label bands on the mean compound score
const (
	sentimentVeryStrong = 0.5
	sentimentWeak       = 0.05
)

// Scorer rates one headline with a compound sentiment score in [-1, 1].
// The default lexicon scorer lives in internal/sentiment; anything matching
// this contract can be injected.
type Scorer interface {
	Score(headline string) float64
}

// SentimentAgent aggregates per-symbol headline sentiment into a risk signal
type SentimentAgent struct {
	cfg        config.SentimentConfig
	scorer     Scorer
	confidence ConfidenceFunc
	log        zerolog.Logger
}

// NewSentimentAgent creates a sentiment agent around the supplied scorer.
// A nil confidence function selects the default headline-count policy.
func NewSentimentAgent(cfg config.SentimentConfig, scorer Scorer, confidence ConfidenceFunc) *SentimentAgent {
	if confidence == nil {
		confidence = SaturatingConfidence(1, cfg.FullHeadlines)
	}
	return &SentimentAgent{
		cfg:        cfg,
		scorer:     scorer,
		confidence: confidence,
		log:        config.NewAgentLogger(string(signal.KindSentiment)),
	}
}

// Kind returns the agent identifier
func (a *SentimentAgent) Kind() signal.AgentKind {
	return signal.KindSentiment
}

// Analyze aggregates headline sentiment for one symbol. previousMean is the
// prior cycle's aggregate, threaded in by the caller for shift detection;
// nil disables it. Zero headlines is not an error: the agent returns
// NEUTRAL, score 50, confidence 0.
func (a *SentimentAgent) Analyze(symbol string, headlines []string, previousMean *float64) (signal.Signal, error) {
	if a.scorer == nil {
		return signal.Signal{}, fmt.Errorf("sentiment analysis for %s: no scorer configured", symbol)
	}

	scores := make([]float64, 0, len(headlines))
	for _, headline := range headlines {
		if headline == "" {
			continue
		}
		scores = append(scores, a.scorer.Score(headline))
	}

	if len(scores) == 0 {
		sig := signal.Neutral(signal.KindSentiment, signal.LabelNeutral)
		sig.Symbol = symbol
		return sig, nil
	}

	aggregate := mean(scores)
	var alerts []signal.Alert

	if math.Abs(aggregate) >= a.cfg.StrongThreshold {
		alerts = append(alerts, a.strongSentimentAlert(symbol, aggregate))
	}
	if previousMean != nil {
		delta := aggregate - *previousMean
		if math.Abs(delta) >= a.cfg.ShiftDelta {
			alerts = append(alerts, signal.Alert{
				Severity:  signal.SeverityMedium,
				Source:    signal.KindSentiment,
				Symbol:    symbol,
				Message:   fmt.Sprintf("%s: sentiment shifted from %.2f to %.2f", symbol, *previousMean, aggregate),
				Magnitude: delta,
			})
		}
	}

	score := scoreFromMean(aggregate)
	conf := a.confidence(len(scores))

	a.log.Debug().
		Str("symbol", symbol).
		Int("headlines", len(scores)).
		Float64("mean", aggregate).
		Float64("score", score).
		Float64("confidence", conf).
		Msg("Sentiment analysis complete")

	return signal.Signal{
		Source:     signal.KindSentiment,
		Symbol:     symbol,
		Score:      score,
		Label:      labelFromMean(aggregate),
		Confidence: conf,
		Alerts:     alerts,
	}, nil
}

// strongSentimentAlert builds the alert for |mean| beyond the strong
// threshold. Negative extremes are HIGH below -0.7, MEDIUM otherwise;
// positive extremes are informational.
func (a *SentimentAgent) strongSentimentAlert(symbol string, aggregate float64) signal.Alert {
	if aggregate < 0 {
		severity := signal.SeverityMedium
		if aggregate < -0.7 {
			severity = signal.SeverityHigh
		}
		return signal.Alert{
			Severity:  severity,
			Source:    signal.KindSentiment,
			Symbol:    symbol,
			Message:   fmt.Sprintf("%s: strong negative sentiment detected (%.2f)", symbol, aggregate),
			Magnitude: aggregate,
		}
	}
	return signal.Alert{
		Severity:  signal.SeverityLow,
		Source:    signal.KindSentiment,
		Symbol:    symbol,
		Message:   fmt.Sprintf("%s: strong positive sentiment detected (%.2f)", symbol, aggregate),
		Magnitude: aggregate,
	}
}

// scoreFromMean maps mean sentiment in [-1, 1] onto risk in [100, 0]
// linearly: very negative news is high risk.
func scoreFromMean(aggregate float64) float64 {
	return signal.Clamp((1 - aggregate) * 50)
}

// labelFromMean applies the label bands to the mean compound score
func labelFromMean(aggregate float64) string {
	switch {
	case aggregate >= sentimentVeryStrong:
		return signal.LabelVeryPositive
	case aggregate >= sentimentWeak:
		return signal.LabelPositive
	case aggregate <= -sentimentVeryStrong:
		return signal.LabelVeryNegative
	case aggregate <= -sentimentWeak:
		return signal.LabelNegative
	default:
		return signal.LabelNeutral
	}
}

// SentimentLabelForScore recovers the label for an averaged sentiment score
// by inverting the linear mean-to-score map.
func SentimentLabelForScore(score float64) string {
	return labelFromMean(1 - score/50)
}
