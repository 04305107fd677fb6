// Package signal defines the normalized contracts the analysis agents emit:
// scored signals, ranked alerts, and the portfolio correlation matrix.
package signal

// AgentKind identifies the analysis agent that produced a signal or alert
type AgentKind string

const (
	KindRisk        AgentKind = "risk_agent"
	KindForecast    AgentKind = "forecast_agent"
	KindSentiment   AgentKind = "sentiment_agent"
	KindCorrelation AgentKind = "correlation_agent"
)

// Severity ranks an alert
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rank returns the ordering rank of a severity (higher is more severe)
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// Risk agent labels (score thresholds: <25, <50, <75, >=75)
const (
	LabelStable  = "STABLE"
	LabelWatch   = "WATCH"
	LabelCaution = "CAUTION"
	LabelDanger  = "DANGER"
)

// Forecast agent labels
const (
	LabelBullish = "BULLISH"
	LabelBearish = "BEARISH"
	LabelNeutral = "NEUTRAL"
)

// Sentiment agent labels
const (
	LabelVeryPositive = "VERY_POSITIVE"
	LabelPositive     = "POSITIVE"
	LabelNegative     = "NEGATIVE"
	LabelVeryNegative = "VERY_NEGATIVE"
)

// Correlation agent labels
const (
	LabelWellDiversified     = "WELL_DIVERSIFIED"
	LabelModerateCorrelation = "MODERATE_CORRELATION"
	LabelHighCorrelation     = "HIGH_CORRELATION"
)

// Alert flags a condition worth surfacing. Magnitude is the signed deviation
// that drove the alert (volatility ratio, correlation delta, sentiment mean)
// and is used for deterministic ranking.
type Alert struct {
	Severity  Severity  `json:"severity"`
	Source    AgentKind `json:"source"`
	Symbol    string    `json:"symbol"` // single symbol, "A-B" pair, or "" for portfolio-level
	Message   string    `json:"message"`
	Magnitude float64   `json:"magnitude"`
}

// Signal is the normalized output of one analysis agent: a risk score on
// [0, 100], an agent-specific label, a confidence on [0, 1], and the alerts
// raised while producing it. Signals are immutable once produced.
type Signal struct {
	Source     AgentKind `json:"source"`
	Symbol     string    `json:"symbol,omitempty"` // "" = portfolio-level
	Score      float64   `json:"score"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	Alerts     []Alert   `json:"alerts,omitempty"`

	// SymbolScores retains per-symbol detail when a portfolio-level signal
	// was produced by averaging across symbols.
	SymbolScores map[string]float64 `json:"symbol_scores,omitempty"`
}

// Neutral returns the degraded signal an agent falls back to when it cannot
// produce a meaningful result: score 50 ("uncertain"), confidence 0. The
// aggregator drops zero-confidence signals from the weighting entirely.
func Neutral(kind AgentKind, label string, alerts ...Alert) Signal {
	return Signal{
		Source:     kind,
		Score:      50,
		Label:      label,
		Confidence: 0,
		Alerts:     alerts,
	}
}

// Clamp bounds a score to [0, 100]
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
