package agents

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/market"
	"github.com/arionlabs/arion/internal/signal"
)

// seriesFromReturns builds a price series applying the given daily returns
// to a 100.0 starting close.
func seriesFromReturns(t *testing.T, returns []float64) *market.PriceSeries {
	t.Helper()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []market.Point{{Time: start, Close: 100, Volume: 1000}}
	close := 100.0
	for i, r := range returns {
		close *= 1 + r
		points = append(points, market.Point{
			Time:   start.AddDate(0, 0, i+1),
			Close:  close,
			Volume: 1000,
		})
	}
	series, err := market.NewPriceSeries(points)
	require.NoError(t, err)
	return series
}

// alternating returns n returns of +/-magnitude
func alternating(n int, magnitude float64) []float64 {
	returns := make([]float64, n)
	for i := range returns {
		if i%2 == 0 {
			returns[i] = magnitude
		} else {
			returns[i] = -magnitude
		}
	}
	return returns
}

func riskConfig() config.RiskConfig {
	return config.Default().Engine.Risk
}

// TestRiskAnalyzeEmptySeries is the agent's only hard failure
func TestRiskAnalyzeEmptySeries(t *testing.T) {
	agent := NewRiskAgent(riskConfig(), nil)

	_, err := agent.Analyze("BTC", nil)
	assert.ErrorIs(t, err, market.ErrEmptySeries)
}

// TestRiskVolatilitySpikeAlert verifies the high-volatility alert when the
// rolling window runs hot against the full-series baseline.
func TestRiskVolatilitySpikeAlert(t *testing.T) {
	agent := NewRiskAgent(riskConfig(), nil)

	// 60 quiet days then 20 violent days: rolling vol far above baseline
	returns := append(alternating(60, 0.001), alternating(20, 0.05)...)
	series := seriesFromReturns(t, returns)

	sig, err := agent.Analyze("BTC", series)
	require.NoError(t, err)

	var found bool
	for _, alert := range sig.Alerts {
		if strings.Contains(alert.Message, "high volatility") {
			found = true
			assert.Equal(t, signal.KindRisk, alert.Source)
			assert.Greater(t, alert.Magnitude, 1.5)
		}
	}
	assert.True(t, found, "expected a high volatility alert")
	assert.Equal(t, 1.0, sig.Confidence, "80 returns saturate confidence")
}

// TestRiskQuietSeriesNoAlerts verifies a calm series raises nothing
func TestRiskQuietSeriesNoAlerts(t *testing.T) {
	agent := NewRiskAgent(riskConfig(), nil)
	series := seriesFromReturns(t, alternating(70, 0.002))

	sig, err := agent.Analyze("BTC", series)
	require.NoError(t, err)
	assert.Empty(t, sig.Alerts)
	assert.Equal(t, signal.LabelStable, sig.Label)
	assert.Less(t, sig.Score, 25.0)
}

// TestRiskDrawdownAlert verifies the drawdown alert beyond the threshold
func TestRiskDrawdownAlert(t *testing.T) {
	agent := NewRiskAgent(riskConfig(), nil)

	// Ramp up then a sustained 40% collapse: beyond 1.5x the -20% threshold
	returns := append(alternating(40, 0.002), []float64{-0.15, -0.15, -0.15}...)
	series := seriesFromReturns(t, returns)

	sig, err := agent.Analyze("BTC", series)
	require.NoError(t, err)

	var drawdown *signal.Alert
	for i, alert := range sig.Alerts {
		if strings.Contains(alert.Message, "drawdown") {
			drawdown = &sig.Alerts[i]
		}
	}
	require.NotNil(t, drawdown, "expected a drawdown alert")
	assert.Equal(t, signal.SeverityHigh, drawdown.Severity)
	assert.Less(t, drawdown.Magnitude, -0.30)
}

// TestRiskShortHistoryDegrades verifies the insufficiency path: low
// confidence plus an informational alert, never an error.
func TestRiskShortHistoryDegrades(t *testing.T) {
	agent := NewRiskAgent(riskConfig(), nil)
	series := seriesFromReturns(t, alternating(3, 0.01))

	sig, err := agent.Analyze("BTC", series)
	require.NoError(t, err)
	assert.LessOrEqual(t, sig.Confidence, 0.1)
	require.NotEmpty(t, sig.Alerts)
	assert.Contains(t, sig.Alerts[0].Message, "insufficient history")
}

// TestRiskScoreMonotonicInVolatility verifies more volatility never lowers
// the score.
func TestRiskScoreMonotonicInVolatility(t *testing.T) {
	agent := NewRiskAgent(riskConfig(), nil)

	calm, err := agent.Analyze("BTC", seriesFromReturns(t, alternating(70, 0.005)))
	require.NoError(t, err)
	wild, err := agent.Analyze("BTC", seriesFromReturns(t, alternating(70, 0.04)))
	require.NoError(t, err)

	assert.Greater(t, wild.Score, calm.Score)
}

// TestRiskLabelBoundaries verifies the label thresholds
func TestRiskLabelBoundaries(t *testing.T) {
	agent := NewRiskAgent(riskConfig(), nil)

	assert.Equal(t, signal.LabelStable, agent.LabelFor(10))
	assert.Equal(t, signal.LabelWatch, agent.LabelFor(25))
	assert.Equal(t, signal.LabelCaution, agent.LabelFor(50))
	assert.Equal(t, signal.LabelDanger, agent.LabelFor(75))
}

// TestSaturatingConfidence verifies the default weighting policy
func TestSaturatingConfidence(t *testing.T) {
	conf := SaturatingConfidence(5, 60)

	assert.Equal(t, 0.0, conf(0))
	assert.Equal(t, 0.1, conf(3), "below min caps at the floor")
	assert.InDelta(t, 0.5, conf(30), 1e-9)
	assert.Equal(t, 1.0, conf(60))
	assert.Equal(t, 1.0, conf(500))
}
