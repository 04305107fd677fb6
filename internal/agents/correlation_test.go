package agents

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/market"
	"github.com/arionlabs/arion/internal/signal"
)

func correlationConfig() config.CorrelationConfig {
	return config.Default().Engine.Correlation
}

// correlatedPortfolio builds three series driven by one shared return
// stream, so every pairwise correlation is exactly 1.
func correlatedPortfolio(t *testing.T) map[string]*market.PriceSeries {
	t.Helper()
	base := alternating(40, 0.02)
	scaled := make([]float64, len(base))
	for i, r := range base {
		scaled[i] = r * 0.5
	}
	return map[string]*market.PriceSeries{
		"BTC": seriesFromReturns(t, base),
		"ETH": seriesFromReturns(t, base),
		"SOL": seriesFromReturns(t, scaled),
	}
}

// TestCorrelationTooFewSymbols verifies the neutral, zero-confidence path
func TestCorrelationTooFewSymbols(t *testing.T) {
	agent := NewCorrelationAgent(correlationConfig(), nil)

	portfolio := map[string]*market.PriceSeries{
		"BTC": seriesFromReturns(t, alternating(40, 0.02)),
		"ETH": seriesFromReturns(t, alternating(40, 0.02)),
	}

	sig, matrix, err := agent.Analyze(portfolio, nil)
	require.NoError(t, err)
	assert.Nil(t, matrix)
	assert.Equal(t, 0.0, sig.Confidence)
	assert.Equal(t, 50.0, sig.Score)
	require.NotEmpty(t, sig.Alerts)
	assert.Contains(t, sig.Alerts[0].Message, "at least 3 symbols")
}

// TestCorrelationHighClusterPortfolio verifies the high-correlation path:
// perfectly co-moving symbols score maximal correlation risk with one
// cluster alert per pair.
func TestCorrelationHighClusterPortfolio(t *testing.T) {
	agent := NewCorrelationAgent(correlationConfig(), nil)

	sig, matrix, err := agent.Analyze(correlatedPortfolio(t), nil)
	require.NoError(t, err)
	require.NotNil(t, matrix)

	// mean |corr| = 1, diversification 0, risk 100
	assert.InDelta(t, 100.0, sig.Score, 1e-9)
	assert.Equal(t, signal.LabelHighCorrelation, sig.Label)
	assert.Len(t, sig.Alerts, 3, "one cluster alert per pair")
	for _, alert := range sig.Alerts {
		assert.Equal(t, signal.SeverityHigh, alert.Severity)
	}

	corr, ok := matrix.Get("BTC", "ETH")
	require.True(t, ok)
	assert.InDelta(t, 1.0, corr, 1e-9)
}

// TestCorrelationDeltaAlert verifies the moved-correlation wording when the
// previous cycle's matrix is threaded in.
func TestCorrelationDeltaAlert(t *testing.T) {
	agent := NewCorrelationAgent(correlationConfig(), nil)

	previous := signal.NewCorrelationMatrix()
	previous.Set("BTC", "ETH", 0.5)

	sig, _, err := agent.Analyze(correlatedPortfolio(t), previous)
	require.NoError(t, err)

	var delta *signal.Alert
	for i, alert := range sig.Alerts {
		if alert.Symbol == "BTC-ETH" {
			delta = &sig.Alerts[i]
		}
	}
	require.NotNil(t, delta)
	assert.True(t, strings.Contains(delta.Message, "increased from 0.50 to 1.00"), delta.Message)
	assert.InDelta(t, 0.5, delta.Magnitude, 1e-9)
}

// TestCorrelationInsufficientOverlap excludes thin pairs entirely
func TestCorrelationInsufficientOverlap(t *testing.T) {
	agent := NewCorrelationAgent(correlationConfig(), nil)

	portfolio := map[string]*market.PriceSeries{
		"BTC": seriesFromReturns(t, alternating(5, 0.02)),
		"ETH": seriesFromReturns(t, alternating(5, 0.02)),
		"SOL": seriesFromReturns(t, alternating(5, 0.02)),
	}

	sig, matrix, err := agent.Analyze(portfolio, nil)
	require.NoError(t, err)
	assert.Nil(t, matrix)
	assert.Equal(t, 0.0, sig.Confidence)
	require.NotEmpty(t, sig.Alerts)
	assert.Contains(t, sig.Alerts[0].Message, "common observations")
}

// TestCorrelationLabelBoundaries verifies the label thresholds
func TestCorrelationLabelBoundaries(t *testing.T) {
	agent := NewCorrelationAgent(correlationConfig(), nil)

	assert.Equal(t, signal.LabelWellDiversified, agent.LabelFor(10))
	assert.Equal(t, signal.LabelModerateCorrelation, agent.LabelFor(30))
	assert.Equal(t, signal.LabelHighCorrelation, agent.LabelFor(60))
}
