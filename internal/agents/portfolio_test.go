package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arionlabs/arion/internal/signal"
)

// TestNormalizeWeightsEqualFallback verifies equal weighting when no scheme
// is supplied.
func TestNormalizeWeightsEqualFallback(t *testing.T) {
	perSymbol := map[string]signal.Signal{"A": {}, "B": {}, "C": {}, "D": {}}

	weights := normalizeWeights(perSymbol, nil)
	require.Len(t, weights, 4)
	for _, w := range weights {
		assert.InDelta(t, 0.25, w, 1e-9)
	}
}

// TestNormalizeWeightsRenormalizesOverPresent drops weights for absent
// symbols and renormalizes the rest.
func TestNormalizeWeightsRenormalizesOverPresent(t *testing.T) {
	perSymbol := map[string]signal.Signal{"A": {}, "B": {}}
	supplied := map[string]float64{"A": 0.3, "B": 0.1, "GONE": 0.6}

	weights := normalizeWeights(perSymbol, supplied)
	assert.InDelta(t, 0.75, weights["A"], 1e-9)
	assert.InDelta(t, 0.25, weights["B"], 1e-9)
}

// TestAveragePortfolio verifies weighted score/confidence averaging, alert
// union, and per-symbol score retention.
func TestAveragePortfolio(t *testing.T) {
	perSymbol := map[string]signal.Signal{
		"A": {Score: 80, Confidence: 1.0, Alerts: []signal.Alert{{Severity: signal.SeverityHigh, Symbol: "A"}}},
		"B": {Score: 20, Confidence: 0.5},
	}

	sig := AveragePortfolio(signal.KindRisk, perSymbol, nil, func(score float64) string {
		return signal.LabelWatch
	})

	assert.InDelta(t, 50.0, sig.Score, 1e-9)
	assert.InDelta(t, 0.75, sig.Confidence, 1e-9)
	assert.Len(t, sig.Alerts, 1)
	assert.Equal(t, map[string]float64{"A": 80, "B": 20}, sig.SymbolScores)
	assert.Empty(t, sig.Symbol, "portfolio-level signals carry no symbol")
}

// TestAveragePortfolioEmpty degrades to neutral on an empty symbol map
func TestAveragePortfolioEmpty(t *testing.T) {
	sig := AveragePortfolio(signal.KindRisk, nil, nil, func(score float64) string {
		return signal.LabelWatch
	})

	assert.Equal(t, 50.0, sig.Score)
	assert.Equal(t, 0.0, sig.Confidence)
}

// TestPearson sanity-checks the correlation primitive
func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}
	inverse := []float64{5, 4, 3, 2, 1}
	flat := []float64{3, 3, 3, 3, 3}

	assert.InDelta(t, 1.0, pearson(x, y), 1e-9)
	assert.InDelta(t, -1.0, pearson(x, inverse), 1e-9)
	assert.Equal(t, 0.0, pearson(x, flat), "zero variance yields zero")
}

// TestStdDevBessel verifies sample standard deviation
func TestStdDevBessel(t *testing.T) {
	// Sample variance of {2, 4, 4, 4, 5, 5, 7, 9} is 32/7
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.13809, stdDev(values), 1e-4)

	assert.Equal(t, 0.0, stdDev([]float64{1}), "one observation has no spread")
}
