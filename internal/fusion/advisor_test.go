package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arionlabs/arion/internal/signal"
)

func ptr(v float64) *float64 { return &v }

// TestAdviseCritical fires the immediate-reduction rule
func TestAdviseCritical(t *testing.T) {
	engine := NewAdvisoryEngine()

	recs := engine.Advise(ptr(85), LevelCritical, Labels{})
	require.Len(t, recs, 1)
	assert.Equal(t, ActionReduceRiskImmediately, recs[0].Action)
	assert.Equal(t, CategoryRiskPosture, recs[0].Category)
	assert.Equal(t, 1, recs[0].Priority)
	assert.Contains(t, recs[0].Rationale, "85.0")
}

// TestAdviseHighCorrelatedDefensive fires the defensive stance and suppresses
// the standing diversification rule that would duplicate it.
func TestAdviseHighCorrelatedDefensive(t *testing.T) {
	engine := NewAdvisoryEngine()

	recs := engine.Advise(ptr(65), LevelHigh, Labels{Correlation: signal.LabelHighCorrelation})
	require.Len(t, recs, 1)
	assert.Equal(t, ActionDefensiveStance, recs[0].Action)
	assert.Contains(t, recs[0].Rationale, "diversify")
}

// TestAdviseHighMonitor fires plain monitoring without correlation pressure
func TestAdviseHighMonitor(t *testing.T) {
	engine := NewAdvisoryEngine()

	recs := engine.Advise(ptr(65), LevelHigh, Labels{Correlation: signal.LabelWellDiversified})
	require.Len(t, recs, 1)
	assert.Equal(t, ActionMonitorClosely, recs[0].Action)
}

// TestAdviseMediumBearishNegative fires the cautious-approach rule only when
// forecast and sentiment agree on downside.
func TestAdviseMediumBearishNegative(t *testing.T) {
	engine := NewAdvisoryEngine()

	recs := engine.Advise(ptr(35), LevelMedium, Labels{
		Forecast:  signal.LabelBearish,
		Sentiment: signal.LabelNegative,
	})
	require.Len(t, recs, 1)
	assert.Equal(t, ActionCautiousApproach, recs[0].Action)
	assert.Equal(t, 2, recs[0].Priority)
	assert.Contains(t, recs[0].Rationale, "BEARISH")
	assert.Contains(t, recs[0].Rationale, "NEGATIVE")

	// Bearish forecast alone is not enough
	recs = engine.Advise(ptr(35), LevelMedium, Labels{
		Forecast:  signal.LabelBearish,
		Sentiment: signal.LabelNeutral,
	})
	require.Len(t, recs, 1)
	assert.Equal(t, ActionMaintainCurrentStrategy, recs[0].Action)
}

// TestAdviseLowFavorable fires the favorable-conditions rule on bullish
// agreement at low risk.
func TestAdviseLowFavorable(t *testing.T) {
	engine := NewAdvisoryEngine()

	recs := engine.Advise(ptr(12), LevelLow, Labels{
		Forecast:  signal.LabelBullish,
		Sentiment: signal.LabelVeryPositive,
	})
	require.Len(t, recs, 1)
	assert.Equal(t, ActionFavorableConditions, recs[0].Action)
	assert.Equal(t, 3, recs[0].Priority)
}

// TestAdviseLowDefault maintains strategy when nothing aligns
func TestAdviseLowDefault(t *testing.T) {
	engine := NewAdvisoryEngine()

	recs := engine.Advise(ptr(12), LevelLow, Labels{
		Forecast:  signal.LabelNeutral,
		Sentiment: signal.LabelNeutral,
	})
	require.Len(t, recs, 1)
	assert.Equal(t, ActionMaintainCurrentStrategy, recs[0].Action)
}

// TestAdviseStandingDiversification adds the diversification recommendation
// at any level when correlation is high, alongside whichever posture rule
// fired.
func TestAdviseStandingDiversification(t *testing.T) {
	engine := NewAdvisoryEngine()

	// At LOW the diversification recommendation (priority 2) outranks the
	// posture recommendation (priority 3)
	recs := engine.Advise(ptr(12), LevelLow, Labels{Correlation: signal.LabelHighCorrelation})
	require.Len(t, recs, 2)
	assert.Equal(t, ActionDiversifyHoldings, recs[0].Action)
	assert.Equal(t, CategoryDiversification, recs[0].Category)
	assert.Equal(t, ActionMaintainCurrentStrategy, recs[1].Action)

	// CRITICAL still gets both: rule 2 did not fire, so no suppression
	recs = engine.Advise(ptr(90), LevelCritical, Labels{Correlation: signal.LabelHighCorrelation})
	require.Len(t, recs, 2)
	assert.Equal(t, ActionReduceRiskImmediately, recs[0].Action)
	assert.Equal(t, ActionDiversifyHoldings, recs[1].Action)
}

// TestAdviseRankedByPriority verifies the returned slice is ordered by
// ascending priority regardless of which rule fired first.
func TestAdviseRankedByPriority(t *testing.T) {
	engine := NewAdvisoryEngine()

	for _, labels := range []Labels{
		{Correlation: signal.LabelHighCorrelation},
		{Correlation: signal.LabelWellDiversified},
	} {
		for _, score := range []float64{12, 35, 65, 90} {
			recs := engine.Advise(ptr(score), levelForScore(score), labels)
			for i := 1; i < len(recs); i++ {
				assert.LessOrEqual(t, recs[i-1].Priority, recs[i].Priority,
					"score %.0f labels %+v", score, labels)
			}
		}
	}
}

func levelForScore(score float64) Level {
	switch {
	case score >= 80:
		return LevelCritical
	case score >= 50:
		return LevelHigh
	case score >= 20:
		return LevelMedium
	default:
		return LevelLow
	}
}

// TestAdviseStateless verifies a defensive-stance match in one call does not
// suppress diversification in later calls.
func TestAdviseStateless(t *testing.T) {
	engine := NewAdvisoryEngine()

	first := engine.Advise(ptr(65), LevelHigh, Labels{Correlation: signal.LabelHighCorrelation})
	require.Len(t, first, 1)

	second := engine.Advise(ptr(12), LevelLow, Labels{Correlation: signal.LabelHighCorrelation})
	require.Len(t, second, 2)
	assert.Equal(t, ActionDiversifyHoldings, second[0].Action)
}

// TestAdviseInsufficientData verifies no posture recommendation can be
// grounded without a score; only the standing rule may fire.
func TestAdviseInsufficientData(t *testing.T) {
	engine := NewAdvisoryEngine()

	recs := engine.Advise(nil, LevelInsufficientData, Labels{})
	assert.Empty(t, recs)

	recs = engine.Advise(nil, LevelInsufficientData, Labels{Correlation: signal.LabelHighCorrelation})
	require.Len(t, recs, 1)
	assert.Equal(t, ActionDiversifyHoldings, recs[0].Action)
}
