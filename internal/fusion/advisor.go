package fusion

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/signal"
)

// Category groups recommendations; at most one recommendation is produced
// per category per cycle.
type Category string

const (
	CategoryRiskPosture     Category = "RISK_POSTURE"
	CategoryDiversification Category = "DIVERSIFICATION"
)

// Action is the recommended course of action
type Action string

const (
	ActionReduceRiskImmediately   Action = "REDUCE_RISK_IMMEDIATELY"
	ActionDefensiveStance         Action = "DEFENSIVE_STANCE"
	ActionMonitorClosely          Action = "MONITOR_CLOSELY"
	ActionCautiousApproach        Action = "CAUTIOUS_APPROACH"
	ActionMaintainCurrentStrategy Action = "MAINTAIN_CURRENT_STRATEGY"
	ActionFavorableConditions     Action = "FAVORABLE_CONDITIONS"
	ActionDiversifyHoldings       Action = "DIVERSIFY_HOLDINGS"
)

// Recommendation is one advisory output. Lower priority numbers rank first;
// equal priorities keep rule-table order.
type Recommendation struct {
	Category  Category `json:"category"`
	Action    Action   `json:"action_label"`
	Rationale string   `json:"rationale"`
	Priority  int      `json:"priority"`
}

// Labels carries the per-agent labels the decision table matches on
type Labels struct {
	Risk        string
	Forecast    string
	Sentiment   string
	Correlation string
}

// advice is the decision table's input: the fused result plus agent labels.
// DefensiveFired is set during evaluation when the defensive-stance rule
// matches, so the standing diversification rule can avoid duplicating it.
type advice struct {
	Score          float64
	Level          Level
	Labels         Labels
	DefensiveFired bool
}

// Rule is one row of the decision table. Rules are evaluated in order and
// the first match wins within a category, so precedence is the table
// itself, not nested control flow.
type Rule struct {
	Name     string
	Category Category
	Priority int
	Match    func(a advice) bool
	Build    func(a advice) Recommendation
}

// AdvisoryEngine applies the ordered decision table over a fused result
type AdvisoryEngine struct {
	rules []Rule
	log   zerolog.Logger
}

// NewAdvisoryEngine creates the engine with the standard rule table
func NewAdvisoryEngine() *AdvisoryEngine {
	return &AdvisoryEngine{
		rules: standardRules(),
		log:   config.NewLogger("advisor"),
	}
}

// Advise runs the decision table. score is nil on INSUFFICIENT_DATA, in
// which case no posture recommendation can be grounded and only the standing
// diversification rule may still apply.
func (e *AdvisoryEngine) Advise(score *float64, level Level, labels Labels) []Recommendation {
	a := advice{Level: level, Labels: labels}
	if score != nil {
		a.Score = *score
	}

	var recommendations []Recommendation
	matched := make(map[Category]bool)
	for _, rule := range e.rules {
		if matched[rule.Category] {
			continue
		}
		if score == nil && rule.Category == CategoryRiskPosture {
			continue
		}
		if !rule.Match(a) {
			continue
		}
		rec := rule.Build(a)
		matched[rule.Category] = true
		if rec.Action == ActionDefensiveStance {
			a.DefensiveFired = true
		}
		recommendations = append(recommendations, rec)
		e.log.Debug().
			Str("rule", rule.Name).
			Str("action", string(rec.Action)).
			Int("priority", rec.Priority).
			Msg("Advisory rule matched")
	}

	// Rank by priority; a stable sort keeps rule-table order within ties
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority < recommendations[j].Priority
	})
	return recommendations
}

// standardRules builds the ordered decision table. The first seven rules
// set the risk posture (exactly one fires when a score exists); the standing
// diversification rule fires on a high-correlation portfolio unless the
// defensive-stance rule already covered diversification.
func standardRules() []Rule {
	return []Rule{
		{
			Name:     "critical_reduce_risk",
			Category: CategoryRiskPosture,
			Priority: 1,
			Match:    func(a advice) bool { return a.Level == LevelCritical },
			Build: func(a advice) Recommendation {
				return Recommendation{
					Category:  CategoryRiskPosture,
					Action:    ActionReduceRiskImmediately,
					Rationale: fmt.Sprintf("unified risk score %.1f is CRITICAL; reduce exposure immediately", a.Score),
					Priority:  1,
				}
			},
		},
		{
			Name:     "high_correlated_defensive",
			Category: CategoryRiskPosture,
			Priority: 1,
			Match: func(a advice) bool {
				return a.Level == LevelHigh && a.Labels.Correlation == signal.LabelHighCorrelation
			},
			Build: func(a advice) Recommendation {
				return Recommendation{
					Category:  CategoryRiskPosture,
					Action:    ActionDefensiveStance,
					Rationale: fmt.Sprintf("unified risk score %.1f is HIGH and the portfolio is highly correlated; adopt a defensive stance and diversify into uncorrelated assets", a.Score),
					Priority:  1,
				}
			},
		},
		{
			Name:     "high_monitor",
			Category: CategoryRiskPosture,
			Priority: 1,
			Match:    func(a advice) bool { return a.Level == LevelHigh },
			Build: func(a advice) Recommendation {
				return Recommendation{
					Category:  CategoryRiskPosture,
					Action:    ActionMonitorClosely,
					Rationale: fmt.Sprintf("unified risk score %.1f is HIGH; monitor positions closely", a.Score),
					Priority:  1,
				}
			},
		},
		{
			Name:     "medium_bearish_negative",
			Category: CategoryRiskPosture,
			Priority: 2,
			Match: func(a advice) bool {
				return a.Level == LevelMedium &&
					a.Labels.Forecast == signal.LabelBearish &&
					(a.Labels.Sentiment == signal.LabelNegative || a.Labels.Sentiment == signal.LabelVeryNegative)
			},
			Build: func(a advice) Recommendation {
				return Recommendation{
					Category:  CategoryRiskPosture,
					Action:    ActionCautiousApproach,
					Rationale: fmt.Sprintf("forecast %s and sentiment %s both indicate downside risk at score %.1f", a.Labels.Forecast, a.Labels.Sentiment, a.Score),
					Priority:  2,
				}
			},
		},
		{
			Name:     "medium_maintain",
			Category: CategoryRiskPosture,
			Priority: 2,
			Match:    func(a advice) bool { return a.Level == LevelMedium },
			Build: func(a advice) Recommendation {
				return Recommendation{
					Category:  CategoryRiskPosture,
					Action:    ActionMaintainCurrentStrategy,
					Rationale: fmt.Sprintf("unified risk score %.1f is MEDIUM with no adverse signal agreement; maintain current strategy", a.Score),
					Priority:  2,
				}
			},
		},
		{
			Name:     "low_favorable",
			Category: CategoryRiskPosture,
			Priority: 3,
			Match: func(a advice) bool {
				return a.Level == LevelLow &&
					a.Labels.Forecast == signal.LabelBullish &&
					(a.Labels.Sentiment == signal.LabelPositive || a.Labels.Sentiment == signal.LabelVeryPositive)
			},
			Build: func(a advice) Recommendation {
				return Recommendation{
					Category:  CategoryRiskPosture,
					Action:    ActionFavorableConditions,
					Rationale: fmt.Sprintf("risk is LOW with forecast %s and sentiment %s; conditions are favorable", a.Labels.Forecast, a.Labels.Sentiment),
					Priority:  3,
				}
			},
		},
		{
			Name:     "low_maintain",
			Category: CategoryRiskPosture,
			Priority: 3,
			Match:    func(a advice) bool { return a.Level == LevelLow },
			Build: func(a advice) Recommendation {
				return Recommendation{
					Category:  CategoryRiskPosture,
					Action:    ActionMaintainCurrentStrategy,
					Rationale: fmt.Sprintf("unified risk score %.1f is LOW with no strong signal agreement; maintain current strategy", a.Score),
					Priority:  3,
				}
			},
		},
		{
			Name:     "standing_diversification",
			Category: CategoryDiversification,
			Priority: 2,
			Match: func(a advice) bool {
				return a.Labels.Correlation == signal.LabelHighCorrelation && !a.DefensiveFired
			},
			Build: func(a advice) Recommendation {
				return Recommendation{
					Category:  CategoryDiversification,
					Action:    ActionDiversifyHoldings,
					Rationale: "portfolio correlation is HIGH_CORRELATION; add uncorrelated assets to improve diversification",
					Priority:  2,
				}
			},
		},
	}
}
