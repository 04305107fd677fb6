package agents

import (
	"sort"

	"github.com/arionlabs/arion/internal/signal"
)

// normalizeWeights resolves portfolio weights for the symbols actually
// present in perSymbol. Supplied weights are renormalized over present
// symbols; missing or degenerate weights fall back to equal weighting.
func normalizeWeights(perSymbol map[string]signal.Signal, weights map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(perSymbol))
	if len(perSymbol) == 0 {
		return normalized
	}

	var total float64
	for symbol := range perSymbol {
		if w, ok := weights[symbol]; ok && w > 0 {
			total += w
		}
	}
	if total > 0 {
		for symbol := range perSymbol {
			if w, ok := weights[symbol]; ok && w > 0 {
				normalized[symbol] = w / total
			} else {
				normalized[symbol] = 0
			}
		}
		return normalized
	}

	equal := 1.0 / float64(len(perSymbol))
	for symbol := range perSymbol {
		normalized[symbol] = equal
	}
	return normalized
}

// AveragePortfolio folds per-symbol signals into one portfolio-level signal
// by weighted mean of scores and confidences. Per-symbol scores are retained
// on the result and the union of per-symbol alerts carries over. labelFor
// maps the averaged score back onto the agent's label vocabulary.
func AveragePortfolio(kind signal.AgentKind, perSymbol map[string]signal.Signal, weights map[string]float64, labelFor func(float64) string) signal.Signal {
	if len(perSymbol) == 0 {
		return signal.Neutral(kind, labelFor(50))
	}

	normalized := normalizeWeights(perSymbol, weights)

	symbols := make([]string, 0, len(perSymbol))
	for symbol := range perSymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var score, confidence float64
	symbolScores := make(map[string]float64, len(perSymbol))
	var alerts []signal.Alert
	for _, symbol := range symbols {
		sig := perSymbol[symbol]
		w := normalized[symbol]
		score += w * sig.Score
		confidence += w * sig.Confidence
		symbolScores[symbol] = sig.Score
		alerts = append(alerts, sig.Alerts...)
	}
	signal.SortAlerts(alerts)

	return signal.Signal{
		Source:       kind,
		Score:        signal.Clamp(score),
		Label:        labelFor(signal.Clamp(score)),
		Confidence:   confidence,
		Alerts:       alerts,
		SymbolScores: symbolScores,
	}
}
