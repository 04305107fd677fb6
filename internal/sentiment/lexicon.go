// Package sentiment provides the default headline scorer: a small financial
// news lexicon with negation and booster handling, producing compound scores
// in [-1, 1]. Callers needing a richer model inject their own scorer.
package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// Valence lexicon for financial headlines. Values are raw word valences
// before normalization; sign carries direction, magnitude carries intensity.
var lexicon = map[string]float64{
	// Positive
	"surge":        2.5,
	"surges":       2.5,
	"rally":        2.2,
	"rallies":      2.2,
	"soar":         2.8,
	"soars":        2.8,
	"gain":         1.8,
	"gains":        1.8,
	"beat":         2.0,
	"beats":        2.0,
	"upgrade":      2.2,
	"upgraded":     2.2,
	"record":       1.5,
	"profit":       1.8,
	"profits":      1.8,
	"growth":       1.8,
	"bullish":      2.4,
	"strong":       1.6,
	"outperform":   2.0,
	"outperforms":  2.0,
	"rebound":      1.8,
	"rebounds":     1.8,
	"recovery":     1.6,
	"breakthrough": 2.2,
	"optimism":     1.8,
	"optimistic":   1.8,
	"upbeat":       1.6,
	"positive":     1.4,
	"rise":         1.4,
	"rises":        1.4,
	"jump":         1.8,
	"jumps":        1.8,
	"climb":        1.4,
	"climbs":       1.4,
	"buy":          1.2,
	"approval":     1.6,
	"approved":     1.6,
	"win":          1.6,
	"wins":         1.6,

	// Negative
	"crash":         -3.0,
	"crashes":       -3.0,
	"plunge":        -2.8,
	"plunges":       -2.8,
	"plummet":       -2.8,
	"plummets":      -2.8,
	"collapse":      -3.0,
	"collapses":     -3.0,
	"loss":          -1.8,
	"losses":        -1.8,
	"miss":          -1.8,
	"misses":        -1.8,
	"downgrade":     -2.2,
	"downgraded":    -2.2,
	"bearish":       -2.4,
	"weak":          -1.6,
	"decline":       -1.6,
	"declines":      -1.6,
	"drop":          -1.6,
	"drops":         -1.6,
	"fall":          -1.4,
	"falls":         -1.4,
	"slump":         -2.0,
	"slumps":        -2.0,
	"tumble":        -2.0,
	"tumbles":       -2.0,
	"selloff":       -2.2,
	"sell":          -1.0,
	"fear":          -2.0,
	"fears":         -2.0,
	"panic":         -2.6,
	"risk":          -1.2,
	"risks":         -1.2,
	"warning":       -1.8,
	"warns":         -1.8,
	"lawsuit":       -1.8,
	"fraud":         -2.6,
	"investigation": -1.8,
	"bankruptcy":    -3.0,
	"bankrupt":      -3.0,
	"default":       -2.4,
	"defaults":      -2.4,
	"recession":     -2.4,
	"layoffs":       -2.0,
	"crisis":        -2.4,
	"negative":      -1.4,
	"uncertainty":   -1.4,
	"volatile":      -1.4,
	"volatility":    -1.2,
	"concern":       -1.4,
	"concerns":      -1.4,
	"cut":           -1.2,
	"cuts":          -1.2,
	"halt":          -1.6,
	"halts":         -1.6,
	"probe":         -1.6,
}

// Negators invert the valence of the following lexicon word
var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"without": true,
	"lacks":   true,
	"denies":  true,
	"avoids":  true,
}

// Boosters scale the valence of the following lexicon word
var boosters = map[string]float64{
	"very":      1.3,
	"extremely": 1.5,
	"sharply":   1.4,
	"massively": 1.5,
	"slightly":  0.7,
	"modestly":  0.7,
	"somewhat":  0.8,
	"hugely":    1.5,
	"deeply":    1.3,
}

// Normalization constant: keeps compound scores in (-1, 1) while letting a
// few strong words saturate quickly, in the manner of VADER.
const normAlpha = 15.0

// negatorFlip is the valence multiplier applied under negation. A full sign
// flip overstates it ("not great" is mildly negative, not terrible).
const negatorFlip = -0.74

// LexiconScorer rates headlines against the built-in financial lexicon.
// It is stateless and safe for concurrent use.
type LexiconScorer struct{}

// NewLexiconScorer creates the default headline scorer
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

// Score returns the compound sentiment of one headline in [-1, 1].
// Unknown-word headlines score exactly 0.
func (s *LexiconScorer) Score(headline string) float64 {
	tokens := tokenize(headline)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	for i, token := range tokens {
		valence, ok := lexicon[token]
		if !ok {
			continue
		}
		if i > 0 {
			prev := tokens[i-1]
			if factor, ok := boosters[prev]; ok {
				valence *= factor
				if i > 1 && negators[tokens[i-2]] {
					valence *= negatorFlip
				}
			} else if negators[prev] {
				valence *= negatorFlip
			}
		}
		sum += valence
	}

	return normalize(sum)
}

// normalize maps the summed valence onto [-1, 1]
func normalize(sum float64) float64 {
	compound := sum / math.Sqrt(sum*sum+normAlpha)
	if compound > 1 {
		return 1
	}
	if compound < -1 {
		return -1
	}
	return compound
}

// tokenize lowercases and splits a headline on non-letter runs
func tokenize(headline string) []string {
	return strings.FieldsFunc(strings.ToLower(headline), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
