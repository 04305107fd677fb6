package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestScorePositiveHeadline rates bullish wording above zero
func TestScorePositiveHeadline(t *testing.T) {
	s := NewLexiconScorer()

	score := s.Score("Shares surge after record profit beats expectations")
	assert.Greater(t, score, 0.3)
	assert.LessOrEqual(t, score, 1.0)
}

// TestScoreNegativeHeadline rates bearish wording below zero
func TestScoreNegativeHeadline(t *testing.T) {
	s := NewLexiconScorer()

	score := s.Score("Markets crash as panic selloff deepens amid bankruptcy fears")
	assert.Less(t, score, -0.5)
	assert.GreaterOrEqual(t, score, -1.0)
}

// TestScoreUnknownWordsIsZero rates lexicon-free headlines exactly neutral
func TestScoreUnknownWordsIsZero(t *testing.T) {
	s := NewLexiconScorer()

	assert.Equal(t, 0.0, s.Score("Company schedules quarterly shareholder meeting"))
	assert.Equal(t, 0.0, s.Score(""))
}

// TestScoreNegationFlips verifies a negator dampens and flips valence
func TestScoreNegationFlips(t *testing.T) {
	s := NewLexiconScorer()

	plain := s.Score("Analysts see strong growth")
	negated := s.Score("Analysts see no growth")

	assert.Greater(t, plain, 0.0)
	assert.Less(t, negated, 0.0)
	assert.Less(t, -negated, plain, "negation is a partial flip, not a mirror")
}

// TestScoreBoosterAmplifies verifies intensity modifiers scale valence
func TestScoreBoosterAmplifies(t *testing.T) {
	s := NewLexiconScorer()

	plain := s.Score("Shares decline")
	sharply := s.Score("Shares sharply decline")
	mild := s.Score("Shares slightly decline")

	assert.Less(t, sharply, plain, "a booster pushes further negative")
	assert.Greater(t, mild, sharply)
	assert.Less(t, plain, 0.0)
}

// TestScoreBounded verifies compounds stay inside [-1, 1] even for pile-ups
func TestScoreBounded(t *testing.T) {
	s := NewLexiconScorer()

	score := s.Score("crash crash crash collapse collapse bankruptcy panic plunge fraud crisis")
	assert.GreaterOrEqual(t, score, -1.0)
	assert.Less(t, score, -0.8)
}
