package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMatrixSymmetry verifies Set maintains both directions
func TestMatrixSymmetry(t *testing.T) {
	m := NewCorrelationMatrix()
	m.Set("BTC", "ETH", 0.83)

	ab, ok := m.Get("BTC", "ETH")
	require.True(t, ok)
	ba, ok := m.Get("ETH", "BTC")
	require.True(t, ok)
	assert.Equal(t, ab, ba)
	assert.InDelta(t, 0.83, ab, 1e-9)
}

// TestMatrixClamp bounds coefficients to [-1, 1]
func TestMatrixClamp(t *testing.T) {
	m := NewCorrelationMatrix()
	m.Set("A", "B", 1.7)
	m.Set("A", "C", -1.3)

	ab, _ := m.Get("A", "B")
	ac, _ := m.Get("A", "C")
	assert.Equal(t, 1.0, ab)
	assert.Equal(t, -1.0, ac)
}

// TestMatrixDiagonal reports 1 for any symbol against itself
func TestMatrixDiagonal(t *testing.T) {
	m := NewCorrelationMatrix()

	corr, ok := m.Get("A", "A")
	assert.True(t, ok)
	assert.Equal(t, 1.0, corr)
}

// TestMatrixMissingPair reports absence for unknown pairs
func TestMatrixMissingPair(t *testing.T) {
	m := NewCorrelationMatrix()

	_, ok := m.Get("A", "B")
	assert.False(t, ok)

	var nilMatrix *CorrelationMatrix
	_, ok = nilMatrix.Get("A", "B")
	assert.False(t, ok)
}

// TestMatrixSymbols returns symbols in ascending order
func TestMatrixSymbols(t *testing.T) {
	m := NewCorrelationMatrix()
	m.Set("ETH", "BTC", 0.5)
	m.Set("SOL", "BTC", 0.4)

	assert.Equal(t, []string{"BTC", "ETH", "SOL"}, m.Symbols())
}
