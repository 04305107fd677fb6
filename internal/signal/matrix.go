package signal

import "sort"

// CorrelationMatrix is a symmetric map of pairwise correlation coefficients.
// Values are clamped to [-1, 1] and the diagonal is 1 by definition.
type CorrelationMatrix struct {
	Values map[string]map[string]float64 `json:"values"`
}

// NewCorrelationMatrix creates an empty correlation matrix
func NewCorrelationMatrix() *CorrelationMatrix {
	return &CorrelationMatrix{Values: make(map[string]map[string]float64)}
}

// Set records the correlation between two symbols, maintaining symmetry and
// clamping the coefficient to [-1, 1]. Setting a symbol against itself is a
// no-op; the diagonal is implicit.
func (m *CorrelationMatrix) Set(a, b string, corr float64) {
	if a == b {
		return
	}
	if corr > 1 {
		corr = 1
	}
	if corr < -1 {
		corr = -1
	}
	m.set(a, b, corr)
	m.set(b, a, corr)
}

func (m *CorrelationMatrix) set(a, b string, corr float64) {
	if m.Values == nil {
		m.Values = make(map[string]map[string]float64)
	}
	row, ok := m.Values[a]
	if !ok {
		row = make(map[string]float64)
		m.Values[a] = row
	}
	row[b] = corr
}

// Get returns the correlation between two symbols. The diagonal always
// reports 1.
func (m *CorrelationMatrix) Get(a, b string) (float64, bool) {
	if a == b {
		return 1, true
	}
	if m == nil || m.Values == nil {
		return 0, false
	}
	row, ok := m.Values[a]
	if !ok {
		return 0, false
	}
	corr, ok := row[b]
	return corr, ok
}

// Symbols returns the symbols present in the matrix in ascending order
func (m *CorrelationMatrix) Symbols() []string {
	if m == nil {
		return nil
	}
	symbols := make([]string, 0, len(m.Values))
	for s := range m.Values {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}
