package forecast

import "context"

// Baseline coefficients: a small momentum/mean-reversion blend fitted offline
// on daily equity returns. They exist so the engine can run standalone when
// no external model is injected.
var baselineWeights = []float64{
	0.030,   // SMA spread
	0.180,   // 5-day momentum
	0.090,   // 10-day momentum
	-0.050,  // 5-day volatility
	-0.020,  // 20-day volatility
	0.0008,  // volume ratio
	-0.0002, // RSI (mean reversion: overbought drags the forecast down)
}

const (
	baselineBias       = 0.010 // offsets the RSI term at the neutral 50 mark
	baselineConfidence = 0.55
)

// BaselineModel is the default fitted PredictiveModel: a linear map over the
// feature vector. Deterministic and stateless, so safe for concurrent use.
type BaselineModel struct {
	weights    []float64
	bias       float64
	confidence float64
}

// NewBaselineModel returns the default baseline model
func NewBaselineModel() *BaselineModel {
	return &BaselineModel{
		weights:    baselineWeights,
		bias:       baselineBias,
		confidence: baselineConfidence,
	}
}

// NewLinearModel returns a fitted linear model with the supplied parameters.
// The weight vector must match Features.Vector() in length and order.
func NewLinearModel(weights []float64, bias, confidence float64) *BaselineModel {
	return &BaselineModel{weights: weights, bias: bias, confidence: confidence}
}

// Predict implements PredictiveModel
func (m *BaselineModel) Predict(_ context.Context, features Features) (Prediction, error) {
	vector := features.Vector()
	expected := m.bias
	for i, w := range m.weights {
		if i >= len(vector) {
			break
		}
		expected += w * vector[i]
	}
	return Prediction{ExpectedReturn: expected, Confidence: m.confidence}, nil
}
