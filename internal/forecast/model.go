// Package forecast defines the predictive-model contract the forecast agent
// consumes. Model training is an external concern; the engine only sees a
// fitted model behind the PredictiveModel interface.
package forecast

import (
	"context"
	"errors"
	"math"
)

// ErrInvalidPrediction flags a model output the agent cannot use
// (non-finite expected return or confidence outside [0, 1])
var ErrInvalidPrediction = errors.New("model returned invalid prediction")

// Features is the engineered input vector for one prediction
type Features struct {
	ShortSMA    float64 `json:"short_sma"`
	LongSMA     float64 `json:"long_sma"`
	Momentum5   float64 `json:"momentum_5"`
	Momentum10  float64 `json:"momentum_10"`
	Vol5        float64 `json:"vol_5"`
	Vol20       float64 `json:"vol_20"`
	VolumeRatio float64 `json:"volume_ratio"`
	RSI         float64 `json:"rsi"`
	LastClose   float64 `json:"last_close"`
}

// Vector returns the features in a fixed order for regression-style models
func (f Features) Vector() []float64 {
	smaSpread := 0.0
	if f.LongSMA > 0 {
		smaSpread = f.ShortSMA/f.LongSMA - 1
	}
	return []float64{smaSpread, f.Momentum5, f.Momentum10, f.Vol5, f.Vol20, f.VolumeRatio, f.RSI}
}

// Prediction is one model output: the expected short-horizon return and the
// model's own confidence in it.
type Prediction struct {
	ExpectedReturn float64 `json:"expected_return"`
	Confidence     float64 `json:"confidence"`
}

// Valid reports whether the prediction is usable by the forecast agent
func (p Prediction) Valid() bool {
	if math.IsNaN(p.ExpectedReturn) || math.IsInf(p.ExpectedReturn, 0) {
		return false
	}
	return p.Confidence >= 0 && p.Confidence <= 1
}

// PredictiveModel is an already-fitted external collaborator. Implementations
// must be safe for concurrent use; the engine never trains or retries them.
type PredictiveModel interface {
	Predict(ctx context.Context, features Features) (Prediction, error)
}
