package forecast

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingModel always errors
type failingModel struct{}

func (failingModel) Predict(context.Context, Features) (Prediction, error) {
	return Prediction{}, errors.New("backend down")
}

// TestBaselineModelPredicts verifies the default model emits a valid
// prediction.
func TestBaselineModelPredicts(t *testing.T) {
	model := NewBaselineModel()

	prediction, err := model.Predict(context.Background(), Features{
		ShortSMA:    105,
		LongSMA:     100,
		Momentum5:   0.02,
		Momentum10:  0.04,
		Vol5:        0.01,
		Vol20:       0.015,
		VolumeRatio: 1.2,
		RSI:         55,
		LastClose:   105,
	})
	require.NoError(t, err)
	assert.True(t, prediction.Valid())
}

// TestLinearModelDotProduct verifies the regression arithmetic
func TestLinearModelDotProduct(t *testing.T) {
	weights := []float64{1, 0, 0, 0, 0, 0, 0} // SMA spread only
	model := NewLinearModel(weights, 0.01, 0.9)

	prediction, err := model.Predict(context.Background(), Features{
		ShortSMA: 102,
		LongSMA:  100,
	})
	require.NoError(t, err)
	// spread 0.02 plus bias 0.01
	assert.InDelta(t, 0.03, prediction.ExpectedReturn, 1e-9)
	assert.InDelta(t, 0.9, prediction.Confidence, 1e-9)
}

// TestPredictionValid bounds the model output contract
func TestPredictionValid(t *testing.T) {
	assert.True(t, Prediction{ExpectedReturn: -0.02, Confidence: 0.5}.Valid())
	assert.False(t, Prediction{ExpectedReturn: 0.02, Confidence: 1.5}.Valid())
	assert.False(t, Prediction{ExpectedReturn: 0.02, Confidence: -0.1}.Valid())
}

// TestBreakerOpensAfterRepeatedFailures verifies the breaker trips and then
// fails fast instead of invoking the model.
func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	model := NewBreakerModel(failingModel{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := model.Predict(ctx, Features{})
		require.Error(t, err)
	}

	// Tripped: subsequent calls short-circuit with the breaker's own error
	_, err := model.Predict(ctx, Features{})
	assert.Error(t, err)
}

// TestBreakerPassesThroughSuccess verifies a healthy model is untouched
func TestBreakerPassesThroughSuccess(t *testing.T) {
	model := NewBreakerModel(NewBaselineModel())

	prediction, err := model.Predict(context.Background(), Features{LongSMA: 100, ShortSMA: 101, RSI: 50, VolumeRatio: 1})
	require.NoError(t, err)
	assert.True(t, prediction.Valid())
}
