package forecast

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/arionlabs/arion/internal/config"
)

// Circuit breaker thresholds for model calls
const (
	breakerMinRequests     = 3                // Minimum requests before tripping
	breakerFailureRatio    = 0.6              // Failure ratio threshold (60%)
	breakerOpenTimeout     = 30 * time.Second // How long circuit stays open
	breakerHalfOpenMaxReqs = 2                // Max requests in half-open state
	breakerCountInterval   = 10 * time.Second // Window for counting failures
)

// BreakerModel wraps a PredictiveModel with a circuit breaker so a flapping
// model fails fast into the agent's neutral degradation path instead of
// consuming the agent timeout on every cycle. This is containment, not
// retry: an open breaker is just a quick ModelFailure.
type BreakerModel struct {
	inner   PredictiveModel
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewBreakerModel wraps the supplied model with breaker protection
func NewBreakerModel(inner PredictiveModel) *BreakerModel {
	log := config.NewLogger("forecast_breaker")

	settings := gobreaker.Settings{
		Name:        "predictive_model",
		MaxRequests: breakerHalfOpenMaxReqs,
		Interval:    breakerCountInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && failureRatio >= breakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Model circuit breaker state changed")
		},
	}

	return &BreakerModel{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

// Predict implements PredictiveModel
func (m *BreakerModel) Predict(ctx context.Context, features Features) (Prediction, error) {
	result, err := m.breaker.Execute(func() (interface{}, error) {
		prediction, err := m.inner.Predict(ctx, features)
		if err != nil {
			return nil, err
		}
		if !prediction.Valid() {
			return nil, ErrInvalidPrediction
		}
		return prediction, nil
	})
	if err != nil {
		return Prediction{}, err
	}
	return result.(Prediction), nil
}
