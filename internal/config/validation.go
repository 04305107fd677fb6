package config

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration validation failed with %d error(s):\n\n", len(ve)))
	for i, err := range ve {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	sb.WriteString("\nPlease fix the above errors and try again.\n")
	return sb.String()
}

// Validate performs comprehensive configuration validation
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateApp()...)
	errors = append(errors, c.validateWeights()...)
	errors = append(errors, c.validateRisk()...)
	errors = append(errors, c.validateForecast()...)
	errors = append(errors, c.validateSentiment()...)
	errors = append(errors, c.validateCorrelation()...)
	errors = append(errors, c.validateLevels()...)
	errors = append(errors, c.validateEngine()...)
	errors = append(errors, c.validateAPI()...)

	if len(errors) > 0 {
		return errors
	}

	return nil
}

func (c *Config) validateApp() ValidationErrors {
	var errors ValidationErrors

	if c.App.Name == "" {
		errors = append(errors, ValidationError{
			Field:   "app.name",
			Message: "Application name is required",
		})
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.App.LogLevel)] {
		errors = append(errors, ValidationError{
			Field:   "app.log_level",
			Message: fmt.Sprintf("Invalid log level %q (must be trace, debug, info, warn, or error)", c.App.LogLevel),
		})
	}

	return errors
}

func (c *Config) validateWeights() ValidationErrors {
	var errors ValidationErrors
	w := c.Engine.Weights

	for field, value := range map[string]float64{
		"engine.weights.risk":        w.Risk,
		"engine.weights.forecast":    w.Forecast,
		"engine.weights.sentiment":   w.Sentiment,
		"engine.weights.correlation": w.Correlation,
	} {
		if value < 0 || value > 1 {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("Weight must be in [0, 1], got %v", value),
			})
		}
	}

	sum := w.Risk + w.Forecast + w.Sentiment + w.Correlation
	if math.Abs(sum-1.0) > 1e-6 {
		errors = append(errors, ValidationError{
			Field:   "engine.weights",
			Message: fmt.Sprintf("Base weights must sum to 1, got %v", sum),
		})
	}

	return errors
}

func (c *Config) validateRisk() ValidationErrors {
	var errors ValidationErrors
	r := c.Engine.Risk

	if r.RollingWindow < 2 {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.rolling_window",
			Message: fmt.Sprintf("Rolling window must be at least 2 periods, got %d", r.RollingWindow),
		})
	}
	if r.BaselineWindow < 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.baseline_window",
			Message: fmt.Sprintf("Baseline window must be non-negative (0 = full series), got %d", r.BaselineWindow),
		})
	}
	if r.TradingDays <= 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.trading_days",
			Message: fmt.Sprintf("Trading days must be positive, got %d", r.TradingDays),
		})
	}
	if r.SpikeRatio <= 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.spike_ratio",
			Message: fmt.Sprintf("Spike ratio must exceed 1, got %v", r.SpikeRatio),
		})
	}
	if r.SpikeHighRatio <= r.SpikeRatio {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.spike_high_ratio",
			Message: fmt.Sprintf("High spike ratio (%v) must exceed spike ratio (%v)", r.SpikeHighRatio, r.SpikeRatio),
		})
	}
	if r.DrawdownThreshold >= 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.drawdown_threshold",
			Message: fmt.Sprintf("Drawdown threshold must be negative, got %v", r.DrawdownThreshold),
		})
	}
	if r.VolCeiling <= 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.vol_ceiling",
			Message: fmt.Sprintf("Volatility ceiling must be positive, got %v", r.VolCeiling),
		})
	}
	if r.VolWeight < 0 || r.VolWeight > 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.vol_weight",
			Message: fmt.Sprintf("Volatility weight must be in [0, 1], got %v", r.VolWeight),
		})
	}
	if r.MinPeriods < 2 {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.min_periods",
			Message: fmt.Sprintf("Minimum periods must be at least 2, got %d", r.MinPeriods),
		})
	}
	if r.FullHistory < r.MinPeriods {
		errors = append(errors, ValidationError{
			Field:   "engine.risk.full_history",
			Message: fmt.Sprintf("Full history (%d) must be at least min periods (%d)", r.FullHistory, r.MinPeriods),
		})
	}

	return errors
}

func (c *Config) validateForecast() ValidationErrors {
	var errors ValidationErrors
	f := c.Engine.Forecast

	if f.Deadband < 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.forecast.deadband",
			Message: fmt.Sprintf("Deadband must be non-negative, got %v", f.Deadband),
		})
	}
	if f.BearishCeiling <= 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.forecast.bearish_ceiling",
			Message: fmt.Sprintf("Bearish ceiling must be positive, got %v", f.BearishCeiling),
		})
	}
	if f.AccuracyFloor < 0 || f.AccuracyFloor > 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.forecast.accuracy_floor",
			Message: fmt.Sprintf("Accuracy floor must be in [0, 1], got %v", f.AccuracyFloor),
		})
	}
	if f.ShortSMA < 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.forecast.short_sma",
			Message: fmt.Sprintf("Short SMA period must be positive, got %d", f.ShortSMA),
		})
	}
	if f.LongSMA <= f.ShortSMA {
		errors = append(errors, ValidationError{
			Field:   "engine.forecast.long_sma",
			Message: fmt.Sprintf("Long SMA period (%d) must exceed short SMA period (%d)", f.LongSMA, f.ShortSMA),
		})
	}
	if f.RSIPeriod < 2 {
		errors = append(errors, ValidationError{
			Field:   "engine.forecast.rsi_period",
			Message: fmt.Sprintf("RSI period must be at least 2, got %d", f.RSIPeriod),
		})
	}
	if f.MinPeriods <= f.LongSMA {
		errors = append(errors, ValidationError{
			Field:   "engine.forecast.min_periods",
			Message: fmt.Sprintf("Minimum periods (%d) must exceed long SMA period (%d)", f.MinPeriods, f.LongSMA),
		})
	}

	return errors
}

func (c *Config) validateSentiment() ValidationErrors {
	var errors ValidationErrors
	s := c.Engine.Sentiment

	if s.StrongThreshold <= 0 || s.StrongThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.sentiment.strong_threshold",
			Message: fmt.Sprintf("Strong sentiment threshold must be in (0, 1], got %v", s.StrongThreshold),
		})
	}
	if s.ShiftDelta <= 0 || s.ShiftDelta > 2 {
		errors = append(errors, ValidationError{
			Field:   "engine.sentiment.shift_delta",
			Message: fmt.Sprintf("Shift delta must be in (0, 2], got %v", s.ShiftDelta),
		})
	}
	if s.FullHeadlines < 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.sentiment.full_headlines",
			Message: fmt.Sprintf("Full-confidence headline count must be positive, got %d", s.FullHeadlines),
		})
	}

	return errors
}

func (c *Config) validateCorrelation() ValidationErrors {
	var errors ValidationErrors
	co := c.Engine.Correlation

	if co.MinSymbols < 2 {
		errors = append(errors, ValidationError{
			Field:   "engine.correlation.min_symbols",
			Message: fmt.Sprintf("Minimum symbols must be at least 2, got %d", co.MinSymbols),
		})
	}
	if co.MinOverlap < 2 {
		errors = append(errors, ValidationError{
			Field:   "engine.correlation.min_overlap",
			Message: fmt.Sprintf("Minimum overlap must be at least 2 observations, got %d", co.MinOverlap),
		})
	}
	if co.FullOverlap < co.MinOverlap {
		errors = append(errors, ValidationError{
			Field:   "engine.correlation.full_overlap",
			Message: fmt.Sprintf("Full-confidence overlap (%d) must be at least the minimum overlap (%d)", co.FullOverlap, co.MinOverlap),
		})
	}
	if co.ClusterThreshold <= 0 || co.ClusterThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.correlation.cluster_threshold",
			Message: fmt.Sprintf("Cluster threshold must be in (0, 1], got %v", co.ClusterThreshold),
		})
	}
	if co.DeltaThreshold <= 0 || co.DeltaThreshold > 2 {
		errors = append(errors, ValidationError{
			Field:   "engine.correlation.delta_threshold",
			Message: fmt.Sprintf("Delta threshold must be in (0, 2], got %v", co.DeltaThreshold),
		})
	}
	if co.ModerateScore <= 0 || co.ModerateScore >= co.HighScore || co.HighScore >= 100 {
		errors = append(errors, ValidationError{
			Field:   "engine.correlation.moderate_score",
			Message: fmt.Sprintf("Correlation label boundaries must satisfy 0 < moderate (%v) < high (%v) < 100", co.ModerateScore, co.HighScore),
		})
	}

	return errors
}

func (c *Config) validateLevels() ValidationErrors {
	var errors ValidationErrors
	l := c.Engine.Levels

	if !(0 < l.Medium && l.Medium < l.High && l.High < l.Critical && l.Critical < 100) {
		errors = append(errors, ValidationError{
			Field:   "engine.levels",
			Message: fmt.Sprintf("Level cut points must satisfy 0 < medium (%v) < high (%v) < critical (%v) < 100", l.Medium, l.High, l.Critical),
		})
	}

	return errors
}

func (c *Config) validateEngine() ValidationErrors {
	var errors ValidationErrors

	if c.Engine.AlertCap < 1 {
		errors = append(errors, ValidationError{
			Field:   "engine.alert_cap",
			Message: fmt.Sprintf("Alert cap must be at least 1, got %d", c.Engine.AlertCap),
		})
	}
	if c.Engine.AgentTimeoutMS <= 0 {
		errors = append(errors, ValidationError{
			Field:   "engine.agent_timeout_ms",
			Message: fmt.Sprintf("Agent timeout must be positive, got %d", c.Engine.AgentTimeoutMS),
		})
	}

	return errors
}

func (c *Config) validateAPI() ValidationErrors {
	var errors ValidationErrors

	if c.API.Port < 1 || c.API.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "api.port",
			Message: fmt.Sprintf("API port must be between 1 and 65535, got %d", c.API.Port),
		})
	}
	if c.API.RatePerSecond <= 0 {
		errors = append(errors, ValidationError{
			Field:   "api.rate_per_second",
			Message: fmt.Sprintf("Rate limit must be positive, got %v", c.API.RatePerSecond),
		})
	}
	if c.API.RateBurst < 1 {
		errors = append(errors, ValidationError{
			Field:   "api.rate_burst",
			Message: fmt.Sprintf("Rate burst must be at least 1, got %d", c.API.RateBurst),
		})
	}

	return errors
}
