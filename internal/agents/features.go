package agents

import (
	"fmt"

	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"

	"github.com/arionlabs/arion/internal/config"
	"github.com/arionlabs/arion/internal/forecast"
	"github.com/arionlabs/arion/internal/market"
)

// sliceToChan feeds a slice into a closed channel for indicator computation
func sliceToChan(values []float64) chan float64 {
	c := make(chan float64, len(values))
	for _, v := range values {
		c <- v
	}
	close(c)
	return c
}

// lastValue drains an indicator output channel and returns its final value
func lastValue(c <-chan float64) (float64, bool) {
	var last float64
	ok := false
	for v := range c {
		last = v
		ok = true
	}
	return last, ok
}

// lastSMA returns the most recent simple moving average over the period
func lastSMA(values []float64, period int) (float64, error) {
	if period < 1 || period > len(values) {
		return 0, fmt.Errorf("invalid SMA period: %d (have %d values)", period, len(values))
	}
	sma := trend.NewSmaWithPeriod[float64](period)
	value, ok := lastValue(sma.Compute(sliceToChan(values)))
	if !ok {
		return 0, fmt.Errorf("no SMA values calculated for period %d", period)
	}
	return value, nil
}

// lastRSI returns the most recent Relative Strength Index over the period
func lastRSI(closes []float64, period int) (float64, error) {
	if period < 2 || period >= len(closes) {
		return 0, fmt.Errorf("invalid RSI period: %d (have %d closes)", period, len(closes))
	}
	rsi := momentum.NewRsiWithPeriod[float64](period)
	value, ok := lastValue(rsi.Compute(sliceToChan(closes)))
	if !ok {
		return 0, fmt.Errorf("no RSI values calculated for period %d", period)
	}
	return value, nil
}

// momentumOver returns the fractional price change over the last k periods
func momentumOver(closes []float64, k int) float64 {
	if k <= 0 || len(closes) <= k {
		return 0
	}
	base := closes[len(closes)-1-k]
	if base <= 0 {
		return 0
	}
	return (closes[len(closes)-1] - base) / base
}

// engineerFeatures builds the model input vector from a price series
func engineerFeatures(series *market.PriceSeries, cfg config.ForecastConfig) (forecast.Features, error) {
	closes := series.Closes()
	returns := series.Returns()

	shortSMA, err := lastSMA(closes, cfg.ShortSMA)
	if err != nil {
		return forecast.Features{}, fmt.Errorf("short SMA: %w", err)
	}
	longSMA, err := lastSMA(closes, cfg.LongSMA)
	if err != nil {
		return forecast.Features{}, fmt.Errorf("long SMA: %w", err)
	}
	rsi, err := lastRSI(closes, cfg.RSIPeriod)
	if err != nil {
		return forecast.Features{}, fmt.Errorf("RSI: %w", err)
	}

	volumeRatio := 1.0
	volumes := series.Volumes()
	if volumeSMA, err := lastSMA(volumes, cfg.LongSMA); err == nil && volumeSMA > 0 {
		volumeRatio = volumes[len(volumes)-1] / volumeSMA
	}

	return forecast.Features{
		ShortSMA:    shortSMA,
		LongSMA:     longSMA,
		Momentum5:   momentumOver(closes, 5),
		Momentum10:  momentumOver(closes, 10),
		Vol5:        stdDev(tail(returns, 5)),
		Vol20:       stdDev(tail(returns, 20)),
		VolumeRatio: volumeRatio,
		RSI:         rsi,
		LastClose:   closes[len(closes)-1],
	}, nil
}

// trendLabel annotates the short/long SMA relationship
func trendLabel(shortSMA, longSMA float64) string {
	switch {
	case longSMA <= 0:
		return "SIDEWAYS"
	case shortSMA > longSMA*1.02:
		return "UPTREND"
	case shortSMA < longSMA*0.98:
		return "DOWNTREND"
	default:
		return "SIDEWAYS"
	}
}
