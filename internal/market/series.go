// Package market holds the in-memory market data contracts the engine
// consumes. Data retrieval itself is an external collaborator; series arrive
// here already fetched and chronological.
package market

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Sentinel errors for invalid series input
var (
	ErrEmptySeries     = errors.New("price series is empty")
	ErrUnorderedSeries = errors.New("price series timestamps must be strictly increasing")
)

// Point is one observation of a price series
type Point struct {
	Time   time.Time `json:"time"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an ordered sequence of (timestamp, close, volume) for one
// symbol. Timestamps are strictly increasing; duplicates are forbidden.
// The series is owned by the caller and read-only to agents.
type PriceSeries struct {
	points []Point
}

// NewPriceSeries validates and wraps a chronological point slice. The input
// is copied so later caller mutations cannot leak into a running cycle.
func NewPriceSeries(points []Point) (*PriceSeries, error) {
	if len(points) == 0 {
		return nil, ErrEmptySeries
	}
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return nil, fmt.Errorf("%w: index %d (%s) does not advance past index %d (%s)",
				ErrUnorderedSeries, i, points[i].Time.Format(time.RFC3339), i-1, points[i-1].Time.Format(time.RFC3339))
		}
	}

	copied := make([]Point, len(points))
	copy(copied, points)
	return &PriceSeries{points: copied}, nil
}

// Len returns the number of observations
func (s *PriceSeries) Len() int {
	return len(s.points)
}

// At returns the i-th observation
func (s *PriceSeries) At(i int) Point {
	return s.points[i]
}

// Last returns the most recent observation
func (s *PriceSeries) Last() Point {
	return s.points[len(s.points)-1]
}

// Closes returns a copy of the close prices in chronological order
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.points))
	for i, p := range s.points {
		closes[i] = p.Close
	}
	return closes
}

// Volumes returns a copy of the volumes in chronological order
func (s *PriceSeries) Volumes() []float64 {
	volumes := make([]float64, len(s.points))
	for i, p := range s.points {
		volumes[i] = p.Volume
	}
	return volumes
}

// Returns computes daily returns r_t = close_t/close_{t-1} - 1.
// Observations with a non-positive preceding close are skipped.
func (s *PriceSeries) Returns() []float64 {
	if len(s.points) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(s.points)-1)
	for i := 1; i < len(s.points); i++ {
		prev := s.points[i-1].Close
		if prev > 0 {
			returns = append(returns, (s.points[i].Close-prev)/prev)
		}
	}
	return returns
}

// returnsByTime maps the timestamp of each return's closing observation to
// the return value.
func (s *PriceSeries) returnsByTime() map[time.Time]float64 {
	byTime := make(map[time.Time]float64, len(s.points))
	for i := 1; i < len(s.points); i++ {
		prev := s.points[i-1].Close
		if prev > 0 {
			byTime[s.points[i].Time] = (s.points[i].Close - prev) / prev
		}
	}
	return byTime
}

// AlignedReturns pairs the daily returns of two series on their common
// observation dates, in chronological order. Only overlapping dates are used.
func AlignedReturns(a, b *PriceSeries) (ra, rb []float64) {
	aByTime := a.returnsByTime()
	bByTime := b.returnsByTime()

	common := make([]time.Time, 0, len(aByTime))
	for t := range aByTime {
		if _, ok := bByTime[t]; ok {
			common = append(common, t)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i].Before(common[j]) })

	ra = make([]float64, len(common))
	rb = make([]float64, len(common))
	for i, t := range common {
		ra[i] = aByTime[t]
		rb[i] = bByTime[t]
	}
	return ra, rb
}

// WithShock returns a new series with one synthetic observation appended:
// the last close moved by percent (e.g. -10 for a 10% drop), one day later,
// carrying the last volume. The receiver is unchanged; shocks are a
// pass-through concern of the orchestrator's caller.
func (s *PriceSeries) WithShock(percent float64) *PriceSeries {
	last := s.Last()
	shocked := make([]Point, len(s.points), len(s.points)+1)
	copy(shocked, s.points)
	shocked = append(shocked, Point{
		Time:   last.Time.Add(24 * time.Hour),
		Close:  last.Close * (1 + percent/100),
		Volume: last.Volume,
	})
	return &PriceSeries{points: shocked}
}
