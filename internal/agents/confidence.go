package agents

// ConfidenceFunc maps an observation count (trading days, headlines, common
// correlation observations) to a confidence in [0, 1]. Weighting policy is
// injectable so it can be unit-tested against synthetic counts without
// re-deriving any agent math.
type ConfidenceFunc func(observations int) float64

// insufficientFloor is the confidence reported below the minimum observation
// count: near zero, but not zero, so the degraded signal is distinguishable
// from a hard failure.
const insufficientFloor = 0.1

// SaturatingConfidence returns a ConfidenceFunc that rises linearly with the
// observation count and saturates at 1 once full observations are available.
// Below min the confidence is capped at the insufficiency floor; zero
// observations always yield zero.
func SaturatingConfidence(min, full int) ConfidenceFunc {
	return func(observations int) float64 {
		if observations <= 0 {
			return 0
		}
		conf := float64(observations) / float64(full)
		if conf > 1 {
			conf = 1
		}
		if observations < min && conf > insufficientFloor {
			conf = insufficientFloor
		}
		return conf
	}
}
