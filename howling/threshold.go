package howling

import (
	"github.com/RyanBlaney/howl-sonar/algorithms/common"
)

// ThresholdEstimator computes the adaptive amplitude threshold μ + α·σ from
// the current frame's linear amplitudes, σ being the population standard
// deviation across bins.
//
// It looks at one frame only while the sparsity scorer looks at the whole
// window. The threshold tracks instantaneous loudness and the scorer tracks
// tonal persistence; keep the two windows different.
type ThresholdEstimator struct {
	alpha float64
}

// NewThresholdEstimator creates an estimator with sensitivity alpha
func NewThresholdEstimator(alpha float64) *ThresholdEstimator {
	return &ThresholdEstimator{alpha: alpha}
}

// Estimate returns μ + α·σ over frameLinear, or 0 for an empty frame
func (te *ThresholdEstimator) Estimate(frameLinear []float64) float64 {
	if len(frameLinear) == 0 {
		return 0.0
	}
	mean, std := common.PopMeanStdDev(frameLinear)
	return mean + te.alpha*std
}

// Alpha returns the sensitivity coefficient
func (te *ThresholdEstimator) Alpha() float64 {
	return te.alpha
}
