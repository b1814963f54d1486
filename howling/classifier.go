package howling

// Classifier turns the current history and frame into a three-level
// verdict. Each frame is judged on its own; nothing carries over between
// calls. Classify never fails: every degenerate input yields LevelNone.
type Classifier struct {
	ninosThreshold float64
	silenceFloorDB float64
	threshold      *ThresholdEstimator
	scorer         *SparsityScorer
}

// NewClassifier builds a classifier from the detection parameters in cfg
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{
		ninosThreshold: cfg.NinosThreshold,
		silenceFloorDB: cfg.SilenceFloorDB,
		threshold:      NewThresholdEstimator(cfg.DynamicThresholdAlpha),
		scorer:         NewSparsityScorer(cfg.ScoringWorkers),
	}
}

// Classify evaluates the newest frame in h. frameDB is the same frame in
// decibels and is only used for the silence guard.
//
// Guards, in order: the window must be full, and the loudest bin must reach
// the silence floor. Past them, the sparsity argmax b* is flagged when its
// score exceeds the NINOS threshold and when its current amplitude exceeds
// the dynamic threshold; both flags give critical, one gives warning.
func (c *Classifier) Classify(h *History, frameDB []float64, sampleRate float64) HowlingResult {
	if h.Len() == 0 || h.Len() < h.Capacity() {
		return noDetection()
	}

	if c.isSilent(frameDB) {
		return noDetection()
	}

	bin, score, ok := c.scorer.Score(h)
	if !ok {
		return noDetection()
	}

	current := h.FrameAt(0)
	dynThresh := c.threshold.Estimate(current)

	ninosExceeded := score > c.ninosThreshold
	statisticallyStrong := current[bin] > dynThresh

	return HowlingResult{
		Bin:         bin,
		FrequencyHz: BinFrequency(bin, h.BinCount(), sampleRate),
		Level:       combine(ninosExceeded, statisticallyStrong),
		Score:       score,
	}
}

func (c *Classifier) isSilent(frameDB []float64) bool {
	bin, loudest := LoudestBin(frameDB)
	return bin < 0 || loudest < c.silenceFloorDB
}

func combine(ninosExceeded, statisticallyStrong bool) Level {
	switch {
	case ninosExceeded && statisticallyStrong:
		return LevelCritical
	case ninosExceeded || statisticallyStrong:
		return LevelWarning
	default:
		return LevelNone
	}
}
