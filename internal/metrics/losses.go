package metrics

import "math"

// logLossEps clips probabilities away from 0 and 1 so log loss stays finite.
const logLossEps = 1e-15

// SquaredLoss is the mean squared difference between scores and labels
// (the Brier score for binary labels). Returns 0 for empty input.
func SquaredLoss(labels, scores []float64) float64 {
	if len(labels) == 0 {
		return 0
	}
	sum := 0.0
	for i := range labels {
		d := scores[i] - labels[i]
		sum += d * d
	}
	return sum / float64(len(labels))
}

// LogLoss is the mean binary cross-entropy of scores against 0/1 labels.
// Scores are clipped to [eps, 1-eps]. Returns 0 for empty input.
func LogLoss(labels, scores []float64) float64 {
	if len(labels) == 0 {
		return 0
	}
	sum := 0.0
	for i := range labels {
		p := math.Min(math.Max(scores[i], logLossEps), 1-logLossEps)
		sum += labels[i]*math.Log(p) + (1-labels[i])*math.Log(1-p)
	}
	return -sum / float64(len(labels))
}
