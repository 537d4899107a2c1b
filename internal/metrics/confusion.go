package metrics

import "math"

// Confusion holds the binary confusion-matrix counts for a set of predictions.
type Confusion struct {
	TP int `json:"true_positives"`
	FP int `json:"false_positives"`
	TN int `json:"true_negatives"`
	FN int `json:"false_negatives"`
}

// Prediction pairs a ground-truth label with a thresholded decision.
type Prediction struct {
	Actual    bool // true = positive class
	Predicted bool // true = score at or above the threshold
}

// Add records one prediction.
func (c *Confusion) Add(p Prediction) {
	switch {
	case p.Actual && p.Predicted:
		c.TP++
	case !p.Actual && p.Predicted:
		c.FP++
	case !p.Actual && !p.Predicted:
		c.TN++
	case p.Actual && !p.Predicted:
		c.FN++
	}
}

// ComputeConfusion tallies the given predictions.
func ComputeConfusion(preds []Prediction) Confusion {
	var c Confusion
	for _, p := range preds {
		c.Add(p)
	}
	return c
}

// Total is the number of recorded predictions.
func (c Confusion) Total() int {
	return c.TP + c.FP + c.TN + c.FN
}

// Accuracy is (TP+TN)/total.
func (c Confusion) Accuracy() float64 {
	return safeDivide(float64(c.TP+c.TN), float64(c.Total()))
}

// TPR is the true positive rate (recall).
func (c Confusion) TPR() float64 {
	return safeDivide(float64(c.TP), float64(c.TP+c.FN))
}

// FPR is the false positive rate.
func (c Confusion) FPR() float64 {
	return safeDivide(float64(c.FP), float64(c.FP+c.TN))
}

// TNR is the true negative rate (specificity).
func (c Confusion) TNR() float64 {
	return safeDivide(float64(c.TN), float64(c.FP+c.TN))
}

// FNR is the false negative rate.
func (c Confusion) FNR() float64 {
	return safeDivide(float64(c.FN), float64(c.TP+c.FN))
}

// Precision is TP/(TP+FP).
func (c Confusion) Precision() float64 {
	return safeDivide(float64(c.TP), float64(c.TP+c.FP))
}

// PPR is the positive prediction rate, the share of examples predicted positive.
func (c Confusion) PPR() float64 {
	return safeDivide(float64(c.TP+c.FP), float64(c.Total()))
}

// F1 is the harmonic mean of precision and recall.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.TPR()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// MaxAbsGap returns the largest pairwise absolute difference among values,
// which is max(values) - min(values). Returns 0 for fewer than two values.
func MaxAbsGap(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi - lo
}

func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 0.0
	}
	return num / den
}
