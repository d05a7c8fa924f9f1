package ml

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ClassMetrics are the per-class classification metrics.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation is the held-out quality summary of a fitted classifier.
// The confusion matrix rows are actual {Won, Lost}, columns predicted
// {Won, Lost}, at the configured decision threshold.
type Evaluation struct {
	Won       ClassMetrics
	Lost      ClassMetrics
	Accuracy  float64
	AUC       float64
	Confusion [2][2]int
	Threshold float64
}

// Evaluate computes classification metrics from predicted loss
// probabilities and actual labels (1 = Lost).
func Evaluate(probabilities, labels []float64, threshold float64) Evaluation {
	eval := Evaluation{Threshold: threshold}

	for i, p := range probabilities {
		actual := int(labels[i])
		predicted := 0
		if p > threshold {
			predicted = 1
		}
		eval.Confusion[actual][predicted]++
	}

	eval.Lost = classMetrics(eval.Confusion, 1)
	eval.Won = classMetrics(eval.Confusion, 0)

	total := len(labels)
	if total > 0 {
		eval.Accuracy = float64(eval.Confusion[0][0]+eval.Confusion[1][1]) / float64(total)
	}

	eval.AUC = auc(probabilities, labels)
	return eval
}

func classMetrics(confusion [2][2]int, class int) ClassMetrics {
	other := 1 - class
	tp := float64(confusion[class][class])
	fp := float64(confusion[other][class])
	fn := float64(confusion[class][other])

	m := ClassMetrics{Support: confusion[class][0] + confusion[class][1]}
	if tp+fp > 0 {
		m.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		m.Recall = tp / (tp + fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// auc computes the area under the ROC curve over the continuous score.
// It is NaN when the labels hold a single class.
func auc(probabilities, labels []float64) float64 {
	order := make([]int, len(probabilities))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return probabilities[order[i]] < probabilities[order[j]]
	})

	scores := make([]float64, len(order))
	classes := make([]bool, len(order))
	var positives int
	for i, idx := range order {
		scores[i] = probabilities[idx]
		classes[i] = labels[idx] == 1
		if classes[i] {
			positives++
		}
	}
	if positives == 0 || positives == len(order) {
		return math.NaN()
	}

	tpr, fpr := stat.ROC(nil, scores, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}
