package ml

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
)

// ErrNotConverged is returned when the fit exhausts its iteration budget.
// A partially fitted model is never kept.
var ErrNotConverged = errors.New("optimizer did not converge within the iteration budget")

// Logistic is an L2-regularized logistic regression estimating the
// probability of the positive class, with class weights inversely
// proportional to class frequency. It is fitted by iteratively
// reweighted least squares.
type Logistic struct {
	lambda        float64
	maxIterations int
	tolerance     float64

	weights   []float64
	intercept float64
}

// NewLogistic creates an unfitted classifier.
func NewLogistic(lambda float64, maxIterations int, tolerance float64) *Logistic {
	return &Logistic{
		lambda:        lambda,
		maxIterations: maxIterations,
		tolerance:     tolerance,
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Fit estimates the coefficients on the given training rows.
// Newton steps are taken until the largest coefficient update falls
// below the tolerance; running out of iterations returns ErrNotConverged.
func (l *Logistic) Fit(x [][]float64, y []float64) error {
	n := len(x)
	if n == 0 || n != len(y) {
		return fmt.Errorf("invalid training set: %d rows, %d labels", n, len(y))
	}
	d := len(x[0])

	var positives int
	for _, label := range y {
		if label == 1 {
			positives++
		}
	}
	if positives == 0 || positives == n {
		return fmt.Errorf("training labels hold a single class (%d of %d positive)", positives, n)
	}

	// balanced class weights: n / (2 * class count)
	wPos := float64(n) / (2 * float64(positives))
	wNeg := float64(n) / (2 * float64(n-positives))

	// design matrix with a leading intercept column
	p := d + 1
	design := mat.NewDense(n, p, nil)
	for i, row := range x {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}

	beta := make([]float64, p)
	for iteration := 1; iteration <= l.maxIterations; iteration++ {
		grad := mat.NewVecDense(p, nil)
		scaled := mat.NewDense(p, n, nil)

		for i := 0; i < n; i++ {
			eta := 0.0
			for j := 0; j < p; j++ {
				eta += design.At(i, j) * beta[j]
			}
			prob := sigmoid(eta)

			sample := wNeg
			if y[i] == 1 {
				sample = wPos
			}

			residual := sample * (y[i] - prob)
			curvature := sample * prob * (1 - prob)
			if curvature < 1e-10 {
				curvature = 1e-10
			}
			for j := 0; j < p; j++ {
				grad.SetVec(j, grad.AtVec(j)+design.At(i, j)*residual)
				scaled.Set(j, i, design.At(i, j)*curvature)
			}
		}

		// ridge penalty, intercept excluded
		for j := 1; j < p; j++ {
			grad.SetVec(j, grad.AtVec(j)-l.lambda*beta[j])
		}

		hessian := mat.NewDense(p, p, nil)
		hessian.Mul(scaled, design)
		for j := 1; j < p; j++ {
			hessian.Set(j, j, hessian.At(j, j)+l.lambda)
		}

		var step mat.VecDense
		if err := step.SolveVec(hessian, grad); err != nil {
			return fmt.Errorf("singular hessian at iteration %d: %w", iteration, err)
		}

		var largest float64
		for j := 0; j < p; j++ {
			beta[j] += step.AtVec(j)
			if s := math.Abs(step.AtVec(j)); s > largest {
				largest = s
			}
		}

		if largest < l.tolerance {
			l.intercept = beta[0]
			l.weights = append([]float64{}, beta[1:]...)
			log.Info().Int("iterations", iteration).
				Float64("weight_positive", wPos).
				Float64("weight_negative", wNeg).
				Msg("classifier converged")
			return nil
		}
	}

	return fmt.Errorf("after %d iterations: %w", l.maxIterations, ErrNotConverged)
}

// PredictProba returns the predicted probability of the positive class.
func (l *Logistic) PredictProba(row []float64) float64 {
	if l.weights == nil {
		panic("classifier is not fitted")
	}
	eta := l.intercept
	for j, w := range l.weights {
		eta += w * row[j]
	}
	p := sigmoid(eta)
	// keep probabilities strictly inside (0,1)
	if p < 1e-15 {
		p = 1e-15
	}
	if p > 1-1e-15 {
		p = 1 - 1e-15
	}
	return p
}

// PredictProbaAll scores every row.
func (l *Logistic) PredictProbaAll(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = l.PredictProba(row)
	}
	return out
}

// Coefficients returns the fitted per-feature weights and the intercept.
func (l *Logistic) Coefficients() ([]float64, float64) {
	if l.weights == nil {
		panic("classifier is not fitted")
	}
	return append([]float64{}, l.weights...), l.intercept
}
