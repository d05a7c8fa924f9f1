package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Split holds disjoint train and evaluation row indices.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions the rows into train and evaluation sets.
// The evaluation set holds exactly round(fraction*N) rows and each class
// contributes proportionally to its share of the labels, within rounding.
// The same seed always yields the same partition.
func StratifiedSplit(labels []float64, fraction float64, seed int64) (Split, error) {
	n := len(labels)
	if n == 0 {
		return Split{}, fmt.Errorf("no rows to split")
	}
	if fraction <= 0 || fraction >= 1 {
		return Split{}, fmt.Errorf("split fraction must be within (0,1): %f", fraction)
	}

	byClass := make(map[float64][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}

	classes := make([]float64, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Float64s(classes)

	target := int(math.Round(fraction * float64(n)))
	if target == 0 || target == n {
		return Split{}, fmt.Errorf("fraction %f leaves an empty partition for %d rows", fraction, n)
	}

	// floor per class, then hand out the remainder by largest fractional share
	type share struct {
		class float64
		base  int
		frac  float64
	}
	shares := make([]share, len(classes))
	assigned := 0
	for c, class := range classes {
		exact := fraction * float64(len(byClass[class]))
		base := int(math.Floor(exact))
		shares[c] = share{class: class, base: base, frac: exact - float64(base)}
		assigned += base
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].frac > shares[j].frac })
	for i := 0; assigned < target; i++ {
		s := &shares[i%len(shares)]
		if s.base < len(byClass[s.class]) {
			s.base++
			assigned++
		}
	}

	take := make(map[float64]int, len(shares))
	for _, s := range shares {
		take[s.class] = s.base
	}

	rng := rand.New(rand.NewSource(seed))
	split := Split{}
	for _, class := range classes {
		rows := append([]int{}, byClass[class]...)
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		k := take[class]
		split.Test = append(split.Test, rows[:k]...)
		split.Train = append(split.Train, rows[k:]...)
	}

	sort.Ints(split.Train)
	sort.Ints(split.Test)
	return split, nil
}

// Select picks the given rows out of the matrix.
func Select(x [][]float64, rows []int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = x[row]
	}
	return out
}

// SelectLabels picks the given rows out of the label vector.
func SelectLabels(y []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = y[row]
	}
	return out
}
