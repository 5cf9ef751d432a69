package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrLengthMismatch = errors.New("buffers differ in length")

// Diff describes how a modified buffer differs from its original.
type Diff struct {
	Length int
	// Changed holds the differing positions in ascending order.
	Changed []int
	// LSBOnly is true when no difference reaches above bit 0.
	LSBOnly bool
}

// Compare lists the positions where modified differs from original.
func Compare(original, modified []byte) (Diff, error) {
	if len(original) != len(modified) {
		return Diff{}, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(original), len(modified))
	}
	d := Diff{Length: len(original), LSBOnly: true}
	for i := range original {
		x := original[i] ^ modified[i]
		if x == 0 {
			continue
		}
		d.Changed = append(d.Changed, i)
		if x&0xfe != 0 {
			d.LSBOnly = false
		}
	}
	return d, nil
}

// Histogram counts changed positions in buckets equal-width segments of the buffer.
func (d Diff) Histogram(buckets int) []int {
	if buckets < 1 {
		buckets = 1
	}
	counts := make([]int, buckets)
	if d.Length == 0 {
		return counts
	}
	for _, at := range d.Changed {
		counts[at*buckets/d.Length]++
	}
	return counts
}

// LSBStats summarizes the least significant bits of a buffer.
type LSBStats struct {
	Bytes     int
	OnesRatio float64
	StdDev    float64
	// ChiSquare is the pairs-of-values statistic over the byte histogram:
	// values 2k and 2k+1 are expected to be equally frequent once their
	// least significant bits have been overwritten with uniform data.
	ChiSquare        float64
	DegreesOfFreedom int
	// PValue is the probability of a statistic at least this large when the
	// pairs are balanced. Values near 1 mean the low bits look randomized.
	PValue float64
}

// LSB computes LSBStats for buf.
func LSB(buf []byte) LSBStats {
	var hist [256]float64
	for _, b := range buf {
		hist[b]++
	}
	s := LSBStats{Bytes: len(buf)}
	if len(buf) == 0 {
		return s
	}

	var zeros, ones float64
	for v := 0; v < 256; v += 2 {
		zeros += hist[v]
		ones += hist[v+1]
	}
	mean, std := stat.MeanStdDev([]float64{0, 1}, []float64{zeros, ones})
	s.OnesRatio = mean
	if len(buf) > 1 {
		s.StdDev = std
	}

	pairs := 0
	for v := 0; v < 256; v += 2 {
		expected := (hist[v] + hist[v+1]) / 2
		if expected == 0 {
			continue
		}
		diff := hist[v] - expected
		s.ChiSquare += diff * diff / expected
		pairs++
	}
	s.DegreesOfFreedom = pairs - 1
	if s.DegreesOfFreedom > 0 {
		s.PValue = distuv.ChiSquared{K: float64(s.DegreesOfFreedom)}.Survival(s.ChiSquare)
	}
	return s
}
