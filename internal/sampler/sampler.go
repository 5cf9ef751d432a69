package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Algorithm names a generator plus selection strategy.
// Encode and decode must agree on it, so it is part of the protocol.
type Algorithm string

const (
	// MT19937 draws with a Mersenne Twister and switches between a pool
	// and a rejection set depending on the requested count.
	MT19937 Algorithm = "mt19937"
	// GoRand draws with math/rand's source using a sparse partial Fisher-Yates shuffle.
	GoRand Algorithm = "gorand"

	Default = MT19937
)

var (
	ErrCapacityExceeded = errors.New("requested count exceeds population")
	ErrUnknownAlgorithm = errors.New("unknown sampling algorithm")
)

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm {
	return []Algorithm{MT19937, GoRand}
}

// IsValid reports whether a is a supported algorithm.
func (a Algorithm) IsValid() bool {
	switch a {
	case MT19937, GoRand:
		return true
	}
	return false
}

// Sampler selects distinct indices without replacement.
// It holds no generator state: every Sample call reseeds from scratch,
// so equal arguments always give the same sequence.
type Sampler struct {
	algorithm Algorithm
	seed      int64
}

func New(algorithm Algorithm, seed int64) (*Sampler, error) {
	if algorithm == "" {
		algorithm = Default
	}
	if !algorithm.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	return &Sampler{algorithm: algorithm, seed: seed}, nil
}

// Sample is a convenience wrapper around New and (*Sampler).Sample.
func Sample(algorithm Algorithm, seed int64, population, count int) ([]int, error) {
	s, err := New(algorithm, seed)
	if err != nil {
		return nil, err
	}
	return s.Sample(population, count)
}

func (s *Sampler) Algorithm() Algorithm {
	return s.algorithm
}

// Sample returns count distinct indices in [0, population), in draw order.
func (s *Sampler) Sample(population, count int) ([]int, error) {
	if population < 0 || count < 0 || count > population {
		return nil, fmt.Errorf("%w: count %d, population %d", ErrCapacityExceeded, count, population)
	}
	switch s.algorithm {
	case GoRand:
		return sampleGoRand(s.seed, population, count), nil
	default:
		return sampleMT19937(s.seed, population, count), nil
	}
}

func sampleMT19937(seed int64, population, count int) []int {
	rd := newMT19937(seed)
	result := make([]int, count)
	if population <= poolThreshold(count) {
		pool := make([]int, population)
		for i := range pool {
			pool[i] = i
		}
		for i := range count {
			j := rd.below(population - i)
			result[i] = pool[j]
			pool[j] = pool[population-i-1]
		}
		return result
	}
	selected := make(map[int]struct{}, count)
	for i := range count {
		j := rd.below(population)
		for {
			if _, ok := selected[j]; !ok {
				break
			}
			j = rd.below(population)
		}
		selected[j] = struct{}{}
		result[i] = j
	}
	return result
}

// poolThreshold is the largest population for which the pool strategy is used.
func poolThreshold(count int) int {
	size := 21
	if count > 5 {
		size += int(math.Pow(4, math.Ceil(math.Log(float64(count*3))/math.Log(4))))
	}
	return size
}

func sampleGoRand(seed int64, population, count int) []int {
	rd := rand.New(rand.NewSource(seed))
	// swapped holds only the positions whose value differs from the identity.
	swapped := make(map[int]int, count)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	result := make([]int, count)
	for i := range count {
		j := i + int(rd.Int63n(int64(population-i)))
		result[i] = at(j)
		swapped[j] = at(i)
	}
	return result
}
