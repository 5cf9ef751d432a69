package wavstego

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yyyoichi/wavstego/internal/sampler"
)

type Option func(*Stego) error

// WithAlgorithm selects the index selection algorithm by name.
// "mt19937" (the default) is a Mersenne Twister with pool/set selection and is
// compatible with carriers produced by other tools using that scheme.
// "gorand" uses math/rand with a partial Fisher-Yates shuffle.
// Both sides of an exchange must use the same algorithm.
func WithAlgorithm(name string) Option {
	return func(s *Stego) error {
		alg := sampler.Algorithm(name)
		if !alg.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
		}
		s.algorithm = alg
		return nil
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stego) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		s.logger = logger
		return nil
	}
}

// Algorithms lists the names accepted by WithAlgorithm.
func Algorithms() []string {
	algs := sampler.Algorithms()
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = string(a)
	}
	return names
}
