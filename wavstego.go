// Package wavstego hides a text message in the least significant bits of
// pseudorandomly chosen sample bytes of a PCM waveform, and recovers it.
//
// The seed only selects positions. It is not a key, and the content is not
// encrypted. Extraction needs the same seed, the same algorithm and the message
// length, none of which are stored in the carrier.
package wavstego

import (
	"fmt"
	"log/slog"

	"github.com/yyyoichi/wavstego/internal/bitconv"
	"github.com/yyyoichi/wavstego/internal/carrier"
	"github.com/yyyoichi/wavstego/internal/lsb"
	"github.com/yyyoichi/wavstego/internal/sampler"
)

var (
	ErrNotFound          = carrier.ErrNotFound
	ErrUnsupportedFormat = carrier.ErrUnsupportedFormat
	ErrIO                = carrier.ErrIO
	ErrCapacityExceeded  = sampler.ErrCapacityExceeded
	ErrUnknownAlgorithm  = sampler.ErrUnknownAlgorithm
	ErrInvalidLength     = bitconv.ErrInvalidLength
	ErrInvalidCharacter  = bitconv.ErrInvalidCharacter
)

// Embed hides message in buf with the specified options.
// This is a convenience function that creates a Stego instance and calls its Embed method.
func Embed(buf []byte, message string, seed int64, opts ...Option) error {
	s, err := New(opts...)
	if err != nil {
		return err
	}
	return s.Embed(buf, message, seed)
}

// Extract recovers a message of length characters from buf with the specified options.
// This is a convenience function that creates a Stego instance and calls its Extract method.
func Extract(buf []byte, seed int64, length int, opts ...Option) (string, error) {
	s, err := New(opts...)
	if err != nil {
		return "", err
	}
	return s.Extract(buf, seed, length)
}

// Capacity returns how many characters fit into buf.
func Capacity(buf []byte) int {
	return len(buf) / 8
}

// Stego holds the protocol parameters shared by embedding and extraction.
// It carries no per-buffer state and may be used from several goroutines,
// as long as each buffer has a single owner.
type Stego struct {
	algorithm sampler.Algorithm
	logger    *slog.Logger
}

// New initializes a Stego with the given options.
// Without options it uses the MT19937 index protocol and discards logs.
func New(opts ...Option) (*Stego, error) {
	s := new(Stego)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stego) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	if s.algorithm == "" {
		s.algorithm = sampler.Default
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return nil
}

// Algorithm returns the index selection algorithm in use.
func (s *Stego) Algorithm() string {
	return string(s.algorithm)
}

// Embed hides message in buf, modifying it in place.
//
// Process:
//  1. Converts the message to 8 bits per character, most significant bit first.
//  2. Checks that the carrier has one byte per bit.
//  3. Draws that many distinct byte positions from the seeded sampler.
//  4. Overwrites the least significant bit at each position with the next message bit.
//
// Every character must fit in one byte. buf is untouched when an error is returned.
func (s *Stego) Embed(buf []byte, message string, seed int64) error {
	mark, err := bitconv.FromString(message)
	if err != nil {
		return err
	}
	return s.embed(buf, mark, seed)
}

// EmbedBytes hides an arbitrary payload in buf, with the same layout as Embed.
func (s *Stego) EmbedBytes(buf []byte, payload []byte, seed int64) error {
	return s.embed(buf, bitconv.BytesToBools(payload), seed)
}

// Extract recovers a message of length characters from buf.
//
// A wrong seed or algorithm is not detected: the result is then arbitrary text.
func (s *Stego) Extract(buf []byte, seed int64, length int) (string, error) {
	mark, err := s.extract(buf, seed, length)
	if err != nil {
		return "", err
	}
	return bitconv.ToString(mark)
}

// ExtractBytes recovers a payload of length bytes from buf.
func (s *Stego) ExtractBytes(buf []byte, seed int64, length int) ([]byte, error) {
	mark, err := s.extract(buf, seed, length)
	if err != nil {
		return nil, err
	}
	return bitconv.BoolsToBytes(mark)
}

func (s *Stego) embed(buf []byte, mark []bool, seed int64) error {
	if err := lsb.Enable(len(buf), len(mark)); err != nil {
		return fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}
	indices, err := sampler.Sample(s.algorithm, seed, len(buf), len(mark))
	if err != nil {
		return err
	}
	lsb.Embed(buf, mark, indices)
	s.logger.Debug("embedded mark", "algorithm", s.algorithm, "bits", len(mark), "carrier_bytes", len(buf))
	return nil
}

func (s *Stego) extract(buf []byte, seed int64, length int) ([]bool, error) {
	if length < 0 || length > Capacity(buf) {
		return nil, fmt.Errorf("%w: length %d characters, capacity %d", ErrCapacityExceeded, length, Capacity(buf))
	}
	indices, err := sampler.Sample(s.algorithm, seed, len(buf), length*8)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("extracting mark", "algorithm", s.algorithm, "bits", len(indices), "carrier_bytes", len(buf))
	return lsb.Extract(buf, indices), nil
}
