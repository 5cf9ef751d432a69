package wavstego

import (
	"fmt"

	"github.com/yyyoichi/wavstego/internal/carrier"
)

// EmbedFile hides message in the WAV file at src and writes the result to dst.
func EmbedFile(src, dst, message string, seed int64, opts ...Option) error {
	s, err := New(opts...)
	if err != nil {
		return err
	}
	return s.EmbedFile(src, dst, message, seed)
}

// ExtractFile recovers a message of length characters from the WAV file at src.
func ExtractFile(src string, seed int64, length int, opts ...Option) (string, error) {
	s, err := New(opts...)
	if err != nil {
		return "", err
	}
	return s.ExtractFile(src, seed, length)
}

// FileCapacity returns how many characters fit into the WAV file at src.
func FileCapacity(src string) (int, error) {
	c, err := carrier.Read(src)
	if err != nil {
		return 0, err
	}
	return Capacity(c.Samples), nil
}

// EmbedFile reads src, embeds message and writes a container with the same
// parameters to dst. Only the selected sample bytes differ from src, each in bit 0.
// Nothing is written when embedding fails.
func (s *Stego) EmbedFile(src, dst, message string, seed int64) error {
	c, err := carrier.Read(src)
	if err != nil {
		return err
	}
	if err := s.Embed(c.Samples, message, seed); err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}
	if err := carrier.Write(dst, c); err != nil {
		return fmt.Errorf("%s: %w", dst, err)
	}
	s.logger.Debug("wrote carrier", "src", src, "dst", dst, "frames", c.Frames())
	return nil
}

// ExtractFile reads src and extracts a message of length characters.
func (s *Stego) ExtractFile(src string, seed int64, length int) (string, error) {
	c, err := carrier.Read(src)
	if err != nil {
		return "", err
	}
	msg, err := s.Extract(c.Samples, seed, length)
	if err != nil {
		return "", fmt.Errorf("%s: %w", src, err)
	}
	return msg, nil
}
