package bench_test

import (
	"strings"
	"testing"

	"github.com/yyyoichi/wavstego"
)

// BenchmarkEmbed embeds a short message into one minute of CD audio per algorithm.
func BenchmarkEmbed(b *testing.B) {
	test := []struct {
		name string
		opts []wavstego.Option
	}{
		{name: "mt19937", opts: []wavstego.Option{wavstego.WithAlgorithm("mt19937")}},
		{name: "gorand", opts: []wavstego.Option{wavstego.WithAlgorithm("gorand")}},
	}

	buf := createSamples(44100 * 2 * 2 * 60)
	message := strings.Repeat("benchmark ", 100)

	for _, tt := range test {
		b.Run(tt.name, func(b *testing.B) {
			s, err := wavstego.New(tt.opts...)
			if err != nil {
				b.Fatalf("Failed to create Stego instance (%s): %v", tt.name, err)
			}
			for b.Loop() {
				if err := s.Embed(buf, message, 42); err != nil {
					b.Fatalf("Failed to embed message (%s): %v", tt.name, err)
				}
			}
		})
	}
}

func BenchmarkExtract(b *testing.B) {
	buf := createSamples(44100 * 2 * 2 * 60)
	message := strings.Repeat("benchmark ", 100)
	for _, alg := range wavstego.Algorithms() {
		b.Run(alg, func(b *testing.B) {
			s, err := wavstego.New(wavstego.WithAlgorithm(alg))
			if err != nil {
				b.Fatal(err)
			}
			if err := s.Embed(buf, message, 7); err != nil {
				b.Fatal(err)
			}
			for b.Loop() {
				got, err := s.Extract(buf, 7, len(message))
				if err != nil || got != message {
					b.Fatalf("Failed to extract message (%s): %v", alg, err)
				}
			}
		})
	}
}

// createSamples creates n bytes of a sawtooth to simulate 16-bit PCM data.
func createSamples(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	return buf
}
