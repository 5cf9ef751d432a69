package wavstego

import (
	"bytes"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noise(n int, seed int64) []byte {
	buf := make([]byte, n)
	rd := rand.New(rand.NewSource(seed))
	_, _ = rd.Read(buf)
	return buf
}

func TestNew(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	assert.Equal(t, "mt19937", s.Algorithm())

	s, err = New(WithAlgorithm("gorand"), WithLogger(slog.Default()))
	require.NoError(t, err)
	assert.Equal(t, "gorand", s.Algorithm())

	_, err = New(WithAlgorithm("rc4"))
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	_, err = New(WithLogger(nil))
	assert.Error(t, err)

	assert.ElementsMatch(t, []string{"mt19937", "gorand"}, Algorithms())
}

func TestRoundTrip(t *testing.T) {
	messages := []string{
		"",
		"H",
		"Hi",
		"Hello, World!",
		"The quick brown fox jumps over the lazy dog. 0123456789",
		"\x00\x01\u00fe\u00ff",
		"Grüße, señor ÿ",
	}
	for _, alg := range Algorithms() {
		s, err := New(WithAlgorithm(alg))
		require.NoError(t, err)
		for i, msg := range messages {
			for _, seed := range []int64{0, 1, 42, -99, 1 << 40} {
				buf := noise(8*len([]rune(msg))+i*13, seed+int64(i))
				require.NoError(t, s.Embed(buf, msg, seed), "%s %q", alg, msg)
				got, err := s.Extract(buf, seed, len([]rune(msg)))
				require.NoError(t, err)
				assert.Equal(t, msg, got, "%s seed=%d", alg, seed)
			}
		}
	}
}

func TestMinimalMutation(t *testing.T) {
	for _, alg := range Algorithms() {
		orig := noise(4096, 7)
		buf := bytes.Clone(orig)
		msg := "minimal mutation check"
		require.NoError(t, Embed(buf, msg, 1234, WithAlgorithm(alg)))

		changed := 0
		for i := range buf {
			diff := buf[i] ^ orig[i]
			assert.Zero(t, diff&0xfe, "byte %d changed above bit 0", i)
			if diff != 0 {
				changed++
			}
		}
		// Positions whose bit already matched are selected but unchanged.
		assert.LessOrEqual(t, changed, 8*len(msg))
		assert.Positive(t, changed)
	}
}

func TestConcreteScenario(t *testing.T) {
	buf := make([]byte, 100)
	require.NoError(t, Embed(buf, "Hi", 42))

	// "Hi" = 01001000 01101001: six ones.
	ones := 0
	for _, b := range buf {
		require.LessOrEqual(t, b, byte(1))
		ones += int(b)
	}
	assert.Equal(t, 6, ones)

	// The selected positions for seed 42 are 81, 14, 3, 94, 35, 31, 28, 17, 13, 86, 69, 11, 75, 54, 4, 27.
	exp := make([]byte, 100)
	for _, at := range []int{14, 35, 86, 69, 75, 27} {
		exp[at] = 1
	}
	assert.Equal(t, exp, buf)

	got, err := Extract(buf, 42, 2)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
}

func TestDeterministicEmbed(t *testing.T) {
	orig := noise(512, 3)
	a, b := bytes.Clone(orig), bytes.Clone(orig)
	require.NoError(t, Embed(a, "same", 5))
	require.NoError(t, Embed(b, "same", 5))
	assert.Equal(t, a, b)
}

func TestEmptyMessage(t *testing.T) {
	orig := noise(64, 9)
	buf := bytes.Clone(orig)
	require.NoError(t, Embed(buf, "", 1))
	assert.Equal(t, orig, buf)

	got, err := Extract(buf, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Extract(nil, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCapacityExceeded(t *testing.T) {
	orig := noise(15, 1)
	buf := bytes.Clone(orig)
	err := Embed(buf, "Hi", 1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, orig, buf, "buffer must be untouched on failure")

	_, err = Extract(buf, 1, 2)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	_, err = Extract(buf, 1, -1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// exactly full
	buf = noise(16, 1)
	require.NoError(t, Embed(buf, "Hi", 1))
	got, err := Extract(buf, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
}

func TestInvalidCharacter(t *testing.T) {
	orig := noise(1024, 1)
	buf := bytes.Clone(orig)
	err := Embed(buf, "price: 5€", 1)
	assert.ErrorIs(t, err, ErrInvalidCharacter)
	assert.Equal(t, orig, buf)
}

func TestSeedMismatch(t *testing.T) {
	buf := noise(8192, 2)
	msg := "attack at dawn"
	require.NoError(t, Embed(buf, msg, 100))

	// A different seed is not an error, it just reads other positions.
	got, err := Extract(buf, 101, len(msg))
	require.NoError(t, err)
	assert.Len(t, []rune(got), len(msg))
	assert.NotEqual(t, msg, got)

	got, err = Extract(buf, 100, len(msg), WithAlgorithm("gorand"))
	require.NoError(t, err)
	assert.NotEqual(t, msg, got)
}

func TestBytes(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	payload := []byte{0x00, 0xde, 0xad, 0xbe, 0xef, 0xff}
	buf := noise(1024, 4)
	require.NoError(t, s.EmbedBytes(buf, payload, 77))
	got, err := s.ExtractBytes(buf, 77, len(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// A byte payload and a message with the same bytes share a layout.
	text, err := s.Extract(buf, 77, len(payload))
	require.NoError(t, err)
	assert.Equal(t, "\u0000\u00de\u00ad\u00be\u00ef\u00ff", text)

	err = s.EmbedBytes(make([]byte, 7), []byte{1}, 1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 0, Capacity(nil))
	assert.Equal(t, 0, Capacity(make([]byte, 7)))
	assert.Equal(t, 1, Capacity(make([]byte, 8)))
	assert.Equal(t, 12, Capacity(make([]byte, 100)))
}
