package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// float53 builds a [0,1) double from two outputs, the common 53-bit construction.
func float53(m *mt19937) float64 {
	a, b := m.Uint32()>>5, m.Uint32()>>6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

func TestMT19937Reference(t *testing.T) {
	t.Run("init_genrand", func(t *testing.T) {
		var m mt19937
		m.initGenrand(5489)
		assert.Equal(t, uint32(3499211612), m.Uint32())
	})
	t.Run("init_by_array", func(t *testing.T) {
		var m mt19937
		m.initByArray([]uint32{0x123, 0x234, 0x345, 0x456})
		assert.Equal(t, uint32(1067595299), m.Uint32())
		assert.Equal(t, uint32(955945823), m.Uint32())
		assert.Equal(t, uint32(477289528), m.Uint32())
	})
	t.Run("integer seed", func(t *testing.T) {
		assert.Equal(t, 0.6394267984578837, float53(newMT19937(42)))
		assert.Equal(t, 0.8444218515250481, float53(newMT19937(0)))
	})
	t.Run("sign is ignored", func(t *testing.T) {
		a, b := newMT19937(1234), newMT19937(-1234)
		for range 10 {
			assert.Equal(t, a.Uint32(), b.Uint32())
		}
	})
	t.Run("wide seed uses two words", func(t *testing.T) {
		a, b := newMT19937(1<<32+7), newMT19937(7)
		assert.NotEqual(t, a.Uint32(), b.Uint32())
	})
}

func TestMT19937Bits(t *testing.T) {
	m, ref := newMT19937(99), newMT19937(99)
	assert.Equal(t, uint64(ref.Uint32()>>31), m.randBits(1))
	assert.Equal(t, uint64(ref.Uint32()), m.randBits(32))
	lo, hi := ref.Uint32(), ref.Uint32()>>28
	assert.Equal(t, uint64(lo)|uint64(hi)<<32, m.randBits(36))

	for _, n := range []int{1, 2, 3, 10, 1000, 1 << 20} {
		for range 100 {
			v := m.below(n)
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, n)
		}
	}
}
