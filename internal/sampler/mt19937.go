package sampler

import "math/bits"

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff
)

// mt19937 is the 32-bit Mersenne Twister.
type mt19937 struct {
	state [mtN]uint32
	index int
}

// newMT19937 seeds the generator with the little-endian 32-bit words of |seed|.
func newMT19937(seed int64) *mt19937 {
	n := uint64(seed)
	if seed < 0 {
		n = -n
	}
	key := []uint32{uint32(n)}
	if hi := uint32(n >> 32); hi != 0 {
		key = append(key, hi)
	}
	m := new(mt19937)
	m.initByArray(key)
	return m
}

func (m *mt19937) initGenrand(s uint32) {
	m.state[0] = s
	for i := 1; i < mtN; i++ {
		prev := m.state[i-1]
		m.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	m.index = mtN
}

func (m *mt19937) initByArray(key []uint32) {
	m.initGenrand(19650218)
	i, j := 1, 0
	for k := max(mtN, len(key)); k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k := mtN - 1; k > 0; k-- {
		prev := m.state[i-1]
		m.state[i] = (m.state[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			m.state[0] = m.state[mtN-1]
			i = 1
		}
	}
	m.state[0] = 0x80000000
	m.index = mtN
}

func (m *mt19937) generate() {
	for kk := range mtN {
		y := (m.state[kk] & mtUpperMask) | (m.state[(kk+1)%mtN] & mtLowerMask)
		v := m.state[(kk+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			v ^= mtMatrixA
		}
		m.state[kk] = v
	}
	m.index = 0
}

func (m *mt19937) Uint32() uint32 {
	if m.index >= mtN {
		m.generate()
	}
	y := m.state[m.index]
	m.index++
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// randBits returns a k-bit value, 1 <= k <= 64. Words are consumed least significant first;
// the last word keeps its top bits.
func (m *mt19937) randBits(k int) uint64 {
	var v uint64
	for shift := 0; k > 0; shift, k = shift+32, k-32 {
		r := m.Uint32()
		if k < 32 {
			r >>= 32 - k
		}
		v |= uint64(r) << shift
	}
	return v
}

// below returns a uniform value in [0, n) by rejection on bitlen(n) bits.
func (m *mt19937) below(n int) int {
	k := bits.Len64(uint64(n))
	r := m.randBits(k)
	for r >= uint64(n) {
		r = m.randBits(k)
	}
	return int(r)
}
