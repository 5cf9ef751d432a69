package lsb

import "fmt"

// Enable checks that markLen bits fit into a buffer of size bytes, one bit per byte.
func Enable(size, markLen int) error {
	if markLen < 0 {
		return fmt.Errorf("negative mark length %d", markLen)
	}
	if size < markLen {
		return fmt.Errorf("buffer bytes %d < mark length %d", size, markLen)
	}
	return nil
}

// Embed writes mark[i] into the least significant bit of buf[indices[i]].
// The other seven bits of each byte are left untouched.
func Embed(buf []byte, mark []bool, indices []int) {
	for i, at := range indices {
		var bit byte
		if mark[i] {
			bit = 1
		}
		buf[at] = buf[at]&0xfe | bit
	}
}

// Extract reads the least significant bit of buf at each index, in order.
func Extract(buf []byte, indices []int) []bool {
	mark := make([]bool, len(indices))
	for i, at := range indices {
		mark[i] = buf[at]&1 == 1
	}
	return mark
}
