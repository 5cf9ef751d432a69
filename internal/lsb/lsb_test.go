package lsb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnable(t *testing.T) {
	assert.NoError(t, Enable(0, 0))
	assert.NoError(t, Enable(16, 16))
	assert.NoError(t, Enable(100, 16))
	assert.Error(t, Enable(15, 16))
	assert.Error(t, Enable(10, -1))
}

func TestEmbedExtract(t *testing.T) {
	buf := []byte{0x00, 0xff, 0x10, 0x11, 0x80, 0x7f}
	orig := append([]byte(nil), buf...)
	indices := []int{5, 0, 3, 1}
	mark := []bool{false, true, false, true}

	Embed(buf, mark, indices)
	assert.Equal(t, []byte{0x01, 0xff, 0x10, 0x10, 0x80, 0x7e}, buf)
	assert.Equal(t, mark, Extract(buf, indices))

	for i := range buf {
		assert.Zero(t, (buf[i]^orig[i])&0xfe, "byte %d changed above bit 0", i)
	}
}

func TestEmbedEmpty(t *testing.T) {
	buf := []byte{1, 2, 3}
	Embed(buf, nil, nil)
	assert.Equal(t, []byte{1, 2, 3}, buf)
	assert.Empty(t, Extract(buf, nil))
}
