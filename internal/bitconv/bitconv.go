package bitconv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yyyoichi/bitstream-go"
)

var (
	ErrInvalidLength    = errors.New("bit sequence length is not a multiple of 8")
	ErrInvalidCharacter = errors.New("character does not fit in a single byte")
)

// BytesToBools expands each byte into 8 bits, most significant bit first.
func BytesToBools(b []byte) []bool {
	bits := make([]bool, 0, len(b)*8)
	for _, bb := range b {
		for i := 7; i >= 0; i-- {
			bits = append(bits, ((bb>>uint(i))&1) == 1)
		}
	}
	return bits
}

// BoolsToBytes packs bits back into bytes, most significant bit first.
// Unlike a padded packing, a trailing partial byte is rejected.
func BoolsToBytes(bits []bool) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: got %d bits", ErrInvalidLength, len(bits))
	}
	if len(bits) == 0 {
		return []byte{}, nil
	}
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range bits {
		w.WriteBool(v)
	}
	r := bitstream.NewBitReader(w.Data(), 0, 0)
	r.SetBits(len(bits))
	out := make([]byte, len(bits)/8)
	for i := range out {
		out[i] = r.Read8R(8, i)
	}
	return out, nil
}

// FromString converts a message to bits, one byte per character.
// Every rune must be in [0, 255].
func FromString(message string) ([]bool, error) {
	raw := make([]byte, 0, len(message))
	for i, r := range message {
		if r < 0 || r > 0xff {
			return nil, fmt.Errorf("%w: %q (U+%04X) at byte offset %d", ErrInvalidCharacter, r, r, i)
		}
		raw = append(raw, byte(r))
	}
	return BytesToBools(raw), nil
}

// ToString converts bits back to a message, mapping each byte to the rune of the same value.
func ToString(bits []bool) (string, error) {
	raw, err := BoolsToBytes(bits)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, b := range raw {
		sb.WriteRune(rune(b))
	}
	return sb.String(), nil
}
