package carrier

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	formatPCM        = 1
	formatExtensible = 0xfffe
)

var (
	ErrNotFound          = errors.New("carrier not found")
	ErrUnsupportedFormat = errors.New("unsupported carrier format")
	ErrIO                = errors.New("carrier write failed")
)

// Format holds what is needed to re-emit a structurally identical container.
type Format struct {
	AudioFormat int
	NumChannels int
	SampleRate  int
	BitDepth    int
}

// SampleWidth is the size of one sample in bytes.
func (f Format) SampleWidth() int {
	return f.BitDepth / 8
}

// FrameSize is the size of one interleaved frame in bytes.
func (f Format) FrameSize() int {
	return f.SampleWidth() * f.NumChannels
}

func (f Format) validate() error {
	if f.AudioFormat != formatPCM && f.AudioFormat != formatExtensible {
		return fmt.Errorf("%w: audio format tag %#x is not integer PCM", ErrUnsupportedFormat, f.AudioFormat)
	}
	switch f.BitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, f.BitDepth)
	}
	if f.NumChannels < 1 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, f.NumChannels)
	}
	if f.SampleRate < 1 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, f.SampleRate)
	}
	return nil
}

// Carrier is a loaded waveform: its format and the raw bytes of its data chunk.
type Carrier struct {
	Format  Format
	Samples []byte
}

// Frames returns the number of whole frames in Samples.
func (c *Carrier) Frames() int {
	if fs := c.Format.FrameSize(); fs > 0 {
		return len(c.Samples) / fs
	}
	return 0
}

// Read loads the carrier stored at path.
func Read(path string) (*Carrier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses a RIFF/WAVE stream and returns its sample bytes untouched.
func Decode(r io.ReadSeeker) (*Carrier, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrUnsupportedFormat)
	}
	format := Format{
		AudioFormat: int(dec.WavAudioFormat),
		NumChannels: int(dec.NumChans),
		SampleRate:  int(dec.SampleRate),
		BitDepth:    int(dec.BitDepth),
	}
	if err := format.validate(); err != nil {
		return nil, err
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	offset, size, err := dataChunk(r)
	if err != nil {
		return nil, fmt.Errorf("%w: locate data chunk: %w", ErrUnsupportedFormat, err)
	}
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	// A truncated data chunk still yields the frames that are present.
	data, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, fmt.Errorf("%w: read data chunk: %w", ErrUnsupportedFormat, err)
	}
	data = data[:len(data)-len(data)%format.FrameSize()]
	return &Carrier{Format: format, Samples: data}, nil
}

// dataChunk returns the offset and declared size of the data chunk.
// The riff parser rounds odd chunk sizes up to cover the pad byte, which is not sample data.
func dataChunk(r io.ReadSeeker) (offset, size int64, err error) {
	if _, err := r.Seek(12, io.SeekStart); err != nil {
		return 0, 0, err
	}
	var hdr [8]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return 0, 0, err
		}
		size = int64(binary.LittleEndian.Uint32(hdr[4:]))
		if string(hdr[:4]) == "data" {
			offset, err = r.Seek(0, io.SeekCurrent)
			return offset, size, err
		}
		if _, err := r.Seek(size+size%2, io.SeekCurrent); err != nil {
			return 0, 0, err
		}
	}
}

// Write persists c at path, replacing any existing file.
func Write(path string, c *Carrier) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := Encode(f, c); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// Encode writes c as a PCM WAVE stream whose data chunk equals c.Samples byte for byte.
func Encode(w io.WriteSeeker, c *Carrier) error {
	if err := c.Format.validate(); err != nil {
		return err
	}
	if fs := c.Format.FrameSize(); len(c.Samples)%fs != 0 {
		return fmt.Errorf("%w: %d sample bytes is not a whole number of %d-byte frames", ErrUnsupportedFormat, len(c.Samples), fs)
	}
	enc := wav.NewEncoder(w, c.Format.SampleRate, c.Format.BitDepth, c.Format.NumChannels, formatPCM)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: c.Format.NumChannels,
			SampleRate:  c.Format.SampleRate,
		},
		Data:           toInts(c.Samples, c.Format.SampleWidth()),
		SourceBitDepth: c.Format.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// toInts reinterprets little-endian samples as signed integers.
// The encoder truncates each value back to width bytes, which reproduces the input.
func toInts(data []byte, width int) []int {
	out := make([]int, len(data)/width)
	for i := range out {
		b := data[i*width : (i+1)*width]
		switch width {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(int16(binary.LittleEndian.Uint16(b)))
		case 3:
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^0xffffff
			}
			out[i] = int(v)
		case 4:
			out[i] = int(int32(binary.LittleEndian.Uint32(b)))
		}
	}
	return out
}
