package snapshot

import (
	"encoding/binary"
	"fmt"
	"math"
)

// sliceReader provides bounds-checked little-endian reads from a byte slice.
type sliceReader struct {
	b   []byte
	off int
}

func newSliceReader(b []byte) *sliceReader {
	return &sliceReader{b: b}
}

func (r *sliceReader) len() int {
	return len(r.b) - r.off
}

func (r *sliceReader) remaining() []byte {
	return r.b[r.off:]
}

func (r *sliceReader) bytes(n int) ([]byte, error) {
	if n < 0 || n > r.len() {
		return nil, fmt.Errorf("out of bounds read (%d bytes at %d, len=%d)", n, r.off, len(r.b))
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *sliceReader) uint8() (uint8, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *sliceReader) uint32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *sliceReader) float32() (float32, error) {
	u, err := r.uint32()
	return math.Float32frombits(u), err
}

func (r *sliceReader) string() (string, error) {
	n, err := r.uint32()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// count reads a section count and checks that at least count records of
// minSize bytes can follow, so a corrupt count cannot force a huge
// allocation.
func (r *sliceReader) count(minSize int) (int, error) {
	n, err := r.uint32()
	if err != nil {
		return 0, err
	}
	if int64(n)*int64(minSize) > int64(r.len()) {
		return 0, fmt.Errorf("count %d exceeds remaining %d bytes", n, r.len())
	}
	return int(n), nil
}

func (r *sliceReader) strings() ([]string, error) {
	n, err := r.count(4)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = r.string(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
