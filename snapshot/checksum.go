package snapshot

import (
	"hash"
	"hash/crc32"
	"io"
)

// checksumWriter forwards writes and keeps a running CRC32 of them.
type checksumWriter struct {
	w    io.Writer
	hash hash.Hash32
	n    int64
}

func newChecksumWriter(w io.Writer) *checksumWriter {
	return &checksumWriter{w: w, hash: crc32.NewIEEE()}
}

func (cw *checksumWriter) Write(p []byte) (int, error) {
	_, _ = cw.hash.Write(p)
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// Sum returns the checksum of everything written so far.
func (cw *checksumWriter) Sum() uint32 {
	return cw.hash.Sum32()
}

func verifyChecksum(body []byte, expected uint32) error {
	if actual := crc32.ChecksumIEEE(body); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
