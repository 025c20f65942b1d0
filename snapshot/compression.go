package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the body codec.
type Compression uint8

const (
	// CompressionNone writes the body as is.
	CompressionNone Compression = 0
	// CompressionLZ4 writes LZ4 blocks (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD writes ZSTD blocks (smaller).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Valid reports whether c names a known codec.
func (c Compression) Valid() bool {
	return c <= CompressionZSTD
}

// ParseCompression maps "none", "lz4" or "zstd" to a Compression.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCompression, s)
	}
}

// DefaultBlockSize is the uncompressed size of a body block.
const DefaultBlockSize = 256 * 1024

const blockHeaderSize = 8

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// blockWriter buffers the body and writes it as framed compressed blocks.
type blockWriter struct {
	w         io.Writer
	codec     Compression
	blockSize int
	buf       *bytes.Buffer
	hdr       [blockHeaderSize]byte
	scratch   []byte
}

func newBlockWriter(w io.Writer, codec Compression, blockSize int) *blockWriter {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &blockWriter{
		w:         w,
		codec:     codec,
		blockSize: blockSize,
		buf:       bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

func (b *blockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := b.blockSize - b.buf.Len()
		if space <= 0 {
			if err := b.flushBlock(); err != nil {
				return total, err
			}
			space = b.blockSize
		}
		n, _ := b.buf.Write(p[:min(len(p), space)])
		total += n
		p = p[n:]
	}
	return total, nil
}

func (b *blockWriter) flushBlock() error {
	if b.buf.Len() == 0 {
		return nil
	}
	data := b.buf.Bytes()

	compressed, err := b.compress(data)
	if err != nil {
		return err
	}
	// Stored as is when the codec does not save at least 10%.
	stored := len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9
	payload := compressed
	binary.LittleEndian.PutUint32(b.hdr[0:], uint32(len(data)))
	if stored {
		payload = data
		binary.LittleEndian.PutUint32(b.hdr[4:], 0)
	} else {
		binary.LittleEndian.PutUint32(b.hdr[4:], uint32(len(compressed)))
	}

	if _, err := b.w.Write(b.hdr[:]); err != nil {
		return err
	}
	if _, err := b.w.Write(payload); err != nil {
		return err
	}
	b.buf.Reset()
	return nil
}

func (b *blockWriter) compress(data []byte) ([]byte, error) {
	switch b.codec {
	case CompressionLZ4:
		b.scratch = growBytes(b.scratch, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, b.scratch, nil)
		if err != nil {
			return nil, err
		}
		return b.scratch[:n], nil
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		b.scratch = enc.EncodeAll(data, b.scratch[:0])
		return b.scratch, nil
	default:
		return nil, nil
	}
}

// Close flushes the last block and writes the terminator.
func (b *blockWriter) Close() error {
	if err := b.flushBlock(); err != nil {
		return err
	}
	var end [blockHeaderSize]byte
	_, err := b.w.Write(end[:])
	return err
}

// decodeBlocks decompresses framed blocks from data and returns the body and
// the bytes following the terminator.
func decodeBlocks(data []byte, codec Compression) (body, rest []byte, err error) {
	r := newSliceReader(data)
	for {
		raw, err := r.bytes(blockHeaderSize)
		if err != nil {
			return nil, nil, corruptf("block header: %v", err)
		}
		usize := binary.LittleEndian.Uint32(raw[0:])
		csize := binary.LittleEndian.Uint32(raw[4:])
		if usize == 0 && csize == 0 {
			return body, r.remaining(), nil
		}

		if csize == 0 {
			block, err := r.bytes(int(usize))
			if err != nil {
				return nil, nil, corruptf("stored block: %v", err)
			}
			body = append(body, block...)
			continue
		}

		src, err := r.bytes(int(csize))
		if err != nil {
			return nil, nil, corruptf("compressed block: %v", err)
		}
		// A block never inflates beyond what the codecs can produce from csize
		// bytes; reject absurd sizes before allocating.
		if uint64(usize) > uint64(csize)*maxExpansion+blockHeaderSize {
			return nil, nil, corruptf("block claims %d bytes from %d", usize, csize)
		}
		start := len(body)
		body = growBytes(body, start+int(usize))
		dst := body[start:]

		switch codec {
		case CompressionLZ4:
			n, err := lz4.UncompressBlock(src, dst)
			if err != nil {
				return nil, nil, corruptf("lz4: %v", err)
			}
			if n != int(usize) {
				return nil, nil, corruptf("lz4 block size %d, want %d", n, usize)
			}
		case CompressionZSTD:
			dec := getZstdDecoder()
			out, err := dec.DecodeAll(src, dst[:0])
			zstdDecoderPool.Put(dec)
			if err != nil {
				return nil, nil, corruptf("zstd: %v", err)
			}
			if len(out) != int(usize) {
				return nil, nil, corruptf("zstd block size %d, want %d", len(out), usize)
			}
			copy(dst, out)
		default:
			return nil, nil, corruptf("compressed block in %s snapshot", codec)
		}
	}
}

// maxExpansion bounds the decompression ratio accepted for a single block.
const maxExpansion = 1024

func growBytes(b []byte, n int) []byte {
	if cap(b) >= n {
		return b[:n]
	}
	nb := make([]byte, n, max(n, 2*cap(b)))
	copy(nb, b)
	return nb
}
