// Package snapshot encodes a graph.Store into the binary snapshot format
// and decodes it back.
//
// # Layout
//
//	header   magic "UKBG" | version u32 | compression u8 | reserved [7]byte
//	body     labels | sources | notes | vertices | edges
//	trailer  CRC32 (IEEE) of the uncompressed body
//
// Integers are little-endian and strings are a u32 byte length followed by
// UTF-8 bytes. Every section starts with a u32 count. A vertex is
// name | flags u8 (bit 0 = word) | gloss; an edge is
// source u32 | target u32 | weight f32 | mask u32, in edge-id order.
//
// With compression the body is written as framed blocks
// [uncompressed u32][compressed u32][data] ending with a (0, 0) block; a
// compressed size of 0 marks a block stored as is.
package snapshot

import (
	"errors"
	"fmt"
)

// Magic identifies snapshot files.
var Magic = [4]byte{'U', 'K', 'B', 'G'}

// Version is the current format version.
const Version uint32 = 1

// HeaderSize is the encoded size of Header.
const HeaderSize = 16

var (
	// ErrCorrupt is returned for malformed snapshots: bad magic, truncation,
	// checksum mismatch, unknown compression or dangling references.
	ErrCorrupt = errors.New("snapshot: corrupt")

	// ErrVersionUnsupported is returned for a well-formed header carrying an
	// unknown format version.
	ErrVersionUnsupported = errors.New("snapshot: unsupported version")

	// ErrInvalidCompression is returned when writing with an unknown codec.
	ErrInvalidCompression = errors.New("snapshot: invalid compression")
)

// Header is the fixed-size file header.
type Header struct {
	Magic       [4]byte
	Version     uint32
	Compression Compression
	Reserved    [7]byte
}

// ChecksumMismatchError is returned when the trailer does not match the body.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("snapshot: checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Unwrap makes checksum mismatches match ErrCorrupt.
func (e *ChecksumMismatchError) Unwrap() error {
	return ErrCorrupt
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}

// Meta is the graph-level state persisted next to the store.
type Meta struct {
	// Sources is the accepted relation-source set, written sorted.
	Sources []string
	// Notes is the annotation log in insertion order.
	Notes []string
}
