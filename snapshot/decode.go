package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/PaulHuygen/ukb/graph"
	"github.com/PaulHuygen/ukb/relation"
)

// ReadHeader reads and validates the header at the start of r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return h, corruptf("truncated header")
		}
		return h, err
	}
	if h.Magic != Magic {
		return h, corruptf("bad magic %q", h.Magic[:])
	}
	if h.Version != Version {
		return h, fmt.Errorf("%w: %d", ErrVersionUnsupported, h.Version)
	}
	if !h.Compression.Valid() {
		return h, corruptf("unknown compression id %d", h.Compression)
	}
	return h, nil
}

// Read decodes a snapshot from r. The whole stream is consumed.
func Read(r io.Reader) (*graph.Store, Meta, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Meta{}, err
	}
	return Decode(data)
}

// Decode decodes a complete snapshot held in data. The returned store does
// not reference data.
func Decode(data []byte) (*graph.Store, Meta, error) {
	h, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		return nil, Meta{}, err
	}
	rest := data[HeaderSize:]

	var body []byte
	if h.Compression == CompressionNone {
		if len(rest) < 4 {
			return nil, Meta{}, corruptf("truncated body")
		}
		body, rest = rest[:len(rest)-4], rest[len(rest)-4:]
	} else {
		body, rest, err = decodeBlocks(rest, h.Compression)
		if err != nil {
			return nil, Meta{}, err
		}
		if len(rest) != 4 {
			return nil, Meta{}, corruptf("trailer is %d bytes", len(rest))
		}
	}

	if err := verifyChecksum(body, binary.LittleEndian.Uint32(rest)); err != nil {
		return nil, Meta{}, err
	}
	return decodeBody(body)
}

func decodeBody(body []byte) (*graph.Store, Meta, error) {
	r := newSliceReader(body)
	var meta Meta

	labels, err := r.strings()
	if err != nil {
		return nil, meta, corruptf("relations: %v", err)
	}
	reg, err := relation.FromLabels(labels)
	if err != nil {
		return nil, meta, fmt.Errorf("%w: relations: %w", ErrCorrupt, err)
	}
	g := graph.NewWithRegistry(reg)

	if meta.Sources, err = r.strings(); err != nil {
		return nil, meta, corruptf("sources: %v", err)
	}
	if meta.Notes, err = r.strings(); err != nil {
		return nil, meta, corruptf("notes: %v", err)
	}

	// name length + flags + gloss length
	nv, err := r.count(9)
	if err != nil {
		return nil, meta, corruptf("vertices: %v", err)
	}
	for i := range nv {
		name, err := r.string()
		if err != nil {
			return nil, meta, corruptf("vertex %d: %v", i, err)
		}
		flags, err := r.uint8()
		if err != nil {
			return nil, meta, corruptf("vertex %d: %v", i, err)
		}
		gloss, err := r.string()
		if err != nil {
			return nil, meta, corruptf("vertex %d: %v", i, err)
		}
		if flags > 1 {
			return nil, meta, corruptf("vertex %d: flags 0x%02x", i, flags)
		}
		kind := graph.KindConcept
		if flags == 1 {
			kind = graph.KindWord
		}
		if _, err := g.RestoreVertex(name, gloss, kind); err != nil {
			return nil, meta, fmt.Errorf("%w: vertex %d: %w", ErrCorrupt, i, err)
		}
	}

	ne, err := r.count(16)
	if err != nil {
		return nil, meta, corruptf("edges: %v", err)
	}
	for i := range ne {
		// count guarantees 16 bytes per edge.
		src, _ := r.uint32()
		dst, _ := r.uint32()
		w, _ := r.float32()
		mask, err := r.uint32()
		if err != nil {
			return nil, meta, corruptf("edge %d: %v", i, err)
		}
		if w < 0 || math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) {
			return nil, meta, corruptf("edge %d: weight %v", i, w)
		}
		if _, err := g.RestoreEdge(graph.VertexID(src), graph.VertexID(dst), w, relation.Mask(mask)); err != nil {
			return nil, meta, fmt.Errorf("%w: edge %d: %w", ErrCorrupt, i, err)
		}
	}

	if r.len() != 0 {
		return nil, meta, corruptf("%d trailing body bytes", r.len())
	}
	return g, meta, nil
}
