package snapshot

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/PaulHuygen/ukb/graph"
	"github.com/PaulHuygen/ukb/internal/mmap"
)

// SaveToFile writes a file atomically: writeFunc fills a temp file in the
// same directory, which is synced and renamed over filename.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0o644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Make the rename durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// WriteFile atomically writes a snapshot of g to filename.
func WriteFile(filename string, g *graph.Store, meta Meta, opts ...Option) error {
	return SaveToFile(filename, func(w io.Writer) error {
		return Write(w, g, meta, opts...)
	})
}

// ReadFile decodes the snapshot at filename through a read-only memory map.
func ReadFile(filename string) (*graph.Store, Meta, error) {
	m, err := mmap.Open(filename)
	if err != nil {
		return nil, Meta{}, err
	}
	defer m.Close()

	_ = m.Advise(mmap.AccessSequential)
	return Decode(m.Bytes())
}
