// Package mmap maps snapshot files read-only into memory.
//
// Local snapshot blobs are opened through a Mapping so that decoding reads
// straight from the page cache:
//
//	m, err := mmap.Open("wordnet.bin")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	header, _ := m.Slice(0, 16)
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile; Advise is a no-op there.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but slices
// obtained from Bytes or Slice must not be used after it returns.
package mmap
