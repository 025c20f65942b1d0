package blobstore

import (
	"context"
	"fmt"
	"strings"
)

// CurrentName is the blob that names the latest published snapshot.
const CurrentName = "CURRENT"

// SetCurrent publishes name as the latest snapshot in store. Stores with
// an atomic commit log (s3.DDBCommitStore) reject concurrent publishers.
func SetCurrent(ctx context.Context, store BlobStore, name string) error {
	if name == "" || strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("blobstore: invalid snapshot name %q", name)
	}
	return store.Put(ctx, CurrentName, []byte(name))
}

// Current returns the name of the latest published snapshot. It returns an
// error matching ErrNotFound when nothing was published yet.
func Current(ctx context.Context, store BlobStore) (string, error) {
	b, err := store.Open(ctx, CurrentName)
	if err != nil {
		return "", err
	}
	defer b.Close()

	data, err := ReadAll(ctx, b)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", fmt.Errorf("blobstore: empty %s: %w", CurrentName, ErrNotFound)
	}
	return name, nil
}
