package s3

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaulHuygen/ukb/blobstore"
)

func newTestCommitStore(ddb *fakeDDB, baseURI string) *DDBCommitStore {
	return NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "ukb-commits", baseURI)
}

func TestCommitStoreCurrent(t *testing.T) {
	ctx := context.Background()
	store := newTestCommitStore(newFakeDDB(), "s3://bucket/kb")

	_, err := blobstore.Current(ctx, store)
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	for i, name := range []string{"snap-01", "snap-02", "snap-03", "snap-04", "snap-05",
		"snap-06", "snap-07", "snap-08", "snap-09", "snap-10", "snap-11"} {
		require.NoError(t, blobstore.SetCurrent(ctx, store, name))

		version, snap, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), version)
		assert.Equal(t, name, snap)
	}

	name, err := blobstore.Current(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "snap-11", name)
}

func TestCommitStoreConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestCommitStore(newFakeDDB(), "s3://bucket/kb")

	require.NoError(t, store.Commit(ctx, 1, "a"))
	err := store.Commit(ctx, 1, "b")
	require.ErrorIs(t, err, ErrConcurrentModification)

	_, snap, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", snap)

	assert.Error(t, store.Commit(ctx, 2, ""))
}

func TestCommitStoreConcurrentPublishers(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDDB()
	store := newTestCommitStore(ddb, "s3://bucket/kb")
	require.NoError(t, store.Commit(ctx, 1, "base"))

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.Commit(ctx, 2, "candidate")
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrConcurrentModification)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestCommitStoreIsolatesBaseURI(t *testing.T) {
	ctx := context.Background()
	ddb := newFakeDDB()
	a := newTestCommitStore(ddb, "s3://bucket/a")
	b := newTestCommitStore(ddb, "s3://bucket/b")

	require.NoError(t, blobstore.SetCurrent(ctx, a, "snap-a"))
	_, err := blobstore.Current(ctx, b)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestCommitStorePassThrough(t *testing.T) {
	ctx := context.Background()
	store := newTestCommitStore(newFakeDDB(), "s3://bucket/kb")

	require.NoError(t, store.Put(ctx, "snapshots/1.bin", []byte("payload")))
	b, err := store.Open(ctx, "snapshots/1.bin")
	require.NoError(t, err)
	defer b.Close()
	data, err := blobstore.ReadAll(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	names, err := store.List(ctx, "snapshots/")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/1.bin"}, names)
}
