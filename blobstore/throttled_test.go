package blobstore

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottledStore_PassThrough(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	store := NewThrottledStore(inner, ThrottleConfig{BytesPerSec: 1 << 20, MaxConcurrent: 2})

	payload := make([]byte, 1<<20+4096) // larger than the burst
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, WriteTo(ctx, store, "big.bin", func(w io.Writer) error {
		_, err := w.Write(payload)
		return err
	}))

	b, err := store.Open(ctx, "big.bin")
	require.NoError(t, err)
	defer b.Close()

	rc, err := b.ReadRange(ctx, 0, b.Size())
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"big.bin"}, names)
	require.NoError(t, store.Delete(ctx, "big.bin"))
}

func TestThrottledStore_ContextCancelled(t *testing.T) {
	store := NewThrottledStore(NewMemoryStore(), ThrottleConfig{BytesPerSec: 16})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := store.Put(ctx, "slow.bin", make([]byte, 1024))
	assert.Error(t, err)
}

func TestThrottledStore_ConcurrencySlot(t *testing.T) {
	store := NewThrottledStore(NewMemoryStore(), ThrottleConfig{MaxConcurrent: 1})
	ctx := context.Background()

	w, err := store.Create(ctx, "held.bin")
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = store.Create(short, "blocked.bin")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, w.Close())
	w, err = store.Create(ctx, "next.bin")
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
