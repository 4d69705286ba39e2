package audit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentamate/clinicauth/pkg/audit"
)

type memBatchStorage struct {
	mu      sync.Mutex
	entries []audit.Entry
	batches int
}

func (m *memBatchStorage) StoreBatch(_ context.Context, entries []audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	m.batches++
	return nil
}

func (m *memBatchStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func TestAsyncWriter_FlushesOnBatchSize(t *testing.T) {
	t.Parallel()

	backend := &memBatchStorage{}
	writer, closeFn := audit.NewAsyncWriter(backend, audit.AsyncOptions{
		BatchSize:    2,
		BatchTimeout: time.Hour,
	})
	defer closeFn(context.Background())

	for range 4 {
		require.NoError(t, writer.Store(context.Background(), audit.Entry{Action: audit.ActionLogin}))
	}

	assert.Eventually(t, func() bool {
		return backend.count() == 4
	}, time.Second, 10*time.Millisecond)
}

func TestAsyncWriter_FlushesOnTimeout(t *testing.T) {
	t.Parallel()

	backend := &memBatchStorage{}
	writer, closeFn := audit.NewAsyncWriter(backend, audit.AsyncOptions{
		BatchSize:    100,
		BatchTimeout: 20 * time.Millisecond,
	})
	defer closeFn(context.Background())

	require.NoError(t, writer.Store(context.Background(), audit.Entry{Action: audit.ActionLogout}))

	assert.Eventually(t, func() bool {
		return backend.count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestAsyncWriter_CloseDrains(t *testing.T) {
	t.Parallel()

	backend := &memBatchStorage{}
	writer, closeFn := audit.NewAsyncWriter(backend, audit.AsyncOptions{
		BatchSize:    100,
		BatchTimeout: time.Hour,
	})

	for range 5 {
		require.NoError(t, writer.Store(context.Background(), audit.Entry{Action: audit.ActionRegister}))
	}

	require.NoError(t, closeFn(context.Background()))
	assert.Equal(t, 5, backend.count())
}

func TestAsyncWriter_StoreAfterClose(t *testing.T) {
	t.Parallel()

	backend := &memBatchStorage{}
	writer, closeFn := audit.NewAsyncWriter(backend, audit.AsyncOptions{})
	require.NoError(t, closeFn(context.Background()))

	err := writer.Store(context.Background(), audit.Entry{Action: audit.ActionLogin})
	assert.ErrorIs(t, err, audit.ErrStorageClosed)
}

func TestAsyncWriter_FullBufferFallsBackToSync(t *testing.T) {
	t.Parallel()

	backend := &memBatchStorage{}
	writer, closeFn := audit.NewAsyncWriter(backend, audit.AsyncOptions{
		BufferSize:   1,
		BatchSize:    100,
		BatchTimeout: time.Hour,
	})
	defer closeFn(context.Background())

	// Fill the buffer, then force the synchronous path. The worker may pull
	// the first entry off the channel at any point, so submit until the
	// backend has observed at least one direct write.
	before := backend.count()
	for range 3 {
		require.NoError(t, writer.Store(context.Background(), audit.Entry{Action: audit.ActionLogin}))
	}

	require.NoError(t, closeFn(context.Background()))
	assert.GreaterOrEqual(t, backend.count(), before+3)
}
