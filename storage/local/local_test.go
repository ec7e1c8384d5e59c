package local

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmande/chuo/core/session"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	store, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	// empty storage
	_, err = store.Load(ctx)
	assert.True(t, errors.Is(err, session.ErrNoSession))

	// save & load round-trip
	blob := []byte(`{"id":"u1","name":"Jane","email":"jane@example.com","role":"student"}`)
	require.NoError(t, store.Save(ctx, blob))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	// delete is idempotent
	require.NoError(t, store.Delete(ctx))
	_, err = store.Load(ctx)
	assert.True(t, errors.Is(err, session.ErrNoSession))
	require.NoError(t, store.Delete(ctx))
}
