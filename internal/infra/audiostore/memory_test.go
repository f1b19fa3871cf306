package audiostore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nyayasetu/internal/domain/speech"
)

func TestMemoryStorageExpires(t *testing.T) {
	store := NewMemoryStorage()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, speech.Artifact{ID: "a", Data: []byte("1"), ExpiresAt: now.Add(time.Minute)}))
	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got.Data)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "a")
	require.ErrorIs(t, err, speech.ErrArtifactNotFound)

	require.NoError(t, store.Put(ctx, speech.Artifact{ID: "b", Data: []byte("2"), ExpiresAt: now.Add(time.Minute)}))
	require.Equal(t, 1, store.Len())

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, speech.ErrArtifactNotFound)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint("https://acct.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000"))
	require.Equal(t, "", sanitizeEndpoint(" "))
}
