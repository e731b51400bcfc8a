package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, time.Hour)

	s, err := m.Restore(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Authenticated())

	anonID := s.ID
	require.NoError(t, m.Login(ctx, s, "tok"))
	assert.True(t, s.Authenticated())
	assert.NotEqual(t, anonID, s.ID, "login rotates the id")

	restored, err := m.Restore(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "tok", restored.BearerToken())

	require.NoError(t, m.Invalidate(ctx, restored))
	assert.False(t, restored.Authenticated())

	again, err := m.Restore(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, again.Authenticated())
	assert.Equal(t, s.ID, again.ID)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "a", "tok", time.Minute))
	tok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNilSession(t *testing.T) {
	var s *Session
	assert.False(t, s.Authenticated())
	assert.Equal(t, "", s.BearerToken())
}
