package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigatorCancelsPreviousRenderOfSameSession(t *testing.T) {
	nav := NewNavigator()
	bg := context.Background()

	slowCtx, slow := nav.Begin(bg, "s1", State{Kind: PostDetail, PostID: 1})
	otherCtx, other := nav.Begin(bg, "s2", State{Kind: PostList})
	listCtx, list := nav.Begin(bg, "s1", State{Kind: PostList})

	require.ErrorIs(t, slowCtx.Err(), context.Canceled)
	assert.False(t, slow.Current())

	assert.NoError(t, listCtx.Err())
	assert.True(t, list.Current())
	assert.NoError(t, otherCtx.Err())
	assert.True(t, other.Current())

	// the superseded task finishing must not evict the newer one
	slow.Done()
	assert.True(t, list.Current())
	assert.True(t, other.Current())

	list.Done()
	other.Done()
	other.Done()
	assert.False(t, list.Current())
	assert.False(t, other.Current())
	assert.ErrorIs(t, listCtx.Err(), context.Canceled)

	// a fresh render after completion starts clean
	_, again := nav.Begin(bg, "s1", State{Kind: PostList})
	assert.True(t, again.Current())
	again.Done()
}
