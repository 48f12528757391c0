// ABOUTME: Tests for the scraped link archive
// ABOUTME: Covers store, lookup, update and the one-row-per-URL invariant

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapedLink_StoreAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ok := store.StoreScrapedLink(ctx, "https://example.com/post", "page content", `{"title":"Post"}`)
	require.True(t, ok)

	link := store.ScrapedLink(ctx, "https://example.com/post")
	require.NotNil(t, link)
	assert.Equal(t, "page content", link.Content)
	assert.Equal(t, `{"title":"Post"}`, link.Metadata)
	assert.False(t, link.CreatedAt.IsZero())
	assert.Equal(t, link.CreatedAt, link.UpdatedAt)
}

func TestScrapedLink_Missing(t *testing.T) {
	store := newTestStore(t)

	assert.Nil(t, store.ScrapedLink(context.Background(), "https://example.com/unknown"))
}

func TestStoreScrapedLink_DuplicateURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.True(t, store.StoreScrapedLink(ctx, "https://example.com", "first", ""))
	assert.False(t, store.StoreScrapedLink(ctx, "https://example.com", "second", ""))

	// Original content is untouched
	link := store.ScrapedLink(ctx, "https://example.com")
	require.NotNil(t, link)
	assert.Equal(t, "first", link.Content)
}

func TestUpdateScrapedLink(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.True(t, store.StoreScrapedLink(ctx, "https://example.com", "old content", ""))

	ok := store.UpdateScrapedLink(ctx, "https://example.com", "old content\n\nnew content", `{"rev":2}`)
	require.True(t, ok)

	link := store.ScrapedLink(ctx, "https://example.com")
	require.NotNil(t, link)
	assert.Equal(t, "old content\n\nnew content", link.Content)
	assert.Equal(t, `{"rev":2}`, link.Metadata)
}

func TestUpdateScrapedLink_Missing(t *testing.T) {
	store := newTestStore(t)

	assert.False(t, store.UpdateScrapedLink(context.Background(), "https://example.com/none", "content", ""))
}
