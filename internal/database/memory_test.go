package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memelabs/meme-market/internal/models"
)

func insertMeme(t *testing.T, s *MemoryStore, title string) *models.Meme {
	t.Helper()
	m, err := s.InsertMeme(context.Background(), &models.Meme{
		Title:    title,
		ImageURL: "https://img.example/" + title + ".png",
		Tags:     []string{"test"},
		OwnerID:  "owner",
	})
	require.NoError(t, err)
	return m
}

func TestMemoryStoreListMemesNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	insertMeme(t, s, "a")
	insertMeme(t, s, "b")
	insertMeme(t, s, "c")

	memes, err := s.ListMemes(context.Background())
	require.NoError(t, err)
	require.Len(t, memes, 3)
	assert.Equal(t, "c", memes[0].Title)
	assert.Equal(t, "b", memes[1].Title)
	assert.Equal(t, "a", memes[2].Title)
}

func TestMemoryStoreTopMemesTiebreak(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	older := insertMeme(t, s, "older")
	newer := insertMeme(t, s, "newer")
	_, err := s.AdjustVotes(ctx, older.ID, 3)
	require.NoError(t, err)
	_, err = s.AdjustVotes(ctx, newer.ID, 3)
	require.NoError(t, err)

	top, err := s.TopMemes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	// Equal counters: newest creation wins.
	assert.Equal(t, "newer", top[0].Title)
	assert.Equal(t, "older", top[1].Title)
}

func TestMemoryStoreAdjustVotes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	meme := insertMeme(t, s, "a")

	m, err := s.AdjustVotes(ctx, meme.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Votes)

	// Counter may go below zero.
	m, err = s.AdjustVotes(ctx, meme.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, -1, m.Votes)

	_, err = s.AdjustVotes(ctx, "missing", 1)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryStoreBids(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	meme := insertMeme(t, s, "a")

	_, err := s.InsertBid(ctx, &models.Bid{MemeID: "missing", UserID: "u", Credits: 10})
	require.ErrorIs(t, err, models.ErrNotFound)

	for _, credits := range []int64{50, 120, 80, 120} {
		_, err := s.InsertBid(ctx, &models.Bid{MemeID: meme.ID, UserID: "u", Credits: credits})
		require.NoError(t, err)
	}

	highest, err := s.HighestBid(ctx, meme.ID)
	require.NoError(t, err)
	require.NotNil(t, highest)
	assert.Equal(t, int64(120), highest.Credits)

	none, err := s.HighestBid(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, none)
}
