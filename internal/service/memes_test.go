package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/memelabs/meme-market/internal/caption"
	"github.com/memelabs/meme-market/internal/database"
	"github.com/memelabs/meme-market/internal/models"
)

func newMemeService(gen caption.Generator) (*MemeService, *database.MemoryStore) {
	store := database.NewMemoryStore()
	return NewMemeService(store, gen, zap.NewNop().Sugar()), store
}

func validMemeRequest() *models.CreateMemeRequest {
	return &models.CreateMemeRequest{
		Title:    "distracted engineer",
		ImageURL: "https://img.example/distracted.png",
		Tags:     []string{"programming", "pain"},
		OwnerID:  "user-1",
	}
}

func TestCreateMemeFallbackOnGenerationFailure(t *testing.T) {
	svc, _ := newMemeService(failingGenerator{})

	meme, err := svc.CreateMeme(context.Background(), validMemeRequest())
	require.NoError(t, err)

	assert.Equal(t, caption.FallbackCaption, meme.Caption)
	assert.Equal(t, caption.FallbackVibe, meme.Vibe)
	assert.NotEmpty(t, meme.ID)
	assert.Zero(t, meme.Votes)
	assert.False(t, meme.CreatedAt.IsZero())
}

func TestCreateMemeUsesGeneratedText(t *testing.T) {
	svc, _ := newMemeService(&caption.Static{CaptionText: "it compiles, ship it", VibeText: "cursed"})

	meme, err := svc.CreateMeme(context.Background(), validMemeRequest())
	require.NoError(t, err)

	assert.Equal(t, "it compiles, ship it", meme.Caption)
	assert.Equal(t, "cursed", meme.Vibe)
}

func TestCreateMemeBlankGeneratedTextFallsBack(t *testing.T) {
	svc, _ := newMemeService(&caption.Static{CaptionText: "   ", VibeText: ""})

	meme, err := svc.CreateMeme(context.Background(), validMemeRequest())
	require.NoError(t, err)

	assert.Equal(t, caption.FallbackCaption, meme.Caption)
	assert.Equal(t, caption.FallbackVibe, meme.Vibe)
}

func TestCreateMemeValidation(t *testing.T) {
	cases := map[string]func(*models.CreateMemeRequest){
		"missing title":     func(r *models.CreateMemeRequest) { r.Title = "" },
		"missing image url": func(r *models.CreateMemeRequest) { r.ImageURL = "" },
		"missing owner":     func(r *models.CreateMemeRequest) { r.OwnerID = "" },
		"nil tags":          func(r *models.CreateMemeRequest) { r.Tags = nil },
		"empty tags":        func(r *models.CreateMemeRequest) { r.Tags = []string{} },
		"blank tag":         func(r *models.CreateMemeRequest) { r.Tags = []string{""} },
	}

	svc, _ := newMemeService(caption.Disabled())
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validMemeRequest()
			mutate(req)

			_, err := svc.CreateMeme(context.Background(), req)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestListMemesNewestFirst(t *testing.T) {
	svc, _ := newMemeService(caption.Disabled())

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		req := validMemeRequest()
		req.Title = title
		_, err := svc.CreateMeme(context.Background(), req)
		require.NoError(t, err)
	}

	memes, err := svc.ListMemes(context.Background())
	require.NoError(t, err)
	require.Len(t, memes, 3)

	assert.Equal(t, "third", memes[0].Title)
	assert.Equal(t, "second", memes[1].Title)
	assert.Equal(t, "first", memes[2].Title)
	assert.True(t, !memes[0].CreatedAt.Before(memes[1].CreatedAt))
	assert.True(t, !memes[1].CreatedAt.Before(memes[2].CreatedAt))
}

func TestLeaderboardOrdersByVotes(t *testing.T) {
	svc, store := newMemeService(caption.Disabled())
	ctx := context.Background()

	counters := []int{5, 1, 9}
	ids := make([]string, len(counters))
	for i, votes := range counters {
		req := validMemeRequest()
		meme, err := svc.CreateMeme(ctx, req)
		require.NoError(t, err)
		ids[i] = meme.ID

		if votes != 0 {
			_, err = store.AdjustVotes(ctx, meme.ID, votes)
			require.NoError(t, err)
		}
	}

	top, err := svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, 9, top[0].Votes)
	assert.Equal(t, ids[2], top[0].ID)
	assert.Equal(t, 5, top[1].Votes)
	assert.Equal(t, ids[0], top[1].ID)
}

func TestLeaderboardDefaultLimit(t *testing.T) {
	svc, _ := newMemeService(caption.Disabled())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateMeme(ctx, validMemeRequest())
		require.NoError(t, err)
	}

	top, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 3)
}

func TestLeaderboardEmptyStore(t *testing.T) {
	svc, _ := newMemeService(caption.Disabled())

	top, err := svc.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}
