package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/memelabs/meme-market/internal/caption"
	"github.com/memelabs/meme-market/internal/models"
)

// DefaultLeaderboardSize is used when the caller does not override the limit.
const DefaultLeaderboardSize = 10

// MemeService creates and lists memes and computes the leaderboard view.
type MemeService struct {
	store  MemeStore
	gen    caption.Generator
	logger *zap.SugaredLogger
}

// NewMemeService creates a new meme service.
func NewMemeService(store MemeStore, gen caption.Generator, logger *zap.SugaredLogger) *MemeService {
	return &MemeService{store: store, gen: gen, logger: logger}
}

// CreateMeme validates the upload, enriches it with generated caption and
// vibe text, and persists it. Generation failures are absorbed: the meme is
// created with fallback text and the request still succeeds.
func (s *MemeService) CreateMeme(ctx context.Context, req *models.CreateMemeRequest) (*models.Meme, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	// Caption and vibe are independent calls; run them concurrently.
	var captionText, vibeText string
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		captionText = s.generate(ctx, "caption", req.Tags, s.gen.Caption, caption.FallbackCaption)
	}()
	go func() {
		defer wg.Done()
		vibeText = s.generate(ctx, "vibe", req.Tags, s.gen.Vibe, caption.FallbackVibe)
	}()
	wg.Wait()

	meme := &models.Meme{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
		OwnerID:  req.OwnerID,
		Caption:  captionText,
		Vibe:     vibeText,
	}

	created, err := s.store.InsertMeme(ctx, meme)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("meme created", "meme_id", created.ID, "owner_id", created.OwnerID)
	return created, nil
}

// ListMemes returns all memes, newest first.
func (s *MemeService) ListMemes(ctx context.Context) ([]models.Meme, error) {
	return s.store.ListMemes(ctx)
}

// Leaderboard returns the limit memes with the highest vote counters,
// descending, ties broken by newest creation time. A limit of zero or less
// falls back to DefaultLeaderboardSize.
func (s *MemeService) Leaderboard(ctx context.Context, limit int) ([]models.Meme, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	return s.store.TopMemes(ctx, limit)
}

func (s *MemeService) generate(
	ctx context.Context,
	kind string,
	tags []string,
	f func(context.Context, []string) (string, error),
	fallback string,
) string {
	text, err := f(ctx, tags)
	if err != nil {
		s.logger.Warnw("generation failed, using fallback", "kind", kind, "error", err)
		return fallback
	}
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return text
}
