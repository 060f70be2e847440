// Package service implements the marketplace business logic: meme
// creation and listing, vote casting, bid placement, and the leaderboard
// projection. Services hold no state of their own; durable state lives in
// the record store and transient fan-out state in the broadcaster.
package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/memelabs/meme-market/internal/models"
)

// MemeStore is the persistence surface the meme service needs.
type MemeStore interface {
	InsertMeme(ctx context.Context, m *models.Meme) (*models.Meme, error)
	ListMemes(ctx context.Context) ([]models.Meme, error)
	TopMemes(ctx context.Context, limit int) ([]models.Meme, error)
}

// VoteStore applies signed deltas to meme vote counters. Implementations
// must make the adjustment atomic: concurrent calls against the same meme
// never lose an update.
type VoteStore interface {
	AdjustVotes(ctx context.Context, memeID string, delta int) (*models.Meme, error)
}

// BidStore is the persistence surface the bidding service needs.
type BidStore interface {
	InsertBid(ctx context.Context, b *models.Bid) (*models.Bid, error)
	HighestBid(ctx context.Context, memeID string) (*models.Bid, error)
}

// Broadcaster pushes an event to every currently connected realtime
// client. Publish must never block the caller and gives no delivery
// guarantee.
type Broadcaster interface {
	Publish(event any)
}

var validate = validator.New()

// validateStruct maps validator failures onto the ValidationError taxonomy.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &models.ValidationError{Field: fe.Field(), Reason: "failed " + fe.Tag() + " check"}
	}
	return &models.ValidationError{Field: "request", Reason: err.Error()}
}
