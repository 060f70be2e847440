package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/memelabs/meme-market/internal/models"
)

// BiddingService records bids against memes and serves the current
// highest bid.
type BiddingService struct {
	store  BidStore
	hub    Broadcaster
	logger *zap.SugaredLogger
}

// NewBiddingService creates a new bidding service.
func NewBiddingService(store BidStore, hub Broadcaster, logger *zap.SugaredLogger) *BiddingService {
	return &BiddingService{store: store, hub: hub, logger: logger}
}

// PlaceBid persists a new append-only bid. Credits must be positive and
// the referenced meme must exist; a bid against an unknown meme is
// rejected as not found. On success a bid_update event is published to
// every connected client.
func (s *BiddingService) PlaceBid(ctx context.Context, req *models.PlaceBidRequest) (*models.Bid, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	bid, err := s.store.InsertBid(ctx, &models.Bid{
		MemeID:  req.MemeID,
		UserID:  req.UserID,
		Credits: req.Credits,
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(models.BidUpdateEvent{
		Type:    models.EventBidUpdate,
		Message: fmt.Sprintf("%s bid %d credits", bid.UserID, bid.Credits),
		MemeID:  bid.MemeID,
		Bid:     bid,
	})

	s.logger.Infow("bid placed", "bid_id", bid.ID, "meme_id", bid.MemeID, "credits", bid.Credits)
	return bid, nil
}

// HighestBid returns the bid with the largest credit amount for a meme,
// ties broken by earliest creation time. Returns (nil, nil) when the meme
// has no bids.
func (s *BiddingService) HighestBid(ctx context.Context, memeID string) (*models.Bid, error) {
	if memeID == "" {
		return nil, &models.ValidationError{Field: "meme_id", Reason: "failed required check"}
	}
	return s.store.HighestBid(ctx, memeID)
}
