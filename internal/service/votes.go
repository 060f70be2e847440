package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/memelabs/meme-market/internal/models"
)

var voteDeltas = map[string]int{
	models.VoteUp:   1,
	models.VoteDown: -1,
}

// VotingService applies upvotes and downvotes to meme vote counters and
// announces the result on the realtime channel.
type VotingService struct {
	store  VoteStore
	hub    Broadcaster
	logger *zap.SugaredLogger
}

// NewVotingService creates a new voting service.
func NewVotingService(store VoteStore, hub Broadcaster, logger *zap.SugaredLogger) *VotingService {
	return &VotingService{store: store, hub: hub, logger: logger}
}

// CastVote applies the vote's delta to the meme's counter and returns the
// updated record. The adjustment happens atomically at the store boundary,
// so two concurrent casts on the same meme both land. On success a
// vote_update event is published to every connected client; broadcast
// delivery is best effort and never affects the response. The counter is
// allowed to go below zero.
func (s *VotingService) CastVote(ctx context.Context, req *models.CastVoteRequest) (*models.Meme, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	delta, ok := voteDeltas[req.VoteType]
	if !ok {
		return nil, &models.ValidationError{Field: "vote_type", Reason: "must be upvote or downvote"}
	}

	meme, err := s.store.AdjustVotes(ctx, req.MemeID, delta)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(models.VoteUpdateEvent{
		Type:   models.EventVoteUpdate,
		MemeID: meme.ID,
		Meme:   meme,
	})

	s.logger.Infow("vote cast", "meme_id", meme.ID, "vote_type", req.VoteType, "votes", meme.Votes)
	return meme, nil
}
