package models

// Event kinds pushed to every connected realtime client. Events are
// transient: no persistence, no replay, delivered only to sockets that
// are connected at emit time.
const (
	EventVoteUpdate = "vote_update"
	EventBidUpdate  = "bid_update"
)

// VoteUpdateEvent carries the full post-mutation meme record.
type VoteUpdateEvent struct {
	Type   string `json:"type"`
	MemeID string `json:"meme_id"`
	Meme   *Meme  `json:"meme"`
}

// BidUpdateEvent carries the newly created bid.
type BidUpdateEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	MemeID  string `json:"meme_id"`
	Bid     *Bid   `json:"bid"`
}
