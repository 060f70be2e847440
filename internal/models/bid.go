package models

import "time"

// Bid is an append-only credit offer tied to a meme. Bids are never
// mutated or deleted; the current price of a meme is derived from the
// highest bid, not stored.
type Bid struct {
	ID        string    `json:"id"`
	MemeID    string    `json:"meme_id"`
	UserID    string    `json:"user_id"`
	Credits   int64     `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaceBidRequest is the incoming bid request from the API.
type PlaceBidRequest struct {
	MemeID  string `json:"meme_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
	Credits int64  `json:"credits" validate:"required,gt=0"`
}
