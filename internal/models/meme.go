package models

import "time"

// Meme is a titled image record with tags, AI-generated caption/vibe text,
// and a vote counter. ID and CreatedAt are assigned by the store.
type Meme struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	Tags      []string  `json:"tags"`
	OwnerID   string    `json:"owner_id"`
	Caption   string    `json:"caption"`
	Vibe      string    `json:"vibe"`
	Votes     int       `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMemeRequest is the incoming meme upload from the API.
type CreateMemeRequest struct {
	Title    string   `json:"title" validate:"required"`
	ImageURL string   `json:"image_url" validate:"required"`
	Tags     []string `json:"tags" validate:"required,min=1,dive,required"`
	OwnerID  string   `json:"owner_id" validate:"required"`
}

// Vote types accepted by the voting endpoint.
const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// CastVoteRequest is the incoming vote request from the API.
type CastVoteRequest struct {
	MemeID   string `json:"meme_id" validate:"required"`
	VoteType string `json:"vote_type" validate:"required,oneof=upvote downvote"`
}
