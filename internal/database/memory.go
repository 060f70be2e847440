package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/memelabs/meme-market/internal/models"
)

// MemoryStore is an in-memory record store with the same contract as
// PostgresStore. It backs tests and local development without a database.
type MemoryStore struct {
	mu    sync.Mutex
	memes map[string]*memoryMeme
	bids  map[string][]models.Bid
	seq   int64
}

// memoryMeme tracks insertion order so that ordering is deterministic even
// when two inserts land on the same clock tick.
type memoryMeme struct {
	meme models.Meme
	seq  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		memes: make(map[string]*memoryMeme),
		bids:  make(map[string][]models.Bid),
	}
}

// InsertMeme persists a new meme, assigning its id and creation timestamp.
func (s *MemoryStore) InsertMeme(_ context.Context, m *models.Meme) (*models.Meme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *m
	stored.ID = uuid.New().String()
	stored.Votes = 0
	stored.CreatedAt = time.Now().UTC()

	s.seq++
	s.memes[stored.ID] = &memoryMeme{meme: stored, seq: s.seq}

	out := stored
	return &out, nil
}

// ListMemes returns all memes, newest first.
func (s *MemoryStore) ListMemes(_ context.Context) ([]models.Meme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.sortedMemes(func(a, b *memoryMeme) bool {
		return a.seq > b.seq
	})
	return entries, nil
}

// TopMemes returns the limit memes with the highest vote counters,
// ties broken by newest creation time.
func (s *MemoryStore) TopMemes(_ context.Context, limit int) ([]models.Meme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.sortedMemes(func(a, b *memoryMeme) bool {
		if a.meme.Votes != b.meme.Votes {
			return a.meme.Votes > b.meme.Votes
		}
		return a.seq > b.seq
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// AdjustVotes atomically applies a signed delta to a meme's vote counter.
func (s *MemoryStore) AdjustVotes(_ context.Context, memeID string, delta int) (*models.Meme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.memes[memeID]
	if !ok {
		return nil, fmt.Errorf("meme %s: %w", memeID, models.ErrNotFound)
	}
	entry.meme.Votes += delta

	out := entry.meme
	return &out, nil
}

// InsertBid persists a new bid, rejecting bids against unknown memes.
func (s *MemoryStore) InsertBid(_ context.Context, b *models.Bid) (*models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.memes[b.MemeID]; !ok {
		return nil, fmt.Errorf("meme %s: %w", b.MemeID, models.ErrNotFound)
	}

	stored := *b
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now().UTC()
	s.bids[b.MemeID] = append(s.bids[b.MemeID], stored)

	out := stored
	return &out, nil
}

// HighestBid returns the largest bid for a meme, ties broken by the bid
// placed first. Returns (nil, nil) when the meme has no bids.
func (s *MemoryStore) HighestBid(_ context.Context, memeID string) (*models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bids := s.bids[memeID]
	if len(bids) == 0 {
		return nil, nil
	}

	best := bids[0]
	for _, b := range bids[1:] {
		if b.Credits > best.Credits {
			best = b
		}
	}

	out := best
	return &out, nil
}

func (s *MemoryStore) sortedMemes(less func(a, b *memoryMeme) bool) []models.Meme {
	entries := make([]*memoryMeme, 0, len(s.memes))
	for _, e := range s.memes {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})

	memes := make([]models.Meme, len(entries))
	for i, e := range entries {
		memes[i] = e.meme
	}
	return memes
}
