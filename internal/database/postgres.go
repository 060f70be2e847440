package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/memelabs/meme-market/internal/models"
)

// pq error code for foreign key violations, raised when a bid references
// a meme that does not exist.
const pqForeignKeyViolation = "23503"

// PostgresStore is the durable record store for memes and bids.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewPostgresStore opens a pooled connection to PostgreSQL and verifies it.
func NewPostgresStore(connStr string, logger *zap.SugaredLogger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db, logger: logger}, nil
}

// InitSchema creates the memes and bids tables if they do not exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS memes (
		id UUID PRIMARY KEY,
		title TEXT NOT NULL,
		image_url TEXT NOT NULL,
		tags TEXT[] NOT NULL,
		owner_id TEXT NOT NULL,
		caption TEXT NOT NULL DEFAULT '',
		vibe TEXT NOT NULL DEFAULT '',
		votes INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bids (
		id UUID PRIMARY KEY,
		meme_id UUID NOT NULL REFERENCES memes(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		credits BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_bids_meme_id ON bids(meme_id);
	CREATE INDEX IF NOT EXISTS idx_bids_credits ON bids(meme_id, credits DESC, created_at ASC);
	CREATE INDEX IF NOT EXISTS idx_memes_votes ON memes(votes DESC, created_at DESC);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.logger.Infow("database schema ready")
	return nil
}

const memeColumns = "id, title, image_url, tags, owner_id, caption, vibe, votes, created_at"

// InsertMeme persists a new meme, assigning its id and creation timestamp.
func (s *PostgresStore) InsertMeme(ctx context.Context, m *models.Meme) (*models.Meme, error) {
	query := `
		INSERT INTO memes (id, title, image_url, tags, owner_id, caption, vibe, votes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
		RETURNING created_at
	`

	stored := *m
	stored.ID = uuid.New().String()
	stored.Votes = 0

	err := s.db.QueryRowContext(ctx, query,
		stored.ID, stored.Title, stored.ImageURL, pq.Array(stored.Tags),
		stored.OwnerID, stored.Caption, stored.Vibe,
	).Scan(&stored.CreatedAt)
	if err != nil {
		return nil, &models.StoreError{Op: "insert meme", Err: err}
	}

	return &stored, nil
}

// ListMemes returns all memes, newest first.
func (s *PostgresStore) ListMemes(ctx context.Context) ([]models.Meme, error) {
	query := fmt.Sprintf("SELECT %s FROM memes ORDER BY created_at DESC", memeColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &models.StoreError{Op: "list memes", Err: err}
	}
	defer rows.Close()

	return scanMemes(rows)
}

// TopMemes returns the limit memes with the highest vote counters,
// ties broken by newest creation time.
func (s *PostgresStore) TopMemes(ctx context.Context, limit int) ([]models.Meme, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM memes ORDER BY votes DESC, created_at DESC LIMIT $1", memeColumns)

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, &models.StoreError{Op: "top memes", Err: err}
	}
	defer rows.Close()

	return scanMemes(rows)
}

// AdjustVotes applies a signed delta to a meme's vote counter as a single
// atomic update and returns the resulting record. Concurrent calls against
// the same meme never lose an increment.
func (s *PostgresStore) AdjustVotes(ctx context.Context, memeID string, delta int) (*models.Meme, error) {
	query := fmt.Sprintf(
		"UPDATE memes SET votes = votes + $2 WHERE id = $1 RETURNING %s", memeColumns)

	var m models.Meme
	err := s.db.QueryRowContext(ctx, query, memeID, delta).Scan(
		&m.ID, &m.Title, &m.ImageURL, pq.Array(&m.Tags), &m.OwnerID,
		&m.Caption, &m.Vibe, &m.Votes, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meme %s: %w", memeID, models.ErrNotFound)
	}
	if err != nil {
		return nil, &models.StoreError{Op: "adjust votes", Err: err}
	}

	return &m, nil
}

// InsertBid persists a new append-only bid row. A bid against a meme that
// does not exist is rejected by the foreign key constraint and reported
// as not found.
func (s *PostgresStore) InsertBid(ctx context.Context, b *models.Bid) (*models.Bid, error) {
	query := `
		INSERT INTO bids (id, meme_id, user_id, credits)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	stored := *b
	stored.ID = uuid.New().String()

	err := s.db.QueryRowContext(ctx, query,
		stored.ID, stored.MemeID, stored.UserID, stored.Credits,
	).Scan(&stored.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return nil, fmt.Errorf("meme %s: %w", stored.MemeID, models.ErrNotFound)
		}
		return nil, &models.StoreError{Op: "insert bid", Err: err}
	}

	return &stored, nil
}

// HighestBid returns the bid with the largest credit amount for a meme,
// ties broken by earliest creation time. Returns (nil, nil) when the meme
// has no bids.
func (s *PostgresStore) HighestBid(ctx context.Context, memeID string) (*models.Bid, error) {
	query := `
		SELECT id, meme_id, user_id, credits, created_at
		FROM bids
		WHERE meme_id = $1
		ORDER BY credits DESC, created_at ASC
		LIMIT 1
	`

	var b models.Bid
	err := s.db.QueryRowContext(ctx, query, memeID).Scan(
		&b.ID, &b.MemeID, &b.UserID, &b.Credits, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &models.StoreError{Op: "highest bid", Err: err}
	}

	return &b, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanMemes(rows *sql.Rows) ([]models.Meme, error) {
	memes := []models.Meme{}
	for rows.Next() {
		var m models.Meme
		err := rows.Scan(
			&m.ID, &m.Title, &m.ImageURL, pq.Array(&m.Tags), &m.OwnerID,
			&m.Caption, &m.Vibe, &m.Votes, &m.CreatedAt,
		)
		if err != nil {
			return nil, &models.StoreError{Op: "scan meme", Err: err}
		}
		memes = append(memes, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.StoreError{Op: "iterate memes", Err: err}
	}
	return memes, nil
}
