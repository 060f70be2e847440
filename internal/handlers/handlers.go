package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/memelabs/meme-market/internal/models"
	"github.com/memelabs/meme-market/internal/service"
	"github.com/memelabs/meme-market/internal/websocket"
)

// Handler contains the HTTP request handlers.
type Handler struct {
	memes  *service.MemeService
	votes  *service.VotingService
	bids   *service.BiddingService
	ws     *websocket.Handler
	logger *zap.SugaredLogger
}

// NewHandler creates a new HTTP handler.
func NewHandler(
	memes *service.MemeService,
	votes *service.VotingService,
	bids *service.BiddingService,
	ws *websocket.Handler,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{memes: memes, votes: votes, bids: bids, ws: ws, logger: logger}
}

// SetupRoutes configures all HTTP routes. The CORS handler wraps the
// router rather than running as mux middleware: mux only applies Use
// middleware to method-matched routes, which would leave preflight
// OPTIONS requests without CORS headers.
func (h *Handler) SetupRoutes(allowedOrigins []string) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.HandleFunc("/memes", h.CreateMeme).Methods("POST")
	router.HandleFunc("/memes", h.ListMemes).Methods("GET")
	router.HandleFunc("/bids", h.PlaceBid).Methods("POST")
	router.HandleFunc("/bids/{id}", h.GetHighestBid).Methods("GET")
	router.HandleFunc("/votes", h.CastVote).Methods("POST")
	router.HandleFunc("/leaderboard", h.Leaderboard).Methods("GET")

	router.HandleFunc("/ws", h.ws.ServeWS)
	router.HandleFunc("/stats", h.ws.Stats).Methods("GET")

	router.Use(h.loggingMiddleware)

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(router)
}

// HealthCheck returns service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "meme-market",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateMeme handles meme uploads.
func (h *Handler) CreateMeme(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	meme, err := h.memes.CreateMeme(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, meme)
}

// ListMemes returns all memes, newest first.
func (h *Handler) ListMemes(w http.ResponseWriter, r *http.Request) {
	memes, err := h.memes.ListMemes(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, memes)
}

// PlaceBid handles bid placement requests.
func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bid, err := h.bids.PlaceBid(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, bid)
}

// GetHighestBid returns the highest bid for a meme, or null when the meme
// has no bids.
func (h *Handler) GetHighestBid(w http.ResponseWriter, r *http.Request) {
	memeID := mux.Vars(r)["id"]

	bid, err := h.bids.HighestBid(r.Context(), memeID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, bid)
}

// CastVote handles upvote/downvote requests.
func (h *Handler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	meme, err := h.votes.CastVote(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, meme)
}

// Leaderboard returns the top memes by vote counter.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultLeaderboardSize
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		limit = n
	}

	memes, err := h.memes.Leaderboard(r.Context(), limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, memes)
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Errorw("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

// loggingMiddleware logs all HTTP requests.
func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Infow("request",
			"method", r.Method,
			"path", r.RequestURI,
			"duration", time.Since(start),
		)
	})
}
