package server

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vasionhq/agentquest/internal/game/puzzle"
)

func handleScoreSubmit(store Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub ScoreSubmission
		if err := readJSON(r, &sub); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sub.PlayerName = strings.TrimSpace(sub.PlayerName)
		sub.Email = strings.TrimSpace(strings.ToLower(sub.Email))
		if sub.PlayerName == "" || sub.Email == "" {
			writeError(w, http.StatusBadRequest, "playerName and email are required")
			return
		}
		if !puzzle.ValidEmail(sub.Email) {
			writeError(w, http.StatusBadRequest, "invalid email address")
			return
		}
		if sub.Score < 0 {
			sub.Score = 0
		}

		id, err := store.UpsertScore(r.Context(), sub)
		if err != nil {
			logger.Error("upserting score", "error", err, "email", sub.Email)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rank, err := store.CompletedRank(r.Context(), sub.Score)
		if err != nil {
			logger.Error("ranking score", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Score submitted successfully",
			"id":      id,
			"rank":    rank,
		})
	}
}

func handleLeaderboard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 10)
		if limit < 1 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}
		includeIncomplete := r.URL.Query().Get("includeIncomplete") == "true"

		entries, err := store.Leaderboard(r.Context(), limit, includeIncomplete)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeData(w, http.StatusOK, entries)
	}
}

func handlePlayerScore(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(strings.ToLower(chi.URLParam(r, "email")))

		score, err := store.ScoreByEmail(r.Context(), email)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rank, total, err := store.RankForScore(r.Context(), score.Score)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeData(w, http.StatusOK, map[string]any{
			"score":        score,
			"rank":         rank,
			"totalPlayers": total,
		})
	}
}

func handleScoreStats(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.ScoreStats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeData(w, http.StatusOK, stats)
	}
}

// handleScoreRank ranks a hypothetical score against all stored scores and
// reports the percentile. An empty store ranks everything at the top.
func handleScoreRank(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		score, err := strconv.Atoi(chi.URLParam(r, "score"))
		if err != nil || score < 0 {
			writeError(w, http.StatusBadRequest, "invalid score")
			return
		}

		rank, total, err := store.RankForScore(r.Context(), score)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		percentile := 100
		if total > 0 {
			percentile = int(math.Round((1 - float64(rank-1)/float64(total)) * 100))
		}

		writeData(w, http.StatusOK, map[string]int{
			"rank":       rank,
			"total":      total,
			"percentile": percentile,
		})
	}
}
