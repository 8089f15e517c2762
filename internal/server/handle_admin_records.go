package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func handleAdminListScores(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := store.ListScores(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeData(w, http.StatusOK, scores)
	}
}

func handleAdminDeleteScore(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}

		err = store.DeleteScore(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "score not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeMessage(w, http.StatusOK, "Score deleted")
	}
}

func handleAdminDeleteAllScores(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := store.DeleteAllScores(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"message":      "All scores deleted",
			"deletedCount": n,
		})
	}
}

func handleAdminListLeads(store Store) http.HandlerFunc {
	return handleLeadList(store)
}

func handleAdminDeleteLead(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}

		err = store.DeleteLead(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "lead not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeMessage(w, http.StatusOK, "Lead deleted")
	}
}

func handleAdminDeleteAllLeads(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := store.DeleteAllLeads(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"message":      "All leads deleted",
			"deletedCount": n,
		})
	}
}

// handleAdminStats combines lead and score stats for the admin dashboard.
func handleAdminStats(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leadStats, err := store.LeadStats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		scoreStats, err := store.ScoreStats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeData(w, http.StatusOK, map[string]any{
			"leads":  leadStats,
			"scores": scoreStats,
		})
	}
}
