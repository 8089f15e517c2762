package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vasionhq/agentquest/internal/game/puzzle"
)

// LeadRequest is the request body for POST /api/leads.
type LeadRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Company         string `json:"company"`
	Role            string `json:"role"`
	Phone           string `json:"phone"`
	CompletedAt     string `json:"completedAt"`
	CompletionTime  int    `json:"completionTime"`
	LevelsCompleted int    `json:"levelsCompleted"`
	HintsUsed       int    `json:"hintsUsed"`
	TotalAttempts   int    `json:"totalAttempts"`
	Source          string `json:"source"`
	Event           string `json:"event"`
}

func handleLeadCreate(store Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LeadRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		req.Company = strings.TrimSpace(req.Company)
		if req.Name == "" || req.Email == "" || req.Company == "" {
			writeError(w, http.StatusBadRequest, "name, email and company are required")
			return
		}
		if !puzzle.ValidEmail(req.Email) {
			writeError(w, http.StatusBadRequest, "invalid email address")
			return
		}
		if req.Source == "" {
			req.Source = "web"
		}
		if req.CompletedAt == "" {
			req.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		}

		id, err := store.CreateLead(r.Context(), Lead{
			Name:            req.Name,
			Email:           req.Email,
			Company:         req.Company,
			Role:            req.Role,
			Phone:           req.Phone,
			CompletedAt:     req.CompletedAt,
			CompletionTime:  req.CompletionTime,
			LevelsCompleted: req.LevelsCompleted,
			HintsUsed:       req.HintsUsed,
			TotalAttempts:   req.TotalAttempts,
			Source:          req.Source,
			Event:           req.Event,
		})
		if err != nil {
			logger.Error("creating lead", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Lead captured successfully",
			"id":      id,
		})
	}
}

func handleLeadList(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := LeadFilter{
			Source: r.URL.Query().Get("source"),
			Event:  r.URL.Query().Get("event"),
			Limit:  queryInt(r, "limit", 50),
			Offset: queryInt(r, "offset", 0),
		}
		if f.Limit < 1 || f.Limit > 500 {
			f.Limit = 50
		}
		if f.Offset < 0 {
			f.Offset = 0
		}

		leads, total, err := store.ListLeads(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    leads,
			"pagination": map[string]int{
				"total":  total,
				"limit":  f.Limit,
				"offset": f.Offset,
			},
		})
	}
}

func handleLeadStats(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.LeadStats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeData(w, http.StatusOK, stats)
	}
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
