package server

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
)

// handleLeadExport streams every matching lead as CSV for the marketing CRM.
func handleLeadExport(store Store, logger *slog.Logger) http.HandlerFunc {
	const exportLimit = 10000

	return func(w http.ResponseWriter, r *http.Request) {
		f := LeadFilter{
			Source: r.URL.Query().Get("source"),
			Event:  r.URL.Query().Get("event"),
			Limit:  exportLimit,
		}
		leads, _, err := store.ListLeads(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

		cw := csv.NewWriter(w)
		cw.Write([]string{
			"Name", "Email", "Company", "Role", "Phone",
			"Completed At", "Completion Time (s)", "Levels Completed",
			"Hints Used", "Total Attempts", "Source", "Event", "Created At",
		})
		for _, l := range leads {
			cw.Write([]string{
				l.Name,
				l.Email,
				l.Company,
				l.Role,
				l.Phone,
				l.CompletedAt,
				strconv.Itoa(l.CompletionTime),
				strconv.Itoa(l.LevelsCompleted),
				strconv.Itoa(l.HintsUsed),
				strconv.Itoa(l.TotalAttempts),
				l.Source,
				l.Event,
				l.CreatedAt,
			})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			logger.Error("writing lead export", "error", err)
		}
	}
}
