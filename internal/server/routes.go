package server

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, cfg Config) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("AgentQuest API", "/openapi.json", "/docs"))
	r.Get("/health", handleHealth(cfg.Logger, cfg.DB, cfg.Redis))

	// Game-client routes, guarded by the shared API key when one is set.
	r.Route("/api/leads", func(r chi.Router) {
		r.Use(apiKeyMiddleware(cfg.APIKey))
		r.Post("/", handleLeadCreate(cfg.Store, cfg.Logger))
		r.Get("/", handleLeadList(cfg.Store))
		r.Get("/export", handleLeadExport(cfg.Store, cfg.Logger))
		r.Get("/stats", handleLeadStats(cfg.Store))
	})

	// Score endpoints stay open even when a key is configured: syncs are
	// fire-and-forget and the leaderboard is shown on the booth display.
	r.Route("/api/scores", func(r chi.Router) {
		r.Post("/", handleScoreSubmit(cfg.Store, cfg.Logger))
		r.Get("/leaderboard", handleLeaderboard(cfg.Store))
		r.Get("/player/{email}", handlePlayerScore(cfg.Store))
		r.Get("/stats", handleScoreStats(cfg.Store))
		r.Get("/rank/{score}", handleScoreRank(cfg.Store))
	})

	// Admin auth + record management, bearer-token sessions.
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", handleAdminLogin(cfg.Sessions, cfg.Admin, cfg.Logger))
		r.Post("/logout", handleAdminLogout(cfg.Sessions))

		r.Group(func(r chi.Router) {
			r.Use(adminAuthMiddleware(cfg.Sessions))
			r.Get("/verify", handleAdminVerify())
			r.Get("/stats", handleAdminStats(cfg.Store))
			r.Get("/scores", handleAdminListScores(cfg.Store))
			r.Delete("/scores", handleAdminDeleteAllScores(cfg.Store))
			r.Delete("/scores/{id}", handleAdminDeleteScore(cfg.Store))
			r.Get("/leads", handleAdminListLeads(cfg.Store))
			r.Delete("/leads", handleAdminDeleteAllLeads(cfg.Store))
			r.Delete("/leads/{id}", handleAdminDeleteLead(cfg.Store))
		})
	})

	if cfg.SPADir != "" {
		if info, err := os.Stat(cfg.SPADir); err == nil && info.IsDir() {
			cfg.Logger.Info("serving SPA", "dir", cfg.SPADir)
			r.NotFound(handleSPA(cfg.SPADir))
		}
	}
}
