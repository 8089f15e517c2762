package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// MessageResponse is returned for acknowledged writes.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type LeadCreateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type LeadListResponse struct {
	Success    bool       `json:"success"`
	Data       []Lead     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type LeadStatsResponse struct {
	Success bool      `json:"success"`
	Data    LeadStats `json:"data"`
}

type ScoreSubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Rank    int    `json:"rank"`
}

type LeaderboardResponse struct {
	Success bool               `json:"success"`
	Data    []LeaderboardEntry `json:"data"`
}

type PlayerScoreData struct {
	Score        Score `json:"score"`
	Rank         int   `json:"rank"`
	TotalPlayers int   `json:"totalPlayers"`
}

type PlayerScoreResponse struct {
	Success bool            `json:"success"`
	Data    PlayerScoreData `json:"data"`
}

type ScoreStatsResponse struct {
	Success bool       `json:"success"`
	Data    ScoreStats `json:"data"`
}

type RankData struct {
	Rank       int `json:"rank"`
	Total      int `json:"total"`
	Percentile int `json:"percentile"`
}

type RankResponse struct {
	Success bool     `json:"success"`
	Data    RankData `json:"data"`
}

type AdminLoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type AdminVerifyData struct {
	Username string `json:"username"`
}

type AdminVerifyResponse struct {
	Success bool            `json:"success"`
	Data    AdminVerifyData `json:"data"`
}

type AdminScoresResponse struct {
	Success bool    `json:"success"`
	Data    []Score `json:"data"`
}

type AdminStatsData struct {
	Leads  LeadStats  `json:"leads"`
	Scores ScoreStats `json:"scores"`
}

type AdminStatsResponse struct {
	Success bool           `json:"success"`
	Data    AdminStatsData `json:"data"`
}

type DeleteAllResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "AgentQuest API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Lead capture and score tracking backend for the Secret Agent booth game.")

	// GET /health
	getHealth, _ := r.NewOperationContext(http.MethodGet, "/health")
	getHealth.SetSummary("Health check")
	getHealth.SetDescription("Returns the health status of backend dependencies.")
	getHealth.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealth.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealth)

	// POST /api/leads
	postLead, _ := r.NewOperationContext(http.MethodPost, "/api/leads")
	postLead.SetSummary("Capture lead")
	postLead.SetDescription("Stores a visitor contact record. Requires API key when one is configured.")
	postLead.AddReqStructure(LeadRequest{})
	postLead.AddRespStructure(LeadCreateResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postLead.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postLead.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postLead.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(postLead)

	// GET /api/leads
	listLeads, _ := r.NewOperationContext(http.MethodGet, "/api/leads")
	listLeads.SetSummary("List leads")
	listLeads.SetDescription("Returns leads filtered by source and event, newest first, paginated.")
	listLeads.AddRespStructure(LeadListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listLeads)

	// GET /api/leads/export
	exportLeads, _ := r.NewOperationContext(http.MethodGet, "/api/leads/export")
	exportLeads.SetSummary("Export leads as CSV")
	exportLeads.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/csv"))
	_ = r.AddOperation(exportLeads)

	// GET /api/leads/stats
	leadStats, _ := r.NewOperationContext(http.MethodGet, "/api/leads/stats")
	leadStats.SetSummary("Lead stats")
	leadStats.SetDescription("Totals and per-source/per-event breakdowns.")
	leadStats.AddRespStructure(LeadStatsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(leadStats)

	// POST /api/scores
	postScore, _ := r.NewOperationContext(http.MethodPost, "/api/scores")
	postScore.SetSummary("Submit score snapshot")
	postScore.SetDescription("Upserts the full game state keyed by email. Stale snapshots (older seq) are skipped.")
	postScore.AddReqStructure(ScoreSubmission{})
	postScore.AddRespStructure(ScoreSubmitResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postScore)

	// GET /api/scores/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/scores/leaderboard")
	getLeaderboard.SetSummary("Leaderboard")
	getLeaderboard.SetDescription("Top scores ordered by score then completion time. Tied scores share a rank.")
	getLeaderboard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	// GET /api/scores/player/{email}
	getPlayer, _ := r.NewOperationContext(http.MethodGet, "/api/scores/player/{email}")
	getPlayer.SetSummary("Player score")
	getPlayer.SetDescription("Looks up a player's score by email, case-insensitive.")
	getPlayer.AddRespStructure(PlayerScoreResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getPlayer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPlayer)

	// GET /api/scores/stats
	scoreStats, _ := r.NewOperationContext(http.MethodGet, "/api/scores/stats")
	scoreStats.SetSummary("Score stats")
	scoreStats.AddRespStructure(ScoreStatsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(scoreStats)

	// GET /api/scores/rank/{score}
	getRank, _ := r.NewOperationContext(http.MethodGet, "/api/scores/rank/{score}")
	getRank.SetSummary("Rank a score")
	getRank.SetDescription("Ranks a hypothetical score against all stored scores and reports the percentile.")
	getRank.AddRespStructure(RankResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRank.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getRank)

	// POST /api/admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with username and password. Returns a bearer token valid for 24 hours.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(AdminLoginResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.SetDescription("Revokes the bearer token.")
	postLogout.AddRespStructure(MessageResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogout.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogout)

	// GET /api/admin/verify
	getVerify, _ := r.NewOperationContext(http.MethodGet, "/api/admin/verify")
	getVerify.SetSummary("Verify admin session")
	getVerify.AddRespStructure(AdminVerifyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getVerify.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getVerify)

	// GET /api/admin/stats
	adminStats, _ := r.NewOperationContext(http.MethodGet, "/api/admin/stats")
	adminStats.SetSummary("Combined dashboard stats")
	adminStats.AddRespStructure(AdminStatsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminStats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminStats)

	// GET /api/admin/scores
	adminScores, _ := r.NewOperationContext(http.MethodGet, "/api/admin/scores")
	adminScores.SetSummary("List all scores")
	adminScores.AddRespStructure(AdminScoresResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminScores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminScores)

	// DELETE /api/admin/scores/{id}
	deleteScore, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/scores/{id}")
	deleteScore.SetSummary("Delete score")
	deleteScore.AddRespStructure(MessageResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteScore)

	// DELETE /api/admin/scores
	deleteScores, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/scores")
	deleteScores.SetSummary("Delete all scores")
	deleteScores.AddRespStructure(DeleteAllResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteScores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteScores)

	// GET /api/admin/leads
	adminLeads, _ := r.NewOperationContext(http.MethodGet, "/api/admin/leads")
	adminLeads.SetSummary("List leads (admin)")
	adminLeads.AddRespStructure(LeadListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	adminLeads.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(adminLeads)

	// DELETE /api/admin/leads/{id}
	deleteLead, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/leads/{id}")
	deleteLead.SetSummary("Delete lead")
	deleteLead.AddRespStructure(MessageResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteLead.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteLead.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteLead)

	// DELETE /api/admin/leads
	deleteLeads, _ := r.NewOperationContext(http.MethodDelete, "/api/admin/leads")
	deleteLeads.SetSummary("Delete all leads")
	deleteLeads.AddRespStructure(DeleteAllResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteLeads.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteLeads)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
