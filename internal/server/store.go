package server

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Lead is a captured contact record. Leads are append-only: the same email
// may appear multiple times (booth staff sometimes re-enter a visitor).
type Lead struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Company         string `json:"company"`
	Role            string `json:"role"`
	Phone           string `json:"phone,omitempty"`
	CompletedAt     string `json:"completedAt"`
	CompletionTime  int    `json:"completionTime"`
	LevelsCompleted int    `json:"levelsCompleted"`
	HintsUsed       int    `json:"hintsUsed"`
	TotalAttempts   int    `json:"totalAttempts"`
	Source          string `json:"source"`
	Event           string `json:"event,omitempty"`
	CreatedAt       string `json:"createdAt"`
}

// LeadFilter narrows and pages lead listings.
type LeadFilter struct {
	Source string
	Event  string
	Limit  int
	Offset int
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type EventCount struct {
	Event string `json:"event"`
	Count int    `json:"count"`
}

type LeadStats struct {
	Total    int           `json:"total"`
	Today    int           `json:"today"`
	BySource []SourceCount `json:"bySource"`
	ByEvent  []EventCount  `json:"byEvent"`
}

// ScoreBreakdown mirrors the component columns of a score row.
type ScoreBreakdown struct {
	LevelPoints  int `json:"levelPoints"`
	AnswerPoints int `json:"answerPoints"`
	HintPenalty  int `json:"hintPenalty"`
	BonusPoints  int `json:"bonusPoints"`
	Level12Bonus int `json:"level12Bonus"`
}

// ScoreSubmission is one full game-state snapshot posted by a client.
// Seq is the client's logical clock; the upsert only applies a submission
// whose seq is at least as new as the stored row's.
type ScoreSubmission struct {
	PlayerName      string         `json:"playerName"`
	Email           string         `json:"email"`
	Score           int            `json:"score"`
	LevelsCompleted int            `json:"levelsCompleted"`
	CurrentLevel    int            `json:"currentLevel"`
	HintsUsed       int            `json:"hintsUsed"`
	TotalAttempts   int            `json:"totalAttempts"`
	CompletionTime  int            `json:"completionTime"`
	IsComplete      bool           `json:"isComplete"`
	Seq             int64          `json:"seq"`
	ScoreBreakdown  ScoreBreakdown `json:"scoreBreakdown"`
}

// Score is a stored score row, one per email.
type Score struct {
	ID              int64          `json:"id"`
	PlayerName      string         `json:"playerName"`
	Email           string         `json:"email"`
	Score           int            `json:"score"`
	LevelsCompleted int            `json:"levelsCompleted"`
	CurrentLevel    int            `json:"currentLevel"`
	HintsUsed       int            `json:"hintsUsed"`
	TotalAttempts   int            `json:"totalAttempts"`
	CompletionTime  int            `json:"completionTime"`
	IsComplete      bool           `json:"isComplete"`
	Seq             int64          `json:"seq"`
	ScoreBreakdown  ScoreBreakdown `json:"scoreBreakdown"`
	CreatedAt       string         `json:"createdAt"`
	UpdatedAt       string         `json:"updatedAt"`
}

// LeaderboardEntry is one ranked row. Rank uses RANK() semantics: tied
// scores share a rank and the next distinct score skips the tie group.
type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	PlayerName      string `json:"playerName"`
	Score           int    `json:"score"`
	CompletionTime  int    `json:"completionTime"`
	LevelsCompleted int    `json:"levelsCompleted"`
	HintsUsed       int    `json:"hintsUsed"`
	IsComplete      bool   `json:"isComplete"`
	CreatedAt       string `json:"createdAt"`
}

type ScoreStats struct {
	TotalPlayers      int     `json:"totalPlayers"`
	CompletedGames    int     `json:"completedGames"`
	AverageScore      float64 `json:"averageScore"`
	TopScore          int     `json:"topScore"`
	AvgCompletionTime float64 `json:"avgCompletionTime"`
}

type Store interface {
	CreateLead(ctx context.Context, lead Lead) (int64, error)
	ListLeads(ctx context.Context, f LeadFilter) ([]Lead, int, error)
	LeadStats(ctx context.Context) (LeadStats, error)
	DeleteLead(ctx context.Context, id int64) error
	DeleteAllLeads(ctx context.Context) (int64, error)

	UpsertScore(ctx context.Context, sub ScoreSubmission) (int64, error)
	ScoreByEmail(ctx context.Context, email string) (Score, error)
	ListScores(ctx context.Context) ([]Score, error)
	Leaderboard(ctx context.Context, limit int, includeIncomplete bool) ([]LeaderboardEntry, error)
	ScoreStats(ctx context.Context) (ScoreStats, error)
	CompletedRank(ctx context.Context, score int) (int, error)
	RankForScore(ctx context.Context, score int) (rank, total int, err error)
	DeleteScore(ctx context.Context, id int64) error
	DeleteAllScores(ctx context.Context) (int64, error)
}
