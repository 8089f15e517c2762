package server

import (
	"context"
	"database/sql"
	"errors"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead Lead) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO leads (name, email, company, role, phone, completed_at,
			completion_time, levels_completed, hints_used, total_attempts, source, event)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, NULLIF(?, ''))
		RETURNING id
	`, lead.Name, lead.Email, lead.Company, lead.Role, lead.Phone, lead.CompletedAt,
		lead.CompletionTime, lead.LevelsCompleted, lead.HintsUsed, lead.TotalAttempts,
		lead.Source, lead.Event).Scan(&id)
	return id, err
}

func (s *SQLiteStore) ListLeads(ctx context.Context, f LeadFilter) ([]Lead, int, error) {
	where := ` WHERE (? = '' OR source = ?) AND (? = '' OR event = ?)`
	args := []any{f.Source, f.Source, f.Event, f.Event}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, company, role, COALESCE(phone, ''), completed_at,
			completion_time, levels_completed, hints_used, total_attempts,
			source, COALESCE(event, ''), created_at
		FROM leads`+where+`
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := []Lead{}
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Company, &l.Role, &l.Phone,
			&l.CompletedAt, &l.CompletionTime, &l.LevelsCompleted, &l.HintsUsed,
			&l.TotalAttempts, &l.Source, &l.Event, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		leads = append(leads, l)
	}
	return leads, total, rows.Err()
}

func (s *SQLiteStore) LeadStats(ctx context.Context) (LeadStats, error) {
	var stats LeadStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(CASE WHEN created_at >= strftime('%Y-%m-%dT00:00:00Z', 'now') THEN 1 END)
		FROM leads
	`).Scan(&stats.Total, &stats.Today)
	if err != nil {
		return stats, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source, COUNT(*) FROM leads GROUP BY source ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	stats.BySource = []SourceCount{}
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			return stats, err
		}
		stats.BySource = append(stats.BySource, sc)
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT event, COUNT(*) FROM leads
		WHERE event IS NOT NULL
		GROUP BY event ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	stats.ByEvent = []EventCount{}
	for rows.Next() {
		var ec EventCount
		if err := rows.Scan(&ec.Event, &ec.Count); err != nil {
			return stats, err
		}
		stats.ByEvent = append(stats.ByEvent, ec)
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) DeleteLead(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteAllLeads(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM leads`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpsertScore inserts or replaces the row for sub.Email. A stale snapshot
// (seq older than the stored row) is skipped rather than applied; the
// existing row's id is returned either way, so retried submissions of the
// same snapshot stay idempotent.
func (s *SQLiteStore) UpsertScore(ctx context.Context, sub ScoreSubmission) (int64, error) {
	isComplete := 0
	if sub.IsComplete {
		isComplete = 1
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO scores (player_name, email, score, levels_completed, current_level,
			hints_used, total_attempts, completion_time, is_complete,
			level_points, answer_points, hint_penalty, bonus_points, level12_bonus, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			player_name      = excluded.player_name,
			score            = excluded.score,
			levels_completed = excluded.levels_completed,
			current_level    = excluded.current_level,
			hints_used       = excluded.hints_used,
			total_attempts   = excluded.total_attempts,
			completion_time  = excluded.completion_time,
			is_complete      = excluded.is_complete,
			level_points     = excluded.level_points,
			answer_points    = excluded.answer_points,
			hint_penalty     = excluded.hint_penalty,
			bonus_points     = excluded.bonus_points,
			level12_bonus    = excluded.level12_bonus,
			seq              = excluded.seq,
			updated_at       = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE excluded.seq >= scores.seq
		RETURNING id
	`, sub.PlayerName, sub.Email, sub.Score, sub.LevelsCompleted, sub.CurrentLevel,
		sub.HintsUsed, sub.TotalAttempts, sub.CompletionTime, isComplete,
		sub.ScoreBreakdown.LevelPoints, sub.ScoreBreakdown.AnswerPoints,
		sub.ScoreBreakdown.HintPenalty, sub.ScoreBreakdown.BonusPoints,
		sub.ScoreBreakdown.Level12Bonus, sub.Seq).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		// Stale seq: the conflict clause skipped the write.
		err = s.db.QueryRowContext(ctx, `SELECT id FROM scores WHERE email = ?`, sub.Email).Scan(&id)
	}
	return id, err
}

func (s *SQLiteStore) ScoreByEmail(ctx context.Context, email string) (Score, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, player_name, email, score, levels_completed, current_level,
			hints_used, total_attempts, completion_time, is_complete,
			level_points, answer_points, hint_penalty, bonus_points, level12_bonus,
			seq, created_at, updated_at
		FROM scores WHERE email = ?
	`, email)
	return scanScore(row)
}

func (s *SQLiteStore) ListScores(ctx context.Context) ([]Score, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player_name, email, score, levels_completed, current_level,
			hints_used, total_attempts, completion_time, is_complete,
			level_points, answer_points, hint_penalty, bonus_points, level12_bonus,
			seq, created_at, updated_at
		FROM scores
		ORDER BY score DESC, completion_time ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := []Score{}
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScore(row rowScanner) (Score, error) {
	var sc Score
	var isComplete int
	err := row.Scan(&sc.ID, &sc.PlayerName, &sc.Email, &sc.Score, &sc.LevelsCompleted,
		&sc.CurrentLevel, &sc.HintsUsed, &sc.TotalAttempts, &sc.CompletionTime,
		&isComplete, &sc.ScoreBreakdown.LevelPoints, &sc.ScoreBreakdown.AnswerPoints,
		&sc.ScoreBreakdown.HintPenalty, &sc.ScoreBreakdown.BonusPoints,
		&sc.ScoreBreakdown.Level12Bonus, &sc.Seq, &sc.CreatedAt, &sc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sc, ErrNotFound
	}
	sc.IsComplete = isComplete == 1
	return sc, err
}

func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int, includeIncomplete bool) ([]LeaderboardEntry, error) {
	onlyComplete := 1
	if includeIncomplete {
		onlyComplete = 0
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT RANK() OVER (ORDER BY score DESC, completion_time ASC),
			player_name, score, completion_time, levels_completed, hints_used,
			is_complete, created_at
		FROM scores
		WHERE is_complete = 1 OR ? = 0
		ORDER BY score DESC, completion_time ASC
		LIMIT ?
	`, onlyComplete, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		var isComplete int
		if err := rows.Scan(&e.Rank, &e.PlayerName, &e.Score, &e.CompletionTime,
			&e.LevelsCompleted, &e.HintsUsed, &isComplete, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.IsComplete = isComplete == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) ScoreStats(ctx context.Context) (ScoreStats, error) {
	var stats ScoreStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(is_complete), 0),
			COALESCE(AVG(score), 0),
			COALESCE(MAX(score), 0),
			COALESCE(AVG(CASE WHEN is_complete = 1 THEN completion_time END), 0)
		FROM scores
	`).Scan(&stats.TotalPlayers, &stats.CompletedGames, &stats.AverageScore,
		&stats.TopScore, &stats.AvgCompletionTime)
	return stats, err
}

// CompletedRank is the submit-path rank: position among completed games only.
func (s *SQLiteStore) CompletedRank(ctx context.Context, score int) (int, error) {
	var ahead int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM scores WHERE score > ? AND is_complete = 1
	`, score).Scan(&ahead)
	return ahead + 1, err
}

// RankForScore ranks a hypothetical score against every stored row,
// complete or not.
func (s *SQLiteStore) RankForScore(ctx context.Context, score int) (int, int, error) {
	var ahead, total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(CASE WHEN score > ? THEN 1 END), COUNT(*) FROM scores
	`, score).Scan(&ahead, &total)
	return ahead + 1, total, err
}

func (s *SQLiteStore) DeleteScore(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteAllScores(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scores`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
