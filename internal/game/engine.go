// Package game implements the player-side game engine: per-player progress
// accumulators, the score derivation formula, durable local persistence, and
// backend synchronization. Score state is derived, never stored directly:
// the accumulators are the source of truth and the score is recomputed from
// them on every read, so resubmitting the same snapshot is idempotent.
package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vasionhq/agentquest/internal/game/puzzle"
)

// Scoring constants. Fixed by policy; DeductPoints ignores its argument in
// favor of wrongAnswerPenalty.
const (
	totalLevels        = 11
	pointsPerLevel     = 10
	pointsPerAnswer    = 1
	hintPenalty        = -5
	wrongAnswerPenalty = -5
	hiddenBonusPoints  = 10

	// Level 12 is a reserved bonus channel, excluded from answerPoints.
	bonusLevel = 12
)

// Breakdown is the informational decomposition of a score. It mirrors the
// scoreBreakdown object stored with each score record.
type Breakdown struct {
	LevelPoints  int `json:"levelPoints"`
	AnswerPoints int `json:"answerPoints"`
	HintPenalty  int `json:"hintPenalty"`
	BonusPoints  int `json:"bonusPoints"`
	Level12Bonus int `json:"level12Bonus"`
}

// Player is the registered visitor behind a game session.
type Player struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Company     string     `json:"company"`
	Role        string     `json:"role"`
	Phone       string     `json:"phone,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// Registered reports whether the required contact fields are present.
func (p Player) Registered() bool {
	return p.Name != "" && p.Email != "" && p.Company != ""
}

// Snapshot is the full derived scoring state sent wholesale to the backend on
// every sync. Seq increases monotonically so the store can reject stale
// writes that arrive out of order.
type Snapshot struct {
	PlayerName      string    `json:"playerName"`
	Email           string    `json:"email"`
	Score           int       `json:"score"`
	LevelsCompleted int       `json:"levelsCompleted"`
	CurrentLevel    int       `json:"currentLevel"`
	HintsUsed       int       `json:"hintsUsed"`
	TotalAttempts   int       `json:"totalAttempts"`
	CompletionTime  int       `json:"completionTime"`
	IsComplete      bool      `json:"isComplete"`
	Seq             int64     `json:"seq"`
	ScoreBreakdown  Breakdown `json:"scoreBreakdown"`
}

// state is the persisted accumulator snapshot.
type state struct {
	CurrentLevel         int         `json:"currentLevel"`
	LevelsCompleted      []int       `json:"levelsCompleted"`
	StartTime            *time.Time  `json:"startTime"`
	EndTime              *time.Time  `json:"endTime"`
	HintsUsed            []int       `json:"hintsUsed"`
	IsComplete           bool        `json:"isComplete"`
	TotalAttempts        int         `json:"totalAttempts"`
	CorrectAnswers       map[int]int `json:"correctAnswers"`
	HiddenBonusFound     bool        `json:"hiddenBonusFound"`
	WrongAnswerPenalties int         `json:"wrongAnswerPenalties"`
	Seq                  int64       `json:"seq"`
}

// Engine holds one player's game progress. All mutating actions persist the
// full accumulator snapshot and then fire an asynchronous sync carrying the
// derived state; sync failures are logged and dropped, local state stays
// authoritative.
type Engine struct {
	mu sync.Mutex

	currentLevel         int // 0 = intro, 1-11 = levels, 12 = debrief
	levelsCompleted      map[int]bool
	startTime            *time.Time
	endTime              *time.Time
	hintsUsed            map[int]bool
	isComplete           bool
	totalAttempts        int
	correctAnswers       map[int]int
	hiddenBonusFound     bool
	wrongAnswerPenalties int
	seq                  int64

	player Player

	storage Storage
	syncer  *Syncer
	logger  *slog.Logger
	now     func() time.Time
}

func NewEngine(storage Storage, syncer *Syncer, logger *slog.Logger) *Engine {
	return &Engine{
		levelsCompleted: make(map[int]bool),
		hintsUsed:       make(map[int]bool),
		correctAnswers:  make(map[int]int),
		storage:         storage,
		syncer:          syncer,
		logger:          logger,
		now:             time.Now,
	}
}

// Start begins a fresh game, clearing any previous progress.
func (e *Engine) Start() {
	e.mu.Lock()
	now := e.now()
	e.currentLevel = 1
	e.levelsCompleted = make(map[int]bool)
	e.startTime = &now
	e.endTime = nil
	e.hintsUsed = make(map[int]bool)
	e.isComplete = false
	e.totalAttempts = 0
	e.correctAnswers = make(map[int]int)
	e.hiddenBonusFound = false
	e.wrongAnswerPenalties = 0
	e.mu.Unlock()

	e.saveAndSync()
}

// RegisterPlayer records the visitor's contact details and persists them.
// The email is checked here so a bad address fails loudly at registration
// instead of every later score sync being rejected by the backend.
func (e *Engine) RegisterPlayer(p Player) error {
	if !p.Registered() {
		return fmt.Errorf("name, email and company are required")
	}
	if !puzzle.ValidEmail(p.Email) {
		return fmt.Errorf("invalid email %q", p.Email)
	}

	e.mu.Lock()
	now := e.now()
	p.SubmittedAt = &now
	e.player = p
	data, err := json.Marshal(p)
	e.mu.Unlock()

	if err == nil {
		if err := e.storage.Set(storageKeyPlayer, data); err != nil {
			e.logger.Error("saving player state", "error", err)
		}
	}
	e.saveAndSync()
	return nil
}

// Player returns the registered visitor details.
func (e *Engine) Player() Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player
}

// CompleteLevel marks a level done and advances. Completing level 11 ends the
// game: the engine moves to the debrief screen and records the end time.
func (e *Engine) CompleteLevel(levelID int) {
	e.mu.Lock()
	e.levelsCompleted[levelID] = true
	if levelID < totalLevels {
		e.currentLevel = levelID + 1
	} else {
		e.currentLevel = totalLevels + 1
		now := e.now()
		e.endTime = &now
		e.isComplete = true
	}
	e.mu.Unlock()

	e.saveAndSync()
}

// UseHint charges the hint penalty for a level. Repeated hint requests on the
// same level are charged once.
func (e *Engine) UseHint(levelID int) {
	e.mu.Lock()
	if e.hintsUsed[levelID] {
		e.mu.Unlock()
		return
	}
	e.hintsUsed[levelID] = true
	e.mu.Unlock()

	e.saveAndSync()
}

// RecordCorrectAnswer credits one correct answer for a level. Level 12 feeds
// the separate bonus channel rather than answerPoints.
func (e *Engine) RecordCorrectAnswer(levelID int) {
	e.mu.Lock()
	e.correctAnswers[levelID]++
	e.mu.Unlock()

	e.saveAndSync()
}

// FindHiddenBonus awards the hidden bonus. Finding it again has no effect.
func (e *Engine) FindHiddenBonus() {
	e.mu.Lock()
	if e.hiddenBonusFound {
		e.mu.Unlock()
		return
	}
	e.hiddenBonusFound = true
	e.mu.Unlock()

	e.saveAndSync()
}

// DeductPoints charges one wrong-answer penalty. The points argument is
// accepted for API compatibility but the penalty amount is fixed by policy.
func (e *Engine) DeductPoints(points int) {
	_ = points
	e.mu.Lock()
	e.wrongAnswerPenalties++
	e.mu.Unlock()

	e.saveAndSync()
}

// AddAttempt counts one answer submission, right or wrong.
func (e *Engine) AddAttempt() {
	e.mu.Lock()
	e.totalAttempts++
	e.mu.Unlock()

	e.saveAndSync()
}

// GoToLevel jumps directly to a level without completing anything.
func (e *Engine) GoToLevel(levelID int) {
	e.mu.Lock()
	e.currentLevel = levelID
	e.mu.Unlock()

	e.saveAndSync()
}

// Score recomputes the score and its breakdown from the accumulators. The
// raw sum can go negative from penalties; the stored score never does.
func (e *Engine) Score() (int, Breakdown) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scoreLocked()
}

func (e *Engine) scoreLocked() (int, Breakdown) {
	b := Breakdown{
		LevelPoints:  len(e.levelsCompleted) * pointsPerLevel,
		HintPenalty:  len(e.hintsUsed) * hintPenalty,
		Level12Bonus: e.correctAnswers[bonusLevel],
	}
	for level, count := range e.correctAnswers {
		if level != bonusLevel {
			b.AnswerPoints += count * pointsPerAnswer
		}
	}
	if e.hiddenBonusFound {
		b.BonusPoints = hiddenBonusPoints
	}

	raw := b.LevelPoints + b.AnswerPoints + b.HintPenalty + b.BonusPoints +
		b.Level12Bonus + e.wrongAnswerPenalties*wrongAnswerPenalty
	if raw < 0 {
		raw = 0
	}
	return raw, b
}

// ElapsedSeconds returns seconds since the game started, frozen at the end
// time once the game is complete.
func (e *Engine) ElapsedSeconds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked()
}

func (e *Engine) elapsedLocked() int {
	if e.startTime == nil {
		return 0
	}
	end := e.now()
	if e.endTime != nil {
		end = *e.endTime
	}
	return int(end.Sub(*e.startTime).Seconds())
}

// FormattedTime renders the elapsed time as mm:ss.
func (e *Engine) FormattedTime() string {
	secs := e.ElapsedSeconds()
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// CompletionPercentage returns completed levels as a rounded percentage.
func (e *Engine) CompletionPercentage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int(float64(len(e.levelsCompleted))/float64(totalLevels)*100 + 0.5)
}

// CurrentLevel returns the level the player is on.
func (e *Engine) CurrentLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentLevel
}

// IsComplete reports whether all levels are done.
func (e *Engine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isComplete
}

// TotalAttempts returns the number of answer submissions so far.
func (e *Engine) TotalAttempts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalAttempts
}

// Snapshot derives the full scoring state for submission to the backend.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	score, breakdown := e.scoreLocked()
	return Snapshot{
		PlayerName:      e.player.Name,
		Email:           e.player.Email,
		Score:           score,
		LevelsCompleted: len(e.levelsCompleted),
		CurrentLevel:    e.currentLevel,
		HintsUsed:       len(e.hintsUsed),
		TotalAttempts:   e.totalAttempts,
		CompletionTime:  e.elapsedLocked(),
		IsComplete:      e.isComplete,
		Seq:             e.seq,
		ScoreBreakdown:  breakdown,
	}
}

// saveAndSync persists the accumulators and fires a fire-and-forget sync of
// the derived snapshot. The seq bump happens here so every persisted state
// and every synced snapshot carries a strictly increasing sequence.
func (e *Engine) saveAndSync() {
	e.mu.Lock()
	e.seq++
	st := e.stateLocked()
	var snap *Snapshot
	if e.player.Registered() && e.syncer != nil {
		s := e.snapshotLocked()
		snap = &s
	}
	e.mu.Unlock()

	data, err := json.Marshal(st)
	if err != nil {
		e.logger.Error("encoding game state", "error", err)
		return
	}
	if err := e.storage.Set(storageKeyGame, data); err != nil {
		e.logger.Error("saving game state", "error", err)
	}

	if snap == nil {
		return
	}
	// Fire-and-forget: failures are logged and dropped, local state stays
	// authoritative. There is intentionally no retry queue for scores.
	go func(s Snapshot) {
		if err := e.syncer.Submit(context.Background(), s); err != nil {
			e.logger.Warn("score sync failed", "email", s.Email, "seq", s.Seq, "error", err)
		}
	}(*snap)
}

func (e *Engine) stateLocked() state {
	st := state{
		CurrentLevel:         e.currentLevel,
		StartTime:            e.startTime,
		EndTime:              e.endTime,
		IsComplete:           e.isComplete,
		TotalAttempts:        e.totalAttempts,
		CorrectAnswers:       make(map[int]int, len(e.correctAnswers)),
		HiddenBonusFound:     e.hiddenBonusFound,
		WrongAnswerPenalties: e.wrongAnswerPenalties,
		Seq:                  e.seq,
	}
	for l := range e.levelsCompleted {
		st.LevelsCompleted = append(st.LevelsCompleted, l)
	}
	for l := range e.hintsUsed {
		st.HintsUsed = append(st.HintsUsed, l)
	}
	for l, c := range e.correctAnswers {
		st.CorrectAnswers[l] = c
	}
	return st
}

// Load restores persisted game and player state. Missing keys are not an
// error; the engine just starts fresh.
func (e *Engine) Load() error {
	if data, err := e.storage.Get(storageKeyPlayer); err == nil {
		var p Player
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("decoding player state: %w", err)
		}
		e.mu.Lock()
		e.player = p
		e.mu.Unlock()
	} else if err != ErrKeyNotFound {
		return err
	}

	data, err := e.storage.Get(storageKeyGame)
	if err == ErrKeyNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decoding game state: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentLevel = st.CurrentLevel
	e.startTime = st.StartTime
	e.endTime = st.EndTime
	e.isComplete = st.IsComplete
	e.totalAttempts = st.TotalAttempts
	e.hiddenBonusFound = st.HiddenBonusFound
	e.wrongAnswerPenalties = st.WrongAnswerPenalties
	e.seq = st.Seq
	e.levelsCompleted = make(map[int]bool, len(st.LevelsCompleted))
	for _, l := range st.LevelsCompleted {
		e.levelsCompleted[l] = true
	}
	e.hintsUsed = make(map[int]bool, len(st.HintsUsed))
	for _, l := range st.HintsUsed {
		e.hintsUsed[l] = true
	}
	e.correctAnswers = make(map[int]int, len(st.CorrectAnswers))
	for l, c := range st.CorrectAnswers {
		e.correctAnswers[l] = c
	}
	return nil
}

// Reset wipes all game progress and the persisted state.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.currentLevel = 0
	e.levelsCompleted = make(map[int]bool)
	e.startTime = nil
	e.endTime = nil
	e.hintsUsed = make(map[int]bool)
	e.isComplete = false
	e.totalAttempts = 0
	e.correctAnswers = make(map[int]int)
	e.hiddenBonusFound = false
	e.wrongAnswerPenalties = 0
	e.mu.Unlock()

	if err := e.storage.Delete(storageKeyGame); err != nil {
		e.logger.Error("deleting game state", "error", err)
	}
}
