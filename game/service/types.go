package service

import (
	"time"

	"github.com/wricardo/hexgolf/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string               `json:"id"`
	CourseName     string               `json:"course_name"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	GameState      *engine.GameState    `json:"game_state"`
	Course         *engine.CourseConfig `json:"course"`
}

// ShotRequest names a shot either by direction or by destination. Target
// wins when both are set.
type ShotRequest struct {
	Direction string      `json:"direction,omitempty"`
	Target    *engine.Hex `json:"target,omitempty"`
}

// SelectionResult is returned by club and modifier changes
type SelectionResult struct {
	Selection engine.Selection  `json:"selection"`
	Preview   engine.Preview    `json:"preview"`
	GameState *engine.GameState `json:"game_state"`
}

// ShotResult contains the result of a committed shot
type ShotResult struct {
	Outcome   *engine.ShotOutcome `json:"outcome"`
	GameState *engine.GameState   `json:"game_state"`
	Message   string              `json:"message"`
	Events    []GameEvent         `json:"events,omitempty"`
}

// ScriptResult contains the result of a shot script
type ScriptResult struct {
	RequestedShots int                  `json:"requested_shots"`
	ShotsPlayed    int                  `json:"shots_played"`
	Success        bool                 `json:"success"`
	Outcomes       []engine.ShotOutcome `json:"outcomes"`
	Events         []GameEvent          `json:"events"`
	GameState      *engine.GameState    `json:"game_state"`
	StoppedReason  string               `json:"stopped_reason,omitempty"`
	StoppedOnShot  int                  `json:"stopped_on_shot,omitempty"` // 1-based
	Truncated      bool                 `json:"truncated,omitempty"`
	Limit          int                  `json:"limit,omitempty"`
	Won            bool                 `json:"won"`
}

// Event types
const (
	EventShot    = "shot"
	EventHazard  = "hazard"
	EventBlocked = "blocked"
	EventWind    = "wind"
	EventPortal  = "portal"
	EventChip    = "chip"
	EventVictory = "victory"
	EventReset   = "reset"
)

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
	Position  engine.Hex `json:"position"`
}

// HistoryOptions configures shot history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated shot history
type HistoryResponse struct {
	Shots       []engine.ShotRecord `json:"shots"`
	TotalShots  int                 `json:"total_shots"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
	TotalPages  int                 `json:"total_pages"`
	HasNext     bool                `json:"has_next"`
	HasPrevious bool                `json:"has_previous"`
}

// CourseInfo provides information about a course file
type CourseInfo struct {
	Filename    string `json:"filename"`
	CourseID    string `json:"course_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Cols        int    `json:"cols"`
	Rows        int    `json:"rows"`
	Generator   string `json:"generator"`
}

// RoundResult is one finished round in the scorecard
type RoundResult struct {
	ID          string    `json:"id" db:"id"`
	SessionID   string    `json:"session_id" db:"session_id"`
	Course      string    `json:"course" db:"course"`
	Seed        int64     `json:"seed" db:"seed"`
	Swings      int       `json:"swings" db:"swings"`
	Shots       int       `json:"shots" db:"shots"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`

	// Filled in by leaderboard queries
	Rank      string `json:"rank,omitempty" db:"-"`
	PlayedAgo string `json:"played_ago,omitempty" db:"-"`
}
