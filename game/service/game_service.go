package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/hexgolf/game/engine"
)

var (
	// ErrSessionNotFound is returned for unknown session IDs
	ErrSessionNotFound = errors.New("session not found")
	// ErrCourseNotFound is returned when no course file matches a name
	ErrCourseNotFound = errors.New("course not found")
	// ErrBadRequest wraps malformed shot requests and scripts
	ErrBadRequest = errors.New("bad request")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, courseName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Card selection
	SelectClub(ctx context.Context, sessionID string, index *int) (*SelectionResult, error)
	ToggleModifier(ctx context.Context, sessionID string, index int) (*SelectionResult, error)
	GetPreview(ctx context.Context, sessionID string) (*engine.Preview, error)

	// Shots
	CommitShot(ctx context.Context, sessionID string, req ShotRequest) (*ShotResult, error)
	PlayScript(ctx context.Context, sessionID, script string, reset bool) (*ScriptResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Courses
	ListCourses(ctx context.Context) ([]*CourseInfo, error)
	LoadCourse(ctx context.Context, courseName string) (*engine.CourseConfig, error)
	SaveCourse(ctx context.Context, courseName string, course *engine.CourseConfig) error

	// Scorecard
	Leaderboard(ctx context.Context, course string, limit int) ([]RoundResult, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, course *engine.CourseConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, course *engine.CourseConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// CourseManager handles course configuration loading
type CourseManager interface {
	LoadConfig(name string) (*engine.CourseConfig, error)
	ListConfigs() ([]*CourseInfo, error)
	GetDefault() *engine.CourseConfig
	SaveConfig(name string, course *engine.CourseConfig) error
}

// Scorecard archives finished rounds
type Scorecard interface {
	Record(ctx context.Context, result RoundResult) (RoundResult, error)
	Leaderboard(ctx context.Context, course string, limit int) ([]RoundResult, error)
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Course         *engine.CourseConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
