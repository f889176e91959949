package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/hexgolf/game/engine"
	"github.com/wricardo/hexgolf/game/notation"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	courses   CourseManager
	scorecard Scorecard
	mu        sync.Mutex // guards every engine and session access, reads included
}

// NewGameService creates a new game service instance. scorecard may be nil,
// in which case finished rounds are not archived.
func NewGameService(sessions SessionManager, courses CourseManager, scorecard Scorecard) GameService {
	return &gameServiceImpl{
		sessions:  sessions,
		courses:   courses,
		scorecard: scorecard,
	}
}

// getCourseID returns the course_id for a display name, used for consistent API responses
func (s *gameServiceImpl) getCourseID(courseName string) string {
	available, err := s.courses.ListConfigs()
	if err == nil {
		for _, c := range available {
			if c.Name == courseName {
				return c.CourseID
			}
		}
	}
	if courseName == "" {
		return "default"
	}
	return courseName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		CourseName:     s.getCourseID(sess.Course.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		Course:         sess.Course,
	}
}

// getSession looks a session up and marks it accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, courseName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var course *engine.CourseConfig
	var err error
	if courseName != "" {
		course, err = s.courses.LoadConfig(courseName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrCourseNotFound) {
				available, listErr := s.courses.ListConfigs()
				if listErr == nil && len(available) > 0 {
					ids := make([]string, 0, len(available))
					for _, c := range available {
						ids = append(ids, c.CourseID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available courses: %v", ErrCourseNotFound, courseName, ids)
				}
			}
			return nil, fmt.Errorf("failed to load course %s: %w", courseName, err)
		}
	} else {
		course = s.courses.GetDefault()
	}

	// Let the session manager generate a 4-character ID
	sess, err := s.sessions.Create("", course)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	info := s.sessionInfo(sess)
	if courseName != "" {
		info.CourseName = courseName
	}
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

func selectionResult(eng *engine.GameEngine) *SelectionResult {
	state := eng.GetState()
	return &SelectionResult{
		Selection: state.Selection,
		Preview:   state.Preview,
		GameState: state,
	}
}

// SelectClub selects the club at index, or clears the club when index is nil
func (s *gameServiceImpl) SelectClub(ctx context.Context, sessionID string, index *int) (*SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if index == nil {
		sess.Engine.DeselectClub()
	} else if err := sess.Engine.SelectClub(*index); err != nil {
		return nil, err
	}
	return selectionResult(sess.Engine), nil
}

// ToggleModifier adds or removes the modifier at index
func (s *gameServiceImpl) ToggleModifier(ctx context.Context, sessionID string, index int) (*SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Engine.ToggleModifier(index); err != nil {
		return nil, err
	}
	return selectionResult(sess.Engine), nil
}

// GetPreview returns the planned shot
func (s *gameServiceImpl) GetPreview(ctx context.Context, sessionID string) (*engine.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	preview := sess.Engine.Preview()
	return &preview, nil
}

// CommitShot plays the planned shot by direction or destination
func (s *gameServiceImpl) CommitShot(ctx context.Context, sessionID string, req ShotRequest) (*ShotResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	out, err := s.commit(sess.Engine, req)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	result := &ShotResult{
		Outcome:   out,
		GameState: state,
		Message:   state.Message,
		Events:    shotEvents(out, time.Now()),
	}
	s.logShot(sess, out)
	if out.Won {
		s.recordRound(ctx, sess)
	}
	return result, nil
}

func (s *gameServiceImpl) commit(eng *engine.GameEngine, req ShotRequest) (*engine.ShotOutcome, error) {
	if req.Target != nil {
		return eng.CommitShotTo(*req.Target)
	}
	if req.Direction == "" {
		return nil, fmt.Errorf("%w: a shot needs a direction or a target", ErrBadRequest)
	}
	dir, err := engine.ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	return eng.CommitShot(dir)
}

// PlayScript runs a shot script in order, stopping at the first failing shot
// or when the round is won
func (s *gameServiceImpl) PlayScript(ctx context.Context, sessionID, script string, reset bool) (*ScriptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	parsed, err := notation.Parse(script)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	shots := parsed.Shots
	result := &ScriptResult{
		RequestedShots: len(shots),
		Success:        true,
		Outcomes:       []engine.ShotOutcome{},
		Events:         []GameEvent{},
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, GameEvent{
			Type:      EventReset,
			Message:   "New round on the same course",
			Timestamp: time.Now(),
			Position:  sess.Engine.PlayerPosition(),
		})
	}

	// Limit shots to prevent abuse
	if len(shots) > engine.MaxScriptShots {
		result.Truncated = true
		result.Limit = engine.MaxScriptShots
		shots = shots[:engine.MaxScriptShots]
	}

	for i, shot := range shots {
		if sess.Engine.IsWon() {
			result.Success = false
			result.StoppedReason = engine.ErrRoundOver.Error()
			result.StoppedOnShot = i + 1
			break
		}

		out, err := s.playScriptedShot(sess.Engine, shot)
		if err != nil {
			// a half-built selection is dropped so the next call starts clean
			sess.Engine.ClearSelection()
			result.Success = false
			result.StoppedReason = fmt.Sprintf("shot %d (%s): %v", i+1, shot, err)
			result.StoppedOnShot = i + 1
			break
		}

		result.ShotsPlayed++
		result.Outcomes = append(result.Outcomes, *out)
		result.Events = append(result.Events, shotEvents(out, time.Now())...)
		s.logShot(sess, out)
		if out.Won {
			s.recordRound(ctx, sess)
		}
	}

	result.GameState = sess.Engine.GetState()
	result.Won = result.GameState.Won
	return result, nil
}

func (s *gameServiceImpl) playScriptedShot(eng *engine.GameEngine, shot *notation.Shot) (*engine.ShotOutcome, error) {
	club, mods, err := shot.Resolve(eng.ClubHand(), eng.ModifierHand())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrInvalidSelection, err)
	}

	eng.ClearSelection()
	if err := eng.SelectClub(club); err != nil {
		return nil, err
	}
	for _, idx := range mods {
		if err := eng.ToggleModifier(idx); err != nil {
			return nil, err
		}
	}

	if shot.HasTarget() {
		return eng.CommitShotTo(shot.Aim.Target.Hex())
	}
	dir, err := shot.Direction()
	if err != nil {
		return nil, err
	}
	return eng.CommitShot(dir)
}

// Reset starts a new round on the session's course
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	state := sess.Engine.Reset()
	log.WithFields(log.Fields{"session": sess.ID, "round": state.Rounds}).Info("round reset")
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetShotHistory returns paginated shot history of the current round
func (s *gameServiceImpl) GetShotHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetShotHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	shots := []engine.ShotRecord{}
	if start < total {
		if opts.Order == "desc" {
			// most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				shots = append(shots, history[i])
			}
		} else {
			shots = history[start:end]
		}
	}

	return &HistoryResponse{
		Shots:       shots,
		TotalShots:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListCourses returns available courses
func (s *gameServiceImpl) ListCourses(ctx context.Context) ([]*CourseInfo, error) {
	return s.courses.ListConfigs()
}

// LoadCourse loads a specific course
func (s *gameServiceImpl) LoadCourse(ctx context.Context, courseName string) (*engine.CourseConfig, error) {
	return s.courses.LoadConfig(courseName)
}

// SaveCourse saves a course to disk
func (s *gameServiceImpl) SaveCourse(ctx context.Context, courseName string, course *engine.CourseConfig) error {
	return s.courses.SaveConfig(courseName, course)
}

// Leaderboard returns the best archived rounds for a course
func (s *gameServiceImpl) Leaderboard(ctx context.Context, course string, limit int) ([]RoundResult, error) {
	if s.scorecard == nil {
		return []RoundResult{}, nil
	}
	return s.scorecard.Leaderboard(ctx, course, limit)
}

// recordRound archives a won round. Failures are logged, never returned.
func (s *gameServiceImpl) recordRound(ctx context.Context, sess *Session) {
	if s.scorecard == nil {
		return
	}
	state := sess.Engine.GetState()
	result, err := s.scorecard.Record(ctx, RoundResult{
		SessionID: sess.ID,
		Course:    s.getCourseID(sess.Course.Name),
		Seed:      state.Seed,
		Swings:    state.SwingCount,
		Shots:     len(state.ShotHistory),
	})
	if err != nil {
		log.WithError(err).WithField("session", sess.ID).Warn("failed to record round")
		return
	}
	log.WithFields(log.Fields{
		"session": sess.ID,
		"course":  result.Course,
		"swings":  result.Swings,
		"round":   result.ID,
	}).Info("round recorded")
}

func (s *gameServiceImpl) logShot(sess *Session, out *engine.ShotOutcome) {
	log.WithFields(log.Fields{
		"session":   sess.ID,
		"direction": out.Direction,
		"distance":  out.Distance,
		"from":      out.From,
		"to":        out.Position,
		"swings":    out.Swings,
		"hazard":    out.HazardTriggered,
		"blocked":   out.Blocked,
		"won":       out.Won,
	}).Debug("shot committed")
}

// shotEvents turns an outcome into the events a client shows
func shotEvents(out *engine.ShotOutcome, at time.Time) []GameEvent {
	events := []GameEvent{{
		Type:      EventShot,
		Message:   fmt.Sprintf("Shot %s x%d from %s landed on %s", out.Direction, out.Distance, out.From, out.Landing),
		Timestamp: at,
		Position:  out.Landing,
	}}

	if out.Blocked {
		events = append(events, GameEvent{
			Type:      EventBlocked,
			Message:   fmt.Sprintf("Trees stopped the ball at %s", out.Landing),
			Timestamp: at,
			Position:  out.Landing,
		})
	}
	if out.HazardTriggered {
		events = append(events, GameEvent{
			Type:      EventHazard,
			Message:   fmt.Sprintf("Water at %s, back to %s with a penalty swing", out.Landing, out.From),
			Timestamp: at,
			Position:  out.From,
		})
	}

	for _, eff := range out.PostEffects {
		if !eff.Applied {
			continue
		}
		var typ string
		switch eff.Modifier {
		case engine.Wind:
			typ = EventWind
		case engine.Portal:
			typ = EventPortal
		case engine.Chip:
			typ = EventChip
		default:
			continue
		}
		events = append(events, GameEvent{
			Type:      typ,
			Message:   fmt.Sprintf("%s moved the ball from %s to %s", eff.Modifier, eff.From, eff.To),
			Timestamp: at,
			Position:  eff.To,
		})
	}

	if out.Won {
		events = append(events, GameEvent{
			Type:      EventVictory,
			Message:   fmt.Sprintf("Holed out in %d swings", out.Swings),
			Timestamp: at,
			Position:  out.Position,
		})
	}
	return events
}
