package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrInvalidSelection is returned for hand indices that do not exist.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrIllegalTarget is returned when a commit does not match an eligible target.
	ErrIllegalTarget = errors.New("illegal target")
	// ErrNoClubSelected is returned when committing without a club.
	ErrNoClubSelected = errors.New("no club selected")
	// ErrRoundOver is returned for any play after the ball is holed.
	ErrRoundOver = errors.New("round is over")
)

// Engine provides the main interface for playing a round
type Engine interface {
	// Round state
	GetState() *GameState
	Reset() *GameState
	IsWon() bool
	SwingCount() int
	PlayerPosition() Hex
	GoalPosition() Hex
	Grid() *Grid
	Cells() []Cell

	// Cards and selection
	ClubHand() []Club
	ModifierHand() []Modifier
	SelectClub(index int) error
	DeselectClub()
	ToggleModifier(index int) error
	ClearSelection()
	Preview() Preview

	// Shots
	CommitShot(dir Direction) (*ShotOutcome, error)
	CommitShotTo(target Hex) (*ShotOutcome, error)

	// Configuration
	GetConfig() *CourseConfig

	// History
	GetShotHistory() []ShotRecord
	GetLastShot() *ShotRecord
}

// GameEngine implements the Engine interface. It owns every piece of mutable
// round state and is not safe for concurrent use.
type GameEngine struct {
	config   *CourseConfig
	rng      Rand
	seed     int64
	ownsRand bool

	grid      *Grid
	player    Hex
	goal      Hex
	clubs     *Pile[Club]
	modifiers *Pile[Modifier]

	selectedClub int
	selectedMods []int
	preview      Preview

	swings  int
	won     bool
	message string

	history    []ShotRecord
	totalShots int
	rounds     int
}

// NewEngine creates a round on the provided course. A nil rng makes the engine
// seed its own generator from the course seed (or a fresh seed when the course
// has none), which lets Reset replay the same board.
func NewEngine(config *CourseConfig, rng Rand) (*GameEngine, error) {
	if config == nil {
		config = DefaultCourseConfig()
	}
	if err := ValidateCourseConfig(config); err != nil {
		return nil, err
	}
	config = config.WithDefaults()

	e := &GameEngine{config: config, seed: config.Seed}
	if rng == nil {
		if e.seed == 0 {
			e.seed = NewSeed()
		}
		e.ownsRand = true
		rng = NewRand(e.seed)
	}
	e.rng = rng
	e.newRound()
	return e, nil
}

// NewEngineWithDefaults creates a round on the built-in classic course
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultCourseConfig(), nil)
	if err != nil {
		panic(fmt.Sprintf("default course is invalid: %v", err))
	}
	return e
}

func (e *GameEngine) newRound() {
	course := GenerateCourse(e.config, e.rng)
	e.grid = course.Grid
	e.player = course.Start
	e.goal = course.Goal

	e.clubs = NewDeck(e.config.Clubs, e.config.CopiesPerCard, e.rng)
	e.modifiers = NewDeck(e.config.Modifiers, e.config.CopiesPerCard, e.rng)
	e.clubs.Draw(HandSize, e.rng)
	e.modifiers.Draw(HandSize, e.rng)

	e.selectedClub = -1
	e.selectedMods = nil
	e.preview = Preview{}
	e.swings = 0
	e.won = e.player == e.goal
	e.history = nil
	e.rounds++
	e.message = e.config.Messages.Welcome
}

// GetState returns a snapshot of the round
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		CourseName:      e.config.Name,
		Seed:            e.seed,
		Cols:            e.grid.Cols,
		Rows:            e.grid.Rows,
		Cells:           e.grid.Cells(),
		PlayerPos:       e.player,
		GoalPos:         e.goal,
		ClubHand:        e.clubs.Hand(),
		ModifierHand:    e.modifiers.Hand(),
		ClubDeck:        e.clubs.DeckLen(),
		ClubDiscard:     e.clubs.DiscardLen(),
		ModifierDeck:    e.modifiers.DeckLen(),
		ModifierDiscard: e.modifiers.DiscardLen(),
		Selection:       e.selection(),
		Preview:         e.preview,
		SwingCount:      e.swings,
		Won:             e.won,
		Message:         e.message,
		TileInfo:        e.tileInfo(),
		DistanceToGoal:  Distance(e.player, e.goal),
		ShotHistory:     e.GetShotHistory(),
		TotalShots:      e.totalShots,
		Rounds:          e.rounds,
	}
	return state
}

// Reset starts a new round on the same course. Engines that seeded their own
// generator replay the identical board and deal.
func (e *GameEngine) Reset() *GameState {
	if e.ownsRand {
		e.rng = NewRand(e.seed)
	}
	e.newRound()
	return e.GetState()
}

func (e *GameEngine) IsWon() bool         { return e.won }
func (e *GameEngine) SwingCount() int     { return e.swings }
func (e *GameEngine) PlayerPosition() Hex { return e.player }
func (e *GameEngine) GoalPosition() Hex   { return e.goal }
func (e *GameEngine) Grid() *Grid         { return e.grid }
func (e *GameEngine) Cells() []Cell       { return e.grid.Cells() }

func (e *GameEngine) ClubHand() []Club         { return e.clubs.Hand() }
func (e *GameEngine) ModifierHand() []Modifier { return e.modifiers.Hand() }

// SelectClub selects the club at index and re-plans the shot. Selecting the
// same club again re-rolls the distance.
func (e *GameEngine) SelectClub(index int) error {
	if e.won {
		return ErrRoundOver
	}
	if _, ok := e.clubs.At(index); !ok {
		return fmt.Errorf("%w: club index %d, hand has %d", ErrInvalidSelection, index, e.clubs.HandLen())
	}
	e.selectedClub = index
	e.replan()
	return nil
}

// DeselectClub clears the club choice and the preview. Modifier choices stay.
func (e *GameEngine) DeselectClub() {
	e.selectedClub = -1
	e.replan()
}

// ToggleModifier adds the modifier at index to the selection, or removes it if
// already selected. Selection order is the order modifiers apply in.
func (e *GameEngine) ToggleModifier(index int) error {
	if e.won {
		return ErrRoundOver
	}
	if _, ok := e.modifiers.At(index); !ok {
		return fmt.Errorf("%w: modifier index %d, hand has %d", ErrInvalidSelection, index, e.modifiers.HandLen())
	}
	if i := slices.Index(e.selectedMods, index); i >= 0 {
		e.selectedMods = slices.Delete(e.selectedMods, i, i+1)
	} else {
		e.selectedMods = append(e.selectedMods, index)
	}
	e.replan()
	return nil
}

// ClearSelection drops the club, every modifier and the preview.
func (e *GameEngine) ClearSelection() {
	e.selectedClub = -1
	e.selectedMods = nil
	e.preview = Preview{}
}

// Preview returns the current planned shot
func (e *GameEngine) Preview() Preview { return e.preview }

func (e *GameEngine) replan() {
	club, ok := e.clubs.At(e.selectedClub)
	if !ok {
		e.preview = Preview{}
		return
	}
	e.preview = PlanShot(e.grid, e.player, club, e.selectedModifiers(), e.rng)
}

func (e *GameEngine) selectedModifiers() []Modifier {
	mods := make([]Modifier, 0, len(e.selectedMods))
	for _, i := range e.selectedMods {
		if m, ok := e.modifiers.At(i); ok {
			mods = append(mods, m)
		}
	}
	return mods
}

func (e *GameEngine) selection() Selection {
	s := Selection{Modifiers: append([]int{}, e.selectedMods...)}
	if e.selectedClub >= 0 {
		c := e.selectedClub
		s.Club = &c
	}
	return s
}

// CommitShot plays the planned shot in direction dir.
func (e *GameEngine) CommitShot(dir Direction) (*ShotOutcome, error) {
	if err := e.checkCommit(); err != nil {
		return nil, err
	}
	if _, ok := e.preview.TargetFor(dir); !ok {
		return nil, fmt.Errorf("%w: %s is not an eligible direction", ErrIllegalTarget, dir)
	}
	return e.commit(dir), nil
}

// CommitShotTo plays the planned shot toward target, which must be one of the
// eligible targets of the current preview.
func (e *GameEngine) CommitShotTo(target Hex) (*ShotOutcome, error) {
	if err := e.checkCommit(); err != nil {
		return nil, err
	}
	dir, ok := e.preview.DirectionTo(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an eligible target", ErrIllegalTarget, target)
	}
	return e.commit(dir), nil
}

func (e *GameEngine) checkCommit() error {
	if e.won {
		return ErrRoundOver
	}
	if e.selectedClub < 0 || e.preview.Club == nil {
		return ErrNoClubSelected
	}
	return nil
}

func (e *GameEngine) commit(dir Direction) *ShotOutcome {
	club, _ := e.clubs.At(e.selectedClub)
	mods := e.selectedModifiers()

	out := ResolveShot(e.grid, e.player, e.goal, dir, e.preview.Distance, mods, e.preview.ShotFlags, e.rng)

	// indices were validated on selection, so retirement cannot fail
	_, _ = e.clubs.RetireFromHand([]int{e.selectedClub})
	_, _ = e.modifiers.RetireFromHand(e.selectedMods)
	e.clubs.Draw(1, e.rng)
	e.modifiers.Draw(max(1, len(mods)), e.rng)
	e.ClearSelection()

	e.swings += 1 + out.Swings
	out.Swings = e.swings
	e.player = out.Position
	e.won = out.Won
	e.message = e.shotMessage(out)
	e.recordShot(out, club, mods)
	return &out
}

func (e *GameEngine) shotMessage(out ShotOutcome) string {
	msgs := e.config.Messages
	switch {
	case out.Won:
		return fmt.Sprintf(msgs.Victory, e.swings)
	case out.HazardTriggered:
		return msgs.Hazard
	case out.Blocked:
		return msgs.Blocked
	}
	return e.tileInfo()
}

func (e *GameEngine) tileInfo() string {
	t, _ := e.grid.TerrainAt(e.player)
	return TileInfo(t)
}

func (e *GameEngine) recordShot(out ShotOutcome, club Club, mods []Modifier) {
	e.totalShots++
	e.history = append(e.history, ShotRecord{
		ShotOutcome: out,
		ShotNumber:  len(e.history) + 1,
		Club:        club,
		Modifiers:   mods,
		Message:     e.message,
		Timestamp:   time.Now().Unix(),
	})
}

// GetConfig returns the course configuration
func (e *GameEngine) GetConfig() *CourseConfig {
	return e.config
}

// GetShotHistory returns the shots of the current round
func (e *GameEngine) GetShotHistory() []ShotRecord {
	return append([]ShotRecord{}, e.history...)
}

// GetLastShot returns the last shot played, or nil if no shots
func (e *GameEngine) GetLastShot() *ShotRecord {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}
