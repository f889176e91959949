package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed values (clamped to n-1) and returns 0 once they run out.
type scriptedRand struct {
	values []int
}

func (s *scriptedRand) IntN(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	return min(v, n-1)
}

// board returns an all-grass grid with the given overrides.
func board(cols, rows int, terrain map[Hex]Terrain) *Grid {
	g := GenerateGrid(cols, rows, Uniform(Grass))
	for h, t := range terrain {
		g.setTerrain(h, t)
	}
	return g
}

func newTestEngine(g *Grid, player, goal Hex, clubs []Club, mods []Modifier, rng Rand) *GameEngine {
	return &GameEngine{
		config:       DefaultCourseConfig(),
		rng:          rng,
		seed:         1,
		grid:         g,
		player:       player,
		goal:         goal,
		clubs:        &Pile[Club]{hand: clubs},
		modifiers:    &Pile[Modifier]{hand: mods},
		selectedClub: -1,
		rounds:       1,
	}
}

var putter = Club{Name: "Putter", MinRange: 1, MaxRange: 1}

func createTestCourse(seed int64) *CourseConfig {
	return &CourseConfig{
		Name:        "Engine Test Course",
		Description: "Course for engine integration tests",
		Cols:        5,
		Rows:        4,
		Seed:        seed,
	}
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(createTestCourse(7), nil)
	require.NoError(t, err)

	assert.Len(t, e.ClubHand(), HandSize)
	assert.Len(t, e.ModifierHand(), HandSize)
	assert.Equal(t, 0, e.SwingCount())
	assert.False(t, e.IsWon())
	assert.NotEqual(t, e.PlayerPosition(), e.GoalPosition())
	assert.Equal(t, GridSize(5, 4), len(e.Cells()))

	assert.Equal(t, len(DefaultClubs())*DefaultCopiesPerCard, e.clubs.Total())
	assert.Equal(t, len(DefaultModifiers())*DefaultCopiesPerCard, e.modifiers.Total())

	state := e.GetState()
	assert.Equal(t, "Engine Test Course", state.CourseName)
	assert.Equal(t, int64(7), state.Seed)
	assert.Nil(t, state.Selection.Club)
	assert.Nil(t, state.Preview.Club)
	assert.Equal(t, DefaultMessages().Welcome, state.Message)
	assert.Equal(t, Distance(state.PlayerPos, state.GoalPos), state.DistanceToGoal)
	assert.Equal(t, 1, state.Rounds)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestCourse(1)
	config.Cols = 0

	_, err := NewEngine(config, nil)
	assert.Error(t, err)
}

func TestNewEngineWithDefaults(t *testing.T) {
	e := NewEngineWithDefaults()
	require.NotNil(t, e)
	assert.Equal(t, "Classic", e.GetConfig().Name)
	assert.NotZero(t, e.GetState().Seed)
}

func TestEngine_PutterScenario(t *testing.T) {
	g := board(3, 3, nil)
	e := newTestEngine(g, Hex{}, Hex{Q: -3, R: 3}, []Club{putter}, nil, &scriptedRand{})

	require.NoError(t, e.SelectClub(0))
	p := e.Preview()
	assert.Equal(t, 1, p.Distance)
	assert.Equal(t, ShotRange{1, 1}, p.Range)
	require.Len(t, p.Targets, 6)

	out, err := e.CommitShot(NorthEast)
	require.NoError(t, err)

	assert.Equal(t, Hex{Q: 1, R: -1}, out.Position)
	assert.False(t, out.Blocked)
	assert.False(t, out.HazardTriggered)
	assert.False(t, out.Won)
	assert.Equal(t, 1, out.Swings)
	assert.Equal(t, 1, e.SwingCount())
	assert.Equal(t, Hex{Q: 1, R: -1}, e.PlayerPosition())
	assert.Equal(t, "GRASS (normal)", e.GetState().Message)
}

func TestEngine_SandScenario(t *testing.T) {
	g := board(4, 4, map[Hex]Terrain{{}: Sand})
	iron := Club{Name: "Iron", MinRange: 2, MaxRange: 4}

	for seed := int64(0); seed < 20; seed++ {
		e := newTestEngine(g, Hex{}, Hex{Q: 4, R: -4}, []Club{iron}, nil, NewRand(seed))
		require.NoError(t, e.SelectClub(0))

		p := e.Preview()
		assert.Equal(t, ShotRange{Min: 2, Max: 3}, p.Range)
		assert.Contains(t, []int{2, 3}, p.Distance)
	}
}

func TestEngine_ChipScenario(t *testing.T) {
	goal := Hex{Q: 0, R: 2}
	g := board(3, 3, map[Hex]Terrain{goal: Green})
	chip := Modifier{Name: "Chip", Kind: Chip}
	e := newTestEngine(g, Hex{}, goal, []Club{putter}, []Modifier{chip}, &scriptedRand{})

	require.NoError(t, e.ToggleModifier(0))
	require.NoError(t, e.SelectClub(0))
	out, err := e.CommitShot(East)
	require.NoError(t, err)

	assert.Equal(t, Hex{Q: 1, R: 0}, out.Landing)
	assert.Equal(t, goal, out.Position)
	assert.True(t, out.Won)
	assert.True(t, e.IsWon())
	assert.Equal(t, "You win in 1 swings!", e.GetState().Message)
}

func TestEngine_WaterHazard(t *testing.T) {
	fireball := Modifier{Name: "Fireball", Kind: Fireball}

	t.Run("without fireball", func(t *testing.T) {
		g := board(3, 3, map[Hex]Terrain{{Q: 1, R: 0}: Water})
		e := newTestEngine(g, Hex{}, Hex{Q: -3, R: 3}, []Club{putter}, nil, &scriptedRand{})

		require.NoError(t, e.SelectClub(0))
		out, err := e.CommitShot(East)
		require.NoError(t, err)

		assert.True(t, out.HazardTriggered)
		assert.Equal(t, Hex{}, e.PlayerPosition())
		assert.Equal(t, 2, e.SwingCount())
		assert.Equal(t, DefaultMessages().Hazard, e.GetState().Message)
	})

	t.Run("with fireball", func(t *testing.T) {
		g := board(3, 3, map[Hex]Terrain{{Q: 1, R: 0}: Water})
		e := newTestEngine(g, Hex{}, Hex{Q: -3, R: 3}, []Club{putter}, []Modifier{fireball}, &scriptedRand{})

		require.NoError(t, e.ToggleModifier(0))
		require.NoError(t, e.SelectClub(0))
		out, err := e.CommitShot(East)
		require.NoError(t, err)

		assert.False(t, out.HazardTriggered)
		assert.Equal(t, Hex{Q: 1, R: 0}, e.PlayerPosition())
		assert.Equal(t, 1, e.SwingCount())
	})
}

func TestEngine_BlockedShot(t *testing.T) {
	wedge := Club{Name: "Wedge", MinRange: 2, MaxRange: 2}
	g := board(3, 3, map[Hex]Terrain{{Q: 1, R: 0}: Trees})
	e := newTestEngine(g, Hex{}, Hex{Q: -3, R: 3}, []Club{wedge}, nil, &scriptedRand{})

	require.NoError(t, e.SelectClub(0))
	out, err := e.CommitShot(East)
	require.NoError(t, err)

	assert.True(t, out.Blocked)
	assert.Equal(t, Hex{}, out.Position)
	assert.Equal(t, 1, e.SwingCount())
	assert.Equal(t, DefaultMessages().Blocked, e.GetState().Message)
}

func TestEngine_CommitShotTo(t *testing.T) {
	g := board(3, 3, nil)
	e := newTestEngine(g, Hex{}, Hex{Q: -3, R: 3}, []Club{putter}, nil, &scriptedRand{})
	require.NoError(t, e.SelectClub(0))

	_, err := e.CommitShotTo(Hex{Q: 2, R: 0})
	assert.ErrorIs(t, err, ErrIllegalTarget)
	assert.Equal(t, 0, e.SwingCount())

	out, err := e.CommitShotTo(Hex{Q: 0, R: 1})
	require.NoError(t, err)
	assert.Equal(t, SouthEast, out.Direction)
	assert.Equal(t, Hex{Q: 0, R: 1}, e.PlayerPosition())
}

func TestEngine_ErrorsLeaveStateUnchanged(t *testing.T) {
	g := board(3, 3, map[Hex]Terrain{{Q: 1, R: 0}: Trees})
	mega := Modifier{Name: "Mega", Kind: Mega}
	e := newTestEngine(g, Hex{}, Hex{Q: -3, R: 3}, []Club{putter}, []Modifier{mega}, &scriptedRand{})

	_, err := e.CommitShot(West)
	assert.ErrorIs(t, err, ErrNoClubSelected)

	require.NoError(t, e.SelectClub(0))
	before := e.GetState()

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"club index too high", func() error { return e.SelectClub(3) }, ErrInvalidSelection},
		{"negative club index", func() error { return e.SelectClub(-1) }, ErrInvalidSelection},
		{"modifier index too high", func() error { return e.ToggleModifier(1) }, ErrInvalidSelection},
		{"direction into trees", func() error { _, err := e.CommitShot(East); return err }, ErrIllegalTarget},
		{"unknown direction", func() error { _, err := e.CommitShot(Direction(9)); return err }, ErrIllegalTarget},
		{"target not eligible", func() error { _, err := e.CommitShotTo(Hex{Q: 3}); return err }, ErrIllegalTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.want)
			assert.Equal(t, before, e.GetState())
		})
	}
}

func TestEngine_WinIsTerminal(t *testing.T) {
	g := board(3, 3, nil)
	e := newTestEngine(g, Hex{}, Hex{Q: 1, R: 0}, []Club{putter}, nil, &scriptedRand{})

	require.NoError(t, e.SelectClub(0))
	out, err := e.CommitShot(East)
	require.NoError(t, err)
	require.True(t, out.Won)

	assert.ErrorIs(t, e.SelectClub(0), ErrRoundOver)
	assert.ErrorIs(t, e.ToggleModifier(0), ErrRoundOver)
	_, err = e.CommitShot(East)
	assert.ErrorIs(t, err, ErrRoundOver)
	assert.Equal(t, 1, e.SwingCount())
}

func TestEngine_ToggleModifier(t *testing.T) {
	mods := []Modifier{{Name: "Mega", Kind: Mega}, {Name: "Wind", Kind: Wind}, {Name: "Precision", Kind: Precision}}
	e := newTestEngine(board(3, 3, nil), Hex{}, Hex{Q: 3}, []Club{putter}, mods, &scriptedRand{})

	require.NoError(t, e.ToggleModifier(2))
	require.NoError(t, e.ToggleModifier(0))
	assert.Equal(t, []int{2, 0}, e.GetState().Selection.Modifiers)
	assert.Nil(t, e.Preview().Club, "no preview without a club")

	require.NoError(t, e.SelectClub(0))
	require.NotNil(t, e.Preview().Club)
	assert.Equal(t, []Modifier{mods[2], mods[0]}, e.Preview().Modifiers)
	assert.Equal(t, ShotRange{1, 3}, e.Preview().Range)

	require.NoError(t, e.ToggleModifier(2))
	assert.Equal(t, []int{0}, e.GetState().Selection.Modifiers)

	e.DeselectClub()
	assert.Nil(t, e.Preview().Club)
	assert.Equal(t, []int{0}, e.GetState().Selection.Modifiers)
}

func TestEngine_CardRefresh(t *testing.T) {
	rng := NewRand(3)
	clubs := NewDeck(DefaultClubs(), 3, rng)
	mods := NewDeck(DefaultModifiers(), 3, rng)
	clubs.Draw(HandSize, rng)
	mods.Draw(HandSize, rng)

	e := newTestEngine(board(6, 6, nil), Hex{}, Hex{Q: -6, R: 6}, nil, nil, rng)
	e.clubs, e.modifiers = clubs, mods

	// no modifiers used: one club and one modifier are drawn
	shoot(t, e)
	assert.Equal(t, HandSize, e.clubs.HandLen())
	assert.Equal(t, HandSize+1, e.modifiers.HandLen())

	// two modifiers used: two are drawn
	require.NoError(t, e.ToggleModifier(0))
	require.NoError(t, e.ToggleModifier(1))
	shoot(t, e)
	assert.Equal(t, HandSize, e.clubs.HandLen())
	assert.Equal(t, HandSize+1, e.modifiers.HandLen())
	assert.Equal(t, 2, e.modifiers.DiscardLen())

	assert.Equal(t, 12, e.clubs.Total())
	assert.Equal(t, 24, e.modifiers.Total())
	state := e.GetState()
	assert.Nil(t, state.Selection.Club)
	assert.Empty(t, state.Selection.Modifiers)
	assert.Empty(t, state.Preview.Targets)
}

// shoot selects the first club with a legal target and commits toward it.
func shoot(t *testing.T, e *GameEngine) *ShotOutcome {
	t.Helper()
	for i := range e.ClubHand() {
		require.NoError(t, e.SelectClub(i))
		if p := e.Preview(); p.Ready() {
			out, err := e.CommitShot(p.Targets[0].Direction)
			require.NoError(t, err)
			return out
		}
	}
	t.Fatalf("no club in %v has a legal target", e.ClubHand())
	return nil
}

func TestEngine_ConservationOverFullRounds(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			e, err := NewEngine(createTestCourse(seed), nil)
			require.NoError(t, err)
			picker := NewRand(seed * 31)

			clubTotal, modTotal := e.clubs.Total(), e.modifiers.Total()
			for shot := 0; shot < 200 && !e.IsWon(); shot++ {
				for i := range e.ModifierHand() {
					if picker.IntN(3) == 0 {
						require.NoError(t, e.ToggleModifier(i))
					}
				}

				committed := false
				for i := range e.ClubHand() {
					require.NoError(t, e.SelectClub(i))
					p := e.Preview()
					if !p.Ready() {
						continue
					}
					target := p.Targets[picker.IntN(len(p.Targets))]
					swingsBefore := e.SwingCount()
					out, err := e.CommitShot(target.Direction)
					require.NoError(t, err)

					added := 1
					if out.HazardTriggered {
						added = 2
					}
					assert.Equal(t, swingsBefore+added, e.SwingCount())
					assert.Equal(t, out.Position == e.GoalPosition(), out.Won)
					terrain, _ := e.Grid().TerrainAt(target.Hex)
					assert.NotEqual(t, Trees, terrain)
					committed = true
					break
				}
				if !committed {
					break
				}

				require.Equal(t, clubTotal, e.clubs.Total())
				require.Equal(t, modTotal, e.modifiers.Total())
			}
			assert.Len(t, e.GetShotHistory(), len(e.history))
		})
	}
}

func TestEngine_ResetReplaysSeed(t *testing.T) {
	e, err := NewEngine(createTestCourse(123), nil)
	require.NoError(t, err)
	first := e.GetState()

	shoot(t, e)
	require.Len(t, e.GetShotHistory(), 1)

	second := e.Reset()
	assert.Equal(t, first.Cells, second.Cells)
	assert.Equal(t, first.PlayerPos, second.PlayerPos)
	assert.Equal(t, first.GoalPos, second.GoalPos)
	assert.Equal(t, first.ClubHand, second.ClubHand)
	assert.Equal(t, first.ModifierHand, second.ModifierHand)
	assert.Equal(t, 0, second.SwingCount)
	assert.Empty(t, second.ShotHistory)
	assert.Equal(t, 1, second.TotalShots)
	assert.Equal(t, 2, second.Rounds)
}

func TestEngine_ShotHistory(t *testing.T) {
	e := newTestEngine(board(3, 3, nil), Hex{}, Hex{Q: -3, R: 3}, []Club{putter}, nil, &scriptedRand{})
	assert.Nil(t, e.GetLastShot())

	require.NoError(t, e.SelectClub(0))
	_, err := e.CommitShot(East)
	require.NoError(t, err)
	require.NoError(t, e.SelectClub(0))
	_, err = e.CommitShot(East)
	require.NoError(t, err)

	history := e.GetShotHistory()
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].ShotNumber)
	assert.Equal(t, "Putter", history[1].Club.Name)
	assert.Equal(t, Hex{Q: 1, R: 0}, history[1].From)
	assert.Equal(t, Hex{Q: 2, R: 0}, history[1].Position)

	last := e.GetLastShot()
	require.NotNil(t, last)
	assert.Equal(t, 2, last.ShotNumber)
	assert.Equal(t, 2, last.Swings)

	history[0].ShotNumber = 99
	assert.Equal(t, 1, e.GetShotHistory()[0].ShotNumber)
}
