package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Terrain represents the surface of a grid cell
type Terrain string

const (
	Grass Terrain = "grass"
	Sand  Terrain = "sand"
	Green Terrain = "green"
	Water Terrain = "water"
	Trees Terrain = "trees"
	Rough Terrain = "rough"

	// Validation constants
	MinCourseSize        = 1
	MaxCourseSize        = 30
	HandSize             = 3
	DefaultCopiesPerCard = 3
	DefaultMinSeparation = 3
	DefaultGreenSize     = 4
	DefaultGreenRadius   = 2
	MaxPlacementAttempts = 500
	MaxScriptShots       = 50
	WebSocketBufferSize  = 256
)

// TerrainKinds lists every terrain in the order minimums are enforced.
var TerrainKinds = []Terrain{Sand, Green, Grass, Water, Rough, Trees}

// Valid reports whether t is one of the known terrains
func (t Terrain) Valid() bool {
	switch t {
	case Grass, Sand, Green, Water, Trees, Rough:
		return true
	}
	return false
}

// Hex is an axial coordinate. The third cube coordinate is derived.
type Hex struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
}

// S returns the derived cube coordinate, so that Q+R+S == 0.
func (h Hex) S() int { return -h.Q - h.R }

func (h Hex) Add(o Hex) Hex { return Hex{Q: h.Q + o.Q, R: h.R + o.R} }

func (h Hex) Scale(k int) Hex { return Hex{Q: h.Q * k, R: h.R * k} }

func (h Hex) String() string { return fmt.Sprintf("(%d,%d)", h.Q, h.R) }

// Direction is one of the six hex directions
type Direction int

const (
	East Direction = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

var directionVectors = [6]Hex{{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1}}

var directionNames = [6]string{"e", "ne", "nw", "w", "sw", "se"}

var directionAliases = map[string]Direction{
	"east":      East,
	"northeast": NorthEast,
	"northwest": NorthWest,
	"west":      West,
	"southwest": SouthWest,
	"southeast": SouthEast,
}

// Directions returns all six directions in canonical order.
func Directions() []Direction {
	return []Direction{East, NorthEast, NorthWest, West, SouthWest, SouthEast}
}

func (d Direction) Valid() bool { return d >= East && d <= SouthEast }

// Vector returns the unit axial offset for d.
func (d Direction) Vector() Hex {
	if !d.Valid() {
		return Hex{}
	}
	return directionVectors[d]
}

func (d Direction) String() string {
	if !d.Valid() {
		return "direction(" + strconv.Itoa(int(d)) + ")"
	}
	return directionNames[d]
}

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(directionNames[d]), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts short names (ne), long names (northeast) and indices (0-5).
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, "_", "")
	for i, short := range directionNames {
		if name == short {
			return Direction(i), nil
		}
	}
	if d, ok := directionAliases[name]; ok {
		return d, nil
	}
	if n, err := strconv.Atoi(name); err == nil && Direction(n).Valid() {
		return Direction(n), nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrIllegalTarget, s)
}

// Cell represents a single grid cell
type Cell struct {
	Hex
	Terrain Terrain `json:"terrain"`
}

// Club is a card that sets the base shot range
type Club struct {
	Name     string `json:"name" yaml:"name"`
	MinRange int    `json:"min_range" yaml:"min_range"`
	MaxRange int    `json:"max_range" yaml:"max_range"`
}

// Timing says when a modifier takes effect relative to the ball moving
type Timing string

const (
	PreShot  Timing = "pre"
	PostShot Timing = "post"
)

// ModifierKind is the closed set of modifier effects
type ModifierKind int

const (
	Tailwind ModifierKind = iota
	Headwind
	Mega
	Precision
	Fireball
	Wind
	Chip
	Portal
)

var modifierKindNames = [...]string{"tailwind", "headwind", "mega", "precision", "fireball", "wind", "chip", "portal"}

func (k ModifierKind) Valid() bool { return k >= Tailwind && k <= Portal }

// Timing reports whether the modifier changes the range or the final position.
func (k ModifierKind) Timing() Timing {
	switch k {
	case Tailwind, Headwind, Mega, Precision, Fireball:
		return PreShot
	case Wind, Chip, Portal:
		return PostShot
	}
	return PreShot
}

func (k ModifierKind) String() string {
	if !k.Valid() {
		return "modifier(" + strconv.Itoa(int(k)) + ")"
	}
	return modifierKindNames[k]
}

func (k ModifierKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid modifier kind %d", int(k))
	}
	return []byte(modifierKindNames[k]), nil
}

func (k *ModifierKind) UnmarshalText(text []byte) error {
	parsed, err := ParseModifierKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseModifierKind maps a case-insensitive name onto a ModifierKind
func ParseModifierKind(s string) (ModifierKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modifierKindNames {
		if n == name {
			return ModifierKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown modifier kind %q", s)
}

// Modifier is a card that alters a shot before or after the ball moves
type Modifier struct {
	Name string       `json:"name" yaml:"name"`
	Kind ModifierKind `json:"kind" yaml:"kind"`
}

func (m Modifier) Timing() Timing { return m.Kind.Timing() }

// DefaultClubs returns the club templates of the classic course.
func DefaultClubs() []Club {
	return []Club{
		{Name: "Driver", MinRange: 4, MaxRange: 6},
		{Name: "Iron", MinRange: 2, MaxRange: 4},
		{Name: "Wedge", MinRange: 1, MaxRange: 2},
		{Name: "Putter", MinRange: 1, MaxRange: 1},
	}
}

// DefaultModifiers returns one template of every modifier kind.
func DefaultModifiers() []Modifier {
	return []Modifier{
		{Name: "Tailwind", Kind: Tailwind},
		{Name: "Headwind", Kind: Headwind},
		{Name: "Mega", Kind: Mega},
		{Name: "Precision", Kind: Precision},
		{Name: "Fireball", Kind: Fireball},
		{Name: "Wind", Kind: Wind},
		{Name: "Chip", Kind: Chip},
		{Name: "Portal", Kind: Portal},
	}
}

// ShotRange is the inclusive distance range of a planned shot
type ShotRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether d lies in the range
func (r ShotRange) Contains(d int) bool { return d >= r.Min && d <= r.Max }

// Target is an eligible landing cell for a planned shot
type Target struct {
	Direction Direction `json:"direction"`
	Hex       Hex       `json:"hex"`
}

// ShotFlags carry terrain exemptions granted by pre-shot modifiers
type ShotFlags struct {
	IgnoreSand  bool `json:"ignore_sand,omitempty"`
	IgnoreWater bool `json:"ignore_water,omitempty"`
}

// Preview is the planned shot for the current selection. The zero value means
// no club is selected.
type Preview struct {
	Club      *Club      `json:"club,omitempty"`
	Modifiers []Modifier `json:"modifiers,omitempty"`
	Range     ShotRange  `json:"range"`
	Distance  int        `json:"distance"`
	Targets   []Target   `json:"eligible_targets"`
	ShotFlags
}

// Ready reports whether a commit is possible.
func (p Preview) Ready() bool { return p.Club != nil && len(p.Targets) > 0 }

// TargetFor returns the landing cell planned for direction d.
func (p Preview) TargetFor(d Direction) (Hex, bool) {
	for _, t := range p.Targets {
		if t.Direction == d {
			return t.Hex, true
		}
	}
	return Hex{}, false
}

// DirectionTo returns the direction whose planned landing cell is h.
func (p Preview) DirectionTo(h Hex) (Direction, bool) {
	for _, t := range p.Targets {
		if t.Hex == h {
			return t.Direction, true
		}
	}
	return 0, false
}

// Selection is the club and modifier choice for the next shot
type Selection struct {
	Club      *int  `json:"club,omitempty"`
	Modifiers []int `json:"modifiers"`
}

// PostEffect records what a post-shot modifier did to the ball
type PostEffect struct {
	Modifier ModifierKind `json:"modifier"`
	From     Hex          `json:"from"`
	To       Hex          `json:"to"`
	Applied  bool         `json:"applied"`
}

// ShotOutcome is the result of resolving one committed shot
type ShotOutcome struct {
	From            Hex          `json:"from"`
	Direction       Direction    `json:"direction"`
	Distance        int          `json:"distance"`
	Landing         Hex          `json:"landing"`
	Position        Hex          `json:"position"`
	Blocked         bool         `json:"blocked"`
	HazardTriggered bool         `json:"hazard_triggered"`
	Won             bool         `json:"won"`
	Swings          int          `json:"swings"`
	PostEffects     []PostEffect `json:"post_effects,omitempty"`
}

// ShotRecord represents a single shot in the round history
type ShotRecord struct {
	ShotOutcome
	ShotNumber int        `json:"shot_number"`
	Club       Club       `json:"club"`
	Modifiers  []Modifier `json:"modifiers,omitempty"`
	Message    string     `json:"message"`
	Timestamp  int64      `json:"timestamp"`
}

// GameState represents the complete state of a round
type GameState struct {
	CourseName      string     `json:"course_name"`
	Seed            int64      `json:"seed"`
	Cols            int        `json:"cols"`
	Rows            int        `json:"rows"`
	Cells           []Cell     `json:"cells"`
	PlayerPos       Hex        `json:"player_pos"`
	GoalPos         Hex        `json:"goal_pos"`
	ClubHand        []Club     `json:"club_hand"`
	ModifierHand    []Modifier `json:"modifier_hand"`
	ClubDeck        int        `json:"club_deck"`
	ClubDiscard     int        `json:"club_discard"`
	ModifierDeck    int        `json:"modifier_deck"`
	ModifierDiscard int        `json:"modifier_discard"`
	Selection       Selection  `json:"selection"`
	Preview         Preview    `json:"preview"`
	SwingCount      int        `json:"swing_count"`
	Won             bool       `json:"won"`
	Message         string     `json:"message"`
	TileInfo        string     `json:"tile_info"`
	DistanceToGoal  int        `json:"distance_to_goal"`

	ShotHistory []ShotRecord `json:"shot_history"`
	TotalShots  int          `json:"total_shots"`
	// Rounds counts how many rounds were started on this engine, including the current one.
	Rounds int `json:"rounds"`
}
