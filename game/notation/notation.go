package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/wricardo/hexgolf/game/engine"
)

// ErrCardNotInHand is returned when a script names a card the player is not holding
var ErrCardNotInHand = errors.New("card not in hand")

// Script is a sequence of shots separated by semicolons or newlines
type Script struct {
	Shots []*Shot `parser:"';'* ( @@ ';'* )*"`
}

// Shot is one club, any number of modifiers, and an aim
type Shot struct {
	Pos lexer.Position

	Club      string   `parser:"@(Ident | String)"`
	Modifiers []string `parser:"( '+' @(Ident | String) )*"`
	Aim       *Aim     `parser:"@@"`
}

// Aim is either a direction after '>' or a destination after '@'
type Aim struct {
	Direction string `parser:"  '>' @(Ident | Int)"`
	Target    *Coord `parser:"| '@' @@"`
}

// Coord is an axial coordinate written as (q,r)
type Coord struct {
	Q int `parser:"'(' @Int ','"`
	R int `parser:"@Int ')'"`
}

var parser = participle.MustBuild[Script](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "whitespace", Pattern: `[\s]+`},
		{Name: "String", Pattern: `"[^"]*"`},
		{Name: "Ident", Pattern: `[a-zA-Z][\w\-]*`},
		{Name: "Int", Pattern: `-?\d+`},
		{Name: "Punct", Pattern: `[;+>@(),]`},
	})),
	participle.Unquote("String"),
)

// Parse reads a shot script such as "Iron + Tailwind > ne; Putter @ (1,-2)".
func Parse(script string) (*Script, error) {
	s, err := parser.ParseString("", script)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return s, nil
}

// Hex returns the destination as a grid coordinate
func (c *Coord) Hex() engine.Hex {
	return engine.Hex{Q: c.Q, R: c.R}
}

// HasTarget reports whether the shot aims at a destination instead of a direction
func (s *Shot) HasTarget() bool {
	return s.Aim != nil && s.Aim.Target != nil
}

// Direction parses the aimed direction
func (s *Shot) Direction() (engine.Direction, error) {
	if s.Aim == nil || s.Aim.Target != nil {
		return 0, fmt.Errorf("%w: shot has no direction", engine.ErrIllegalTarget)
	}
	return engine.ParseDirection(s.Aim.Direction)
}

// Resolve maps the card names of the shot onto hand indices. Modifiers are
// returned in the order written; each hand card is used at most once.
func (s *Shot) Resolve(clubs []engine.Club, modifiers []engine.Modifier) (int, []int, error) {
	club := -1
	for i, c := range clubs {
		if strings.EqualFold(c.Name, s.Club) {
			club = i
			break
		}
	}
	if club < 0 {
		return -1, nil, fmt.Errorf("%w: club %q", ErrCardNotInHand, s.Club)
	}

	used := make(map[int]bool, len(s.Modifiers))
	mods := make([]int, 0, len(s.Modifiers))
	for _, name := range s.Modifiers {
		idx := findModifier(modifiers, name, used)
		if idx < 0 {
			return -1, nil, fmt.Errorf("%w: modifier %q", ErrCardNotInHand, name)
		}
		used[idx] = true
		mods = append(mods, idx)
	}
	return club, mods, nil
}

// findModifier matches by card name first, then by kind name
func findModifier(hand []engine.Modifier, name string, used map[int]bool) int {
	for i, m := range hand {
		if !used[i] && strings.EqualFold(m.Name, name) {
			return i
		}
	}
	kind, err := engine.ParseModifierKind(name)
	if err != nil {
		return -1
	}
	for i, m := range hand {
		if !used[i] && m.Kind == kind {
			return i
		}
	}
	return -1
}

// String writes the shot back in script form
func (s *Shot) String() string {
	var b strings.Builder
	b.WriteString(quote(s.Club))
	for _, m := range s.Modifiers {
		b.WriteString(" + ")
		b.WriteString(quote(m))
	}
	switch {
	case s.Aim == nil:
	case s.Aim.Target != nil:
		fmt.Fprintf(&b, " @ (%d,%d)", s.Aim.Target.Q, s.Aim.Target.R)
	default:
		b.WriteString(" > ")
		b.WriteString(s.Aim.Direction)
	}
	return b.String()
}

// String writes the whole script on one line
func (s *Script) String() string {
	parts := make([]string, len(s.Shots))
	for i, shot := range s.Shots {
		parts[i] = shot.String()
	}
	return strings.Join(parts, "; ")
}

// FromRecord rebuilds the notation of a played shot
func FromRecord(rec engine.ShotRecord) *Shot {
	shot := &Shot{
		Club: rec.Club.Name,
		Aim:  &Aim{Direction: rec.Direction.String()},
	}
	for _, m := range rec.Modifiers {
		shot.Modifiers = append(shot.Modifiers, m.Name)
	}
	return shot
}

func quote(name string) string {
	if strings.ContainsAny(name, " \t;+>@(),\"") {
		return `"` + name + `"`
	}
	return name
}
