package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/wricardo/hexgolf/game/engine"
)

// Report summarizes one generated board of a course.
type Report struct {
	Name     string
	Seed     int64
	Cells    int
	Counts   map[engine.Terrain]int
	Start    engine.Hex
	Goal     engine.Hex
	Distance int
	// Par is the fewest shots from start to hole using clubs alone, or -1 when
	// the hole cannot be reached that way.
	Par   int
	Board string
}

// Analyze generates the course with seed (zero keeps the course's own seed or
// picks a fresh one) and measures the resulting board.
func Analyze(course *engine.CourseConfig, seed int64) (*Report, error) {
	c := *course
	if seed != 0 {
		c.Seed = seed
	}

	eng, err := engine.NewEngine(&c, nil)
	if err != nil {
		return nil, err
	}
	state := eng.GetState()
	grid := eng.Grid()

	return &Report{
		Name:     state.CourseName,
		Seed:     state.Seed,
		Cells:    grid.Len(),
		Counts:   grid.CountAll(),
		Start:    state.PlayerPos,
		Goal:     state.GoalPos,
		Distance: engine.Distance(state.PlayerPos, state.GoalPos),
		Par:      Par(grid, state.PlayerPos, state.GoalPos, eng.GetConfig().Clubs),
		Board:    engine.RenderBoard(grid, engine.StateMarks(state)),
	}, nil
}

// Par runs a breadth-first search over shots without modifiers. Every club may
// be used on every shot; water landings drop the ball back and are skipped.
func Par(grid *engine.Grid, start, goal engine.Hex, clubs []engine.Club) int {
	if start == goal {
		return 0
	}

	shots := map[engine.Hex]int{start: 0}
	queue := []engine.Hex{start}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		lie, _ := grid.TerrainAt(pos)

		for _, club := range clubs {
			// no pre-shot modifiers, so the range never touches the rng
			r, _ := engine.ComputeRange(lie, club, nil, nil)
			for d := r.Min; d <= r.Max; d++ {
				for _, t := range engine.EligibleTargets(grid, pos, d) {
					landing, _ := engine.TracePath(grid, pos, t.Direction, d)
					if terrain, _ := grid.TerrainAt(landing); terrain == engine.Water {
						continue
					}
					if _, seen := shots[landing]; seen {
						continue
					}
					shots[landing] = shots[pos] + 1
					if landing == goal {
						return shots[landing]
					}
					queue = append(queue, landing)
				}
			}
		}
	}
	return -1
}

// printReport writes a human-readable report
func printReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Name: %s\n", r.Name)
	fmt.Fprintf(w, "Seed: %d\n", r.Seed)
	fmt.Fprintf(w, "Cells: %s\n", humanize.Comma(int64(r.Cells)))

	terrains := make([]engine.Terrain, 0, len(r.Counts))
	for t := range r.Counts {
		terrains = append(terrains, t)
	}
	slices.Sort(terrains)
	parts := make([]string, 0, len(terrains))
	for _, t := range terrains {
		parts = append(parts, fmt.Sprintf("%s %d", t, r.Counts[t]))
	}
	fmt.Fprintf(w, "Terrain: %s\n", strings.Join(parts, ", "))

	fmt.Fprintf(w, "Start: %s  Hole: %s  Distance: %d\n", r.Start, r.Goal, r.Distance)
	if r.Par < 0 {
		fmt.Fprintf(w, "⚠️  WARNING: the hole cannot be reached with clubs alone\n")
	} else {
		fmt.Fprintf(w, "✅ Par without modifiers: %d\n", r.Par)
	}

	fmt.Fprintf(w, "\n%s%s\n", r.Board, engine.BoardLegend)
}

// Validation is the outcome of checking one course file across several seeds.
type Validation struct {
	File       string
	Valid      bool
	Errors     []string
	Seeds      int
	Unplayable int
	MinPar     int
	MaxPar     int
}

// Validate loads path, checks the course rules and generates seeds boards
// starting at firstSeed, counting the ones whose hole is out of reach.
func Validate(path string, firstSeed int64, seeds int) Validation {
	v := Validation{File: filepath.Base(path), Seeds: seeds, MinPar: -1, MaxPar: -1}

	course, err := engine.LoadCourseConfig(path)
	if err != nil {
		v.Errors = append(v.Errors, err.Error())
		return v
	}

	for i := 0; i < seeds; i++ {
		report, err := Analyze(course, firstSeed+int64(i))
		if err != nil {
			v.Errors = append(v.Errors, fmt.Sprintf("seed %d: %v", firstSeed+int64(i), err))
			continue
		}
		if report.Par < 0 {
			v.Unplayable++
			continue
		}
		if v.MinPar < 0 || report.Par < v.MinPar {
			v.MinPar = report.Par
		}
		if report.Par > v.MaxPar {
			v.MaxPar = report.Par
		}
	}

	if v.Unplayable > 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("%d of %d boards cannot be holed with clubs alone", v.Unplayable, seeds))
	}
	v.Valid = len(v.Errors) == 0
	return v
}

func printValidation(w io.Writer, v Validation) {
	if v.Valid {
		fmt.Fprintf(w, "✅ %s: valid, par %d-%d over %d seeds\n", v.File, v.MinPar, v.MaxPar, v.Seeds)
		return
	}
	fmt.Fprintf(w, "❌ %s:\n", v.File)
	for _, e := range v.Errors {
		fmt.Fprintf(w, "   - %s\n", e)
	}
}

// courseFiles returns the course files named by args, or every course file in dir.
func courseFiles(dir string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && slices.Contains(engine.CourseExtensions, filepath.Ext(e.Name())) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
