package engine

import (
	"strings"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// TileInfo describes how the terrain under the ball changes the next shot
func TileInfo(t Terrain) string {
	name := strings.ToUpper(string(t))
	switch t {
	case Sand:
		return name + " (max-1)"
	case Green:
		return name + " (precision)"
	case Water:
		return name + " (max-2, min-1)"
	case Trees:
		return name + " (blocked)"
	}
	return name + " (normal)"
}

// terrainGlyphs are the single-character board symbols used by RenderBoard
var terrainGlyphs = map[Terrain]byte{
	Grass: '.',
	Sand:  ':',
	Green: '"',
	Water: '~',
	Trees: 'T',
	Rough: ',',
}

// BoardLegend explains the RenderBoard symbols
const BoardLegend = `. grass  : sand  " green  ~ water  T trees  , rough  @ ball  O hole  * target`

// RenderBoard draws the grid as text, one line per row r with cells staggered
// by half a column so the six neighbours of a cell surround it. marks override
// the terrain glyph of individual cells.
func RenderBoard(g *Grid, marks map[Hex]byte) string {
	if g == nil || g.Len() == 0 {
		return ""
	}
	minCol, maxCol := 0, 0
	first := true
	for _, c := range g.cells {
		col := 2*c.Q + c.R
		if first || col < minCol {
			minCol = col
		}
		if first || col > maxCol {
			maxCol = col
		}
		first = false
	}

	var b strings.Builder
	for r := -g.Rows; r <= g.Rows; r++ {
		line := []byte(strings.Repeat(" ", maxCol-minCol+1))
		used := false
		for q := -g.Cols; q <= g.Cols; q++ {
			c, ok := g.CellAt(Hex{Q: q, R: r})
			if !ok {
				continue
			}
			glyph, ok := marks[c.Hex]
			if !ok {
				glyph = terrainGlyphs[c.Terrain]
			}
			line[2*q+r-minCol] = glyph
			used = true
		}
		if !used {
			continue
		}
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// StateMarks returns the ball, hole and target marks for a snapshot.
func StateMarks(state *GameState) map[Hex]byte {
	marks := make(map[Hex]byte, len(state.Preview.Targets)+2)
	for _, t := range state.Preview.Targets {
		marks[t.Hex] = '*'
	}
	marks[state.GoalPos] = 'O'
	marks[state.PlayerPos] = '@'
	return marks
}
