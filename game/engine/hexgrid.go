package engine

// Grid is the playing board: an arena of cells in enumeration order plus an
// index from coordinate to slot. Coordinates never change after generation.
type Grid struct {
	Cols  int
	Rows  int
	cells []Cell
	index map[Hex]int
}

// GenerateGrid enumerates every (q, r) with -cols<=q<=cols, -rows<=r<=rows and
// |q+r|<=cols, sampling terrain for each cell.
func GenerateGrid(cols, rows int, sampler TerrainSampler) *Grid {
	g := &Grid{
		Cols:  cols,
		Rows:  rows,
		index: make(map[Hex]int),
	}
	for q := -cols; q <= cols; q++ {
		for r := -rows; r <= rows; r++ {
			if abs(q+r) > cols {
				continue
			}
			h := Hex{Q: q, R: r}
			g.index[h] = len(g.cells)
			g.cells = append(g.cells, Cell{Hex: h, Terrain: sampler.Sample(h)})
		}
	}
	return g
}

// NewGridFromCells rebuilds a grid from a snapshot's cells. Cells repeating a
// coordinate are dropped.
func NewGridFromCells(cols, rows int, cells []Cell) *Grid {
	g := &Grid{
		Cols:  cols,
		Rows:  rows,
		index: make(map[Hex]int, len(cells)),
	}
	for _, c := range cells {
		if _, dup := g.index[c.Hex]; dup {
			continue
		}
		g.index[c.Hex] = len(g.cells)
		g.cells = append(g.cells, c)
	}
	return g
}

// GridSize returns the number of cells GenerateGrid produces for cols and rows.
func GridSize(cols, rows int) int {
	n := 0
	for q := -cols; q <= cols; q++ {
		for r := -rows; r <= rows; r++ {
			if abs(q+r) <= cols {
				n++
			}
		}
	}
	return n
}

func (g *Grid) Len() int { return len(g.cells) }

// Cells returns a copy of every cell in enumeration order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

func (g *Grid) CellAt(h Hex) (Cell, bool) {
	i, ok := g.index[h]
	if !ok {
		return Cell{}, false
	}
	return g.cells[i], true
}

func (g *Grid) Contains(h Hex) bool {
	_, ok := g.index[h]
	return ok
}

// TerrainAt returns the terrain of h, or false when h is off the board.
func (g *Grid) TerrainAt(h Hex) (Terrain, bool) {
	c, ok := g.CellAt(h)
	return c.Terrain, ok
}

// Neighbors returns the existing cells adjacent to h in direction order.
func (g *Grid) Neighbors(h Hex) []Cell {
	out := make([]Cell, 0, 6)
	for _, d := range Directions() {
		if c, ok := g.CellAt(h.Add(d.Vector())); ok {
			out = append(out, c)
		}
	}
	return out
}

func (g *Grid) Count(t Terrain) int {
	n := 0
	for _, c := range g.cells {
		if c.Terrain == t {
			n++
		}
	}
	return n
}

// CountAll returns the number of cells of each terrain present on the board.
func (g *Grid) CountAll() map[Terrain]int {
	counts := make(map[Terrain]int, len(TerrainKinds))
	for _, c := range g.cells {
		counts[c.Terrain]++
	}
	return counts
}

// CellsOf returns the cells of terrain t in enumeration order.
func (g *Grid) CellsOf(t Terrain) []Cell {
	var out []Cell
	for _, c := range g.cells {
		if c.Terrain == t {
			out = append(out, c)
		}
	}
	return out
}

// setTerrain is only used while a course is being generated.
func (g *Grid) setTerrain(h Hex, t Terrain) bool {
	i, ok := g.index[h]
	if !ok {
		return false
	}
	g.cells[i].Terrain = t
	return true
}

// Distance returns the hex distance between a and b.
func Distance(a, b Hex) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

// IsStraightLine reports whether the offset lies along one of the three hex axes.
func IsStraightLine(dq, dr int) bool {
	return dq == 0 || dr == 0 || dq == -dr
}

// ExpandRegion walks the board breadth-first from seed. Cells further than
// radius from seed are not entered; limit caps the result when positive. The
// seed itself is first when it exists.
func (g *Grid) ExpandRegion(seed Hex, radius, limit int) []Hex {
	if !g.Contains(seed) {
		return nil
	}
	visited := map[Hex]bool{seed: true}
	queue := []Hex{seed}
	var region []Hex
	for len(queue) > 0 {
		if limit > 0 && len(region) >= limit {
			break
		}
		h := queue[0]
		queue = queue[1:]
		region = append(region, h)
		for _, n := range g.Neighbors(h) {
			if visited[n.Hex] || Distance(seed, n.Hex) > radius {
				continue
			}
			visited[n.Hex] = true
			queue = append(queue, n.Hex)
		}
	}
	return region
}

// EnforceMinimums raises the count of each terrain to its floor, capped at the
// number of cells. Cells are overwritten at random, preferring cells whose own
// terrain is above its floor, so kinds already satisfied stay satisfied
// whenever the floors fit on the board. Protected cells are never touched.
func EnforceMinimums(g *Grid, floors map[Terrain]int, rng Rand, protected ...Hex) {
	if len(floors) == 0 || g.Len() == 0 {
		return
	}
	locked := make(map[Hex]bool, len(protected))
	for _, h := range protected {
		locked[h] = true
	}
	counts := g.CountAll()

	for _, kind := range TerrainKinds {
		need := min(floors[kind], g.Len())
		for attempts := 0; counts[kind] < need && attempts < g.Len(); attempts++ {
			var surplus, rest []int
			for i, c := range g.cells {
				if locked[c.Hex] || c.Terrain == kind {
					continue
				}
				if counts[c.Terrain] > floors[c.Terrain] {
					surplus = append(surplus, i)
				} else {
					rest = append(rest, i)
				}
			}
			pool := surplus
			if len(pool) == 0 {
				pool = rest
			}
			if len(pool) == 0 {
				break
			}
			i := pick(rng, pool)
			counts[g.cells[i].Terrain]--
			g.cells[i].Terrain = kind
			counts[kind]++
		}
	}
}

// PickStartAndGoal places the goal on a green and the tee elsewhere, trying to
// keep them more than minSeparation apart. If no attempt succeeds the first
// green becomes the goal and the farthest candidate the start. On a one-cell
// board start and goal coincide.
func PickStartAndGoal(g *Grid, minSeparation int, rng Rand) (start, goal Hex) {
	if g.Len() == 0 {
		return Hex{}, Hex{}
	}
	greens := g.CellsOf(Green)
	if len(greens) == 0 {
		c := pick(rng, g.cells)
		g.setTerrain(c.Hex, Green)
		greens = g.CellsOf(Green)
	}

	for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
		goal = pick(rng, greens).Hex
		pool := g.startCandidates(goal)
		if len(pool) == 0 {
			return goal, goal
		}
		start = pick(rng, pool)
		if Distance(start, goal) > minSeparation {
			return start, goal
		}
	}

	goal = greens[0].Hex
	pool := g.startCandidates(goal)
	if len(pool) == 0 {
		return goal, goal
	}
	start = pool[0]
	for _, h := range pool[1:] {
		if Distance(h, goal) > Distance(start, goal) {
			start = h
		}
	}
	return start, goal
}

// startCandidates prefers grass, then anything that is not trees, then any cell.
func (g *Grid) startCandidates(goal Hex) []Hex {
	var grass, open, all []Hex
	for _, c := range g.cells {
		if c.Hex == goal {
			continue
		}
		all = append(all, c.Hex)
		if c.Terrain != Trees {
			open = append(open, c.Hex)
		}
		if c.Terrain == Grass {
			grass = append(grass, c.Hex)
		}
	}
	switch {
	case len(grass) > 0:
		return grass
	case len(open) > 0:
		return open
	}
	return all
}

// GrowGreen turns up to size cells around goal into green, nearest first.
// Protected cells are skipped. The region is collected before any cell changes.
func GrowGreen(g *Grid, goal Hex, size, radius int, protected ...Hex) int {
	locked := make(map[Hex]bool, len(protected))
	for _, h := range protected {
		locked[h] = true
	}
	var chosen []Hex
	for _, h := range g.ExpandRegion(goal, radius, 0) {
		if len(chosen) >= size {
			break
		}
		if locked[h] && h != goal {
			continue
		}
		chosen = append(chosen, h)
	}
	for _, h := range chosen {
		g.setTerrain(h, Green)
	}
	return len(chosen)
}
