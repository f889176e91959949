package engine

// ComputeRange applies the lie, the pre-shot modifiers (in selection order) and
// the terrain penalties to the club's base range. Post-shot modifiers are
// ignored here.
func ComputeRange(lie Terrain, club Club, mods []Modifier, rng Rand) (ShotRange, ShotFlags) {
	lo, hi := club.MinRange, club.MaxRange
	if lie == Green {
		lo = 1
	}

	var flags ShotFlags
	for _, m := range mods {
		switch m.Kind {
		case Tailwind:
			hi += 1 + rng.IntN(2)
		case Headwind:
			d := 1 + rng.IntN(2)
			lo -= d
			hi -= d
		case Mega:
			hi += 2
		case Precision:
			lo = 1
		case Fireball:
			flags.IgnoreSand = true
			flags.IgnoreWater = true
		case Wind, Chip, Portal:
		}
	}

	switch lie {
	case Sand:
		if !flags.IgnoreSand {
			hi--
		}
	case Water:
		if !flags.IgnoreWater {
			hi -= 2
			lo--
		}
	}

	return ClampRange(lo, hi), flags
}

// ClampRange keeps the minimum at least 1 and the maximum at least the minimum.
func ClampRange(lo, hi int) ShotRange {
	lo = max(1, lo)
	return ShotRange{Min: lo, Max: max(lo, hi)}
}

// SampleDistance picks a distance uniformly from r.
func SampleDistance(r ShotRange, rng Rand) int {
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// EligibleTargets returns, for every direction, the cell distance steps away
// when it exists and is not trees.
func EligibleTargets(grid *Grid, from Hex, distance int) []Target {
	targets := make([]Target, 0, 6)
	for _, d := range Directions() {
		h := from.Add(d.Vector().Scale(distance))
		t, ok := grid.TerrainAt(h)
		if !ok || t == Trees {
			continue
		}
		targets = append(targets, Target{Direction: d, Hex: h})
	}
	return targets
}

// PlanShot computes the full preview for a club and modifier selection played
// from pos. The distance is sampled once here and reused by the commit.
func PlanShot(grid *Grid, pos Hex, club Club, mods []Modifier, rng Rand) Preview {
	lie, _ := grid.TerrainAt(pos)
	r, flags := ComputeRange(lie, club, mods, rng)
	distance := SampleDistance(r, rng)

	c := club
	return Preview{
		Club:      &c,
		Modifiers: append([]Modifier(nil), mods...),
		Range:     r,
		Distance:  distance,
		Targets:   EligibleTargets(grid, pos, distance),
		ShotFlags: flags,
	}
}
