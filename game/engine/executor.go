package engine

// TracePath walks from the ball toward its target. The distance-1 cells in
// between must exist and must not be trees; the first one that fails stops the
// ball on the cell before it.
func TracePath(grid *Grid, from Hex, dir Direction, distance int) (landing Hex, blocked bool) {
	step := dir.Vector()
	landing = from
	for i := 1; i < distance; i++ {
		next := from.Add(step.Scale(i))
		t, ok := grid.TerrainAt(next)
		if !ok || t == Trees {
			return landing, true
		}
		landing = next
	}
	return from.Add(step.Scale(distance)), false
}

// ResolveShot moves the ball for one committed shot: path check, landing,
// water hazard, then post-shot modifiers in selection order. It does not touch
// cards or swings; Swings in the result holds only the penalty swings this shot
// added (0 or 1).
func ResolveShot(grid *Grid, from, goal Hex, dir Direction, distance int, mods []Modifier, flags ShotFlags, rng Rand) ShotOutcome {
	out := ShotOutcome{
		From:      from,
		Direction: dir,
		Distance:  distance,
	}

	out.Landing, out.Blocked = TracePath(grid, from, dir, distance)
	pos := out.Landing

	if t, _ := grid.TerrainAt(pos); t == Water && !flags.IgnoreWater {
		out.HazardTriggered = true
		out.Swings = 1
		pos = from
	}

	for _, m := range mods {
		if m.Timing() != PostShot {
			continue
		}
		effect := applyPostModifier(grid, pos, goal, m.Kind, rng)
		out.PostEffects = append(out.PostEffects, effect)
		pos = effect.To
	}

	out.Position = pos
	out.Won = pos == goal
	return out
}

func applyPostModifier(grid *Grid, pos, goal Hex, kind ModifierKind, rng Rand) PostEffect {
	effect := PostEffect{Modifier: kind, From: pos, To: pos}
	switch kind {
	case Wind:
		steps := 1 + rng.IntN(2)
		step := Directions()[rng.IntN(6)].Vector()
		for i := 0; i < steps; i++ {
			next := effect.To.Add(step)
			t, ok := grid.TerrainAt(next)
			if !ok || t == Trees {
				break
			}
			effect.To = next
			effect.Applied = true
		}
	case Portal:
		greens := grid.CellsOf(Green)
		if len(greens) > 0 {
			effect.To = pick(rng, greens).Hex
			effect.Applied = true
		}
	case Chip:
		if t, ok := grid.TerrainAt(goal); ok && t != Trees && Distance(pos, goal) <= 2 {
			effect.To = goal
			effect.Applied = true
		}
	case Tailwind, Headwind, Mega, Precision, Fireball:
	}
	return effect
}
