package main

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/hexgolf/game/engine"
	"github.com/wricardo/hexgolf/game/service"
)

var errStuck = errors.New("no club in hand has an eligible target")

// terrainPenalty is added to ten times the distance left to the hole
var terrainPenalty = map[engine.Terrain]int{
	engine.Green: -1,
	engine.Grass: 0,
	engine.Rough: 1,
	engine.Sand:  3,
	engine.Water: 100,
}

// Score rates where a shot toward target would come to rest. Lower is better.
// Trees on the path stop the ball early, so the real landing is traced first.
func Score(grid *engine.Grid, from, goal engine.Hex, t engine.Target, distance int) (landing engine.Hex, score int) {
	landing, _ = engine.TracePath(grid, from, t.Direction, distance)
	terrain, _ := grid.TerrainAt(landing)
	return landing, 10*engine.Distance(landing, goal) + terrainPenalty[terrain]
}

// Choice is the best target of one preview
type Choice struct {
	Club    int
	Target  engine.Hex
	Landing engine.Hex
	Score   int
}

// BestTarget picks the lowest scoring eligible target of preview.
func BestTarget(state *engine.GameState, preview engine.Preview) (Choice, bool) {
	grid := engine.NewGridFromCells(state.Cols, state.Rows, state.Cells)

	var best Choice
	found := false
	for _, t := range preview.Targets {
		landing, score := Score(grid, state.PlayerPos, state.GoalPos, t, preview.Distance)
		if !found || score < best.Score {
			best = Choice{Target: t.Hex, Landing: landing, Score: score}
			found = true
		}
	}
	return best, found
}

// Greedy selects clubs one at a time and shoots at the target that leaves the
// ball closest to the hole. Every selection re-rolls the distance, so after a
// survey pass it keeps re-selecting until a preview matches the best score seen.
type Greedy struct {
	client *Client
	// Passes bounds the re-selection passes after the survey
	Passes int
}

func NewGreedy(client *Client) *Greedy {
	return &Greedy{client: client, Passes: 5}
}

// Turn plays one shot from state. The last pass takes any preview that has a target.
func (g *Greedy) Turn(ctx context.Context, state *engine.GameState) (*service.ShotResult, error) {
	bestScore, surveyed := 0, false

	for pass := 0; pass <= g.Passes; pass++ {
		for i := range state.ClubHand {
			index := i
			sel, err := g.client.SelectClub(ctx, &index)
			if err != nil {
				return nil, err
			}
			choice, ok := BestTarget(sel.GameState, sel.Preview)
			if !ok {
				continue
			}
			choice.Club = index

			if choice.Landing == state.GoalPos || pass == g.Passes || (surveyed && choice.Score <= bestScore) {
				return g.shoot(ctx, state, choice)
			}
			if !surveyed || choice.Score < bestScore {
				bestScore = choice.Score
			}
		}
		surveyed = true
	}
	return nil, errStuck
}

func (g *Greedy) shoot(ctx context.Context, state *engine.GameState, choice Choice) (*service.ShotResult, error) {
	log.WithFields(log.Fields{
		"club":   state.ClubHand[choice.Club].Name,
		"from":   state.PlayerPos.String(),
		"target": choice.Target.String(),
		"score":  choice.Score,
	}).Debug("shooting")
	return g.client.Shoot(ctx, choice.Target)
}

// PlayRound plays shots until the ball is holed or maxShots shots were taken.
// It returns the final state.
func (g *Greedy) PlayRound(ctx context.Context, state *engine.GameState, maxShots int) (*engine.GameState, error) {
	for shots := 0; !state.Won; shots++ {
		if shots >= maxShots {
			return state, fmt.Errorf("gave up after %d shots", maxShots)
		}
		result, err := g.Turn(ctx, state)
		if err != nil {
			return state, err
		}
		state = result.GameState
	}
	return state, nil
}
