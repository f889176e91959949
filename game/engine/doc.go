// Package engine provides the core rules of Hex Golf.
//
// The engine package implements the shot-resolution state machine:
//   - Axial hex grid generation with weighted or noise terrain samplers
//   - Club and modifier card piles (deck, discard, hand)
//   - Terrain-aware range computation and modifier stacking
//   - Path validation, water hazards and post-shot modifiers
//   - Swing accounting and win detection
//
// Core Types:
//
// The Engine interface defines the main contract for a round, implemented by
// GameEngine. Grid holds the board, Pile holds a card system and GameState is
// the JSON snapshot handed to transports. CourseConfig describes how a course is
// generated and is loaded from JSON or YAML files.
//
// All randomness flows through a single Rand owned by the GameEngine, so a
// course seed reproduces the board, the deck order and every shot roll.
//
// Usage:
//
//	course, err := engine.LoadCourseByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := engine.NewEngine(course, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_ = game.SelectClub(0)
//	preview := game.Preview()
//	if len(preview.Targets) > 0 {
//		outcome, err := game.CommitShot(preview.Targets[0].Direction)
//		...
//	}
//
// Game Rules:
//
// The player chooses one club from a hand of three and any number of modifiers
// from a second hand of three. Sand shortens the club, water shortens it more,
// trees block the ball and a ball landing in water returns to where it was hit
// from with a penalty swing. The round ends when the ball comes to rest on the
// goal cell.
package engine
