// Command autoplay plays Hex Golf rounds against a running server through the
// REST API. Each round starts a fresh session and plays greedy shots until the
// ball is holed, then prints a summary and the course leaderboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/hexgolf/game/engine"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("autoplay failed")
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "autoplay",
		Usage: "Play Hex Golf rounds with a greedy bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8080",
				Usage:   "Game server URL",
				Sources: cli.EnvVars("HEXGOLF_API_URL"),
			},
			&cli.StringFlag{
				Name:  "course",
				Usage: "Course ID (default course when empty)",
			},
			&cli.StringFlag{
				Name:  "continue",
				Usage: "Finish the round of an existing session before starting new ones",
			},
			&cli.IntFlag{
				Name:  "rounds",
				Value: 1,
				Usage: "Number of rounds to play",
			},
			&cli.IntFlag{
				Name:  "max-shots",
				Value: 100,
				Usage: "Shots per round before giving up",
			},
			&cli.IntFlag{
				Name:  "passes",
				Value: 5,
				Usage: "Re-selection passes per shot",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log every shot",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("verbose") {
		log.SetLevel(log.DebugLevel)
	}

	client := NewClient(cmd.String("url"))
	bot := NewGreedy(client)
	bot.Passes = cmd.Int("passes")
	maxShots := cmd.Int("max-shots")
	course := cmd.String("course")

	log.WithField("url", cmd.String("url")).Info("connecting to game server")

	var results []roundResult
	if id := cmd.String("continue"); id != "" {
		client.UseSession(id)
		state, err := client.GetState(ctx)
		if err != nil {
			return fmt.Errorf("resume session %s: %w", id, err)
		}
		log.WithFields(log.Fields{"session": id, "swings": state.SwingCount}).Info("resuming session")
		results = append(results, playRound(ctx, bot, client, state, maxShots))
	}

	for i := 0; i < cmd.Int("rounds"); i++ {
		info, err := client.CreateSession(ctx, course)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"session": info.ID, "course": info.CourseName, "round": i + 1}).Info("session created")
		results = append(results, playRound(ctx, bot, client, info.GameState, maxShots))
	}

	printSummary(results)

	// the leaderboard is keyed by course ID, which only the flag names
	if course != "" {
		rounds, err := client.Leaderboard(ctx, course, 5)
		var apiErr *APIError
		switch {
		case errors.As(err, &apiErr):
			log.WithError(err).Warn("leaderboard unavailable")
		case err != nil:
			return err
		default:
			fmt.Printf("\nLeaderboard (%s):\n", course)
			for _, r := range rounds {
				fmt.Printf("  %-4s %d swings, session %s, %s\n", r.Rank, r.Swings, r.SessionID, r.PlayedAgo)
			}
		}
	}
	return nil
}

type roundResult struct {
	SessionID string
	Swings    int
	Won       bool
	Elapsed   time.Duration
	Err       error
}

func playRound(ctx context.Context, bot *Greedy, client *Client, state *engine.GameState, maxShots int) roundResult {
	start := time.Now()
	final, err := bot.PlayRound(ctx, state, maxShots)

	res := roundResult{SessionID: client.SessionID(), Elapsed: time.Since(start), Err: err}
	if final != nil {
		res.Swings = final.SwingCount
		res.Won = final.Won
	}

	fields := log.Fields{"session": res.SessionID, "swings": res.Swings}
	if err != nil {
		log.WithFields(fields).WithError(err).Warn("round abandoned")
	} else {
		log.WithFields(fields).Info("holed")
	}
	return res
}

func printSummary(results []roundResult) {
	won, total, best := 0, 0, 0
	for _, r := range results {
		if !r.Won {
			continue
		}
		won++
		total += r.Swings
		if best == 0 || r.Swings < best {
			best = r.Swings
		}
	}

	fmt.Printf("\nRounds: %d played, %d holed\n", len(results), won)
	if won > 0 {
		fmt.Printf("Best: %d swings, average: %.1f swings\n", best, float64(total)/float64(won))
	}
	for i, r := range results {
		status := fmt.Sprintf("%s in %d swings", humanize.Ordinal(i+1), r.Swings)
		if !r.Won {
			status = fmt.Sprintf("%s abandoned after %d swings", humanize.Ordinal(i+1), r.Swings)
		}
		fmt.Printf("  %s (session %s, %s)\n", status, r.SessionID, r.Elapsed.Round(time.Millisecond))
	}
}
