// Command analyze prints quick, human-readable heuristics about the course
// files in the configs directory: board size, terrain counts, start and hole
// placement, and the par reachable with clubs alone. The validate command
// checks a course across many seeds and fails when a board cannot be holed.
package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/hexgolf/game/engine"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("analyze failed")
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Inspect Hex Golf course files",
		ArgsUsage: "[course files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "course-dir",
				Value:   "configs",
				Usage:   "Directory scanned when no files are given",
				Sources: cli.EnvVars("COURSE_DIR"),
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "Board seed; 0 keeps the course seed",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files, err := courseFiles(cmd.String("course-dir"), cmd.Args().Slice())
			if err != nil {
				return err
			}

			for _, file := range files {
				fmt.Printf("\n=== Analyzing %s ===\n", file)
				course, err := engine.LoadCourseConfig(file)
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				report, err := Analyze(course, cmd.Int64("seed"))
				if err != nil {
					fmt.Printf("Error: %v\n", err)
					continue
				}
				printReport(os.Stdout, report)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Check course files across a range of seeds",
				ArgsUsage: "[course files...]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "seeds",
						Value: 20,
						Usage: "Number of boards generated per course",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					files, err := courseFiles(cmd.String("course-dir"), cmd.Args().Slice())
					if err != nil {
						return err
					}

					first := cmd.Int64("seed")
					if first == 0 {
						first = 1
					}

					failed := 0
					for _, file := range files {
						v := Validate(file, first, cmd.Int("seeds"))
						printValidation(os.Stdout, v)
						if !v.Valid {
							failed++
						}
					}

					fmt.Printf("\nSummary: %d/%d courses valid\n", len(files)-failed, len(files))
					if failed > 0 {
						return cli.Exit(fmt.Sprintf("%d course(s) failed validation", failed), 1)
					}
					return nil
				},
			},
		},
	}
}
