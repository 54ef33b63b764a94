package main

import (
	"bytes"
	"context"

	"github.com/arjunmahishi/specrun/specrun"
	"github.com/urfave/cli/v3"
)

func runCommand(name, usage string, run func(*specrun.Runner, context.Context) error) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: workspaceFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.out.Flush()
			return run(s.Runner, ctx)
		},
	}
}

func resultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "show the output of the last run",
		Flags: workspaceFlags(
			&cli.BoolFlag{
				Name:  "locations",
				Usage: "print the file locations in the output as JSON",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if !cmd.Bool("locations") {
				defer s.out.Flush()
				return s.ShowResults(s.out)
			}

			var buf bytes.Buffer
			if err := s.ShowResults(&buf); err != nil {
				return err
			}
			return writeJSON(specrun.ParseOutputLocations(buf.String(), specrun.FileRegex("")), false)
		},
	}
}

func cancelCommand() *cli.Command {
	return &cli.Command{
		Name:  "cancel",
		Usage: "stop the running specs",
		Flags: workspaceFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return s.Cancel()
		},
	}
}

func toggleCommand() *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "flip a phpspec option for every following run",
		ArgsUsage: "<option>",
		Flags:     workspaceFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return cli.Exit("option name is required", 1)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.ToggleOption(name); err != nil {
				return err
			}
			v, _ := s.State.Options.Get(name)
			return writeJSON(map[string]any{"option": name, "value": v}, true)
		},
	}
}
