package main

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/arjunmahishi/specrun/specrun"
	"github.com/urfave/cli/v3"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "repeat the last run whenever a PHP file changes",
		Flags: workspaceFlags(
			&cli.DurationFlag{
				Name:  "debounce",
				Value: 300 * time.Millisecond,
				Usage: "quiet period before a rerun",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.out.Flush()

			root := ""
			if s.State.LastRun != nil {
				root = s.State.LastRun.WorkingDir
			} else {
				root = specrun.FindWorkingDirectory(s.Workspace.File, s.Workspace.Folders)
			}
			if root == "" {
				return errors.New("no phpspec configuration to watch")
			}

			rerun := func() error {
				err := s.RunPrevious(ctx)
				if s.State.LastRun == nil {
					err = s.RunSuite(ctx)
				}
				var exitErr *exec.ExitError
				if errors.As(err, &exitErr) || errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			return specrun.Watch(ctx, root, cmd.Duration("debounce"), rerun)
		},
	}
}
