package main

import (
	"context"

	"github.com/arjunmahishi/specrun/specrun"
	"github.com/urfave/cli/v3"
)

type configReport struct {
	ConfigurationFile string          `json:"configuration_file,omitempty"`
	WorkingDir        string          `json:"working_dir"`
	Process           specrun.Process `json:"process"`
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "print the resolved configuration and the command a run would use",
		Flags: workspaceFlags(
			&cli.BoolFlag{
				Name:  "suite",
				Usage: "prepare a suite run instead of a run of --file",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "minimize output",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			req := specrun.RunRequest{}
			if !cmd.Bool("suite") {
				req.File = s.Workspace.File
			}
			proc, _, err := s.Prepare(req)
			if err != nil {
				return err
			}
			return writeJSON(configReport{
				ConfigurationFile: specrun.FindConfigurationFile(s.Workspace.File, s.Workspace.Folders),
				WorkingDir:        proc.WorkingDir,
				Process:           proc,
			}, cmd.Bool("compact"))
		},
	}
}
