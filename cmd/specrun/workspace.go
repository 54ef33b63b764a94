package main

import (
	"os"
	"path/filepath"

	"github.com/arjunmahishi/specrun/specrun"
	"github.com/urfave/cli/v3"
)

func workspaceFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "file open in the editor",
		},
		&cli.StringSliceFlag{
			Name:  "folder",
			Usage: "workspace folder, repeatable (defaults to the current directory)",
		},
		&cli.IntFlag{
			Name:  "line",
			Value: 1,
			Usage: "cursor line, 1-based",
		},
		&cli.IntFlag{
			Name:  "column",
			Value: 1,
			Usage: "cursor column, 1-based",
		},
		&cli.StringSliceFlag{
			Name:  "open",
			Usage: "file open in another editor view, repeatable",
		},
		&cli.StringSliceFlag{
			Name:    "option",
			Aliases: []string{"o"},
			Usage:   "phpspec option as key or key=value, repeatable",
		},
		&cli.StringSliceFlag{
			Name:  "filter",
			Usage: "only run examples with this name, repeatable",
		},
		&cli.IntFlag{
			Name:  "choose",
			Usage: "pick the nth candidate file instead of prompting",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "log resolution steps to stderr",
		},
	}
	return append(flags, extra...)
}

func workspaceFrom(cmd *cli.Command) (specrun.Workspace, error) {
	ws := specrun.Workspace{
		File:   absPath(cmd.String("file")),
		Cursor: specrun.Position{Line: cmd.Int("line"), Column: cmd.Int("column")},
	}
	for _, f := range cmd.StringSlice("folder") {
		ws.Folders = append(ws.Folders, absPath(f))
	}
	if len(ws.Folders) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return ws, err
		}
		ws.Folders = []string{wd}
	}
	for _, f := range cmd.StringSlice("open") {
		ws.OpenFiles = append(ws.OpenFiles, absPath(f))
	}
	return ws, nil
}

// session is a Runner wired to the terminal.
type session struct {
	*specrun.Runner
	out *specrun.Highlighter
}

func newSession(cmd *cli.Command) (*session, error) {
	ws, err := workspaceFrom(cmd)
	if err != nil {
		return nil, err
	}

	settings, err := specrun.LoadSettings(ws.File, ws.Folders)
	if err != nil {
		return nil, err
	}
	specrun.SetLogger(specrun.NewLogger(os.Stderr, cmd.Bool("debug") || settings.Bool(specrun.KeyDebug)))

	statePath, err := specrun.StatePath(ws.Folders)
	if err != nil {
		return nil, err
	}
	state, err := specrun.LoadState(statePath)
	if err != nil {
		return nil, err
	}

	var opts specrun.Options
	for _, o := range cmd.StringSlice("option") {
		opts.ParseOption(o)
	}
	if names := cmd.StringSlice("filter"); len(names) > 0 {
		opts.Set("filter", specrun.FilterPattern(names))
	}

	var chooser specrun.Chooser = specrun.PromptChooser{In: os.Stdin, Out: os.Stderr}
	if n := cmd.Int("choose"); n > 0 {
		chooser = specrun.FixedChooser(n - 1)
	}

	out := specrun.NewHighlighter(os.Stdout, specrun.ColorEnabled(os.Stdout))
	return &session{
		Runner: &specrun.Runner{
			Workspace: ws,
			Settings:  settings,
			State:     state,
			Options:   opts,
			Chooser:   chooser,
			Process:   &specrun.ExecRunner{Stdout: out, PIDs: state},
		},
		out: out,
	}, nil
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(specrun.ExpandPath(p)); err == nil {
		return abs
	}
	return p
}
