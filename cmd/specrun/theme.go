package main

import (
	"context"
	"fmt"

	"github.com/arjunmahishi/specrun/specrun"
	"github.com/urfave/cli/v3"
)

func themeCommand() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "add result styles to a tmTheme color scheme",
		ArgsUsage: "[scheme]",
		Description: "Writes a patched copy of the scheme to the cache directory and prints\n" +
			"the path to use. Schemes that already style results are printed unchanged.\n" +
			"Without an argument the color_scheme setting is used.",
		Flags: workspaceFlags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			scheme := cmd.Args().First()
			if scheme == "" {
				scheme = s.Settings.String(specrun.KeyColorScheme)
			}
			if scheme == "" {
				return cli.Exit("no color scheme given", 1)
			}
			cacheDir, err := specrun.StateDir()
			if err != nil {
				return err
			}
			path, err := specrun.WriteColorScheme(absPath(scheme), cacheDir)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
