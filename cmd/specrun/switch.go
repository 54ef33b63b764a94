package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/arjunmahishi/specrun/specrun"
	"github.com/urfave/cli/v3"
)

func switchCommand() *cli.Command {
	return &cli.Command{
		Name:  "switch",
		Usage: "print the file paired with the current one",
		Description: "Resolves the spec of the current class, or the class of the current spec.\n" +
			"The target is printed as file[:line[:column]] for the editor to open.\n\n" +
			"Examples:\n" +
			"  specrun switch -f src/Foo.php\n" +
			"  specrun switch -f spec/FooSpec.php --line 12 --column 20 --json",
		Flags: workspaceFlags(
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the target as JSON",
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			target, err := s.Jump()
			if errors.Is(err, specrun.ErrSelectionCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				return writeJSON(target, false)
			}
			fmt.Println(target.Encoded())
			return nil
		},
	}
}
