package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/urfave/cli/v3"
)

//go:embed specrun.yml.example
var defaultsText string

func defaultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "defaults",
		Usage: "print an annotated settings file",
		Description: "Print every setting with its default value.\n" +
			"Save it as .specrun.yml in a project, or as the user settings file.\n\n" +
			"Examples:\n" +
			"  specrun defaults                 # print settings\n" +
			"  specrun defaults > .specrun.yml  # start a project file",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Print(defaultsText)
			return nil
		},
	}
}
