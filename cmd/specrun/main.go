package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"os/signal"

	"github.com/arjunmahishi/specrun/specrun"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "specrun",
		Usage: "run phpspec from the editor and switch between specs and classes",
		Commands: []*cli.Command{
			runCommand("suite", "run every spec of the project", (*specrun.Runner).RunSuite),
			runCommand("directory", "run the directory of the current spec (from a class, the directory of its spec)", (*specrun.Runner).RunDirectory),
			runCommand("spec", "run the current spec", (*specrun.Runner).RunSpec),
			runCommand("here", "run the example under the cursor", (*specrun.Runner).RunHere),
			runCommand("last", "repeat the last run", (*specrun.Runner).RunPrevious),
			resultsCommand(),
			cancelCommand(),
			toggleCommand(),
			switchCommand(),
			configCommand(),
			watchCommand(),
			themeCommand(),
			defaultsCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := app.Run(ctx, os.Args)
	stop()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		writeError(err)
		os.Exit(1)
	}
}

// JSON output helpers
func writeJSON(v any, compact bool) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeError(err error) {
	enc := json.NewEncoder(os.Stderr)
	out := map[string]string{
		"error": err.Error(),
	}
	var e *specrun.Error
	if errors.As(err, &e) {
		out["kind"] = e.Kind
	}
	enc.Encode(out)
}
