package specrun

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		// Create temp dir for this test file. The prefix must not contain
		// "spec" or "src", which the switch layout rules rewrite.
		tmpDir, err := os.MkdirTemp("", "harness-*")
		require.NoError(t, err)
		defer os.RemoveAll(tmpDir)

		h := &harness{dir: tmpDir, settings: MapSource{}}

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "file":
				return h.handleFile(t, d, 0o644)
			case "exec":
				return h.handleFile(t, d, 0o755)
			case "setting":
				return h.handleSetting(t, d)
			case "config":
				return h.handleConfig(t, d)
			case "classes":
				return h.handleClasses(t, d)
			case "line":
				return h.handleLine(t, d)
			case "switch":
				return h.handleSwitch(t, d)
			case "command":
				return h.handleCommand(t, d)
			default:
				t.Fatalf("unknown command: %s", d.Cmd)
				return ""
			}
		})
	})
}

type harness struct {
	dir      string
	settings MapSource
}

func (h *harness) abs(name string) string {
	return filepath.Join(h.dir, filepath.FromSlash(name))
}

// rel makes paths in output relative to the temp dir.
func (h *harness) rel(s string) string {
	return strings.ReplaceAll(s, h.dir+string(filepath.Separator), "")
}

// handleFile creates a file in the temp directory
func (h *harness) handleFile(t *testing.T, d *datadriven.TestData, mode os.FileMode) string {
	var name string
	d.ScanArgs(t, "name", &name)

	absPath := h.abs(name)
	require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0o755))
	require.NoError(t, os.WriteFile(absPath, []byte(d.Input), mode))
	require.NoError(t, os.Chmod(absPath, mode))
	return ""
}

// handleSetting sets a configuration key for following commands
func (h *harness) handleSetting(t *testing.T, d *datadriven.TestData) string {
	for _, arg := range d.CmdArgs {
		value := strings.Join(arg.Vals, ",")
		if b, err := strconv.ParseBool(value); err == nil {
			h.settings[arg.Key] = b
			continue
		}
		h.settings[arg.Key] = strings.ReplaceAll(value, "$TMP", h.dir)
	}
	return ""
}

// handleConfig runs FindConfigurationFile
func (h *harness) handleConfig(t *testing.T, d *datadriven.TestData) string {
	var file string
	d.ScanArgs(t, "file", &file)

	folders := []string{h.dir}
	for _, arg := range d.CmdArgs {
		if arg.Key == "folders" {
			folders = folders[:0]
			for _, f := range arg.Vals {
				folders = append(folders, h.abs(f))
			}
		}
	}

	found := FindConfigurationFile(h.abs(file), folders)
	if found == "" {
		return "(not found)"
	}
	return h.rel(found)
}

// handleClasses runs ExtractClasses
func (h *harness) handleClasses(t *testing.T, d *datadriven.TestData) string {
	doc := h.open(t, d)
	classes := ExtractClasses(doc)
	if len(classes) == 0 {
		return "(no classes)"
	}

	var lines []string
	for _, c := range classes {
		lines = append(lines, fmt.Sprintf("%s %s", c.Namespace, c.Class))
	}
	lines = append(lines, fmt.Sprintf("spec: %t", HasTestDeclaration(classes)))
	return strings.Join(lines, "\n")
}

// handleLine runs LineNumberAt
func (h *harness) handleLine(t *testing.T, d *datadriven.TestData) string {
	doc := h.open(t, d)

	var lines []string
	for _, arg := range d.CmdArgs {
		if arg.Key != "pos" {
			continue
		}
		for _, v := range arg.Vals {
			lines = append(lines, fmt.Sprintf("%s -> %d", v, LineNumberAt(doc, parsePosition(t, v))))
		}
	}
	return strings.Join(lines, "\n")
}

// handleSwitch resolves the paired file against an index of the temp dir
func (h *harness) handleSwitch(t *testing.T, d *datadriven.TestData) string {
	doc := h.open(t, d)

	index, err := BuildIndex(IndexOptions{Folders: []string{h.dir}, Jobs: 1})
	require.NoError(t, err)

	res, err := ResolveSwitch(ExtractClasses(doc), index, doc.Path)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}

	var lines []string
	if res.Exact {
		lines = append(lines, "exact")
	} else {
		lines = append(lines, "choose")
	}
	for i, l := range res.Candidates {
		lines = append(lines, fmt.Sprintf("%s %s", res.Labels()[i], h.rel(l.File)))
	}
	return strings.Join(lines, "\n")
}

// handleCommand prepares a run and prints the command line
func (h *harness) handleCommand(t *testing.T, d *datadriven.TestData) string {
	r := &Runner{
		Workspace: Workspace{Folders: []string{h.dir}},
		Settings:  NewSettings(h.settings, DefaultSettings()),
		State:     &State{},
	}

	var req RunRequest
	for _, arg := range d.CmdArgs {
		switch arg.Key {
		case "file":
			req.File = h.abs(arg.Vals[0])
		case "at":
			r.Workspace.File = h.abs(arg.Vals[0])
		case "line":
			d.ScanArgs(t, "line", &req.LineNumber)
		case "directory":
			req.Directory = true
		case "option":
			for _, v := range arg.Vals {
				req.Options.ParseOption(v)
			}
		case "toggle":
			for _, v := range arg.Vals {
				r.State.Options.Toggle(v)
			}
		}
	}
	if r.Workspace.File == "" {
		r.Workspace.File = req.File
	}

	proc, _, err := r.Prepare(req)
	if err != nil {
		return fmt.Sprintf("error: %s", h.rel(err.Error()))
	}

	cwd := h.rel(proc.WorkingDir + string(filepath.Separator))
	if cwd == "" {
		cwd = "."
	}
	lines := []string{
		"cwd: " + cwd,
		"cmd: " + h.rel(strings.Join(proc.Command, " ")),
	}
	if p, ok := proc.Env["PATH"]; ok {
		lines = append(lines, "path: "+h.rel(strings.SplitN(p, string(os.PathListSeparator), 2)[0]))
	}
	return strings.Join(lines, "\n")
}

func (h *harness) open(t *testing.T, d *datadriven.TestData) *Document {
	var file string
	d.ScanArgs(t, "file", &file)
	doc, err := OpenDocument(h.abs(file))
	require.NoError(t, err)
	return doc
}

func parsePosition(t *testing.T, s string) Position {
	t.Helper()
	line, col, ok := strings.Cut(s, ":")
	require.True(t, ok, "position %q", s)
	l, err := strconv.Atoi(line)
	require.NoError(t, err)
	c, err := strconv.Atoi(col)
	require.NoError(t, err)
	return Position{Line: l, Column: c}
}
