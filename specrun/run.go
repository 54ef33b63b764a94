package specrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Workspace is the editor context a command runs in.
type Workspace struct {
	Folders   []string
	File      string
	Cursor    Position
	OpenFiles []string
}

// Saver writes unsaved editor buffers before a run.
type Saver interface {
	SaveAll() error
}

// Chooser asks the user to pick one of labels. It returns -1 when the user
// declines.
type Chooser interface {
	Choose(labels []string) (int, error)
}

// Runner carries out the run commands.
type Runner struct {
	Workspace Workspace
	Settings  *Settings
	State     *State
	Process   ProcessRunner

	// Options are call-site options added to every request.
	Options Options

	// Index is built from Workspace.Folders on first use when nil.
	Index   SymbolIndex
	Chooser Chooser
	Saver   Saver
}

// Prepare resolves everything a run needs without side effects.
func (r *Runner) Prepare(req RunRequest) (Process, LastRun, error) {
	workingDir := req.WorkingDir
	if workingDir == "" {
		workingDir = FindWorkingDirectory(r.Workspace.File, r.Workspace.Folders)
		if workingDir == "" {
			return Process{}, LastRun{}, newError(ErrConfigurationNotFound, "working directory not found")
		}
	}
	if abs, err := filepath.Abs(workingDir); err == nil {
		workingDir = abs
	}
	if !isDir(workingDir) {
		return Process{}, LastRun{}, newError(ErrWorkingDirectoryInvalid,
			"working directory does not exist or is not a valid directory")
	}
	logger.Debug("working dir", "path", workingDir)

	env := map[string]string{}
	var cmd []string

	wrapper, err := ResolveWrapperExecutable(workingDir, r.Settings.Bool(KeyWinry))
	if err != nil {
		return Process{}, LastRun{}, err
	}
	if wrapper != "" {
		cmd = append(cmd, wrapper, toolName)
	} else {
		php, err := ResolveInterpreter(workingDir,
			r.Settings.String(KeyPHPVersionsPath), r.Settings.String(KeyPHPExecutable))
		if err != nil {
			return Process{}, LastRun{}, err
		}
		if php != "" {
			env["PATH"] = filepath.Dir(php) + string(os.PathListSeparator) + os.Getenv("PATH")
			logger.Debug("php executable", "path", php)
		}

		phpspec, err := ResolveToolExecutable(workingDir, r.Settings.Bool(KeyComposer))
		if err != nil {
			return Process{}, LastRun{}, err
		}
		cmd = append(cmd, phpspec)
	}

	call := MergeOptions(req.Options, r.Options, Options{})
	opts := MergeOptions(call, r.State.Options, r.Settings.Options(KeyOptions))
	cmd = append(cmd, "run")
	cmd = BuildCommand(opts, cmd)

	if req.File != "" {
		if abs, err := filepath.Abs(req.File); err == nil {
			req.File = abs
		}
		if !isFile(req.File) {
			return Process{}, LastRun{}, newError(ErrTestFileNotFound, "test file '%s' not found", req.File)
		}
		rel, err := filepath.Rel(workingDir, req.File)
		if err != nil {
			return Process{}, LastRun{}, fmt.Errorf("relative test file: %w", err)
		}
		switch {
		case req.LineNumber > 0:
			rel += ":" + strconv.Itoa(req.LineNumber)
		case req.Directory:
			rel = filepath.Dir(rel)
		}
		cmd = append(cmd, rel)
	}

	if suffix := r.Settings.String(KeySuffix); suffix != "" {
		cmd = append(cmd, suffix)
	}

	for _, name := range ConfigFileNames {
		if isFile(filepath.Join(workingDir, name)) {
			cmd = append(cmd, "--config="+name)
			break
		}
	}
	logger.Debug("prepared command", "cmd", cmd, "env", env)

	proc := Process{
		Command:    cmd,
		Env:        env,
		WorkingDir: workingDir,
		FileRegex:  FileRegex(""),
	}
	record := LastRun{
		WorkingDir: workingDir,
		File:       req.File,
		Options:    opts,
		LineNumber: req.LineNumber,
		Directory:  req.Directory,
	}
	return proc, record, nil
}

// Run stops any previous run, prepares req and runs it. Nothing is started
// or persisted when preparation fails.
func (r *Runner) Run(ctx context.Context, req RunRequest) error {
	if err := r.Process.Kill(); err != nil {
		return fmt.Errorf("kill previous run: %w", err)
	}

	proc, record, err := r.Prepare(req)
	if err != nil {
		return err
	}

	if r.Saver != nil && r.Settings.Bool(KeySaveAllOnRun) {
		if err := r.Saver.SaveAll(); err != nil {
			return fmt.Errorf("save all: %w", err)
		}
	}

	r.State.LastRun = &record
	if r.State.Path() != "" {
		r.State.Output = r.State.OutputPath()
		proc.Output = r.State.Output
	}
	if err := r.State.Save(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	return r.Process.Run(ctx, proc)
}

// RunSuite runs every spec of the project.
func (r *Runner) RunSuite(ctx context.Context) error {
	return r.Run(ctx, RunRequest{})
}

// RunSpec runs the current file, or its spec when it is not one.
func (r *Runner) RunSpec(ctx context.Context) error {
	return r.runCurrent(ctx, func(doc *Document) RunRequest {
		return RunRequest{File: doc.Path}
	}, false)
}

// RunDirectory runs the directory of the current spec, or of the spec of
// the current class.
func (r *Runner) RunDirectory(ctx context.Context) error {
	return r.runCurrent(ctx, func(doc *Document) RunRequest {
		return RunRequest{File: doc.Path, Directory: true}
	}, true)
}

// RunHere runs the example under the cursor, the whole spec when the cursor
// is outside every example, or the spec of the current class.
func (r *Runner) RunHere(ctx context.Context) error {
	return r.runCurrent(ctx, func(doc *Document) RunRequest {
		line := LineNumberAt(doc, r.Workspace.Cursor)
		logger.Debug("line number", "line", line)
		return RunRequest{File: doc.Path, LineNumber: line}
	}, false)
}

func (r *Runner) runCurrent(ctx context.Context, spec func(*Document) RunRequest, directory bool) error {
	if r.Workspace.File == "" {
		return newError(ErrTestFileNotFound, "not a test file")
	}
	doc, err := OpenDocument(r.Workspace.File)
	if err != nil {
		return err
	}
	if HasTestDeclaration(ExtractClasses(doc)) {
		return r.Run(ctx, spec(doc))
	}

	target, err := r.Switch(doc)
	if errors.Is(err, ErrSelectionCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	return r.Run(ctx, RunRequest{File: target.File, Directory: directory})
}

// Switch resolves the file paired with doc, asking the Chooser when more
// than one candidate remains.
func (r *Runner) Switch(doc *Document) (Location, error) {
	index, err := r.index()
	if err != nil {
		return Location{}, err
	}
	res, err := ResolveSwitch(ExtractClasses(doc), index, doc.Path)
	if err != nil {
		return Location{}, err
	}
	if res.Exact {
		return res.Location()
	}
	if r.Chooser == nil {
		return Location{}, newError(ErrAmbiguousPairedFile, "%d candidate files", len(res.Candidates))
	}
	choice, err := r.Chooser.Choose(res.Labels())
	if err != nil {
		return Location{}, err
	}
	return res.Confirm(choice)
}

// Jump resolves where the editor should go from the current file.
func (r *Runner) Jump() (JumpTarget, error) {
	if r.Workspace.File == "" {
		return JumpTarget{}, newError(ErrTestFileNotFound, "no current file")
	}
	doc, err := OpenDocument(r.Workspace.File)
	if err != nil {
		return JumpTarget{}, err
	}
	target, err := r.Switch(doc)
	if err != nil {
		return JumpTarget{}, err
	}
	index, err := r.index()
	if err != nil {
		return JumpTarget{}, err
	}
	word := doc.Substr(doc.WordAt(r.Workspace.Cursor))
	return ChooseJumpTarget(target, r.Workspace.OpenFiles, word, index), nil
}

func (r *Runner) index() (SymbolIndex, error) {
	if r.Index != nil {
		return r.Index, nil
	}
	idx, err := BuildIndex(IndexOptions{Folders: r.Workspace.Folders})
	if err != nil {
		return nil, err
	}
	r.Index = idx
	return idx, nil
}

// RunPrevious repeats the last run.
func (r *Runner) RunPrevious(ctx context.Context) error {
	if r.State.LastRun == nil {
		return newError(ErrNoPreviousRun, "no tests were run so far")
	}
	logger.Debug("run last", "record", r.State.LastRun)
	return r.Run(ctx, r.State.LastRun.Request())
}

// ToggleOption flips a persisted option used by every following run.
func (r *Runner) ToggleOption(name string) error {
	return r.State.ToggleOption(name)
}

// Cancel stops the running process.
func (r *Runner) Cancel() error {
	return r.Process.Kill()
}

// ShowResults copies the captured output of the last run to w.
func (r *Runner) ShowResults(w io.Writer) error {
	if r.State.Output == "" {
		return newError(ErrNoPreviousRun, "no tests were run so far")
	}
	f, err := os.Open(r.State.Output)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
