package specrun

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LastRun records the parameters of the most recent run.
type LastRun struct {
	WorkingDir string  `yaml:"working_dir"`
	File       string  `yaml:"file,omitempty"`
	Options    Options `yaml:"options,omitempty"`
	LineNumber int     `yaml:"line_number,omitempty"`
	Directory  bool    `yaml:"directory,omitempty"`
}

// Request turns the record back into a run request.
func (l LastRun) Request() RunRequest {
	return RunRequest{
		WorkingDir: l.WorkingDir,
		File:       l.File,
		Options:    l.Options.Clone(),
		LineNumber: l.LineNumber,
		Directory:  l.Directory,
	}
}

// State is the persisted per-workspace state: the last run, option toggles
// and the running process.
type State struct {
	path string

	LastRun *LastRun `yaml:"last_run,omitempty"`
	Options Options  `yaml:"options,omitempty"`
	PID     int      `yaml:"pid,omitempty"`
	Output  string   `yaml:"output,omitempty"`
}

// StateDir is where state files live.
func StateDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "specrun"), nil
}

// StatePath returns the state file for a workspace, keyed by its folders.
func StatePath(folders []string) (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	sum := sha1.Sum([]byte(strings.Join(folders, "\x00")))
	return filepath.Join(dir, hex.EncodeToString(sum[:8])+".yml"), nil
}

// LoadState reads the state file at path. A missing file yields empty state.
func LoadState(path string) (*State, error) {
	s := &State{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	return s, nil
}

// Path is the file the state is saved to.
func (s *State) Path() string {
	return s.path
}

// OutputPath is the log file the output of runs is captured in.
func (s *State) OutputPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".log"
}

// Save writes the state file.
func (s *State) Save() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// SetPID records the running process. It satisfies PIDStore.
func (s *State) SetPID(pid int) error {
	s.PID = pid
	return s.Save()
}

// RunningPID returns the pid recorded by SetPID, 0 if none.
func (s *State) RunningPID() int {
	return s.PID
}

// ToggleOption flips a window option and saves.
func (s *State) ToggleOption(name string) error {
	s.Options.Toggle(name)
	return s.Save()
}
