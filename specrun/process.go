package specrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"syscall"
	"time"
)

// Process is a prepared phpspec invocation.
type Process struct {
	Command    []string          `json:"cmd"`
	Env        map[string]string `json:"env,omitempty"`
	WorkingDir string            `json:"working_dir"`
	FileRegex  string            `json:"file_regex"`

	// Output, when set, is a file the output is also written to.
	Output string `json:"output,omitempty"`
}

// ProcessRunner starts and stops test processes.
type ProcessRunner interface {
	// Run starts p and waits for it to finish.
	Run(ctx context.Context, p Process) error

	// Kill stops the running process, if any, and returns once it is gone.
	Kill() error
}

// PIDStore remembers the running process across invocations.
type PIDStore interface {
	SetPID(pid int) error
	RunningPID() int
}

// ExecRunner runs processes with os/exec. Stdout and stderr of the
// process both go to Stdout.
type ExecRunner struct {
	Stdout io.Writer
	PIDs   PIDStore

	// KillTimeout bounds the wait for an interrupted process before it is
	// killed. Defaults to two seconds.
	KillTimeout time.Duration
}

func (r *ExecRunner) Run(ctx context.Context, p Process) error {
	if len(p.Command) == 0 {
		return errors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, p.Command[0], p.Command[1:]...)
	cmd.Dir = p.WorkingDir
	cmd.Env = append(os.Environ(), envList(p.Env)...)

	out := r.Stdout
	if out == nil {
		out = io.Discard
	}
	if p.Output != "" {
		if err := os.MkdirAll(filepath.Dir(p.Output), 0o755); err != nil {
			return err
		}
		log, err := os.Create(p.Output)
		if err != nil {
			return err
		}
		defer log.Close()
		out = io.MultiWriter(out, log)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", p.Command[0], err)
	}
	if r.PIDs != nil {
		if err := r.PIDs.SetPID(cmd.Process.Pid); err != nil {
			logger.Warn("record pid", "error", err)
		}
	}
	logger.Debug("process started", "pid", cmd.Process.Pid, "cmd", p.Command)

	err := cmd.Wait()
	if r.PIDs != nil && r.PIDs.RunningPID() == cmd.Process.Pid {
		if err := r.PIDs.SetPID(0); err != nil {
			logger.Warn("clear pid", "error", err)
		}
	}
	return err
}

// Kill interrupts the recorded process and kills it if it outlives
// KillTimeout.
func (r *ExecRunner) Kill() error {
	if r.PIDs == nil {
		return nil
	}
	pid := r.PIDs.RunningPID()
	if pid == 0 {
		return nil
	}
	defer func() {
		if err := r.PIDs.SetPID(0); err != nil {
			logger.Warn("clear pid", "error", err)
		}
	}()

	proc, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	logger.Debug("killing previous run", "pid", pid)

	if runtime.GOOS == "windows" {
		return ignoreDone(proc.Kill())
	}
	if err := proc.Signal(os.Interrupt); err != nil {
		return ignoreDone(err)
	}

	timeout := r.KillTimeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !processAlive(proc) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return ignoreDone(proc.Kill())
}

// processAlive sends signal 0, which only checks that the process exists.
func processAlive(p *os.Process) bool {
	return p.Signal(syscall.Signal(0)) == nil
}

func ignoreDone(err error) error {
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}
