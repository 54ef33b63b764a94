package specrun

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pidStore is a PIDStore safe for use across goroutines.
type pidStore struct {
	mu   sync.Mutex
	pid  int
	seen []int
}

func (s *pidStore) SetPID(pid int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pid = pid
	s.seen = append(s.seen, pid)
	return nil
}

func (s *pidStore) RunningPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pid
}

func TestExecRunnerRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "last.log")

	var out bytes.Buffer
	pids := &pidStore{}
	r := &ExecRunner{Stdout: &out, PIDs: pids}

	err := r.Run(context.Background(), Process{
		Command:    []string{"sh", "-c", `echo "$GREETING from $(pwd)"; echo oops >&2`},
		Env:        map[string]string{"GREETING": "hello"},
		WorkingDir: dir,
		Output:     logPath,
	})
	require.NoError(t, err)

	want := "hello from " + dir + "\noops\n"
	require.Equal(t, want, out.String())
	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Equal(t, want, string(logged))

	require.Zero(t, pids.RunningPID())
	require.Len(t, pids.seen, 2)
	require.NotZero(t, pids.seen[0])
}

func TestExecRunnerExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	r := &ExecRunner{}
	err := r.Run(context.Background(), Process{Command: []string{"sh", "-c", "exit 3"}})
	require.Error(t, err)

	require.Error(t, r.Run(context.Background(), Process{}))
}

func TestExecRunnerKill(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sleep")
	}
	pids := &pidStore{}
	r := &ExecRunner{PIDs: pids, KillTimeout: time.Second}

	require.NoError(t, r.Kill(), "nothing to kill")

	done := make(chan error, 1)
	go func() {
		done <- r.Run(context.Background(), Process{Command: []string{"sleep", "30"}})
	}()
	require.Eventually(t, func() bool { return pids.RunningPID() != 0 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, r.Kill())
	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("process survived kill")
	}
	require.Zero(t, pids.RunningPID())
}

func TestEnvList(t *testing.T) {
	require.Equal(t, []string{"A=1", "PATH=/x"}, envList(map[string]string{"PATH": "/x", "A": "1"}))
}
