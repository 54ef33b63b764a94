package specrun

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidVersion(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"master", true},
		{"7.4", true},
		{"7.4.33", true},
		{"8.3snapshot", true},
		{"8.3.1snapshot", true},
		{"8.x", true},
		{"7.4.x", true},
		{"7.4rc", false},
		{"0.1", false},
		{"7", false},
		{"v7.4", false},
		{"", false},
	}
	for _, tc := range tests {
		t.Run(tc.version, func(t *testing.T) {
			require.Equal(t, tc.valid, ValidVersion(tc.version))
		})
	}
}

func TestResolveInterpreterExplicit(t *testing.T) {
	dir := t.TempDir()

	php, err := ResolveInterpreter(dir, "", "")
	require.NoError(t, err)
	require.Empty(t, php)

	explicit := filepath.Join(dir, "php")
	_, err = ResolveInterpreter(dir, "", explicit)
	require.ErrorIs(t, err, ErrInterpreterNotExec)

	writeExecutable(t, explicit)
	php, err = ResolveInterpreter(dir, "", explicit)
	require.NoError(t, err)
	require.Equal(t, explicit, php)
}

func TestResolveInterpreterVersionFileWins(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix layout")
	}
	dir := t.TempDir()
	root := filepath.Join(dir, "versions")
	pinned := filepath.Join(root, "8.2", "bin", "php")
	writeExecutable(t, pinned)
	explicit := filepath.Join(dir, "php")
	writeExecutable(t, explicit)
	writeFile(t, filepath.Join(dir, VersionFileName), "8.2\n")

	php, err := ResolveInterpreter(dir, root, explicit)
	require.NoError(t, err)
	require.Equal(t, pinned, php)
}

func TestResolveToolExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("posix layout")
	}
	dir := t.TempDir()
	binDir := filepath.Join(dir, "bin")
	onPath := filepath.Join(binDir, "phpspec")
	writeExecutable(t, onPath)
	t.Setenv("PATH", binDir)

	got, err := ResolveToolExecutable(dir, true)
	require.NoError(t, err)
	require.Equal(t, onPath, got)

	bundled := filepath.Join(dir, "vendor", "bin", "phpspec")
	writeExecutable(t, bundled)

	got, err = ResolveToolExecutable(dir, true)
	require.NoError(t, err)
	require.Equal(t, bundled, got)

	got, err = ResolveToolExecutable(dir, false)
	require.NoError(t, err)
	require.Equal(t, onPath, got)

	t.Setenv("PATH", t.TempDir())
	_, err = ResolveToolExecutable(t.TempDir(), true)
	require.ErrorIs(t, err, ErrToolNotFound)
	require.EqualError(t, err, "phpspec not found")
}

func TestResolveWrapperExecutable(t *testing.T) {
	dir := t.TempDir()

	got, err := ResolveWrapperExecutable(dir, false)
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = ResolveWrapperExecutable(dir, true)
	require.ErrorIs(t, err, ErrWrapperNotExecutable)

	writeExecutable(t, filepath.Join(dir, "winry"))
	got, err = ResolveWrapperExecutable(dir, true)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "winry"), got)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPECRUN_TEST_ROOT", "/opt/php")

	require.Equal(t, filepath.Join(home, "versions"), filepath.Clean(ExpandPath("~/versions")))
	require.Equal(t, "/opt/php/8.2", ExpandPath("$SPECRUN_TEST_ROOT/8.2"))
	require.Equal(t, "/usr/bin/php", ExpandPath("/usr/bin/php"))
}

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
}
