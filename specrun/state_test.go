package specrun

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "abc.yml")

	s, err := LoadState(path)
	require.NoError(t, err)
	require.Nil(t, s.LastRun)
	require.Equal(t, filepath.Join(filepath.Dir(path), "abc.log"), s.OutputPath())

	s.LastRun = &LastRun{
		WorkingDir: "/p",
		File:       "/p/spec/FooSpec.php",
		Options:    NewOptions("verbose", true),
		LineNumber: 12,
	}
	require.NoError(t, s.ToggleOption("no-interaction"))
	require.NoError(t, s.SetPID(4242))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	require.Equal(t, 4242, loaded.RunningPID())
	require.Equal(t, []string{"no-interaction"}, loaded.Options.Keys())

	req := loaded.LastRun.Request()
	require.Equal(t, "/p", req.WorkingDir)
	require.Equal(t, "/p/spec/FooSpec.php", req.File)
	require.Equal(t, 12, req.LineNumber)
	require.False(t, req.Directory)
	require.Equal(t, []string{"verbose"}, req.Options.Keys())
}

func TestStatePathPerWorkspace(t *testing.T) {
	a, err := StatePath([]string{"/p/one"})
	require.NoError(t, err)
	b, err := StatePath([]string{"/p/two"})
	require.NoError(t, err)
	again, err := StatePath([]string{"/p/one"})
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.Equal(t, a, again)
	require.Equal(t, ".yml", filepath.Ext(a))
}

func TestStateWithoutPathIsNotSaved(t *testing.T) {
	s := &State{}
	require.NoError(t, s.ToggleOption("verbose"))
	require.Empty(t, s.Path())
}
