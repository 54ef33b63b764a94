package specrun

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsLayers(t *testing.T) {
	view := MapSource{KeySuffix: "--ansi"}
	window := MapSource{KeySuffix: "--no-ansi", KeyWinry: true, KeyComposer: false}
	s := NewSettings(view, nil, window, DefaultSettings())

	require.Equal(t, "--ansi", s.String(KeySuffix))
	require.True(t, s.Bool(KeyWinry))
	require.False(t, s.Bool(KeyComposer), "a set false is not overridden by defaults")
	require.Empty(t, s.String(KeyPHPExecutable))
	require.False(t, s.Bool(KeySaveAllOnRun))
	require.True(t, NewSettings(DefaultSettings()).Bool(KeyComposer))
	require.Zero(t, s.Options(KeyOptions).Len())
}

func TestLoadFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectSettingsFile)
	writeFile(t, path, `
php_executable: ~/bin/php
composer: false
suffix: null
options:
  verbose: true
  f: [a, b]
`)

	src, err := LoadFileSource(path)
	require.NoError(t, err)
	s := NewSettings(src, DefaultSettings())

	require.Equal(t, "~/bin/php", s.String(KeyPHPExecutable))
	require.False(t, s.Bool(KeyComposer))
	require.Empty(t, s.String(KeySuffix))

	opts := s.Options(KeyOptions)
	require.Equal(t, []string{"verbose", "f"}, opts.Keys())
	require.Equal(t, []string{"phpspec", "run", "--verbose", "-f", "a", "-f", "b"},
		BuildCommand(opts, []string{"phpspec", "run"}))

	missing, err := LoadFileSource(filepath.Join(dir, "missing.yml"))
	require.NoError(t, err)
	_, ok := missing.Lookup(KeyComposer)
	require.False(t, ok)

	writeFile(t, path, "- not\n- a mapping\n")
	_, err = LoadFileSource(path)
	require.Error(t, err)
}

func TestLoadSettingsProjectOverUser(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG_CONFIG_HOME")
	}
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	writeFile(t, filepath.Join(configHome, "specrun", "config.yml"), "suffix: --user\nwinry: true\n")

	project := t.TempDir()
	writeFile(t, filepath.Join(project, ProjectSettingsFile), "suffix: --project\n")

	s, err := LoadSettings(filepath.Join(project, "spec", "FooSpec.php"), []string{project})
	require.NoError(t, err)
	require.Equal(t, "--project", s.String(KeySuffix))
	require.True(t, s.Bool(KeyWinry))
	require.True(t, s.Bool(KeyComposer))
}
