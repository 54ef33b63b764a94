package specrun

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Setting keys.
const (
	KeyPHPVersionsPath = "php_versions_path"
	KeyPHPExecutable   = "php_executable"
	KeyComposer        = "composer"
	KeyWinry           = "winry"
	KeySaveAllOnRun    = "save_all_on_run"
	KeySuffix          = "suffix"
	KeyDebug           = "debug"
	KeyOptions         = "options"
	KeyColorScheme     = "color_scheme"
)

// ProjectSettingsFile is the per-project settings file, looked up from the
// current file like the phpspec configuration.
const ProjectSettingsFile = ".specrun.yml"

// Source is one layer of settings.
type Source interface {
	Lookup(key string) (any, bool)
}

// MapSource is a Source over plain values.
type MapSource map[string]any

func (m MapSource) Lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// DefaultSettings are used when no other layer sets a key.
func DefaultSettings() MapSource {
	return MapSource{
		KeyComposer: true,
	}
}

// FileSource is a Source read from a YAML file. Mappings decode to Options
// so option order survives.
type FileSource struct {
	Path   string
	values map[string]any
}

// LoadFileSource reads a YAML settings file. A missing file is an empty
// source.
func LoadFileSource(path string) (*FileSource, error) {
	src := &FileSource{Path: path, values: map[string]any{}}
	if path == "" {
		return src, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return src, nil
	}
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return src, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: expected a mapping", path)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, node := root.Content[i].Value, root.Content[i+1]
		var value any
		if node.Kind == yaml.MappingNode {
			var opts Options
			if err := node.Decode(&opts); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			value = opts
		} else {
			value, err = decodeOptionValue(node)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %s: %w", path, key, err)
			}
		}
		src.values[key] = value
	}
	return src, nil
}

func (f *FileSource) Lookup(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Settings resolves keys against an ordered list of sources; the first
// source holding a key wins.
type Settings struct {
	sources []Source
}

// NewSettings layers sources, highest precedence first.
func NewSettings(sources ...Source) *Settings {
	return &Settings{sources: sources}
}

// Resolve returns the value from the first source that has key.
func (s *Settings) Resolve(key string) (any, bool) {
	for _, src := range s.sources {
		if src == nil {
			continue
		}
		if v, ok := src.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// String returns key as a string, "" when unset.
func (s *Settings) String(key string) string {
	v, ok := s.Resolve(key)
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Bool returns key as a boolean, false when unset.
func (s *Settings) Bool(key string) bool {
	v, _ := s.Resolve(key)
	return truthy(v)
}

// Options returns key as Options, empty when unset or not a mapping.
func (s *Settings) Options(key string) Options {
	v, _ := s.Resolve(key)
	if opts, ok := v.(Options); ok {
		return opts
	}
	return Options{}
}

// LoadSettings layers the project settings file nearest to file (view scope)
// over the user settings file (window scope) and the defaults.
func LoadSettings(file string, folders []string) (*Settings, error) {
	project, err := LoadFileSource(findInAncestors(file, folders, []string{ProjectSettingsFile}))
	if err != nil {
		return nil, err
	}
	userPath, err := UserSettingsPath()
	if err != nil {
		logger.Warn("user settings unavailable", "error", err)
	}
	user, err := LoadFileSource(userPath)
	if err != nil {
		return nil, err
	}
	return NewSettings(project, user, DefaultSettings()), nil
}

// UserSettingsPath is the user-wide settings file.
func UserSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "specrun", "config.yml"), nil
}
