package specrun

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// defaultIgnoreDirs returns the default list of directories to ignore.
// vendor is skipped so composer dependencies do not shadow project classes.
func defaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":         {},
		".hg":          {},
		".svn":         {},
		".jj":          {},
		".idea":        {},
		"node_modules": {},
		"vendor":       {},
		"var":          {},
		"build":        {},
		".cache":       {},
		"coverage":     {},
	}
}

// scannerConfig holds scanner configuration.
type scannerConfig struct {
	roots      []string
	language   Language
	ignoreDirs map[string]struct{}
	maxBytes   int64
}

// scanner discovers files for processing.
type scanner struct {
	cfg scannerConfig
}

// newScanner creates a new scanner with the given configuration.
func newScanner(cfg scannerConfig) *scanner {
	if cfg.ignoreDirs == nil {
		cfg.ignoreDirs = defaultIgnoreDirs()
	}
	return &scanner{cfg: cfg}
}

// collect finds all matching files under every root. A file reachable from
// two roots is returned once.
func (s *scanner) collect() ([]FileJob, error) {
	seen := make(map[string]struct{})
	var jobs []FileJob
	for _, root := range s.cfg.roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve root: %w", err)
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				if s.shouldIgnoreDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !s.isSupportedFile(d.Name()) {
				return nil
			}
			if _, ok := seen[path]; ok {
				return nil
			}

			if s.cfg.maxBytes > 0 {
				info, err := d.Info()
				if err != nil {
					// Skip files we can't stat
					return nil
				}
				if info.Size() > s.cfg.maxBytes {
					return nil
				}
			}

			rel, err := filepath.Rel(absRoot, path)
			if err != nil {
				rel = path
			}

			seen[path] = struct{}{}
			jobs = append(jobs, FileJob{
				AbsPath:     path,
				DisplayPath: filepath.ToSlash(rel),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return jobs, nil
}

// watchDirs returns root and every directory below it that is not ignored.
func (s *scanner) watchDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && s.shouldIgnoreDir(d.Name()) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

func (s *scanner) shouldIgnoreDir(name string) bool {
	_, ok := s.cfg.ignoreDirs[name]
	return ok
}

func (s *scanner) isSupportedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range s.cfg.language.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}
