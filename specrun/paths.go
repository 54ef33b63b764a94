package specrun

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ConfigFileNames are the phpspec configuration files, in lookup order.
var ConfigFileNames = []string{"phpspec.yml", "phpspec.yml.dist"}

// FindConfigurationFile returns the phpspec configuration file nearest to
// file, searching the ancestors of file that lie within the common prefix of
// folders. It returns "" when the input is unusable or nothing is found.
func FindConfigurationFile(file string, folders []string) string {
	logger.Debug("find configuration", "file", file, "folders", folders)
	found := findInAncestors(file, folders, ConfigFileNames)
	if found == "" {
		logger.Debug("configuration not found", "file", file)
	}
	return found
}

// FindWorkingDirectory returns the directory holding the configuration file
// for file, or "".
func FindWorkingDirectory(file string, folders []string) string {
	configFile := FindConfigurationFile(file, folders)
	if configFile == "" {
		return ""
	}
	return filepath.Dir(configFile)
}

// findInAncestors walks up from the directory of file while the path keeps
// the common prefix of folders, then checks each directory for names.
//
// Ancestors are tried in descending lexical order. Every ancestor is a
// prefix of the directories below it, so for a single chain this is
// deepest-first.
func findInAncestors(file string, folders []string, names []string) string {
	if file == "" || len(folders) == 0 {
		return ""
	}
	for _, f := range folders {
		if f == "" {
			return ""
		}
	}

	prefix := commonPrefix(folders)
	seen := make(map[string]struct{})
	var ancestors []string
	parent := filepath.Dir(file)
	for {
		if _, ok := seen[parent]; ok || !strings.HasPrefix(parent, prefix) {
			break
		}
		seen[parent] = struct{}{}
		ancestors = append(ancestors, parent)
		parent = filepath.Dir(parent)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(ancestors)))
	logger.Debug("common ancestors", "prefix", prefix, "ancestors", ancestors)

	for _, dir := range ancestors {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if isFile(candidate) {
				logger.Debug("found file", "path", candidate)
				return candidate
			}
		}
	}
	return ""
}

// commonPrefix is the longest common string prefix, not path-aware.
func commonPrefix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	prefix := values[0]
	for _, v := range values[1:] {
		n := len(prefix)
		if len(v) < n {
			n = len(v)
		}
		i := 0
		for i < n && prefix[i] == v[i] {
			i++
		}
		prefix = prefix[:i]
	}
	return prefix
}

// commonDirPrefix is the common prefix of paths cut back to the last
// separator, so it never ends inside a path segment.
func commonDirPrefix(paths []string) string {
	prefix := commonPrefix(paths)
	i := strings.LastIndexAny(prefix, `/\`)
	if i < 0 {
		return ""
	}
	return prefix[:i+1]
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
