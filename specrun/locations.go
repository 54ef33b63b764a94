package specrun

import (
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

const (
	posixFileRegex   = `(\/[a-zA-Z0-9 \.\/_-]+)(?: on line |\:)([0-9]+)`
	windowsFileRegex = `((?:[a-zA-Z]\:)?\\[a-zA-Z0-9 \.\/\\_-]+)(?: on line |\:)([0-9]+)`
)

// FileRegex returns the pattern mapping runner output to file and line for
// the given GOOS. An empty goos means the current platform.
func FileRegex(goos string) string {
	if goos == "" {
		goos = runtime.GOOS
	}
	if goos == "windows" {
		return windowsFileRegex
	}
	return posixFileRegex
}

// OutputLocation is a file reference found in runner output.
type OutputLocation struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// ParseOutputLocations returns every file:line reference in output, in
// order of appearance.
func ParseOutputLocations(output, pattern string) []OutputLocation {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}
	var locations []OutputLocation
	for _, m := range re.FindAllStringSubmatch(output, -1) {
		line, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		locations = append(locations, OutputLocation{File: m[1], Line: line})
	}
	return locations
}

// FilterPattern builds a --filter pattern matching any of the given example
// names, with or without a data set suffix.
func FilterPattern(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return "::(" + strings.Join(sorted, "|") + ")( with data set .+)?$"
}
