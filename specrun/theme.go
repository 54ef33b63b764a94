package specrun

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

//go:embed res/result-theme-partial.txt
var themePartial string

var plistTail = regexp.MustCompile(
	`</array>\s*((<!--\s*)?<key>.*</key>\s*<string>[^<]*</string>\s*(-->\s*)?)*</dict>\s*</plist>\s*$`,
)

// SchemeSupportsResults reports whether a color scheme already styles
// runner output and needs no patch.
func SchemeSupportsResults(name, content string) bool {
	if strings.HasSuffix(name, ".sublime-color-scheme") {
		return true
	}
	for _, marker := range []string{"phpspecrun", "phpspec-run", "specrun", "region.greenish"} {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

// PatchColorScheme inserts the result styles before the end of a tmTheme
// plist. It returns false when the plist has no recognisable tail.
func PatchColorScheme(content string) (string, bool) {
	if !plistTail.MatchString(content) {
		return content, false
	}
	return plistTail.ReplaceAllLiteralString(content, themePartial+"\n</array></dict></plist>"), true
}

// CachedSchemeName names the patched copy of a scheme resource path:
// "Packages/Theme/Mono.tmTheme" becomes "Theme__Mono.hidden-tmTheme".
func CachedSchemeName(scheme string) string {
	scheme = toSlash(scheme)
	dir, file := filepath.Split(scheme)
	pkg := filepath.Base(strings.TrimSuffix(dir, "/"))
	name := strings.TrimSuffix(file, filepath.Ext(file))
	return pkg + "__" + name + ".hidden-tmTheme"
}

// WriteColorScheme patches the scheme file at path into cacheDir and
// returns the path to use. path itself is returned when no patch is
// needed or possible.
func WriteColorScheme(path, cacheDir string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if SchemeSupportsResults(path, string(data)) {
		logger.Debug("color scheme has result support", "scheme", path)
		return path, nil
	}
	patched, ok := PatchColorScheme(string(data))
	if !ok {
		return path, nil
	}

	target := filepath.Join(cacheDir, "color-schemes", CachedSchemeName(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, []byte(patched), 0o644); err != nil {
		return "", fmt.Errorf("write color scheme: %w", err)
	}
	logger.Debug("auto generated color scheme", "path", target)
	return target, nil
}
