package specrun

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

const (
	// VersionFileName pins the PHP version for a project directory.
	VersionFileName = ".php-version"

	toolName    = "phpspec"
	wrapperName = "winry"
)

var versionPattern = regexp.MustCompile(
	`^(?:master|[1-9]\.[0-9]+(?:\.[0-9]+)?(?:snapshot)?|[1-9]\.x|[1-9]\.[0-9]+\.x)$`,
)

// ValidVersion reports whether v is an acceptable .php-version value.
func ValidVersion(v string) bool {
	return versionPattern.MatchString(v)
}

// ResolveInterpreter returns the PHP interpreter to run phpspec with. A
// .php-version file in workingDir selects a build under versionsRoot;
// otherwise explicit is used when set. An empty result means the ambient
// PATH decides.
func ResolveInterpreter(workingDir, versionsRoot, explicit string) (string, error) {
	versionFile := filepath.Join(workingDir, VersionFileName)
	if isFile(versionFile) {
		data, err := os.ReadFile(versionFile)
		if err != nil {
			return "", err
		}
		version := strings.TrimSpace(string(data))
		if !ValidVersion(version) {
			return "", newError(ErrInvalidVersionPinFormat,
				"'%s' file contents is not a valid version number", versionFile)
		}

		if versionsRoot == "" {
			return "", newError(ErrVersionsRootNotSet, "'%s' is not set", KeyPHPVersionsPath)
		}
		versionsRoot = ExpandPath(versionsRoot)
		if !isDir(versionsRoot) {
			return "", newError(ErrVersionsRootInvalid,
				"'%s' '%s' does not exist or is not a valid directory", KeyPHPVersionsPath, versionsRoot)
		}

		php := interpreterPath(versionsRoot, version)
		if !isExecutable(php) {
			return "", newError(ErrInterpreterNotExec, "php executable '%s' is not an executable file", php)
		}
		logger.Debug("php from version file", "version", version, "php", php)
		return php, nil
	}

	if explicit != "" {
		php := ExpandPath(explicit)
		if !isExecutable(php) {
			return "", newError(ErrInterpreterNotExec,
				"'%s' '%s' is not an executable file", KeyPHPExecutable, php)
		}
		return php, nil
	}

	return "", nil
}

func interpreterPath(versionsRoot, version string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(versionsRoot, version, "php.exe")
	}
	return filepath.Join(versionsRoot, version, "bin", "php")
}

// ResolveToolExecutable returns the phpspec binary. The composer installed
// binary under vendor/bin wins when preferBundled is set; PATH is searched
// otherwise or when it is missing.
func ResolveToolExecutable(workingDir string, preferBundled bool) (string, error) {
	if preferBundled {
		bundled := filepath.Join(workingDir, "vendor", "bin", toolName)
		if runtime.GOOS == "windows" {
			bundled = filepath.Join(workingDir, "vendor", "bin", "phpspec-run.bat")
		}
		if isExecutable(bundled) {
			return bundled, nil
		}
	}

	executable, err := exec.LookPath(toolName)
	if err != nil {
		return "", newError(ErrToolNotFound, "phpspec not found")
	}
	return executable, nil
}

// ResolveWrapperExecutable returns the winry wrapper in workingDir when
// useWrapper is set, and "" otherwise.
func ResolveWrapperExecutable(workingDir string, useWrapper bool) (string, error) {
	if !useWrapper {
		return "", nil
	}
	wrapper := filepath.Join(workingDir, wrapperName)
	if !isExecutable(wrapper) {
		return "", newError(ErrWrapperNotExecutable, "winry not found")
	}
	return wrapper, nil
}

// ExpandPath expands a leading ~ and environment variable references.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
