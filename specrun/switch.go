package specrun

import (
	"regexp"
	"strings"
)

// SymbolIndex finds symbol declarations across the workspace.
type SymbolIndex interface {
	Lookup(name string) []Location
}

// MemoryIndex is a SymbolIndex over a fixed set of locations.
type MemoryIndex map[string][]Location

func (m MemoryIndex) Lookup(name string) []Location {
	return m[name]
}

// Resolution is the outcome of ResolveSwitch. When Exact is false the
// caller must let the user pick one of Candidates and call Confirm.
type Resolution struct {
	Exact      bool
	Candidates []Location
}

// Labels returns the choice list entries, "symbol:row".
func (r Resolution) Labels() []string {
	labels := make([]string, len(r.Candidates))
	for i, l := range r.Candidates {
		labels[i] = l.Label()
	}
	return labels
}

// Location returns the resolved location of an exact resolution.
func (r Resolution) Location() (Location, error) {
	if !r.Exact || len(r.Candidates) != 1 {
		return Location{}, newError(ErrAmbiguousPairedFile, "%d candidate files", len(r.Candidates))
	}
	return r.Candidates[0], nil
}

// Confirm picks a candidate by index. A negative index means the choice
// list was dismissed.
func (r Resolution) Confirm(index int) (Location, error) {
	if index < 0 {
		return Location{}, ErrSelectionCancelled
	}
	if index >= len(r.Candidates) {
		return Location{}, newError(ErrAmbiguousPairedFile, "choice %d out of range", index)
	}
	return r.Candidates[index], nil
}

// ResolveSwitch finds the file paired with the classes of currentFile:
// specs for classes, classes for specs.
func ResolveSwitch(classes []ClassDeclaration, index SymbolIndex, currentFile string) (Resolution, error) {
	if len(classes) == 0 {
		return Resolution{}, newError(ErrNoClassFound, "could not find a test spec or class under test")
	}
	logger.Debug("resolve switch", "file", currentFile, "classes", classes)

	var locations []Location
	for _, c := range classes {
		locations = append(locations, index.Lookup(CandidatePairName(c.Class))...)
	}
	locations = uniqueLocations(locations)

	if len(locations) == 0 {
		if HasTestDeclaration(classes) {
			return Resolution{}, newError(ErrNoPairedFileFound, "implementation not found")
		}
		return Resolution{}, newError(ErrNoPairedFileFound, "test not found")
	}

	refined, exact := Refine(locations, currentFile)
	logger.Debug("refined locations", "exact", exact, "locations", refined)
	return Resolution{Exact: exact, Candidates: refined}, nil
}

// uniqueLocations drops locations whose file was already seen.
func uniqueLocations(locations []Location) []Location {
	seen := make(map[string]struct{}, len(locations))
	unique := make([]Location, 0, len(locations))
	for _, l := range locations {
		if _, ok := seen[l.File]; ok {
			continue
		}
		seen[l.File] = struct{}{}
		unique = append(unique, l)
	}
	return unique
}

var (
	specSegment       = regexp.MustCompile(`/?[sS]pec/?`)
	specDirSegment    = regexp.MustCompile(`/?[sS]pec/`)
	srcDirSegment     = regexp.MustCompile(`/?src/`)
	locationSpecInDir = regexp.MustCompile(`/[sS]pec/?`)
)

// Refine narrows locations to the one whose path follows the project
// layout conventions for currentFile. A location matches when its path ends
// with any layout variant. Exact is reported only when a single location
// matches; otherwise every location is returned.
func Refine(locations []Location, currentFile string) ([]Location, bool) {
	if currentFile == "" || len(locations) == 0 {
		return locations, false
	}

	file := toSlash(currentFile)
	isSpec := strings.HasSuffix(file, SpecSuffix+".php")

	var variants []string
	if isSpec {
		file = strings.ReplaceAll(file, SpecSuffix+".php", ".php")
		variants = []string{
			specSegment.ReplaceAllLiteralString(file, "/"),
			specDirSegment.ReplaceAllLiteralString(file, "/src/"),
		}
	} else {
		file = strings.ReplaceAll(file, ".php", SpecSuffix+".php")
		variants = []string{
			file,
			srcDirSegment.ReplaceAllLiteralString(file, "/"),
			srcDirSegment.ReplaceAllLiteralString(file, "/test/"),
		}
	}

	if len(locations) > 1 {
		paths := make([]string, len(locations))
		for i, l := range locations {
			paths[i] = toSlash(l.File)
		}
		if prefix := commonDirPrefix(paths); prefix != "" && prefix != "/" {
			for i, v := range variants {
				variants[i] = strings.TrimPrefix(v, prefix)
			}
		}
	}
	logger.Debug("refine variants", "spec", isSpec, "variants", variants)

	locFiles := make([]string, len(locations))
	for i, l := range locations {
		locFiles[i] = toSlash(l.File)
		if !isSpec {
			locFiles[i] = locationSpecInDir.ReplaceAllLiteralString(locFiles[i], "/")
		}
	}

	match := -1
	count := 0
	for i, locFile := range locFiles {
		if endsWithAny(locFile, variants) {
			match = i
			count++
		}
	}
	if count == 1 {
		return []Location{locations[match]}, true
	}
	return locations, false
}

func endsWithAny(path string, suffixes []string) bool {
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

func toSlash(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}
